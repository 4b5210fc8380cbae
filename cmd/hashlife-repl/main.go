// Command hashlife-repl is an interactive text-driven session over a
// single HashLife universe: set cells, step generations, inspect state,
// and render a view, one line of input at a time.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/S-Ihara/vive-hashlife"
)

// REPL holds the state of the interactive session.
type REPL struct {
	universe *hashlife.Universe
	reader   *bufio.Reader
}

func main() {
	fmt.Println("HashLife REPL - interactive Game of Life session")
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()

	repl := &REPL{
		universe: hashlife.NewUniverse(3),
		reader:   bufio.NewReader(os.Stdin),
	}

	for {
		fmt.Print("hashlife> ")
		input, err := repl.reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !repl.handleCommand(input) {
			break
		}
	}
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Println("Goodbye!")
		return false

	case "set":
		r.cmdSet(args)

	case "clear":
		r.cmdClear()

	case "get":
		r.cmdGet(args)

	case "step":
		r.cmdStep(args)

	case "stats":
		r.cmdStats()

	case "render":
		r.cmdRender(args)

	case "print":
		r.cmdPrint(args)

	default:
		fmt.Printf("unknown command %q, type 'help'\n", cmd)
	}

	return true
}

func (r *REPL) printHelp() {
	fmt.Println(`Commands:
  set <x> <y>            mark (x, y) alive
  clear                   reset the universe
  get <x> <y>             print the state of (x, y)
  step [n]                advance n generations (default 1)
  stats                   print population, generation, cache stats
  render <x0> <y0> <x1> <y1> [minSize]   print live cells in a rectangle
  print <x0> <y0> <x1> <y1>              draw a rectangle as an ASCII grid
  quit                    exit`)
}

func (r *REPL) cmdSet(args []string) {
	coords, err := parseInts(args, 2)
	if err != nil {
		fmt.Println("usage: set <x> <y> —", err)
		return
	}
	if err := r.universe.SetCell(hashlife.Dim(coords[0]), hashlife.Dim(coords[1]), true); err != nil {
		fmt.Println("error:", err)
	}
}

func (r *REPL) cmdClear() {
	r.universe.Clear()
	fmt.Println("universe cleared")
}

func (r *REPL) cmdGet(args []string) {
	coords, err := parseInts(args, 2)
	if err != nil {
		fmt.Println("usage: get <x> <y> —", err)
		return
	}
	alive := r.universe.GetCell(hashlife.Dim(coords[0]), hashlife.Dim(coords[1]))
	fmt.Println(alive)
}

func (r *REPL) cmdStep(args []string) {
	n := 1
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("usage: step [n] —", err)
			return
		}
		n = parsed
	}

	for i := 0; i < n; i++ {
		if err := r.universe.Step(); err != nil {
			fmt.Println("error:", err)
			return
		}
	}
	fmt.Printf("generation=%d population=%d\n", r.universe.Generation(), r.universe.Population())
}

func (r *REPL) cmdStats() {
	stats := r.universe.CacheStats()
	fmt.Printf("generation=%d population=%d root_level=%d cache_size=%d cache_hits=%d cache_misses=%d\n",
		r.universe.Generation(), r.universe.Population(), r.universe.RootLevel(),
		stats.Size, stats.Hits, stats.Misses)
}

func (r *REPL) cmdRender(args []string) {
	coords, err := parseInts(args[:minInt(4, len(args))], 4)
	if err != nil {
		fmt.Println("usage: render <x0> <y0> <x1> <y1> [minSize] —", err)
		return
	}

	minSize := int64(1)
	if len(args) > 4 {
		parsed, err := strconv.ParseInt(args[4], 10, 64)
		if err != nil {
			fmt.Println("invalid minSize:", err)
			return
		}
		minSize = parsed
	}

	regions := r.universe.GetRenderRegions(
		hashlife.Dim(coords[0]), hashlife.Dim(coords[1]),
		hashlife.Dim(coords[2]), hashlife.Dim(coords[3]),
		hashlife.Dim(minSize),
	)
	for _, region := range regions {
		fmt.Printf("(%d,%d) size=%d density=%.2f\n", region.X, region.Y, region.Size, region.Density)
	}
	fmt.Printf("%d region(s)\n", len(regions))
}

func (r *REPL) cmdPrint(args []string) {
	coords, err := parseInts(args, 4)
	if err != nil {
		fmt.Println("usage: print <x0> <y0> <x1> <y1> —", err)
		return
	}
	fmt.Print(r.universe.Render(hashlife.Dim(coords[0]), hashlife.Dim(coords[1]), hashlife.Dim(coords[2]), hashlife.Dim(coords[3])))
}

func parseInts(args []string, want int) ([]int64, error) {
	if len(args) < want {
		return nil, fmt.Errorf("expected %d argument(s), got %d", want, len(args))
	}
	out := make([]int64, want)
	for i := 0; i < want; i++ {
		v, err := strconv.ParseInt(args[i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
