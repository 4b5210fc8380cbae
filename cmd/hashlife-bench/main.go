// hashlife-bench is a stress test and benchmark harness for the HashLife
// universe. It builds a large field of gliders and measures the
// throughput of mutation, stepping, and rendering.
package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/S-Ihara/vive-hashlife"
)

const (
	gliderRows = 200
	gliderCols = 200
	stepCount  = 1000
)

// BenchResult is one measured operation: how long it took and, if
// meaningful, how many individual operations it represents.
type BenchResult struct {
	Name     string
	Duration time.Duration
	Ops      int
}

func (r BenchResult) String() string {
	if r.Ops > 0 {
		opsPerSec := float64(r.Ops) / r.Duration.Seconds()
		return fmt.Sprintf("%-32s %12v  (%d ops, %.2f ops/sec)", r.Name, r.Duration.Round(time.Millisecond), r.Ops, opsPerSec)
	}
	return fmt.Sprintf("%-32s %12v", r.Name, r.Duration.Round(time.Millisecond))
}

func main() {
	fmt.Println("HashLife Benchmark and Stress Test")
	fmt.Println("===================================")
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	fmt.Println()

	var results []BenchResult

	runBench := func(name string, fn func() BenchResult) {
		fmt.Printf("  %-32s ", name+"...")
		result := fn()
		fmt.Printf("%v\n", result.Duration.Round(time.Millisecond))
		results = append(results, result)
	}

	var u *hashlife.Universe
	runBench("populate glider field", func() BenchResult {
		return populateGliderField(&u)
	})
	runBench(fmt.Sprintf("step x%d", stepCount), func() BenchResult {
		return stepUniverse(u, stepCount)
	})
	runBench("render full view", func() BenchResult {
		return renderUniverse(u)
	})
	runBench("random-access GetCell", func() BenchResult {
		return randomAccess(u)
	})

	fmt.Println()
	fmt.Println("Results:")
	fmt.Println("--------")
	for _, r := range results {
		fmt.Println(r)
	}

	stats := u.CacheStats()
	fmt.Println()
	fmt.Printf("Final population=%d generation=%d cache_size=%d hits=%d misses=%d\n",
		u.Population(), u.Generation(), stats.Size, stats.Hits, stats.Misses)
}

// gliderCells returns the five relative coordinates of a single glider.
func gliderCells() [][2]hashlife.Dim {
	return [][2]hashlife.Dim{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}
}

func populateGliderField(out **hashlife.Universe) BenchResult {
	start := time.Now()

	u := hashlife.NewUniverse(4)
	var cells [][2]hashlife.Dim
	for row := 0; row < gliderRows; row++ {
		for col := 0; col < gliderCols; col++ {
			baseX := hashlife.Dim(col * 4)
			baseY := hashlife.Dim(row * 4)
			for _, c := range gliderCells() {
				cells = append(cells, [2]hashlife.Dim{baseX + c[0], baseY + c[1]})
			}
		}
	}
	if err := u.SetCells(cells); err != nil {
		fmt.Println("error populating:", err)
	}

	*out = u
	return BenchResult{Name: "populate glider field", Duration: time.Since(start), Ops: len(cells)}
}

func stepUniverse(u *hashlife.Universe, n int) BenchResult {
	start := time.Now()
	for i := 0; i < n; i++ {
		if err := u.Step(); err != nil {
			fmt.Println("error stepping:", err)
			break
		}
	}
	return BenchResult{Name: fmt.Sprintf("step x%d", n), Duration: time.Since(start), Ops: n}
}

func renderUniverse(u *hashlife.Universe) BenchResult {
	half := hashlife.Dim(1) << (u.RootLevel() - 1)
	start := time.Now()
	regions := u.GetRenderRegions(-half, -half, half, half, 4)
	return BenchResult{Name: "render full view", Duration: time.Since(start), Ops: len(regions)}
}

func randomAccess(u *hashlife.Universe) BenchResult {
	half := hashlife.Dim(1) << (u.RootLevel() - 1)
	const samples = 100_000

	start := time.Now()
	x, y := -half, -half
	for i := 0; i < samples; i++ {
		u.GetCell(x, y)
		x = (x + 97) % half
		y = (y + 131) % half
	}
	return BenchResult{Name: "random-access GetCell", Duration: time.Since(start), Ops: samples}
}
