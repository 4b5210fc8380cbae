// Command hashlife-cli is a one-shot command runner over a HashLife
// universe: set cells, advance generations, render a view, or launch the
// HTTP server, all against a single file-free in-memory universe that
// lives only for the duration of one invocation.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/S-Ihara/vive-hashlife"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

const (
	AppName    = "hashlife-cli"
	AppVersion = "1.0.0"
)

func main() {
	app := &cli.App{
		Name:    AppName,
		Usage:   "drive a HashLife Game of Life universe from the command line",
		Version: AppVersion,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "size-level",
				Value: 3,
				Usage: "initial universe size level (window side = 2^level)",
			},
			&cli.StringSliceFlag{
				Name:    "cell",
				Aliases: []string{"c"},
				Usage:   "live cell coordinate as x,y (repeatable)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "step",
				Usage:     "advance N generations and print population/generation",
				ArgsUsage: "[N]",
				Action:    cmdStep,
			},
			{
				Name:   "render",
				Usage:  "render the live cells within a view rectangle as a table",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "x0", Required: true},
					&cli.Int64Flag{Name: "y0", Required: true},
					&cli.Int64Flag{Name: "x1", Required: true},
					&cli.Int64Flag{Name: "y1", Required: true},
					&cli.Int64Flag{Name: "min-size", Value: 1},
				},
				Action: cmdRender,
			},
			{
				Name:   "stats",
				Usage:  "print population, generation, and cache statistics",
				Action: cmdStats,
			},
			{
				Name:  "print",
				Usage: "draw a view rectangle as an ASCII grid",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "x0", Required: true},
					&cli.Int64Flag{Name: "y0", Required: true},
					&cli.Int64Flag{Name: "x1", Required: true},
					&cli.Int64Flag{Name: "y1", Required: true},
				},
				Action: cmdPrint,
			},
			{
				Name:   "serve",
				Usage:  "launch the HTTP JSON server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "path to a YAML config file"},
				},
				Action: cmdServe,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildUniverse(ctx *cli.Context) (*hashlife.Universe, error) {
	u := hashlife.NewUniverse(ctx.Int("size-level"))
	for _, spec := range ctx.StringSlice("cell") {
		x, y, err := parseCoord(spec)
		if err != nil {
			return nil, err
		}
		if err := u.SetCell(x, y, true); err != nil {
			return nil, fmt.Errorf("setting cell %s: %w", spec, err)
		}
	}
	return u, nil
}

func parseCoord(spec string) (hashlife.Dim, hashlife.Dim, error) {
	parts := strings.SplitN(spec, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid coordinate %q, want x,y", spec)
	}
	x, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x in %q: %w", spec, err)
	}
	y, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y in %q: %w", spec, err)
	}
	return hashlife.Dim(x), hashlife.Dim(y), nil
}

func cmdStep(ctx *cli.Context) error {
	u, err := buildUniverse(ctx)
	if err != nil {
		return err
	}

	n := 1
	if ctx.NArg() > 0 {
		n, err = strconv.Atoi(ctx.Args().Get(0))
		if err != nil {
			return fmt.Errorf("invalid step count: %w", err)
		}
	}

	for i := 0; i < n; i++ {
		if err := u.Step(); err != nil {
			return err
		}
	}

	fmt.Printf("generation=%d population=%d\n", u.Generation(), u.Population())
	return nil
}

func cmdRender(ctx *cli.Context) error {
	u, err := buildUniverse(ctx)
	if err != nil {
		return err
	}

	regions := u.GetRenderRegions(
		hashlife.Dim(ctx.Int64("x0")), hashlife.Dim(ctx.Int64("y0")),
		hashlife.Dim(ctx.Int64("x1")), hashlife.Dim(ctx.Int64("y1")),
		hashlife.Dim(ctx.Int64("min-size")),
	)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"x", "y", "size", "density"})
	for _, r := range regions {
		t.AppendRow(table.Row{r.X, r.Y, r.Size, fmt.Sprintf("%.2f", r.Density)})
	}
	t.Render()
	return nil
}

func cmdPrint(ctx *cli.Context) error {
	u, err := buildUniverse(ctx)
	if err != nil {
		return err
	}

	fmt.Print(u.Render(
		hashlife.Dim(ctx.Int64("x0")), hashlife.Dim(ctx.Int64("y0")),
		hashlife.Dim(ctx.Int64("x1")), hashlife.Dim(ctx.Int64("y1")),
	))
	return nil
}

func cmdStats(ctx *cli.Context) error {
	u, err := buildUniverse(ctx)
	if err != nil {
		return err
	}

	stats := u.CacheStats()
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendRow(table.Row{"Generation", u.Generation()})
	t.AppendRow(table.Row{"Population", u.Population()})
	t.AppendRow(table.Row{"Root level", u.RootLevel()})
	t.AppendRow(table.Row{"Cache size", stats.Size})
	t.AppendRow(table.Row{"Cache hits", stats.Hits})
	t.AppendRow(table.Row{"Cache misses", stats.Misses})
	t.Render()
	return nil
}

func cmdServe(ctx *cli.Context) error {
	cfg, err := hashlife.LoadConfig(ctx.String("config"))
	if err != nil {
		return err
	}

	u := hashlife.NewUniverseWithConfig(cfg.InitialSizeLevel, cfg.CacheCompactionThreshold)
	for _, spec := range ctx.StringSlice("cell") {
		x, y, err := parseCoord(spec)
		if err != nil {
			return err
		}
		if err := u.SetCell(x, y, true); err != nil {
			return fmt.Errorf("setting cell %s: %w", spec, err)
		}
	}

	srv := hashlife.NewServer(u, cfg)
	return srv.Start(context.Background())
}
