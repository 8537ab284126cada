package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/signalgraph/internal/config"
	"github.com/delaneyj/signalgraph/reactive"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	widthsKey     = "widths"
	heightsKey    = "heights"
	iterationsKey = "iterations"
	cpuProfileKey = "cpuprofile"
)

func benchCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Propagation grid: one signal fanned out to width chains of height derived values",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{
				Name:  widthsKey,
				Usage: "Chain counts to benchmark",
				Value: toInt64s(cfg.Bench.Widths),
			},
			&cli.IntSliceFlag{
				Name:  heightsKey,
				Usage: "Chain lengths to benchmark",
				Value: toInt64s(cfg.Bench.Heights),
			},
			&cli.IntFlag{
				Name:  iterationsKey,
				Usage: "Writes per grid",
				Value: int64(cfg.Bench.Iterations),
			},
			&cli.StringFlag{
				Name:  cpuProfileKey,
				Usage: "Write a CPU profile to this path, e.g. default.pgo",
			},
		},
		Action: withRuntime(cfg, func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
			if path := cmd.String(cpuProfileKey); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create profile: %w", err)
				}
				defer f.Close()
				if err := pprof.StartCPUProfile(f); err != nil {
					return fmt.Errorf("start profile: %w", err)
				}
				defer pprof.StopCPUProfile()
			}
			return runBench(rt, cmd.IntSlice(widthsKey), cmd.IntSlice(heightsKey), int(cmd.Int(iterationsKey)))
		}),
	}
}

func runBench(rt *runtime, widths, heights []int64, iterations int) error {
	tbl := table.NewWriter()
	tbl.SetTitle("Propagation")
	tbl.SetOutputMirror(rt.out)
	tbl.AppendHeader(table.Row{"grid", "avg", "min", "p75", "p99", "max", "effect runs"})

	for _, w := range widths {
		for _, h := range heights {
			g := rt.newGraph()
			sink := &gridSink{}
			src := buildGrid(g, int(w), int(h), sink)
			sink.runs = 0

			tach := tachymeter.New(&tachymeter.Config{Size: iterations})
			for range iterations {
				start := time.Now()
				if err := reactive.Update(g, src, addOne); err != nil {
					return fmt.Errorf("grid %dx%d: %w", w, h, err)
				}
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRow(table.Row{
				fmt.Sprintf("%dx%d", w, h),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
				sink.runs,
			})
			rt.logger.Debug("grid done", "width", w, "height", h, "sum", sink.sum)
		}
	}
	tbl.Render()
	return nil
}

// gridSink collects what the grid's effects observed.
type gridSink struct {
	sum  int
	runs int
}

// buildGrid creates width chains of height derived values over one source
// signal, each ending in an effect that adds the chain head into sink.
func buildGrid(g *reactive.Graph, width, height int, sink *gridSink) reactive.Signal[int] {
	src := reactive.CreateSignal(g, 1)
	g.Batch(func(g *reactive.Graph) {
		for range width {
			var last reactive.Readable[int] = src
			for range height {
				last = reactive.Derived1(g, last, addOne)
			}
			reactive.Effect1(g, last, func(v int) error {
				sink.sum += v
				sink.runs++
				return nil
			})
		}
	})
	return src
}

func addOne(v int) int { return v + 1 }

func toInt64s(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}
