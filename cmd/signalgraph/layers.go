package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/delaneyj/signalgraph/internal/config"
	"github.com/delaneyj/signalgraph/reactive"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const (
	repeatsKey = "repeats"
	scaleKey   = "scale"
)

type layersConfig struct {
	name           string
	width          int
	totalLayers    int
	staticFraction float64 // fraction of nodes whose sources never change
	nSources       int     // sources read by each node
	readFraction   float64 // fraction of leaves read after every write
	iterations     int
}

var layerConfigs = []layersConfig{
	{name: "simple component", width: 10, totalLayers: 5, staticFraction: 1, nSources: 2, readFraction: 0.2, iterations: 600000},
	{name: "dynamic component", width: 10, totalLayers: 10, staticFraction: 0.75, nSources: 6, readFraction: 0.2, iterations: 15000},
	{name: "large web app", width: 1000, totalLayers: 12, staticFraction: 0.95, nSources: 4, readFraction: 1, iterations: 7000},
	{name: "wide dense", width: 1000, totalLayers: 5, staticFraction: 1, nSources: 25, readFraction: 1, iterations: 3000},
	{name: "deep", width: 5, totalLayers: 500, staticFraction: 1, nSources: 3, readFraction: 1, iterations: 500},
	{name: "very dynamic", width: 100, totalLayers: 15, staticFraction: 0.5, nSources: 6, readFraction: 1, iterations: 2000},
}

func (c layersConfig) title() string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "%dx%d %d sources", c.width, c.totalLayers, c.nSources)
	if c.staticFraction < 1 {
		sb.WriteString(" dynamic")
	}
	if c.readFraction < 1 {
		fmt.Fprintf(&sb, " read %0.2f%%", 100*c.readFraction)
	}
	return sb.String()
}

func layersCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "layers",
		Usage: "Layered graphs of static and dynamic derived values",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  repeatsKey,
				Usage: "Timed runs per graph, the fastest is reported",
				Value: int64(cfg.Bench.Repeats),
			},
			&cli.FloatFlag{
				Name:  scaleKey,
				Usage: "Multiplier applied to every graph's iteration count",
				Value: 1,
			},
		},
		Action: withRuntime(cfg, func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
			return runLayers(rt, int(cmd.Int(repeatsKey)), cmd.Float(scaleKey))
		}),
	}
}

type layersResult struct {
	sum      int
	count    int64
	duration time.Duration
}

func runLayers(rt *runtime, repeats int, scale float64) error {
	if repeats < 1 {
		return fmt.Errorf("repeats must be positive, got %d", repeats)
	}

	tbl := tablewriter.NewWriter(rt.out)
	tbl.SetHeader([]string{"size", "nSources", "read%", "static%", "nTimes", "test", "time", "updateRate", "title"})

	for _, c := range layerConfigs {
		c.iterations = max(1, int(float64(c.iterations)*scale))
		rt.logger.Info("running layers config", "name", c.name, "iterations", c.iterations)

		g := rt.newGraph()
		counter := new(int64)
		lg := buildLayers(g, c, counter)

		// warm up
		if _, err := lg.run(g, c.iterations, c.readFraction); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}

		best := layersResult{duration: time.Hour}
		for i := range repeats {
			*counter = 0
			start := time.Now()
			sum, err := lg.run(g, c.iterations, c.readFraction)
			if err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			took := time.Since(start)
			rt.logger.Debug("layers run", "name", c.name, "repeat", i+1, "sum", sum, "count", *counter, "took", took)

			if i > 0 && sum != best.sum {
				return fmt.Errorf("%s: run %d sum %d differs from %d", c.name, i+1, sum, best.sum)
			}
			if took < best.duration {
				best = layersResult{sum: sum, count: *counter, duration: took}
			}
		}

		updateRate := float64(best.count) / (float64(best.duration) / float64(time.Millisecond))
		tbl.Append([]string{
			fmt.Sprintf("%dx%d", c.width, c.totalLayers),
			fmt.Sprint(c.nSources),
			fmt.Sprint(c.readFraction),
			fmt.Sprint(c.staticFraction),
			humanize.Comma(int64(c.iterations)),
			c.name,
			fmt.Sprint(best.duration),
			humanize.Comma(int64(updateRate)),
			c.title(),
		})
	}
	tbl.Render()
	return nil
}

type layeredGraph struct {
	sources []reactive.Signal[int]
	layers  [][]reactive.Derived[int]
}

// buildLayers creates width source signals and totalLayers-1 rows of derived
// values, each node summing nSources neighbours from the row above. Dynamic
// nodes skip one of their sources depending on the first one's parity.
func buildLayers(g *reactive.Graph, c layersConfig, counter *int64) *layeredGraph {
	lg := &layeredGraph{sources: make([]reactive.Signal[int], c.width)}
	prev := make([]reactive.Readable[int], c.width)
	for i := range lg.sources {
		lg.sources[i] = reactive.CreateSignal(g, i)
		prev[i] = lg.sources[i]
	}

	random := rand.New(rand.NewSource(0))
	for range c.totalLayers - 1 {
		row := make([]reactive.Derived[int], len(prev))
		for myDex := range prev {
			mine := make([]reactive.Readable[int], 0, c.nSources)
			for sourceDex := range c.nSources {
				mine = append(mine, prev[(myDex+sourceDex)%len(prev)])
			}

			if random.Float64() < c.staticFraction {
				row[myDex] = reactive.CreateDerived(g, func(g *reactive.Graph) int {
					*counter++
					sum := 0
					for _, src := range mine {
						v, _ := reactive.Read(g, src)
						sum += v
					}
					return sum
				})
				continue
			}

			first, tail := mine[0], mine[1:]
			row[myDex] = reactive.CreateDerived(g, func(g *reactive.Graph) int {
				*counter++
				sum, _ := reactive.Read(g, first)
				if len(tail) == 0 {
					return sum
				}
				shouldDrop := sum&0x1 > 0
				dropDex := sum % len(tail)
				if dropDex < 0 {
					dropDex += len(tail)
				}
				for i, src := range tail {
					if shouldDrop && i == dropDex {
						continue
					}
					v, _ := reactive.Read(g, src)
					sum += v
				}
				return sum
			})
		}

		lg.layers = append(lg.layers, row)
		for i, d := range row {
			prev[i] = d
		}
	}
	return lg
}

func (lg *layeredGraph) leaves() []reactive.Derived[int] {
	if len(lg.layers) == 0 {
		return nil
	}
	return lg.layers[len(lg.layers)-1]
}

// run writes one source per iteration inside a batch and reads a seeded
// subset of the leaves, returning the sum of those leaves afterwards.
func (lg *layeredGraph) run(g *reactive.Graph, iterations int, readFraction float64) (int, error) {
	random := rand.New(rand.NewSource(0))
	leaves := lg.leaves()
	skip := int(math.Round(float64(len(leaves)) * (1 - readFraction)))
	readLeaves := removeElems(leaves, skip, random)

	for i := range iterations {
		var err error
		g.Batch(func(g *reactive.Graph) {
			dex := i % len(lg.sources)
			err = reactive.Set(g, lg.sources[dex], i+dex)
		})
		if err != nil {
			return 0, err
		}

		for _, leaf := range readLeaves {
			if _, err := reactive.GetDerived(g, leaf); err != nil {
				return 0, err
			}
		}
	}

	sum := 0
	for _, leaf := range readLeaves {
		v, err := reactive.GetDerived(g, leaf)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum, nil
}

func removeElems[T any](src []T, rmCount int, random *rand.Rand) []T {
	out := make([]T, len(src))
	copy(out, src)
	for range rmCount {
		if len(out) == 0 {
			break
		}
		dex := random.Intn(len(out))
		out[dex] = out[len(out)-1]
		out = out[:len(out)-1]
	}
	return out
}
