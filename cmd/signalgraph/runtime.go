package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/delaneyj/signalgraph/internal/config"
	sgotel "github.com/delaneyj/signalgraph/internal/otel"
	"github.com/delaneyj/signalgraph/pkg/otelhooks"
	"github.com/delaneyj/signalgraph/pkg/promhooks"
	"github.com/delaneyj/signalgraph/reactive"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/urfave/cli/v3"
)

// runtime carries what every subcommand needs to build and observe graphs.
type runtime struct {
	cfg      config.Config
	logger   *slog.Logger
	hooks    []reactive.Hooks
	registry *prometheus.Registry
	shutdown func(context.Context) error
	out      io.Writer

	// last graph built, exported through the stats gauges
	current *reactive.Graph
}

func setup(ctx context.Context, cmd *cli.Command, cfg config.Config) (*runtime, error) {
	if err := cfg.LogLevel.UnmarshalText([]byte(cmd.String(logLevelKey))); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg.FlushBudget = int(cmd.Int(flushBudgetKey))
	cfg.OTelEndpoint = cmd.String(otelEndpointKey)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg:    cfg,
		logger: cfg.Logger(os.Stderr),
		out:    os.Stdout,
	}

	shutdown, err := sgotel.Setup(ctx, "signalgraph", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return nil, fmt.Errorf("otel setup: %w", err)
	}
	rt.shutdown = shutdown
	if cfg.OTelEnabled && cfg.OTelEndpoint != "" {
		rt.hooks = append(rt.hooks, otelhooks.New())
	}

	if cmd.Bool(metricsKey) {
		rt.registry = prometheus.NewRegistry()
		rt.hooks = append(rt.hooks, promhooks.New(promhooks.WithRegistry(rt.registry)))
		promhooks.RegisterStats(rt, promhooks.WithRegistry(rt.registry))
	}
	return rt, nil
}

// withRuntime builds the runtime for a subcommand and always closes it, so
// spans and metrics are flushed even when the run fails.
func withRuntime(cfg config.Config, run func(ctx context.Context, cmd *cli.Command, rt *runtime) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) (err error) {
		rt, err := setup(ctx, cmd, cfg)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, rt.close(ctx))
		}()
		return run(ctx, cmd, rt)
	}
}

func (rt *runtime) newGraph() *reactive.Graph {
	rt.current = reactive.New(rt.cfg.GraphOptions(rt.logger, rt.hooks...)...)
	return rt.current
}

// Stats reports the most recently built graph.
func (rt *runtime) Stats() reactive.Stats {
	if rt.current == nil {
		return reactive.Stats{}
	}
	return rt.current.Stats()
}

func (rt *runtime) close(ctx context.Context) error {
	var errs []error
	if rt.registry != nil {
		errs = append(errs, printMetrics(rt.out, rt.registry))
	}
	errs = append(errs, rt.shutdown(ctx))
	return errors.Join(errs...)
}

// printMetrics renders every gathered counter, gauge and histogram as one row.
func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	tbl := table.NewWriter()
	tbl.SetTitle("Metrics")
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"metric", "labels", "count", "sum"})

	for _, f := range families {
		for _, m := range f.GetMetric() {
			labels := ""
			for i, lp := range m.GetLabel() {
				if i > 0 {
					labels += ","
				}
				labels += lp.GetName() + "=" + lp.GetValue()
			}

			switch f.GetType() {
			case dto.MetricType_COUNTER:
				tbl.AppendRow(table.Row{f.GetName(), labels, m.GetCounter().GetValue(), ""})
			case dto.MetricType_GAUGE:
				tbl.AppendRow(table.Row{f.GetName(), labels, m.GetGauge().GetValue(), ""})
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				tbl.AppendRow(table.Row{f.GetName(), labels, h.GetSampleCount(), h.GetSampleSum()})
			}
		}
	}
	tbl.Render()
	return nil
}
