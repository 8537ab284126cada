package main

import (
	"context"
	"log"
	"os"

	"github.com/delaneyj/signalgraph/internal/config"
	"github.com/urfave/cli/v3"
)

const (
	logLevelKey     = "log-level"
	flushBudgetKey  = "flush-budget"
	otelEndpointKey = "otel-endpoint"
	metricsKey      = "metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := newApp(cfg).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "signalgraph",
		Usage: "Benchmark the reactive signal graph",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  logLevelKey,
				Usage: "Graph log level (debug, info, warn, error)",
				Value: cfg.LogLevel.String(),
			},
			&cli.IntFlag{
				Name:  flushBudgetKey,
				Usage: "Maximum passes per flush, 0 for unlimited",
				Value: int64(cfg.FlushBudget),
			},
			&cli.StringFlag{
				Name:  otelEndpointKey,
				Usage: "OTLP/HTTP endpoint to export graph spans to",
				Value: cfg.OTelEndpoint,
			},
			&cli.BoolFlag{
				Name:  metricsKey,
				Usage: "Collect Prometheus metrics and print them after the run",
			},
		},
		Commands: []*cli.Command{
			benchCommand(cfg),
			layersCommand(cfg),
		},
	}
}
