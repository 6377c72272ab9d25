package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-tda/tda/internal/buildinfo"
	"github.com/go-tda/tda/internal/compute"
	"github.com/go-tda/tda/internal/logging"
	"github.com/go-tda/tda/internal/server"
	"github.com/go-tda/tda/internal/setup"
	"github.com/go-tda/tda/internal/shutdown"
	"github.com/go-tda/tda/internal/tda"
	"github.com/go-tda/tda/internal/telemetry"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(
		os.Stdout,
		"%s: %s, %s\n",
		buildinfo.Info.Name(),
		buildinfo.Info.Time(),
		buildinfo.Info.Tag(),
	)

	ctx, done := shutdown.New()
	logger := logging.FromContext(ctx)
	if err := run(ctx, done); err != nil {
		logger.Fatal(err)
	}

	defer done()
}

func run(ctx context.Context, cancel func()) error {
	config := tda.Config{}
	env, err := setup.Setup(ctx, &config)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}
	if env.Store() != nil {
		defer func() {
			if err := env.Store().Close(context.Background()); err != nil {
				logging.FromContext(ctx).Errorf("closing store: %v", err)
			}
		}()
	}

	if err := telemetry.Register(); err != nil {
		return fmt.Errorf("telemetry.Register: %w", err)
	}
	exporter, err := telemetry.NewExporter()
	if err != nil {
		return fmt.Errorf("telemetry.NewExporter: %w", err)
	}

	srv, err := server.New(config.SrvAddr)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	mux := http.NewServeMux()

	distanceHandler, err := compute.NewDistanceHandler(&config.Compute, env.ProvideDistance())
	if err != nil {
		return fmt.Errorf("compute.NewDistanceHandler: %w", err)
	}
	amplitudeHandler, err := compute.NewAmplitudeHandler(&config.Compute, env.ProvideAmplitude())
	if err != nil {
		return fmt.Errorf("compute.NewAmplitudeHandler: %w", err)
	}
	featuresHandler, err := compute.NewFeaturesHandler(&config.Compute, config.Engine.Features, env.Store())
	if err != nil {
		return fmt.Errorf("compute.NewFeaturesHandler: %w", err)
	}

	mux.Handle("/distance", distanceHandler)
	mux.Handle("/amplitude", amplitudeHandler)
	mux.Handle("/features", featuresHandler)
	mux.Handle("/metrics", exporter)
	mux.Handle("/health", server.HandleHealth(ctx))

	go func() {
		if err := http.ListenAndServe("0.0.0.0:8080", nil); err != nil {
			cancel()
		}
	}()

	return srv.ServeHTTPHandler(ctx, mux)
}
