package setup

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/go-tda/tda/internal/engine"
	"github.com/go-tda/tda/internal/logging"
	"github.com/go-tda/tda/internal/srvenv"
	"github.com/go-tda/tda/internal/statestore"
)

// Provider interfaces are checked against the aggregated config so that
// subsystems are wired only when the config carries their section.
type (
	StoreConfigProvider interface {
		StoreConfig() *statestore.Config
	}
	EngineConfigProvider interface {
		EngineConfig() *engine.Config
	}
)

// Setup processes the environment into config and wires the service
// environment.
func Setup(ctx context.Context, config interface{}) (*srvenv.SrvEnv, error) {
	logger := logging.FromContext(ctx)
	var serverEnvOpts []srvenv.Option

	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	if storeConfigProvider, ok := config.(StoreConfigProvider); ok {
		logger.Info("configuring state store")
		db, err := statestore.NewFromEnv(ctx, storeConfigProvider.StoreConfig())
		if err != nil {
			return nil, fmt.Errorf("unable to open state store: %w", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithStore(db))
	}

	if engineConfigProvider, ok := config.(EngineConfigProvider); ok {
		logger.Info("configuring engines")
		engineCfg := *engineConfigProvider.EngineConfig()
		serverEnvOpts = append(serverEnvOpts,
			srvenv.WithDistance(func() (*engine.Distance, error) {
				return engine.NewDistance(engineCfg), nil
			}),
			srvenv.WithAmplitude(func() (*engine.Amplitude, error) {
				return engine.NewAmplitude(engineCfg), nil
			}),
		)
	}

	return srvenv.New(serverEnvOpts...), nil
}
