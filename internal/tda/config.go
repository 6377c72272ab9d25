package tda

import (
	"github.com/go-tda/tda/internal/compute"
	"github.com/go-tda/tda/internal/engine"
	"github.com/go-tda/tda/internal/setup"
	"github.com/go-tda/tda/internal/statestore"
)

var (
	_ setup.StoreConfigProvider  = (*Config)(nil)
	_ setup.EngineConfigProvider = (*Config)(nil)
)

type Config struct {
	SrvAddr string `envconfig:"TDA_ADDR" default:":8787"`

	Compute compute.Config
	Engine  engine.Config
	Store   statestore.Config
}

func (c Config) ComputeConfig() *compute.Config {
	return &c.Compute
}

func (c Config) EngineConfig() *engine.Config {
	return &c.Engine
}

func (c Config) StoreConfig() *statestore.Config {
	return &c.Store
}
