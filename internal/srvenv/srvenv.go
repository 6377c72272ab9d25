package srvenv

import (
	"github.com/go-tda/tda/internal/engine"
	"github.com/go-tda/tda/internal/statestore"
)

type Option func(*SrvEnv) *SrvEnv

func New(opts ...Option) *SrvEnv {
	env := &SrvEnv{}
	for _, f := range opts {
		env = f(env)
	}

	return env
}

// SrvEnv aggregates the wired dependencies of the service.
type SrvEnv struct {
	store     *statestore.DB
	distance  engine.ProvideDistanceFn
	amplitude engine.ProvideAmplitudeFn
}

func (s *SrvEnv) Store() *statestore.DB {
	return s.store
}

func (s *SrvEnv) ProvideDistance() engine.ProvideDistanceFn {
	return s.distance
}

func (s *SrvEnv) ProvideAmplitude() engine.ProvideAmplitudeFn {
	return s.amplitude
}

func WithStore(db *statestore.DB) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.store = db
		return s
	}
}

func WithDistance(fn engine.ProvideDistanceFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.distance = fn
		return s
	}
}

func WithAmplitude(fn engine.ProvideAmplitudeFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.amplitude = fn
		return s
	}
}
