package backend

import (
	"log/slog"
	"sync"

	"airstage/internal/logging"
	"airstage/internal/station"
)

// Options carries the environment a factory needs beyond the profile's
// delivery block.
type Options struct {
	// LocalRoot is the directory backing the local method and the staging
	// fallback for methods without a transfer implementation.
	LocalRoot string
	Logger    *slog.Logger
}

// Factory builds a backend from a station's delivery configuration.
type Factory func(delivery station.DeliveryConfig, opts Options) (Backend, error)

var (
	registryMu sync.RWMutex
	factories  = map[station.DeliveryMethod]Factory{
		station.MethodLocal: func(_ station.DeliveryConfig, opts Options) (Backend, error) {
			return NewLocal(opts.LocalRoot), nil
		},
	}
)

// Register installs a factory for a delivery method. Transfer packages call
// this from init so importing them is enough to enable the method.
func Register(method station.DeliveryMethod, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[method] = factory
}

// Resolve returns the backend for the profile's delivery method. A method
// without a registered factory degrades to the local staging backend so jobs
// still land somewhere inspectable instead of failing outright.
func Resolve(delivery station.DeliveryConfig, opts Options) (Backend, error) {
	registryMu.RLock()
	factory, ok := factories[delivery.Method]
	registryMu.RUnlock()

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if !ok {
		logger.Warn("delivery method has no transfer backend, staging locally",
			logging.String("method", string(delivery.Method)),
			logging.String("staging_root", opts.LocalRoot))
		return NewLocal(opts.LocalRoot), nil
	}
	return factory(delivery, opts)
}

// Registered reports whether a transfer backend exists for the method.
func Registered(method station.DeliveryMethod) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[method]
	return ok
}
