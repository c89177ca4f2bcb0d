package rangeread

import (
	"fmt"
	"sync"
)

var registry struct {
	mu       sync.RWMutex
	backends []Backend
}

// Register adds b to the set returned by Backends. Backends of this package
// register themselves at init time for the platforms they support.
//
// Register panics if a backend with the same name is already registered.
func Register(b Backend) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	for _, existing := range registry.backends {
		if existing.Name() == b.Name() {
			panic(fmt.Sprintf("rangeread: backend %q registered twice", b.Name()))
		}
	}
	registry.backends = append(registry.backends, b)
}

// Backends returns every registered backend in registration order.
func Backends() []Backend {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	return append([]Backend(nil), registry.backends...)
}

// Available returns the registered backends the running system can serve.
// A backend that implements Probe() error is dropped when Probe fails.
func Available() []Backend {
	var out []Backend
	for _, b := range Backends() {
		if p, ok := b.(interface{ Probe() error }); ok && p.Probe() != nil {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Lookup returns the registered backend with the given name.
func Lookup(name string) (Backend, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	for _, b := range registry.backends {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}
