package engine

import (
	"fmt"
	"sort"
	"sync"
)

// Factory holds the available strategies by name.
type Factory struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{strategies: make(map[string]Strategy)}
}

// NewDefaultFactory returns a factory with every built-in strategy.
func NewDefaultFactory() *Factory {
	f := NewFactory()
	f.Register(Sequential())
	f.Register(Synchronous())
	f.Register(Overlapped())
	f.Register(Collective())
	return f
}

// Register adds s, replacing any strategy of the same name.
func (f *Factory) Register(s Strategy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.strategies[s.Name()] = s
}

// Get returns the strategy called name.
func (f *Factory) Get(name string) (Strategy, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return s, nil
}

// List returns the registered names in sorted order.
func (f *Factory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.strategies))
	for name := range f.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns every registered strategy, sorted by name.
func (f *Factory) GetAll() []Strategy {
	names := f.List()
	out := make([]Strategy, 0, len(names))
	for _, name := range names {
		if s, err := f.Get(name); err == nil {
			out = append(out, s)
		}
	}
	return out
}
