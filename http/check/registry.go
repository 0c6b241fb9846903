package check

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xy-planning-network/checkpoint"
)

// A Factory builds a Check from its Config.
type Factory func(cfg Config) (Check, error)

// A Registry maps check variant names to the Factory building them.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry constructs a Registry holding the variants this package provides:
// "key-match", "refuse" and "broken".
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{
		KeyMatchVariant: NewKeyMatch,
		RefuseVariant:   NewRefuse,
		BrokenVariant:   NewBroken,
	}}
}

// Register adds f under variant.
// Registering a variant twice returns ErrBadConfig.
func (reg *Registry) Register(variant string, f Factory) error {
	if variant == "" || f == nil {
		return fmt.Errorf("%w: variant and factory are required", checkpoint.ErrBadConfig)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.factories[variant]; ok {
		return fmt.Errorf("%w: check variant %q already registered", checkpoint.ErrBadConfig, variant)
	}

	reg.factories[variant] = f
	return nil
}

// Build constructs the Check variant names from cfg.
// cfg must carry an identifier under IDKey.
func (reg *Registry) Build(variant string, cfg Config) (Check, error) {
	reg.mu.RLock()
	f, ok := reg.factories[variant]
	reg.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: check variant %q", checkpoint.ErrNotExist, variant)
	}

	if cfg.ID() == "" {
		return nil, fmt.Errorf("%w: check variant %q requires %q in its config", checkpoint.ErrBadConfig, variant, IDKey)
	}

	chk, err := f(cfg)
	if err != nil {
		return nil, fmt.Errorf("building check %q: %w", cfg.ID(), err)
	}

	return chk, nil
}

// Variants lists the registered variant names, sorted.
func (reg *Registry) Variants() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	names := make([]string, 0, len(reg.factories))
	for name := range reg.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
