package host

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/opencode-ai/haptic/internal/haptic"
)

// Options are passed to host factories.
type Options struct {
	// Output is where text hosts write. Defaults to stdout.
	Output io.Writer
	// Audible makes the bell host ring the terminal bell.
	Audible bool
	// Volume scales synthesized output, 0..1.
	Volume float64
}

// Factory builds a host.
type Factory func(opts Options) (haptic.Host, error)

// Registry maps host names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. Names are case-insensitive and must be unique.
func (r *Registry) Register(name string, factory Factory) error {
	name = normalizeName(name)
	if name == "" {
		return fmt.Errorf("host name is required")
	}
	if factory == nil {
		return fmt.Errorf("host %q: factory is required", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("host %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister adds a factory, panicking on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Open builds the named host.
func (r *Registry) Open(name string, opts Options) (haptic.Host, error) {
	name = normalizeName(name)

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown host %q (available: %s)", name, strings.Join(r.Names(), ", "))
	}

	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Volume <= 0 || opts.Volume > 1 {
		opts.Volume = 1
	}
	return factory(opts)
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultRegistry holds the hosts built into this package.
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.MustRegister("log", func(opts Options) (haptic.Host, error) {
		return NewLogger(nil), nil
	})
	DefaultRegistry.MustRegister("bell", func(opts Options) (haptic.Host, error) {
		return NewBell(opts.Output, opts.Audible), nil
	})
	DefaultRegistry.MustRegister("recorder", func(opts Options) (haptic.Host, error) {
		return NewRecorder(), nil
	})
	DefaultRegistry.MustRegister("unsupported", func(opts Options) (haptic.Host, error) {
		return Unsupported{}, nil
	})
}

// Register adds a factory to the default registry.
func Register(name string, factory Factory) error {
	return DefaultRegistry.Register(name, factory)
}

// Open builds a host from the default registry.
func Open(name string, opts Options) (haptic.Host, error) {
	return DefaultRegistry.Open(name, opts)
}

// Names lists the default registry.
func Names() []string {
	return DefaultRegistry.Names()
}
