package scope

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"stylo/style"
)

var (
	// ErrNameConflict is returned for a scope name which has the same key
	// as a name already in the registry.
	ErrNameConflict = errors.New("scope name conflicts with existing scope")
	// ErrInvalidName is returned for a scope name which key is empty.
	ErrInvalidName = errors.New("invalid scope name")
)

// TargetFactory returns stylesheet target for scope name, nil means the
// scope has no target.
type TargetFactory func(name string) Target

// Registry owns scopes of one application by name.
type Registry struct {
	providers *style.Providers
	log       *zap.Logger
	factory   TargetFactory

	mu     sync.Mutex
	scopes map[string]*Scope
	keys   map[string]string // scope key -> name
	order  []string
}

// RegistryOption configures registry.
type RegistryOption func(*Registry)

// WithTargetFactory sets factory used to attach targets to new scopes.
func WithTargetFactory(f TargetFactory) RegistryOption {
	return func(r *Registry) {
		r.factory = f
	}
}

// NewRegistry creates empty registry.
func NewRegistry(providers *style.Providers, log *zap.Logger, opts ...RegistryOption) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		providers: providers,
		log:       log,
		scopes:    make(map[string]*Scope),
		keys:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Providers returns provider cache shared by all scopes.
func (r *Registry) Providers() *style.Providers {
	return r.providers
}

// Get returns scope by name creating it if necessary. Empty name means
// default scope. Names are distinct only when their keys are, "Side Bar"
// and "side-bar" would share class prefix and page elements.
func (r *Registry) Get(name string) (*Scope, error) {
	if name == "" {
		name = DefaultName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(name, nil)
}

func (r *Registry) get(name string, target Target) (*Scope, error) {
	if s, ok := r.scopes[name]; ok {
		return s, nil
	}
	key := Key(name)
	if key == "" {
		return nil, fmt.Errorf("scope %q: %w", name, ErrInvalidName)
	}
	if owner, ok := r.keys[key]; ok {
		return nil, fmt.Errorf("scope %q has key %q of scope %q: %w", name, key, owner, ErrNameConflict)
	}
	if target == nil && r.factory != nil {
		target = r.factory(name)
	}
	opts := []Option{WithLogger(r.log)}
	if target != nil {
		opts = append(opts, WithTarget(target))
	}
	s := New(name, r.providers, opts...)
	r.scopes[name] = s
	r.keys[key] = name
	r.order = append(r.order, name)
	return s, nil
}

// Default returns default scope.
func (r *Registry) Default() (*Scope, error) {
	return r.Get(DefaultName)
}

// Lookup returns existing scope.
func (r *Registry) Lookup(name string) (*Scope, bool) {
	if name == "" {
		name = DefaultName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scopes[name]
	return s, ok
}

// Adopt rehydrates scope from transferred payload, target replaces one the
// scope may already have unless nil.
func (r *Registry) Adopt(name string, target Target, p Payload) (*Scope, error) {
	if name == "" {
		name = DefaultName
	}
	r.mu.Lock()
	s, err := r.get(name, target)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if target != nil {
		s.mu.Lock()
		s.target = target
		s.mu.Unlock()
	}
	if err := s.Rehydrate(p); err != nil {
		return nil, err
	}
	return s, nil
}

// Names returns scope names in order of creation.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

// Scopes returns scopes in order of creation.
func (r *Registry) Scopes() []*Scope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Scope, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.scopes[name])
	}
	return out
}
