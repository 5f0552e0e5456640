package style

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Kind tells how a provider's context is folded into a parent.
type Kind int

const (
	// KindIsolated contexts are folded as a single opaque unit.
	KindIsolated Kind = iota
	// KindMerging contexts are unpacked, referenced components are folded
	// first on their own.
	KindMerging
)

func (k Kind) String() string {
	if k == KindMerging {
		return "merging"
	}
	return "isolated"
}

type entry struct {
	ctx *Context
	err error
}

// Providers is a memoizing cache of component style contexts bound to one
// preset. Declarations of every component are evaluated at most once for
// the lifetime of the cache, failures are remembered as well.
type Providers struct {
	log    *zap.Logger
	preset *Preset

	mu      sync.Mutex
	entries map[string]*entry
	builds  int
}

// NewProviders creates empty cache.
func NewProviders(preset *Preset, log *zap.Logger) *Providers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Providers{
		log:     log.Named("providers"),
		preset:  preset,
		entries: make(map[string]*entry),
	}
}

// Preset returns preset contexts are built against.
func (ps *Providers) Preset() *Preset {
	return ps.preset
}

// Builds returns number of declaration hooks invoked so far.
func (ps *Providers) Builds() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.builds
}

// For returns provider for component, kind is taken from Merger.
func (ps *Providers) For(c Component) Provider {
	if isMerging(c) {
		return ps.Merging(c)
	}
	return ps.Isolated(c)
}

// Isolated returns isolated provider for component.
func (ps *Providers) Isolated(c Component) Provider {
	return Provider{kind: KindIsolated, component: c, cache: ps}
}

// Merging returns merging provider for component.
func (ps *Providers) Merging(c Component) Provider {
	return Provider{kind: KindMerging, component: c, cache: ps}
}

// Source returns declaration function used for component: theme override
// if preset has one, component own declarations otherwise. Nil means the
// component contributes no styling.
func (ps *Providers) Source(c Component) DeclareFunc {
	if fn, ok := ps.preset.Override(c.ComponentName()); ok {
		return fn
	}
	if d, ok := c.(Declarer); ok {
		return d.DeclareStyles
	}
	return nil
}

// Context returns memoized context of component building it on first use.
// Must not be called from declaration hooks, see Context.ComponentContext.
func (ps *Providers) Context(c Component) (*Context, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.lookup(c, nil)
}

// lookup must be called with mu held.
func (ps *Providers) lookup(c Component, stack []string) (*Context, error) {
	key := c.ComponentName()
	if slices.Contains(stack, key) {
		return nil, fmt.Errorf("%s -> %s: %w", strings.Join(stack, " -> "), key, ErrCycle)
	}
	if e, ok := ps.entries[key]; ok {
		return e.ctx, e.err
	}

	ctx := NewContext(ps.preset, WithProviders(ps), WithLogger(ps.log))
	e := &entry{ctx: ctx}
	if fn := ps.Source(c); fn != nil {
		ctx.building = append(slices.Clone(stack), key)
		ps.builds++
		if err := fn(ctx); err != nil {
			e.ctx, e.err = nil, fmt.Errorf("declare styles of %q: %w", key, err)
		}
		ctx.building = nil
	}
	ps.entries[key] = e

	if e.err != nil {
		ps.log.Debug("Style declaration failed", zap.String("component", key), zap.Error(e.err))
	} else {
		ps.log.Debug("Style context built", zap.String("component", key), zap.Int("classes", ctx.Len()), zap.Int("refs", len(ctx.refs)))
	}
	return e.ctx, e.err
}

// Provider is a handle to memoized context of one component.
type Provider struct {
	kind      Kind
	component Component
	cache     *Providers
}

// Kind returns provider kind.
func (p Provider) Kind() Kind {
	return p.kind
}

// Component returns component the provider is for.
func (p Provider) Component() Component {
	return p.component
}

// Context returns memoized component context. Returned context is shared,
// do not modify it. Same restrictions as Providers.Context apply.
func (p Provider) Context() (*Context, error) {
	return p.cache.Context(p.component)
}

// Unpack calls visit for every component referenced by merging provider's
// context in order of use. Isolated providers have nothing to unpack.
func (p Provider) Unpack(visit func(Component) error) error {
	if p.kind != KindMerging {
		return nil
	}
	ctx, err := p.Context()
	if err != nil {
		return err
	}
	for _, ref := range ctx.refs {
		if err := visit(ref.Component); err != nil {
			return err
		}
	}
	return nil
}

// FoldInto merges provider output into parent. Merging providers fold
// referenced components first, recursively.
func (p Provider) FoldInto(parent *Context) error {
	err := p.Unpack(func(c Component) error {
		return p.cache.For(c).FoldInto(parent)
	})
	if err != nil {
		return err
	}
	ctx, err := p.Context()
	if err != nil {
		return err
	}
	parent.Merge(ctx)
	return nil
}
