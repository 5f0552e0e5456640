package style

import (
	"maps"
	"slices"
	"sort"
)

// DeclareFunc populates context with class declarations of a component.
// It runs with the provider cache locked: other components are reached only
// through ctx, calling Providers.Context or Provider.Context from it blocks
// forever.
type DeclareFunc func(ctx *Context) error

// Preset is a named bag of themeable values with optional per-component
// declaration overrides. Preset is built once during configuration and only
// read afterwards, methods returning a modified preset make a copy.
type Preset struct {
	name      string
	values    map[string]any
	overrides map[string]DeclareFunc
}

// NewPreset creates preset holding a copy of values.
func NewPreset(name string, values map[string]any) *Preset {
	return &Preset{
		name:      name,
		values:    maps.Clone(values),
		overrides: make(map[string]DeclareFunc),
	}
}

// Name returns preset name, empty for nil preset.
func (p *Preset) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Value looks up named value. Nil preset has no values.
func (p *Preset) Value(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[name]
	return v, ok
}

// Names returns names of all values in alphabetical order.
func (p *Preset) Names() []string {
	if p == nil {
		return nil
	}
	names := slices.Collect(maps.Keys(p.values))
	sort.Strings(names)
	return names
}

// WithOverride returns copy of the preset where declarations of component
// are replaced by fn.
func (p *Preset) WithOverride(component string, fn DeclareFunc) *Preset {
	np := &Preset{overrides: make(map[string]DeclareFunc)}
	if p != nil {
		np.name = p.name
		np.values = p.values
		maps.Copy(np.overrides, p.overrides)
	}
	np.overrides[component] = fn
	return np
}

// Override returns theme supplied declarations for component if any.
func (p *Preset) Override(component string) (DeclareFunc, bool) {
	if p == nil {
		return nil, false
	}
	fn, ok := p.overrides[component]
	return fn, ok && fn != nil
}
