package style

// Resolver picks one or more values from a preset falling back to defaults.
// When a combining function is present all resolved values are passed to it
// in declaration order and its result is used.
type Resolver struct {
	names    []string
	defaults []any
	combine  func(values ...any) any
}

// Ref resolves single named value.
func Ref(name string, def any) Resolver {
	return Resolver{names: []string{name}, defaults: []any{def}}
}

// NewResolver creates resolver for several values. Missing defaults are nil.
func NewResolver(names []string, defaults []any, combine func(values ...any) any) Resolver {
	return Resolver{names: names, defaults: defaults, combine: combine}
}

// Resolve returns resolved value. Nil preset resolves to defaults. Without
// combining function the first resolved value is returned.
func (r Resolver) Resolve(p *Preset) any {
	values := make([]any, len(r.names))
	for i, name := range r.names {
		if v, ok := p.Value(name); ok {
			values[i] = v
		} else if i < len(r.defaults) {
			values[i] = r.defaults[i]
		}
	}
	if r.combine != nil {
		return r.combine(values...)
	}
	if len(values) == 0 {
		return nil
	}
	return values[0]
}
