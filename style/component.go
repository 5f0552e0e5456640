package style

// Component is a type of UI element which may contribute styles. Name
// identifies the type, it is the key for provider cache, scope realization
// and theme overrides.
type Component interface {
	ComponentName() string
}

// Declarer is implemented by components having their own style
// declarations. Components without it contribute no styling unless theme
// overrides them. DeclareStyles has the same restrictions as DeclareFunc.
type Declarer interface {
	Component
	DeclareStyles(ctx *Context) error
}

// Merger is implemented by components whose styles must be unpacked when
// folded into a scope: referenced components are realized on their own
// before the remaining classes.
type Merger interface {
	Component
	MergesStyles() bool
}

// ComponentFunc adapts a plain declaration function to Declarer.
type ComponentFunc struct {
	Name    string
	Declare DeclareFunc
	Merging bool
}

func (c ComponentFunc) ComponentName() string {
	return c.Name
}

func (c ComponentFunc) DeclareStyles(ctx *Context) error {
	if c.Declare == nil {
		return nil
	}
	return c.Declare(ctx)
}

func (c ComponentFunc) MergesStyles() bool {
	return c.Merging
}

func isMerging(c Component) bool {
	m, ok := c.(Merger)
	return ok && m.MergesStyles()
}
