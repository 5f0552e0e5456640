// Package widgets has sample components exercising styling and layering.
package widgets

import (
	"fmt"
	"slices"
	"sort"

	"stylo/common"
	"stylo/style"
)

// px resolves preset value as CSS length, bare numbers get "px" unit.
func px(name string, def any) style.Resolver {
	return style.NewResolver([]string{name}, []any{def}, func(v ...any) any {
		switch n := v[0].(type) {
		case int, int64, float64:
			return fmt.Sprintf("%vpx", n)
		}
		return v[0]
	})
}

// Button is a plain push button.
type Button struct{}

func (Button) ComponentName() string { return "button" }

func (Button) DeclareStyles(ctx *style.Context) error {
	return ctx.AddClass("btn", style.Rules{
		"background":    style.Ref("accent", "#0066cc"),
		"color":         style.Ref("on-accent", "#ffffff"),
		"border":        "none",
		"border-radius": px("radius", 4),
		"padding": style.NewResolver([]string{"spacing"}, []any{4}, func(v ...any) any {
			if n, ok := v[0].(int); ok {
				return fmt.Sprintf("%dpx %dpx", n, n*2)
			}
			return v[0]
		}),
		"cursor": "pointer",
	}, style.States{
		common.StateHover:    {"background": style.Ref("accent-hover", "#0052a3")},
		common.StateActive:   {"background": style.Ref("accent-active", "#003d7a")},
		common.StateDisabled: {"opacity": 0.5, "cursor": "default"},
	})
}

// PrimaryButton is a button standing out among others. Its styles are
// unpacked so that plain button styles are realized on their own.
type PrimaryButton struct{}

func (PrimaryButton) ComponentName() string { return "primary-button" }

func (PrimaryButton) MergesStyles() bool { return true }

func (PrimaryButton) DeclareStyles(ctx *style.Context) error {
	if err := ctx.UseExtender(Button{}); err != nil {
		return err
	}
	return ctx.InheritClass("btn-primary", "btn", style.Rules{
		"background":  style.Ref("primary", "#2e7d32"),
		"font-weight": "bold",
	}, style.States{
		common.StateHover:  {"background": style.Ref("primary-hover", "#1b5e20")},
		common.StateActive: {"background": style.Ref("primary-active", "#124116")},
	})
}

// Panel is a framed container with buttons in its footer.
type Panel struct{}

func (Panel) ComponentName() string { return "panel" }

func (Panel) DeclareStyles(ctx *style.Context) error {
	if err := ctx.UseHolder(Button{}); err != nil {
		return err
	}
	if err := ctx.AddClass("panel", style.Rules{
		"background": style.Ref("surface", "#fafafa"),
		"border":     style.Ref("panel-border", "1px solid #cccccc"),
		"padding":    px("spacing", 4),
	}, nil); err != nil {
		return err
	}
	return ctx.AddClass("panel-title", style.Rules{
		"font-weight": "bold",
		"margin":      "0 0 8px 0",
	}, nil)
}

// Input is a single line text field with search glyph.
type Input struct{}

func (Input) ComponentName() string { return "input" }

func (Input) DeclareStyles(ctx *style.Context) error {
	if err := ctx.AddClass("input", style.Rules{
		"border":        style.Ref("input-border", "1px solid #999999"),
		"border-radius": px("radius", 4),
		"padding":       px("spacing", 4),
	}, style.States{
		common.StateFocus:    {"outline": style.Ref("focus-ring", "2px solid #0066cc")},
		common.StateDisabled: {"background": "#eeeeee"},
	}); err != nil {
		return err
	}
	return ctx.SetIcon("input", style.Rules{
		"content":      `"\2315"`,
		"margin-right": "4px",
	})
}

// Label is plain text and has no styles of its own.
type Label struct{}

func (Label) ComponentName() string { return "label" }

var catalog = map[string]style.Component{
	"button":         Button{},
	"primary-button": PrimaryButton{},
	"panel":          Panel{},
	"input":          Input{},
	"label":          Label{},
	"window":         &Window{},
}

// Lookup returns sample component by name.
func Lookup(name string) (style.Component, bool) {
	c, ok := catalog[name]
	return c, ok
}

// Names returns names of all sample components.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsKnown reports whether all names are sample components.
func IsKnown(names ...string) bool {
	return !slices.ContainsFunc(names, func(name string) bool {
		_, ok := catalog[name]
		return !ok
	})
}
