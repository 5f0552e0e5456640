package style

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"stylo/common"
	"stylo/css"
)

// ImportStylesheet declares classes described by class rules of sheet.
// Rules for the same class are combined: base rules are overlaid in source
// order, ":state" rules become state variants and "::before" becomes icon
// rule. Class names carrying prefix have it stripped. Rules without class
// are ignored.
func ImportStylesheet(ctx *Context, sheet *css.Stylesheet, prefix string) error {
	var (
		order []string
		defs  = make(map[string]*ClassDef)
	)
	for _, rule := range sheet.Rules {
		sel := rule.Selector
		if sel.Class == "" {
			continue
		}
		name := sel.Class
		if prefix != "" {
			if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
				ctx.log.Debug("Skipping class outside of prefix", zap.String("class", name), zap.String("prefix", prefix))
				continue
			}
			name = strings.TrimPrefix(name, prefix)
		}
		def, ok := defs[name]
		if !ok {
			def = &ClassDef{Name: name, Base: make(css.Properties)}
			defs[name] = def
			order = append(order, name)
		}
		switch {
		case sel.Pseudo == css.PseudoBefore && sel.State == "":
			def.Icon = def.Icon.Overlay(rule.Properties)
		case sel.Pseudo != css.PseudoNone:
			ctx.log.Debug("Skipping unsupported pseudo-element rule", zap.String("selector", sel.String()))
		case sel.State != "":
			if def.States == nil {
				def.States = make(map[common.State]css.Properties)
			}
			def.States[sel.State] = def.States[sel.State].Overlay(rule.Properties)
		default:
			def.Base = def.Base.Overlay(rule.Properties)
		}
	}

	for _, name := range order {
		if ctx.Has(name) {
			return fmt.Errorf("import class %q: %w", name, ErrDuplicateClass)
		}
	}
	for _, name := range order {
		ctx.add(defs[name])
	}
	return nil
}

// DeclareCSS returns declaration function importing sheet, used for theme
// overrides supplied as CSS text.
func DeclareCSS(sheet *css.Stylesheet) DeclareFunc {
	return func(ctx *Context) error {
		return ImportStylesheet(ctx, sheet, "")
	}
}
