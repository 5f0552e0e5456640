package style

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"stylo/common"
	"stylo/css"
)

// Rules maps property name to its value. Values may be strings, numbers,
// css.Value or Resolver, the latter is substituted with value resolved
// against context preset. Properties resolving to empty text are dropped.
type Rules map[string]any

// States maps interaction state to its variant rules.
type States map[common.State]Rules

// ClassDef is a single class declaration.
type ClassDef struct {
	Name   string
	Base   css.Properties
	States map[common.State]css.Properties
	Icon   css.Properties // ::before rule, nil when class has no icon

	origin string // component the declaration was pulled from, empty when declared in place
}

// Origin returns name of the component this declaration was pulled from or
// empty string for classes declared directly.
func (d ClassDef) Origin() string {
	return d.origin
}

func (d ClassDef) clone() ClassDef {
	out := d
	out.Base = d.Base.Clone()
	out.Icon = d.Icon.Clone()
	if d.States != nil {
		out.States = make(map[common.State]css.Properties, len(d.States))
		for state, props := range d.States {
			out.States[state] = props.Clone()
		}
	}
	return out
}

// StateNames returns states in emission order: known states by rank, then
// unknown ones alphabetically.
func (d ClassDef) StateNames() []common.State {
	states := slices.Collect(maps.Keys(d.States))
	sort.Slice(states, func(i, j int) bool {
		ri, rj := states[i].Rank(), states[j].Rank()
		if ri != rj {
			return ri < rj
		}
		return states[i] < states[j]
	})
	return states
}

// Reference records a component whose styles were pulled into a context.
type Reference struct {
	Component Component
	Extends   bool // pulled with UseExtender
}

// Context accumulates class declarations. Class names are kept without
// prefix, prefix only affects emitted text and enumerated names.
//
// Contexts returned by providers are shared and must be treated as read-only.
type Context struct {
	prefix    string
	preset    *Preset
	parent    *Context
	providers *Providers
	log       *zap.Logger

	order   []string
	classes map[string]*ClassDef
	refs    []Reference

	building []string // provider keys being built, set while declaration hook runs
}

// ContextOption configures new context.
type ContextOption func(*Context)

// WithPrefix sets class name prefix.
func WithPrefix(prefix string) ContextOption {
	return func(c *Context) {
		c.prefix = prefix
	}
}

// WithParent makes classes of parent available as inheritance sources.
func WithParent(parent *Context) ContextOption {
	return func(c *Context) {
		c.parent = parent
	}
}

// WithProviders attaches provider cache used by UseHolder and UseExtender.
func WithProviders(ps *Providers) ContextOption {
	return func(c *Context) {
		c.providers = ps
	}
}

// WithLogger sets logger.
func WithLogger(log *zap.Logger) ContextOption {
	return func(c *Context) {
		if log != nil {
			c.log = log
		}
	}
}

// NewContext creates empty context bound to preset.
func NewContext(preset *Preset, opts ...ContextOption) *Context {
	c := &Context{
		preset:  preset,
		classes: make(map[string]*ClassDef),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Preset returns preset the context resolves values against.
func (c *Context) Preset() *Preset {
	return c.preset
}

// Prefix returns current class name prefix.
func (c *Context) Prefix() string {
	return c.prefix
}

// SetPrefix changes prefix for all emitted names, including already declared ones.
func (c *Context) SetPrefix(prefix string) {
	c.prefix = prefix
}

// Len returns number of declared classes.
func (c *Context) Len() int {
	return len(c.order)
}

// Has reports whether class is declared in this context. Leading dot is ignored.
func (c *Context) Has(name string) bool {
	_, ok := c.classes[strings.TrimPrefix(name, ".")]
	return ok
}

// Class returns copy of class declaration.
func (c *Context) Class(name string) (ClassDef, bool) {
	def, ok := c.classes[strings.TrimPrefix(name, ".")]
	if !ok {
		return ClassDef{}, false
	}
	return def.clone(), true
}

// Names returns declared class names without prefix in declaration order.
func (c *Context) Names() []string {
	return slices.Clone(c.order)
}

// ClassNames returns emitted class names (prefix applied) in declaration order.
func (c *Context) ClassNames() []string {
	names := make([]string, len(c.order))
	for i, name := range c.order {
		names[i] = c.prefix + name
	}
	return names
}

// Refs returns components pulled into this context in order of use.
func (c *Context) Refs() []Reference {
	return slices.Clone(c.refs)
}

// AddClass declares new class. Declaring existing name is an error.
func (c *Context) AddClass(name string, base Rules, states States) error {
	name, err := checkName(name)
	if err != nil {
		return err
	}
	if c.Has(name) {
		return fmt.Errorf("add class %q: %w", name, ErrDuplicateClass)
	}
	def := &ClassDef{
		Name: name,
		Base: c.resolveRules(base),
	}
	if len(states) > 0 {
		def.States = make(map[common.State]css.Properties, len(states))
		for state, rules := range states {
			def.States[state] = c.resolveRules(rules)
		}
	}
	c.add(def)
	return nil
}

// InheritClass declares new class as a copy of source with overrides applied
// on top key by key, state rules are merged per state. Source is looked up
// in this context first and then in the parent chain.
func (c *Context) InheritClass(name, source string, base Rules, states States) error {
	name, err := checkName(name)
	if err != nil {
		return err
	}
	source = strings.TrimPrefix(source, ".")
	src, ok := c.lookup(source)
	if !ok {
		return fmt.Errorf("inherit class %q from %q: %w", name, source, ErrUnknownClass)
	}
	if c.Has(name) {
		return fmt.Errorf("inherit class %q from %q: %w", name, source, ErrDuplicateClass)
	}

	def := src.clone()
	def.Name = name
	def.origin = ""
	def.Base = def.Base.Overlay(c.resolveRules(base))
	if len(states) > 0 && def.States == nil {
		def.States = make(map[common.State]css.Properties, len(states))
	}
	for state, rules := range states {
		def.States[state] = def.States[state].Overlay(c.resolveRules(rules))
	}
	c.add(&def)
	return nil
}

// SetIcon attaches icon glyph rule (rendered as ::before) to declared class,
// rules are merged over existing icon rule if any.
func (c *Context) SetIcon(name string, rules Rules) error {
	name = strings.TrimPrefix(name, ".")
	def, ok := c.classes[name]
	if !ok {
		return fmt.Errorf("set icon of %q: %w", name, ErrUnknownClass)
	}
	def.Icon = def.Icon.Overlay(c.resolveRules(rules))
	return nil
}

// UseHolder pulls in classes declared by component itself, classes it pulled
// from others are not followed.
func (c *Context) UseHolder(comp Component) error {
	return c.use(comp, false)
}

// UseExtender pulls in complete class set of component including everything
// it pulled from others.
func (c *Context) UseExtender(comp Component) error {
	return c.use(comp, true)
}

// ComponentContext returns memoized context of another component without
// pulling its classes in. Declaration hooks must use it instead of
// Providers.Context, pulling a component which is being built returns
// ErrCycle.
func (c *Context) ComponentContext(comp Component) (*Context, error) {
	if c.providers == nil {
		return nil, fmt.Errorf("context of %q: %w", comp.ComponentName(), ErrNoProviders)
	}
	if c.building != nil {
		return c.providers.lookup(comp, c.building)
	}
	return c.providers.Context(comp)
}

func (c *Context) use(comp Component, extends bool) error {
	if c.providers == nil {
		return fmt.Errorf("use %q: %w", comp.ComponentName(), ErrNoProviders)
	}

	src, err := c.ComponentContext(comp)
	if err != nil {
		return fmt.Errorf("use %q: %w", comp.ComponentName(), err)
	}

	key := comp.ComponentName()
	for _, name := range src.order {
		def := src.classes[name]
		if !extends && def.origin != "" {
			continue
		}
		if c.Has(name) {
			continue
		}
		cp := def.clone()
		if cp.origin == "" {
			cp.origin = key
		}
		c.add(&cp)
	}
	c.refs = append(c.refs, Reference{Component: comp, Extends: extends})
	return nil
}

// Merge copies declarations of other which are not present in this
// context. On name collision existing declaration wins.
func (c *Context) Merge(other *Context) {
	if other == nil {
		return
	}
	for _, name := range other.order {
		if c.Has(name) {
			c.log.Debug("Merge keeps existing declaration", zap.String("class", name))
			continue
		}
		cp := other.classes[name].clone()
		c.add(&cp)
	}
}

// Filter returns new context with the same preset and prefix holding copies
// of declarations for which keep returns true.
func (c *Context) Filter(keep func(def ClassDef) bool) *Context {
	out := NewContext(c.preset, WithPrefix(c.prefix), WithParent(c.parent), WithProviders(c.providers), WithLogger(c.log))
	for _, name := range c.order {
		def := c.classes[name]
		if keep(*def) {
			cp := def.clone()
			out.add(&cp)
		}
	}
	return out
}

// Stylesheet renders declarations to stylesheet: for every class base rule,
// state rules and icon rule in that order.
func (c *Context) Stylesheet() *css.Stylesheet {
	sheet := &css.Stylesheet{}
	for _, name := range c.order {
		def := c.classes[name]
		emitted := c.prefix + name
		if len(def.Base) > 0 {
			sheet.Add(css.Rule{Selector: css.ClassSelector(emitted, "", css.PseudoNone), Properties: def.Base.Clone()})
		}
		for _, state := range def.StateNames() {
			if props := def.States[state]; len(props) > 0 {
				sheet.Add(css.Rule{Selector: css.ClassSelector(emitted, state, css.PseudoNone), Properties: props.Clone()})
			}
		}
		if len(def.Icon) > 0 {
			sheet.Add(css.Rule{Selector: css.ClassSelector(emitted, "", css.PseudoBefore), Properties: def.Icon.Clone()})
		}
	}
	return sheet
}

// WriteTo writes rendered stylesheet text to w.
func (c *Context) WriteTo(w io.Writer) (int64, error) {
	return c.Stylesheet().WriteTo(w)
}

// String returns rendered stylesheet text.
func (c *Context) String() string {
	return c.Stylesheet().String()
}

func (c *Context) add(def *ClassDef) {
	c.order = append(c.order, def.Name)
	c.classes[def.Name] = def
}

func (c *Context) lookup(name string) (*ClassDef, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if def, ok := ctx.classes[name]; ok {
			return def, true
		}
	}
	return nil, false
}

func (c *Context) resolveRules(rules Rules) css.Properties {
	props := make(css.Properties, len(rules))
	for name, v := range rules {
		if r, ok := v.(Resolver); ok {
			v = r.Resolve(c.preset)
		}
		if val, ok := v.(css.Value); ok {
			props[name] = val
			continue
		}
		text := formatValue(v)
		if text == "" {
			continue
		}
		props[name] = css.ParseValue(text)
	}
	return props
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func checkName(name string) (string, error) {
	name = strings.TrimPrefix(name, ".")
	if name == "" || strings.ContainsAny(name, " \t\n.:,{}") {
		return name, fmt.Errorf("%q: %w", name, ErrInvalidClass)
	}
	return name, nil
}
