package scope

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"stylo/css"
	"stylo/style"
	"stylo/utils/debug"
)

// DefaultName is the name of the scope used when none is given. Classes of
// the default scope are emitted without prefix.
const DefaultName = "default"

// Target receives stylesheet text of a scope, usually a style element of
// the page.
type Target interface {
	SetContent(text string)
	AppendContent(text string)
}

// Payload is the state of a scope transferred from the side which realized
// components to the side which rehydrates them.
type Payload struct {
	Elems   []string `json:"elems"`
	Classes []string `json:"classes"`
	CSS     string   `json:"css"`
}

// Key returns identity of scope name used for class prefix and page element
// ids. Names with the same key can not coexist in one registry.
func Key(name string) string {
	if name == "" {
		name = DefaultName
	}
	return slug.Make(name)
}

// Prefix returns class name prefix for scope name.
func Prefix(name string) string {
	if name == "" || name == DefaultName {
		return ""
	}
	if k := Key(name); k != "" {
		return k + "-"
	}
	return ""
}

// Scope is a named aggregate of realized component styles shared by
// everything rendered in one region of the page.
type Scope struct {
	name      string
	prefix    string
	providers *style.Providers
	parser    *css.Parser
	log       *zap.Logger

	mu       sync.Mutex
	target   Target
	realized []string
	elems    map[string]struct{}
	classes  []string
	names    map[string]struct{}
	text     strings.Builder
	ctx      *style.Context
}

// Option configures new scope.
type Option func(*Scope)

// WithTarget attaches stylesheet target.
func WithTarget(t Target) Option {
	return func(s *Scope) {
		s.target = t
	}
}

// WithLogger sets logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scope) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates empty scope realizing components through providers.
func New(name string, providers *style.Providers, opts ...Option) *Scope {
	if name == "" {
		name = DefaultName
	}
	s := &Scope{
		name:      name,
		prefix:    Prefix(name),
		providers: providers,
		log:       zap.NewNop(),
		elems:     make(map[string]struct{}),
		names:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("scope").With(zap.String("scope", name))
	s.parser = css.NewParser(s.log)
	s.ctx = s.newContext()
	return s
}

func (s *Scope) newContext() *style.Context {
	return style.NewContext(s.providers.Preset(),
		style.WithPrefix(s.prefix),
		style.WithProviders(s.providers),
		style.WithLogger(s.log),
	)
}

// Name returns scope name.
func (s *Scope) Name() string {
	return s.name
}

// Prefix returns class name prefix of the scope.
func (s *Scope) Prefix() string {
	return s.prefix
}

type step struct {
	key string
	ctx *style.Context
}

// AddComponent realizes styles of component in the scope. Realizing the
// same component again does nothing. Components without declarations are
// skipped. Merging components have referenced components realized first.
// On error scope is left unchanged.
func (s *Scope) AddComponent(c style.Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var steps []step
	if err := s.plan(c, make(map[string]struct{}), &steps); err != nil {
		return fmt.Errorf("scope %q: add component %q: %w", s.name, c.ComponentName(), err)
	}
	for _, st := range steps {
		s.apply(st)
	}
	return nil
}

// Declare realizes ad hoc declarations under key the same way components
// are realized. Declarations may inherit from any class already in the
// scope, including rehydrated ones.
func (s *Scope) Declare(key string, fn style.DeclareFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.elems[key]; ok {
		return nil
	}
	ctx := style.NewContext(s.providers.Preset(),
		style.WithParent(s.ctx),
		style.WithProviders(s.providers),
		style.WithLogger(s.log),
	)
	if err := fn(ctx); err != nil {
		return fmt.Errorf("scope %q: declare %q: %w", s.name, key, err)
	}
	s.apply(step{key: key, ctx: ctx})
	return nil
}

// plan collects contexts to realize in order without touching scope state.
func (s *Scope) plan(c style.Component, planned map[string]struct{}, steps *[]step) error {
	key := c.ComponentName()
	if _, ok := s.elems[key]; ok {
		return nil
	}
	if _, ok := planned[key]; ok {
		return nil
	}
	if s.providers.Source(c) == nil {
		s.log.Debug("Component has no styles, skipping", zap.String("component", key))
		return nil
	}

	p := s.providers.For(c)
	ctx, err := p.Context()
	if err != nil {
		return err
	}
	err = p.Unpack(func(ref style.Component) error {
		return s.plan(ref, planned, steps)
	})
	if err != nil {
		return err
	}
	planned[key] = struct{}{}
	*steps = append(*steps, step{key: key, ctx: ctx})
	return nil
}

func (s *Scope) apply(st step) {
	fresh := st.ctx.Filter(func(def style.ClassDef) bool {
		return !s.ctx.Has(def.Name)
	})
	fresh.SetPrefix(s.prefix)

	if text := fresh.String(); text != "" {
		s.text.WriteString(text)
		if s.target != nil {
			s.target.AppendContent(text)
		}
	}
	for _, name := range fresh.ClassNames() {
		if _, ok := s.names[name]; !ok {
			s.names[name] = struct{}{}
			s.classes = append(s.classes, name)
		}
	}
	s.ctx.Merge(fresh)
	s.elems[st.key] = struct{}{}
	s.realized = append(s.realized, st.key)

	s.log.Debug("Component realized", zap.String("component", st.key), zap.Int("classes", fresh.Len()))
}

// HasClass reports whether class was emitted by the scope. Name may be
// given as emitted, with leading dot or without scope prefix.
func (s *Scope) HasClass(name string) bool {
	name = strings.TrimPrefix(name, ".")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.names[name]; ok {
		return true
	}
	_, ok := s.names[s.prefix+name]
	return ok
}

// ClassName returns emitted form of class name.
func (s *Scope) ClassName(name string) string {
	return s.prefix + strings.TrimPrefix(name, ".")
}

// Realized returns keys of realized components in order of realization.
func (s *Scope) Realized() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.realized)
}

// ClassNames returns emitted class names in order of emission.
func (s *Scope) ClassNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.classes)
}

// CSS returns accumulated stylesheet text.
func (s *Scope) CSS() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text.String()
}

// Context returns aggregate of all realized declarations. Returned context
// is shared with the scope.
func (s *Scope) Context() *style.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// Attach sets stylesheet target and fills it with accumulated text.
func (s *Scope) Attach(t Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = t
	if t != nil {
		t.SetContent(s.text.String())
	}
}

// Serialize returns scope state for transfer.
func (s *Scope) Serialize() Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Payload{
		Elems:   slices.Clone(s.realized),
		Classes: slices.Clone(s.classes),
		CSS:     s.text.String(),
	}
}

// Rehydrate replaces scope state with transferred one. No component
// declarations are evaluated, aggregate is rebuilt from payload stylesheet
// so later components may still inherit from transferred classes.
func (s *Scope) Rehydrate(p Payload) error {
	sheet := s.parser.Parse([]byte(p.CSS), "scope "+s.name)
	ctx := s.newContext()
	if err := style.ImportStylesheet(ctx, sheet, s.prefix); err != nil {
		return fmt.Errorf("scope %q: rehydrate: %w", s.name, err)
	}
	// classes without rules leave no trace in stylesheet text
	for _, emitted := range p.Classes {
		name, ok := strings.CutPrefix(emitted, s.prefix)
		if !ok || name == "" || ctx.Has(name) {
			continue
		}
		if err := ctx.AddClass(name, nil, nil); err != nil {
			return fmt.Errorf("scope %q: rehydrate: %w", s.name, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.realized = slices.Clone(p.Elems)
	s.elems = make(map[string]struct{}, len(p.Elems))
	for _, key := range p.Elems {
		s.elems[key] = struct{}{}
	}
	s.classes = slices.Clone(p.Classes)
	s.names = make(map[string]struct{}, len(p.Classes))
	for _, name := range p.Classes {
		s.names[name] = struct{}{}
	}
	s.text.Reset()
	s.text.WriteString(p.CSS)
	s.ctx = ctx
	if s.target != nil {
		s.target.SetContent(p.CSS)
	}

	s.log.Debug("Scope rehydrated", zap.Int("components", len(p.Elems)), zap.Int("classes", len(p.Classes)), zap.Int("warnings", len(sheet.Warnings)))
	return nil
}

// String returns readable dump of the scope for debugging.
func (s *Scope) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	tw := debug.NewTreeWriter()
	tw.Line(0, "Scope %q", s.name)
	tw.TextBlock(1, "Prefix", s.prefix)

	tw.Line(1, "Components: %d", len(s.realized))
	elems := slices.Collect(maps.Keys(s.elems))
	sort.Sort(natural.StringSlice(elems))
	for _, key := range elems {
		tw.Line(2, "%s", key)
	}

	tw.Line(1, "Classes: %d", len(s.classes))
	names := slices.Collect(maps.Keys(s.names))
	sort.Sort(natural.StringSlice(names))
	for _, name := range names {
		tw.Line(2, "%s", name)
	}

	tw.Block(1, "CSS", s.text.String())
	return tw.String()
}
