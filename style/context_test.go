package style

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"stylo/common"
	"stylo/css"
)

func raw(props css.Properties) map[string]string {
	out := make(map[string]string, len(props))
	for k, v := range props {
		out[k] = v.Raw
	}
	return out
}

func TestAddClass(t *testing.T) {
	ctx := NewContext(nil)

	if err := ctx.AddClass("btn", Rules{"color": "red", "padding": 4}, States{common.StateHover: {"color": "blue"}}); err != nil {
		t.Fatalf("AddClass() error = %v", err)
	}
	def, ok := ctx.Class("btn")
	if !ok {
		t.Fatal("class btn not found")
	}
	if diff := cmp.Diff(map[string]string{"color": "red", "padding": "4"}, raw(def.Base)); diff != "" {
		t.Errorf("base mismatch (-want +got):\n%s", diff)
	}
	if got := def.States[common.StateHover]["color"].Raw; got != "blue" {
		t.Errorf("hover color = %q, want blue", got)
	}

	err := ctx.AddClass("btn", Rules{"color": "green"}, nil)
	if !errors.Is(err, ErrDuplicateClass) {
		t.Errorf("duplicate AddClass() error = %v, want ErrDuplicateClass", err)
	}
	if def, _ := ctx.Class("btn"); def.Base["color"].Raw != "red" {
		t.Error("duplicate AddClass() clobbered existing declaration")
	}

	for _, bad := range []string{"", ".", "a b", "a:hover"} {
		if err := ctx.AddClass(bad, nil, nil); !errors.Is(err, ErrInvalidClass) {
			t.Errorf("AddClass(%q) error = %v, want ErrInvalidClass", bad, err)
		}
	}
}

func TestInheritClass(t *testing.T) {
	ctx := NewContext(nil)
	base := Rules{"color": "red", "margin": "0", "border": "1px solid"}
	if err := ctx.AddClass("A", base, States{
		common.StateHover:  {"color": "pink", "cursor": "pointer"},
		common.StateActive: {"color": "maroon"},
	}); err != nil {
		t.Fatal(err)
	}

	err := ctx.InheritClass("B", "A", Rules{"color": "blue", "padding": "2px"}, States{
		common.StateHover:    {"color": "navy"},
		common.StateDisabled: {"opacity": "0.5"},
	})
	if err != nil {
		t.Fatalf("InheritClass() error = %v", err)
	}

	b, _ := ctx.Class("B")
	if diff := cmp.Diff(map[string]string{"color": "blue", "margin": "0", "border": "1px solid", "padding": "2px"}, raw(b.Base)); diff != "" {
		t.Errorf("inherited base mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"color": "navy", "cursor": "pointer"}, raw(b.States[common.StateHover])); diff != "" {
		t.Errorf("inherited hover mismatch (-want +got):\n%s", diff)
	}
	if got := raw(b.States[common.StateActive]); got["color"] != "maroon" {
		t.Errorf("active state not inherited: %v", got)
	}
	if got := raw(b.States[common.StateDisabled]); got["opacity"] != "0.5" {
		t.Errorf("disabled state not added: %v", got)
	}

	a, _ := ctx.Class("A")
	if a.Base["color"].Raw != "red" || a.States[common.StateHover]["color"].Raw != "pink" {
		t.Error("InheritClass() modified source declaration")
	}

	if err := ctx.InheritClass("C", "missing", nil, nil); !errors.Is(err, ErrUnknownClass) {
		t.Errorf("InheritClass() from unknown source error = %v, want ErrUnknownClass", err)
	}
	if err := ctx.InheritClass("B", "A", nil, nil); !errors.Is(err, ErrDuplicateClass) {
		t.Errorf("InheritClass() onto existing name error = %v, want ErrDuplicateClass", err)
	}
}

func TestInheritClassFromParent(t *testing.T) {
	parent := NewContext(nil)
	if err := parent.AddClass("base", Rules{"color": "red"}, nil); err != nil {
		t.Fatal(err)
	}

	ctx := NewContext(nil, WithParent(parent))
	if err := ctx.InheritClass("derived", ".base", Rules{"margin": "1px"}, nil); err != nil {
		t.Fatalf("InheritClass() error = %v", err)
	}
	if ctx.Has("base") {
		t.Error("parent class must not be copied into child")
	}
	d, _ := ctx.Class("derived")
	if d.Base["color"].Raw != "red" || d.Base["margin"].Raw != "1px" {
		t.Errorf("derived base = %v", raw(d.Base))
	}
}

func TestResolverValues(t *testing.T) {
	preset := NewPreset("p", map[string]any{"fg": "#111", "radius": 3.5})
	ctx := NewContext(preset)

	err := ctx.AddClass("x", Rules{
		"color":         Ref("fg", "#000"),
		"background":    Ref("bg", "white"),
		"border-radius": NewResolver([]string{"radius"}, nil, func(v ...any) any { return v[0] }),
		"outline":       Ref("missing", nil),
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	d, _ := ctx.Class("x")
	want := map[string]string{"color": "#111", "background": "white", "border-radius": "3.5"}
	if diff := cmp.Diff(want, raw(d.Base)); diff != "" {
		t.Errorf("resolved values mismatch (-want +got):\n%s", diff)
	}
}

func TestPrefixTransparency(t *testing.T) {
	ctx := NewContext(nil)
	if err := ctx.AddClass("btn", Rules{"color": "red"}, nil); err != nil {
		t.Fatal(err)
	}
	ctx.SetPrefix("side-")

	if got := ctx.ClassNames(); len(got) != 1 || got[0] != "side-btn" {
		t.Errorf("ClassNames() = %v, want [side-btn]", got)
	}
	if got := ctx.Names(); got[0] != "btn" {
		t.Errorf("Names() = %v, want [btn]", got)
	}
	if !ctx.Has("btn") || ctx.Has("side-btn") {
		t.Error("identity must stay unprefixed")
	}
	if err := ctx.AddClass("btn", nil, nil); !errors.Is(err, ErrDuplicateClass) {
		t.Errorf("duplicate detection affected by prefix: %v", err)
	}
	if err := ctx.InheritClass("btn2", "btn", nil, nil); err != nil {
		t.Errorf("inheritance lookup affected by prefix: %v", err)
	}
	if !strings.HasPrefix(ctx.String(), ".side-btn {") {
		t.Errorf("String() not prefixed:\n%s", ctx.String())
	}
}

func TestMergeFirstRegistrantWins(t *testing.T) {
	x := NewContext(nil)
	y := NewContext(nil)
	if err := x.AddClass("k", Rules{"color": "rule1"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := x.AddClass("only-x", Rules{"color": "x"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := y.AddClass("k", Rules{"color": "rule2"}, nil); err != nil {
		t.Fatal(err)
	}

	y.Merge(x)

	k, _ := y.Class("k")
	if k.Base["color"].Raw != "rule2" {
		t.Errorf("merged k = %q, want rule2", k.Base["color"].Raw)
	}
	if diff := cmp.Diff([]string{"k", "only-x"}, y.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderOrder(t *testing.T) {
	ctx := NewContext(nil)
	err := ctx.AddClass("a", Rules{"color": "red"}, States{
		common.StateDisabled: {"opacity": "0.5"},
		"visited":            {"color": "purple"},
		common.StateHover:    {"color": "blue"},
		common.StateActive:   {"color": "navy"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.SetIcon("a", Rules{"content": `"\f101"`}); err != nil {
		t.Fatal(err)
	}
	if err := ctx.AddClass("b", nil, States{common.StateFocus: {"outline": "none"}}); err != nil {
		t.Fatal(err)
	}

	var selectors []string
	for _, rule := range ctx.Stylesheet().Rules {
		selectors = append(selectors, rule.Selector.String())
	}
	want := []string{".a", ".a:hover", ".a:active", ".a:disabled", ".a:visited", ".a::before", ".b:focus"}
	if diff := cmp.Diff(want, selectors); diff != "" {
		t.Errorf("emission order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, ctx.ClassNames()); diff != "" {
		t.Errorf("ClassNames() mismatch (-want +got):\n%s", diff)
	}

	if err := ctx.SetIcon("missing", Rules{"content": "x"}); !errors.Is(err, ErrUnknownClass) {
		t.Errorf("SetIcon() on unknown class error = %v", err)
	}
}

func TestUseWithoutProviders(t *testing.T) {
	ctx := NewContext(nil)
	err := ctx.UseHolder(ComponentFunc{Name: "x"})
	if !errors.Is(err, ErrNoProviders) {
		t.Errorf("UseHolder() error = %v, want ErrNoProviders", err)
	}
}
