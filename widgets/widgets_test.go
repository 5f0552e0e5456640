package widgets

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"stylo/common"
	"stylo/layer"
	"stylo/scope"
	"stylo/style"
)

var _ layer.Element = (*Window)(nil)

func TestButtonStyles(t *testing.T) {
	preset := style.NewPreset("test", map[string]any{"accent": "#123456", "spacing": 6, "radius": "50%"})
	ctx, err := style.NewProviders(preset, zaptest.NewLogger(t)).Context(Button{})
	if err != nil {
		t.Fatal(err)
	}
	btn, ok := ctx.Class("btn")
	if !ok {
		t.Fatal("btn not declared")
	}
	want := map[string]string{
		"background":    "#123456",
		"color":         "#ffffff",
		"border":        "none",
		"border-radius": "50%",
		"padding":       "6px 12px",
		"cursor":        "pointer",
	}
	got := make(map[string]string)
	for name, v := range btn.Base {
		got[name] = v.Raw
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("btn mismatch (-want +got):\n%s", diff)
	}
	if got := btn.States[common.StateDisabled]["opacity"].Raw; got != "0.5" {
		t.Errorf("disabled opacity = %q", got)
	}
}

func TestRealizeAll(t *testing.T) {
	s := scope.New("main", style.NewProviders(nil, zaptest.NewLogger(t)), scope.WithLogger(zaptest.NewLogger(t)))
	for _, name := range []string{"panel", "primary-button", "input", "label", "window", "button"} {
		c, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) failed", name)
		}
		if err := s.AddComponent(c); err != nil {
			t.Fatalf("AddComponent(%q) error = %v", name, err)
		}
	}

	if diff := cmp.Diff([]string{"panel", "button", "primary-button", "input", "window"}, s.Realized()); diff != "" {
		t.Errorf("Realized() mismatch (-want +got):\n%s", diff)
	}
	wantClasses := []string{"main-btn", "main-panel", "main-panel-title", "main-btn-primary", "main-input", "main-window"}
	if diff := cmp.Diff(wantClasses, s.ClassNames()); diff != "" {
		t.Errorf("ClassNames() mismatch (-want +got):\n%s", diff)
	}

	css := s.CSS()
	for _, want := range []string{
		".main-btn-primary {\n  background: #2e7d32;\n",
		".main-btn-primary:hover {\n  background: #1b5e20;\n}\n",
		".main-input::before {\n  content: \"\\2315\";\n",
		".main-input:focus {\n  outline: 2px solid #0066cc;\n}\n",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("CSS missing %q:\n%s", want, css)
		}
	}
	if strings.Count(css, ".main-btn {") != 1 {
		t.Errorf("btn emitted more than once:\n%s", css)
	}
}

func TestTransferAggregateMatches(t *testing.T) {
	server := scope.New("main", style.NewProviders(nil, zaptest.NewLogger(t)))
	for _, name := range Names() {
		c, _ := Lookup(name)
		if err := server.AddComponent(c); err != nil {
			t.Fatalf("AddComponent(%q) error = %v", name, err)
		}
	}

	client := scope.New("main", style.NewProviders(nil, nil), scope.WithLogger(zaptest.NewLogger(t)))
	if err := client.Rehydrate(server.Serialize()); err != nil {
		t.Fatalf("Rehydrate() error = %v", err)
	}
	if diff := cmp.Diff(server.Context().String(), client.Context().String()); diff != "" {
		t.Errorf("aggregate mismatch (-want +got):\n%s", diff)
	}
	def, _ := client.Context().Class("window")
	if got := def.Base["box-shadow"].Raw; got != "0 2px 8px rgba(0, 0, 0, 0.3)" {
		t.Errorf("rehydrated box-shadow = %q", got)
	}
}

func TestThemeOverride(t *testing.T) {
	preset := style.NewPreset("flat", nil).WithOverride("button", func(ctx *style.Context) error {
		return ctx.AddClass("btn", style.Rules{"background": "transparent"}, nil)
	})
	s := scope.New("", style.NewProviders(preset, nil))
	if err := s.AddComponent(PrimaryButton{}); err != nil {
		t.Fatal(err)
	}
	want := ".btn {\n  background: transparent;\n}\n" +
		".btn-primary {\n  background: #2e7d32;\n  font-weight: bold;\n}\n" +
		".btn-primary:hover {\n  background: #1b5e20;\n}\n" +
		".btn-primary:active {\n  background: #124116;\n}\n"
	if diff := cmp.Diff(want, s.CSS()); diff != "" {
		t.Errorf("CSS mismatch (-want +got):\n%s", diff)
	}
}

func TestWindowLayers(t *testing.T) {
	reg := layer.NewRegistry(0, zaptest.NewLogger(t))
	a, b := NewWindow("a", common.TierForeground), NewWindow("b", common.TierForeground)
	if a.ZIndex() != -1 {
		t.Errorf("fresh window z-index = %d", a.ZIndex())
	}
	reg.RaiseToFront(a)
	reg.RaiseToFront(b)
	reg.RaiseToFront(a)
	if a.ZIndex() != 2001 || b.ZIndex() != 2000 {
		t.Errorf("z-indices a=%d b=%d", a.ZIndex(), b.ZIndex())
	}

	b.Hide()
	reg.Compact()
	if a.ZIndex() != 2000 {
		t.Errorf("z-index after compact = %d", a.ZIndex())
	}

	a.SetTier(common.TierUrgent)
	if z, _ := reg.RaiseToFront(a); z != 4000 || a.String() != `window "a"` {
		t.Errorf("raise after reclassification = %d", z)
	}
}

func TestCatalog(t *testing.T) {
	if !IsKnown("button", "label") || IsKnown("button", "nope") {
		t.Error("IsKnown() wrong")
	}
	if diff := cmp.Diff([]string{"button", "input", "label", "panel", "primary-button", "window"}, Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}
