package state

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"stylo/common"
	"stylo/config"
	"stylo/style"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	if uptime := env.Uptime(); uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
}

func TestLocalEnv_RedirectAndRestore(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	// nothing to redirect without logger
	env.RedirectStdLog()
	env.RestoreStdLog()

	env.Log = zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	env.RedirectStdLog()
	if env.restoreStdLog == nil {
		t.Error("restore function not set")
	}
	env.RestoreStdLog()
}

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	return cfg
}

func TestInitialize(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Cfg = loadConfig(t)
	env.Cfg.Styling.DefaultScope = "main"
	env.Cfg.Styling.Themes = []config.ThemeConfig{{
		Component: "button",
		CSS:       ".btn { background: black; } .btn:hover { background: gray; } div p { color: red; }",
	}}
	env.Log = zaptest.NewLogger(t)

	if err := env.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if env.Providers == nil || env.Scopes == nil || env.Layers == nil {
		t.Fatal("environment not initialized")
	}
	if env.Layers.TierSize() != 1000 {
		t.Errorf("TierSize() = %d", env.Layers.TierSize())
	}
	if v, ok := env.Providers.Preset().Value("accent"); !ok || v != "#0066cc" {
		t.Errorf("preset accent = %v, %v", v, ok)
	}

	s, err := env.DefaultScope()
	if err != nil {
		t.Fatal(err)
	}
	if s.Name() != "main" || s.Prefix() != "main-" {
		t.Errorf("default scope %q prefix %q", s.Name(), s.Prefix())
	}
	button := style.ComponentFunc{Name: "button", Declare: func(ctx *style.Context) error {
		return ctx.AddClass("btn", style.Rules{"background": "blue"}, nil)
	}}
	if err := s.AddComponent(button); err != nil {
		t.Fatal(err)
	}
	want := ".main-btn {\n  background: black;\n}\n.main-btn:hover {\n  background: gray;\n}\n"
	if s.CSS() != want {
		t.Errorf("themed CSS = %q, want %q", s.CSS(), want)
	}
	if def, _ := s.Context().Class("btn"); def.States[common.StateHover]["background"].Raw != "gray" {
		t.Error("theme state not imported")
	}
}

func TestInitialize_Errors(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if err := env.Initialize(); err == nil {
		t.Error("Initialize() without configuration succeeded")
	}

	env.Cfg = loadConfig(t)
	env.Cfg.Styling.Themes = []config.ThemeConfig{
		{Component: "a", CSS: "p { color: red; }"},
		{Component: "b", CSS: "@media print { .x { color: red; } }"},
	}
	err := env.Initialize()
	if err == nil {
		t.Fatal("Initialize() with broken themes succeeded")
	}
	for _, name := range []string{`"a"`, `"b"`} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
}
