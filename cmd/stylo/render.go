package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"stylo/common"
	"stylo/config"
	"stylo/dom"
	"stylo/scope"
	"stylo/state"
	"stylo/style"
	"stylo/widgets"
)

const pageExt = ".xhtml"

type renderRequest struct {
	scope      string
	title      string
	components []string
	windows    []string
	focus      string
}

// placement of a sample component on the page
type placement struct {
	name    string
	classes []string
	z       int
	text    string
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	req := renderRequest{
		scope:   cmd.String("scope"),
		title:   cmd.String("title"),
		windows: cmd.StringSlice("window"),
		focus:   cmd.String("focus"),
	}

	var dst string
	for _, arg := range cmd.Args().Slice() {
		if strings.EqualFold(filepath.Ext(arg), pageExt) {
			if len(dst) > 0 {
				env.Log.Warn("Malformed command line, too many destinations", zap.String("ignoring", arg))
				continue
			}
			dst = arg
			continue
		}
		req.components = append(req.components, arg)
	}
	if len(dst) == 0 {
		dst = config.OutputFileName(req.title, pageExt)
	}
	if _, err := os.Stat(dst); err == nil && !cmd.Bool("overwrite") {
		return fmt.Errorf("destination '%s' already exists", dst)
	}

	doc, err := renderPage(env, req)
	if err != nil {
		return err
	}

	data, err := doc.Bytes()
	if err != nil {
		return fmt.Errorf("unable to serialize page: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("unable to write page '%s': %w", dst, err)
	}
	env.Rpt.StoreData("page/"+filepath.Base(dst), data)

	env.Log.Info("Page rendered", zap.String("file", dst), zap.Strings("scopes", env.Scopes.Names()), zap.Int("bytes", len(data)))
	return nil
}

// renderPage performs server side pass: realizes requested components into
// scope, stacks windows and publishes every scope into new page.
func renderPage(env *state.LocalEnv, req renderRequest) (*dom.Document, error) {
	if len(req.components) == 0 {
		req.components = widgets.Names()
		// windows are placed separately
		req.components = slices.DeleteFunc(req.components, func(name string) bool { return name == "window" })
	}
	if !widgets.IsKnown(req.components...) {
		return nil, fmt.Errorf("unknown component in %v, known are: %s", req.components, strings.Join(widgets.Names(), ", "))
	}

	doc := dom.NewDocument(req.title, env.Log)
	if err := env.Initialize(scope.WithTargetFactory(func(name string) scope.Target {
		return doc.StyleElement(name)
	})); err != nil {
		return nil, fmt.Errorf("unable to initialize styling: %w", err)
	}

	sc, err := env.Scopes.Get(cmp.Or(req.scope, env.Cfg.Styling.DefaultScope))
	if err != nil {
		return nil, err
	}

	var placed []placement
	for _, name := range req.components {
		comp, _ := widgets.Lookup(name)
		p, err := realize(env, sc, comp)
		if err != nil {
			// declaration failure affects single component only
			env.Log.Error("Unable to realize component, skipping", zap.String("component", name), zap.Error(err))
			continue
		}
		placed = append(placed, p)
	}

	windows, err := stackWindows(env, req.windows, req.focus)
	if err != nil {
		return nil, err
	}
	if len(windows) > 0 {
		p, err := realize(env, sc, windows[0])
		if err != nil {
			return nil, fmt.Errorf("unable to realize windows: %w", err)
		}
		for _, w := range windows {
			placed = append(placed, placement{name: p.name, classes: p.classes, z: w.ZIndex(), text: w.Title})
		}
	}

	for _, p := range placed {
		doc.AppendWidget(widgetTag(p.name), p.classes, p.z, p.text)
	}
	if err := doc.Publish(env.Scopes); err != nil {
		return nil, fmt.Errorf("unable to publish scopes: %w", err)
	}

	for _, s := range env.Scopes.Scopes() {
		env.Rpt.StoreData("scopes/"+s.Name()+".css", []byte(s.CSS()))
	}
	if len(windows) > 0 {
		env.Rpt.StoreData("layers.txt", []byte(env.Layers.String()))
	}
	return doc, nil
}

// realize adds component to scope and returns emitted class names of its
// own context.
func realize(env *state.LocalEnv, sc *scope.Scope, comp style.Component) (placement, error) {
	p := placement{name: comp.ComponentName(), z: -1}
	if err := sc.AddComponent(comp); err != nil {
		return p, err
	}
	ctx, err := env.Providers.Context(comp)
	if err != nil {
		return p, err
	}
	for _, name := range ctx.Names() {
		p.classes = append(p.classes, sc.ClassName(name))
	}
	return p, nil
}

// stackWindows creates windows from TITLE[@TIER] definitions and raises them
// in order, focused window is raised once more at the end.
func stackWindows(env *state.LocalEnv, defs []string, focus string) ([]*widgets.Window, error) {
	windows := make([]*widgets.Window, 0, len(defs))
	for _, def := range defs {
		w, err := parseWindow(def)
		if err != nil {
			return nil, err
		}
		env.Layers.RaiseToFront(w)
		windows = append(windows, w)
	}
	if len(focus) == 0 {
		return windows, nil
	}
	i := slices.IndexFunc(windows, func(w *widgets.Window) bool { return w.Title == focus })
	if i < 0 {
		return nil, fmt.Errorf("no window titled %q to focus", focus)
	}
	z, _ := env.Layers.RaiseToFront(windows[i])
	env.Log.Debug("Window focused", zap.Stringer("window", windows[i]), zap.Int("z-index", z))
	return windows, nil
}

func parseWindow(def string) (*widgets.Window, error) {
	title, tier := def, common.TierMid
	if i := strings.LastIndexByte(def, '@'); i >= 0 {
		var err error
		if tier, err = common.ParseTier(def[i+1:]); err != nil {
			return nil, fmt.Errorf("window %q: %w", def, err)
		}
		title = def[:i]
	}
	if len(strings.TrimSpace(title)) == 0 {
		return nil, errors.New("window title is empty")
	}
	return widgets.NewWindow(title, tier), nil
}

func widgetTag(name string) string {
	switch name {
	case "button", "primary-button":
		return "button"
	case "input":
		return "input"
	case "label":
		return "span"
	default:
		return "div"
	}
}
