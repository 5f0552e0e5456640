package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"stylo/dom"
	"stylo/scope"
	"stylo/state"
	"stylo/widgets"
)

func runHydrate(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no source page specified")
	}
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	src := cmd.Args().Get(0)

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read page '%s': %w", src, err)
	}
	doc, err := dom.Parse(data, env.Log)
	if err != nil {
		return err
	}

	if err := hydratePage(env, doc, cmd.String("scope"), cmd.StringSlice("add")); err != nil {
		return err
	}

	for _, s := range env.Scopes.Scopes() {
		fmt.Fprint(os.Stdout, s.String())
	}

	out := cmd.String("out")
	if len(out) == 0 {
		return nil
	}
	if data, err = doc.Bytes(); err != nil {
		return fmt.Errorf("unable to serialize page: %w", err)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("unable to write page '%s': %w", out, err)
	}
	env.Log.Info("Page updated", zap.String("file", out))
	return nil
}

// hydratePage performs client side pass: restores scopes from payloads
// embedded in the page and realizes additional components on top of them.
func hydratePage(env *state.LocalEnv, doc *dom.Document, scopeName string, add []string) error {
	if !widgets.IsKnown(add...) {
		return fmt.Errorf("unknown component in %v, known are: %s", add, strings.Join(widgets.Names(), ", "))
	}
	if err := env.Initialize(scope.WithTargetFactory(func(name string) scope.Target {
		return doc.StyleElement(name)
	})); err != nil {
		return fmt.Errorf("unable to initialize styling: %w", err)
	}

	restored, err := doc.Restore(env.Scopes)
	if err != nil {
		env.Log.Warn("Some scopes could not be restored", zap.Error(err))
	}
	env.Log.Info("Scopes restored", zap.Strings("scopes", restored))

	if len(add) == 0 {
		return nil
	}

	sc, err := env.Scopes.Get(cmp.Or(scopeName, env.Cfg.Styling.DefaultScope))
	if err != nil {
		return err
	}
	var errs error
	for _, name := range add {
		comp, _ := widgets.Lookup(name)
		if err := sc.AddComponent(comp); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("component %q: %w", name, err))
		}
	}
	if errs != nil {
		env.Log.Error("Unable to realize some components", zap.Error(errs))
	}
	// payloads must follow what was realized
	return doc.Publish(env.Scopes)
}
