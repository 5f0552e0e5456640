package state

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"stylo/css"
	"stylo/layer"
	"stylo/scope"
	"stylo/style"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

// Initialize builds preset, provider cache, scope and layer registries from
// loaded configuration. Configuration and logger must be set.
func (e *LocalEnv) Initialize(opts ...scope.RegistryOption) error {
	if e.Cfg == nil {
		return errors.New("configuration is not loaded")
	}
	if e.Log == nil {
		e.Log = zap.NewNop()
	}

	preset, err := e.preparePreset()
	if err != nil {
		return err
	}

	e.Providers = style.NewProviders(preset, e.Log)
	e.Scopes = scope.NewRegistry(e.Providers, e.Log, opts...)
	e.Layers = layer.NewRegistry(e.Cfg.Layers.TierSize, e.Log, layer.WithCompactThreshold(e.Cfg.Layers.CompactThreshold))

	e.Log.Debug("Styling initialized",
		zap.String("preset", preset.Name()),
		zap.Strings("values", preset.Names()),
		zap.Int("themes", len(e.Cfg.Styling.Themes)),
		zap.String("default scope", e.Cfg.Styling.DefaultScope))
	return nil
}

func (e *LocalEnv) preparePreset() (*style.Preset, error) {
	conf := e.Cfg.Styling
	preset := style.NewPreset(conf.Preset.Name, conf.Preset.Values)

	parser := css.NewParser(e.Log)
	var errs error
	for _, theme := range conf.Themes {
		sheet := parser.Parse([]byte(theme.CSS), "theme "+theme.Component)
		for _, w := range sheet.Warnings {
			e.Log.Warn("Theme CSS ignored", zap.String("component", theme.Component), zap.String("reason", w))
		}
		if len(sheet.Classes()) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("theme for %q declares no classes", theme.Component))
			continue
		}
		preset = preset.WithOverride(theme.Component, style.DeclareCSS(sheet))
		e.Rpt.StoreData("theme-"+theme.Component+".css", []byte(sheet.String()))
	}
	if errs != nil {
		return nil, fmt.Errorf("unable to prepare themes: %w", errs)
	}
	return preset, nil
}
