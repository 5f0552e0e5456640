package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"stylo/css"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	PresetConfig struct {
		Name   string         `yaml:"name" validate:"required"`
		Values map[string]any `yaml:"values"`
	}

	// ThemeConfig replaces style declarations of a single component with
	// classes described by CSS text.
	ThemeConfig struct {
		Component string `yaml:"component" validate:"required"`
		CSS       string `yaml:"css" validate:"required"`
	}

	StylingConfig struct {
		Preset       PresetConfig  `yaml:"preset"`
		Themes       []ThemeConfig `yaml:"themes" validate:"dive"`
		DefaultScope string        `yaml:"default_scope" validate:"required"`
	}

	LayersConfig struct {
		TierSize         int `yaml:"tier_size" validate:"min=10"`
		CompactThreshold int `yaml:"compact_threshold" validate:"gte=0"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Styling   StylingConfig  `yaml:"styling"`
		Layers    LayersConfig   `yaml:"layers"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	ThemeCSSFieldName TemplateFieldName = "css"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(ThemeCSSFieldName)),
)

// checkConfig performs validations which cannot be expressed with tags.
func checkConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	if cfg.Layers.CompactThreshold > cfg.Layers.TierSize {
		// positions of bigger tier would spill into the next one
		sl.ReportError(cfg.Layers.CompactThreshold, "compact_threshold", "CompactThreshold", "ltefield", "TierSize")
	}

	seen := make(map[string]struct{}, len(cfg.Styling.Themes))
	parser := css.NewParser(nil)
	for i, theme := range cfg.Styling.Themes {
		field := fmt.Sprintf("Themes[%d]", i)
		if _, ok := seen[theme.Component]; ok {
			sl.ReportError(theme.Component, "component", field+".Component", "unique", "")
		}
		seen[theme.Component] = struct{}{}
		if len(theme.CSS) > 0 && len(parser.Parse([]byte(theme.CSS)).Classes()) == 0 {
			sl.ReportError(theme.CSS, "css", field+".CSS", "classes", "")
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkConfig)); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
