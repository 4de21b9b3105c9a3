package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"rstyle/breakpoints"
	"rstyle/validate"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	EngineConfig struct {
		// Replaces built-in list when not empty
		ProtectedSelectors []string `yaml:"protected_selectors" validate:"dive,required"`
		HelperPrefix       string   `yaml:"helper_prefix" validate:"required,alphanum"`
		VerifyOutput       bool     `yaml:"verify_output"`
	}

	BreakpointConfig struct {
		Name       string  `yaml:"name" validate:"required,excludesall= {}<>;"`
		MediaQuery string  `yaml:"media_query" validate:"excludesall={}<>;"`
		Width      float64 `yaml:"width" validate:"gt=0"`
		Height     float64 `yaml:"height" validate:"gt=0"`
	}

	ValidationConfig struct {
		MaxSelectorLength int `yaml:"max_selector_length" validate:"gte=0"`
		MaxStringLength   int `yaml:"max_string_length" validate:"gte=0"`
		MaxURLLength      int `yaml:"max_url_length" validate:"gte=0"`
	}

	CacheConfig struct {
		TTL time.Duration `yaml:"ttl" validate:"gt=0"`
	}

	StoreConfig struct {
		Path string `yaml:"path" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
	}

	Config struct {
		Version     int                `yaml:"version" validate:"eq=1"`
		Engine      EngineConfig       `yaml:"engine"`
		Breakpoints []BreakpointConfig `yaml:"breakpoints" validate:"dive"`
		Validation  ValidationConfig   `yaml:"validation"`
		Cache       CacheConfig        `yaml:"cache"`
		Store       StoreConfig        `yaml:"store"`
		Logging     LoggingConfig      `yaml:"logging"`
		Reporting   ReporterConfig     `yaml:"reporting"`
	}
)

// Definitions returns configured breakpoints in registry form. Entries
// with built-in names override the defaults.
func (cfg *Config) Definitions() []breakpoints.Definition {
	defs := make([]breakpoints.Definition, 0, len(cfg.Breakpoints))
	for _, b := range cfg.Breakpoints {
		defs = append(defs, breakpoints.Definition{
			Name:       b.Name,
			MediaQuery: b.MediaQuery,
			Width:      b.Width,
			Height:     b.Height,
		})
	}
	return defs
}

// Limits returns validator bounds, zero values select validator defaults.
func (cfg *Config) Limits() validate.Limits {
	return validate.Limits{
		MaxSelectorLength: cfg.Validation.MaxSelectorLength,
		MaxStringLength:   cfg.Validation.MaxStringLength,
		MaxURLLength:      cfg.Validation.MaxURLLength,
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
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
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
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
