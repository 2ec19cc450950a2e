package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Every field maps to a
// flag; file values only fill in what the flags left at their defaults.
type FileConfig struct {
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`
	Format string `yaml:"format" json:"format"`

	Strategy string `yaml:"strategy" json:"strategy"`
	Primary  string `yaml:"primary" json:"primary"`
	Title    string `yaml:"title" json:"title"`

	Assets struct {
		Dir string `yaml:"dir" json:"dir"`
	} `yaml:"assets" json:"assets"`

	MathJax *bool `yaml:"mathjax" json:"mathjax"`
	Verbose bool  `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc into cfg for fields the flags left
// unset. Flags must already be parsed; explicit flag values win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.InputPath == "" && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if (cfg.Format == "" || cfg.Format == FormatMarkdown) && fc.Format != "" {
		cfg.Format = fc.Format
	}
	if (cfg.Strategy == "" || cfg.Strategy == "auto") && fc.Strategy != "" {
		cfg.Strategy = fc.Strategy
	}
	if cfg.Primary == "" && fc.Primary != "" {
		cfg.Primary = fc.Primary
	}
	if cfg.Title == "" && fc.Title != "" {
		cfg.Title = fc.Title
	}
	if cfg.AssetsDir == "" && fc.Assets.Dir != "" {
		cfg.AssetsDir = fc.Assets.Dir
	}
	if fc.MathJax != nil {
		cfg.MathJax = *fc.MathJax
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
