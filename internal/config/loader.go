package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WINGRID"

// Source records where a key was set.
type Source struct {
	File   string
	Line   int
	Column int
}

// LoadResult is a loaded configuration plus provenance.
type LoadResult struct {
	Config *Config
	// Path is the file that was read, or would have been.
	Path string
	// Found reports whether Path existed.
	Found bool
	// Sources maps dotted YAML paths to their location in Path.
	Sources map[string]Source
	// Env lists environment variables that overrode file values.
	Env []string
}

// envOverrides are the keys settable from the environment. Unset
// variables leave the file value alone.
type envOverrides struct {
	LogLevel      string `envconfig:"LOG_LEVEL"`
	MetricsAddr   string `envconfig:"METRICS_ADDR"`
	GapSize       *int   `envconfig:"GAP_SIZE"`
	DefaultTarget string `envconfig:"DEFAULT_TARGET"`
}

// DefaultConfigPath returns ~/.config/wingrid/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "wingrid", "config.yaml"), nil
}

// Load reads the default config file.
func Load() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads path on top of the defaults, applies environment
// overrides and validates the result. A missing file is not an error.
func LoadFromPath(path string) (*LoadResult, error) {
	cfg := DefaultConfig()
	res := &LoadResult{Config: cfg, Path: path, Sources: map[string]Source{}}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		res.Found = true
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err == nil {
			res.Sources = collectSources(&doc, path)
		}
		// grid_presets in the file replaces the built-in presets.
		if _, ok := res.Sources["grid_presets"]; ok {
			cfg.GridPresets = nil
		}
		if err := decodeStrictYAML(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	env, err := applyEnv(cfg)
	if err != nil {
		return nil, err
	}
	res.Env = env

	if err := cfg.Validate(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			if src, ok := res.Sources[ve.Path]; ok {
				ve.Source = src
			}
		}
		return nil, err
	}
	return res, nil
}

func applyEnv(cfg *Config) ([]string, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	var applied []string
	if env.LogLevel != "" {
		cfg.LogLevel = env.LogLevel
		applied = append(applied, EnvPrefix+"_LOG_LEVEL")
	}
	if env.MetricsAddr != "" {
		cfg.MetricsAddr = env.MetricsAddr
		applied = append(applied, EnvPrefix+"_METRICS_ADDR")
	}
	if env.GapSize != nil {
		cfg.GapSize = *env.GapSize
		applied = append(applied, EnvPrefix+"_GAP_SIZE")
	}
	if env.DefaultTarget != "" {
		cfg.DefaultTarget = env.DefaultTarget
		applied = append(applied, EnvPrefix+"_DEFAULT_TARGET")
	}
	return applied, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func collectSources(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	if doc == nil {
		return out
	}
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	collectSourcesRec(node, file, "", out)
	return out
}

func collectSourcesRec(node *yaml.Node, file string, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		out[path] = Source{File: file, Line: val.Line, Column: val.Column}
		collectSourcesRec(val, file, path, out)
	}
}
