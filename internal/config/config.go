// Package config loads the JSON configuration document that drives the
// analysis engine, layering defaults, an optional config file, and
// REPOMAP_*-prefixed environment overrides through spf13/viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/repomap-dev/repomap/internal/errs"
)

// ConfigFileName is the name of the repomap configuration file.
const ConfigFileName = "config.json"

// ConfigDirName is the name of the repomap configuration directory.
const ConfigDirName = ".repomap"

// EnvPrefix is the prefix viper uses for environment-variable overrides,
// e.g. REPOMAP_FUZZY_MATCH_THRESHOLD overrides fuzzy_match.threshold.
const EnvPrefix = "REPOMAP"

// Config holds the full configuration document, matching the JSON
// schema consumed by the CLI and any other embedding caller.
type Config struct {
	ProjectRoot  string             `mapstructure:"project_root"`
	FuzzyMatch   FuzzyMatchConfig   `mapstructure:"fuzzy_match"`
	SemanticMatch SemanticMatchConfig `mapstructure:"semantic_match"`
	Performance  PerformanceConfig  `mapstructure:"performance"`
	Trees        TreesConfig        `mapstructure:"trees"`
	Dependencies DependenciesConfig `mapstructure:"dependencies"`
	LogLevel     string             `mapstructure:"log_level"`
	RefreshCache bool               `mapstructure:"refresh_cache"`
}

// FuzzyMatchConfig configures the token-aware fuzzy matcher.
type FuzzyMatchConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	Threshold int  `mapstructure:"threshold"` // 0-100
}

// SemanticMatchConfig configures the domain-bucket semantic matcher.
type SemanticMatchConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Threshold float64 `mapstructure:"threshold"` // 0.0-1.0
}

// PerformanceConfig configures worker pool sizing and monitoring.
type PerformanceConfig struct {
	MaxWorkers        int  `mapstructure:"max_workers"`
	CacheSize         int  `mapstructure:"cache_size"`
	EnableProgress    bool `mapstructure:"enable_progress"`
	EnableMonitoring  bool `mapstructure:"enable_monitoring"`
}

// TreesConfig configures skeleton-tree rendering limits.
type TreesConfig struct {
	MaxDepth           int `mapstructure:"max_depth"`
	EntrypointThreshold int `mapstructure:"entrypoint_threshold"`
}

// DependenciesConfig configures dependency-graph and centrality behavior.
type DependenciesConfig struct {
	CacheGraphs            bool     `mapstructure:"cache_graphs"`
	MaxGraphSize           int      `mapstructure:"max_graph_size"`
	EnableCallGraph        bool     `mapstructure:"enable_call_graph"`
	EnableImpactAnalysis   bool     `mapstructure:"enable_impact_analysis"`
	CentralityAlgorithms   []string `mapstructure:"centrality_algorithms"`
}

// ErrConfigNotFound is returned when no config file can be found.
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .repomap/config.json, falling back to defaults
// merged with any REPOMAP_* environment overrides. It searches for the
// config directory starting from workDir and walking up the tree.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return loadWithOverrides(workDir, "")
	}
	return loadWithOverrides(workDir, filepath.Join(configDir, ConfigFileName))
}

// LoadFromPath reads config from a specific path, merging defaults and
// REPOMAP_* environment overrides, then validates the result.
func LoadFromPath(path string) (*Config, error) {
	return loadWithOverrides(filepath.Dir(path), path)
}

func loadWithOverrides(workDir, path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, errs.New(errs.Configuration, fmt.Sprintf("reading config file %s", path), err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errs.New(errs.Configuration, "decoding config", err)
	}
	if cfg.ProjectRoot == "" {
		abs, err := filepath.Abs(workDir)
		if err == nil {
			cfg.ProjectRoot = abs
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigDir locates the .repomap directory by walking up from startDir.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errs.New(errs.Configuration, "resolving config dir path", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .repomap directory if it doesn't exist.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", errs.New(errs.Configuration, "resolving work dir path", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", errs.New(errs.Configuration, fmt.Sprintf("%s exists but is not a directory", configDir), os.ErrExist)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", errs.New(errs.Configuration, "creating config directory", err)
	}

	return configDir, nil
}

// Validate checks that config values are within their documented ranges.
func Validate(cfg *Config) error {
	if cfg.FuzzyMatch.Threshold < 0 || cfg.FuzzyMatch.Threshold > 100 {
		return errs.New(errs.Validation, fmt.Sprintf("fuzzy_match.threshold must be 0-100, got %d",
			cfg.FuzzyMatch.Threshold), ErrInvalidConfig)
	}
	if cfg.SemanticMatch.Threshold < 0 || cfg.SemanticMatch.Threshold > 1 {
		return errs.New(errs.Validation, fmt.Sprintf("semantic_match.threshold must be 0.0-1.0, got %f",
			cfg.SemanticMatch.Threshold), ErrInvalidConfig)
	}
	if cfg.Performance.MaxWorkers <= 0 {
		return errs.New(errs.Validation, fmt.Sprintf("performance.max_workers must be positive, got %d",
			cfg.Performance.MaxWorkers), ErrInvalidConfig)
	}
	if cfg.Trees.MaxDepth < 0 {
		return errs.New(errs.Validation, fmt.Sprintf("trees.max_depth must be non-negative, got %d",
			cfg.Trees.MaxDepth), ErrInvalidConfig)
	}
	if cfg.Dependencies.MaxGraphSize <= 0 {
		return errs.New(errs.Validation, fmt.Sprintf("dependencies.max_graph_size must be positive, got %d",
			cfg.Dependencies.MaxGraphSize), ErrInvalidConfig)
	}
	return nil
}

// SaveDefault writes the default configuration to .repomap/config.json in
// workDir, creating the directory if needed.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", errs.New(errs.Configuration, fmt.Sprintf("config file already exists: %s", configPath), os.ErrExist)
	}

	v := viper.New()
	v.SetConfigType("json")
	setDefaults(v)
	v.Set("project_root", workDir)

	if err := v.WriteConfigAs(configPath); err != nil {
		return "", errs.New(errs.Configuration, "writing config file", err)
	}

	return configPath, nil
}
