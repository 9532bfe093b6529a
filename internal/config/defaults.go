package config

import "github.com/spf13/viper"

// setDefaults registers the built-in default values on v, so any field
// absent from the config file or environment still resolves to a
// sensible value.
func setDefaults(v *viper.Viper) {
	v.SetDefault("fuzzy_match.enabled", true)
	v.SetDefault("fuzzy_match.threshold", 70)

	v.SetDefault("semantic_match.enabled", true)
	v.SetDefault("semantic_match.threshold", 0.6)

	v.SetDefault("performance.max_workers", 8)
	v.SetDefault("performance.cache_size", 1000)
	v.SetDefault("performance.enable_progress", true)
	v.SetDefault("performance.enable_monitoring", false)

	v.SetDefault("trees.max_depth", 3)
	v.SetDefault("trees.entrypoint_threshold", 5)

	v.SetDefault("dependencies.cache_graphs", true)
	v.SetDefault("dependencies.max_graph_size", 10000)
	v.SetDefault("dependencies.enable_call_graph", true)
	v.SetDefault("dependencies.enable_impact_analysis", true)
	v.SetDefault("dependencies.centrality_algorithms", []string{
		"degree", "betweenness", "pagerank", "eigenvector", "closeness",
	})

	v.SetDefault("log_level", "info")
	v.SetDefault("refresh_cache", false)
}

// DefaultConfig returns configuration with every built-in default applied,
// with no config file or environment overrides layered on top.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)

	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}
