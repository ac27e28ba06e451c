package config

// DefaultConfig returns the built-in configuration used when no config file
// exists.
func DefaultConfig() *Config {
	return &Config{
		DB: DBConfig{
			Driver: "sqlite",
			Path:   "graph.db",
		},
		Discovery: DiscoveryConfig{
			MaxDepth:      5,
			MaxSymbols:    500,
			MaxIterations: 3,
			MinRelevance:  0,
		},
		Semantic: SemanticConfig{
			Enabled:   false,
			Model:     "all-minilm",
			Threshold: 0.35,
		},
	}
}
