package config

// Config represents the complete declscan configuration.
// It can be loaded from .declscan/config.yml with environment variable overrides.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
}

// PathsConfig defines which corpus files to extract and which to ignore.
type PathsConfig struct {
	Corpus []string `yaml:"corpus" mapstructure:"corpus"` // glob patterns for corpus source files
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// OutputConfig defines how symbol reports are rendered.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "json"
	Pretty bool   `yaml:"pretty" mapstructure:"pretty"` // indent JSON output
}

// StorageConfig defines where extracted symbols are persisted.
type StorageConfig struct {
	Location string `yaml:"location" mapstructure:"location"` // Override default .declscan/symbols.db
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Corpus: []string{
				"**/*.c",
				"**/*.h",
			},
			Ignore: []string{
				".git/**",
				"build/**",
				"vendor/**",
			},
		},
		Output: OutputConfig{
			Format: "json",
			Pretty: false,
		},
		Storage: StorageConfig{
			Location: "", // Empty means use default .declscan/symbols.db
		},
	}
}
