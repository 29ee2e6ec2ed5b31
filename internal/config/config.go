package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/analyze.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// AnalysisConfig contains knobs for the cleaning and aggregation passes
type AnalysisConfig struct {
	// Delimiter is the field separator of the source files.
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" default:";"`
	// TopN is the truncation size for ranking summaries.
	TopN int `yaml:"top_n" envconfig:"TOP_N" default:"10"`
	// MergeSoftDuplicates merges products whose names differ only in
	// letter case. Off by default: two product IDs sharing a
	// case-insensitive name are usually distinct catalog entries.
	MergeSoftDuplicates bool `yaml:"merge_soft_duplicates" envconfig:"MERGE_SOFT_DUPLICATES" default:"false"`
}

// DefaultConfig returns the configuration Load would produce with no
// environment or file overrides.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/analyze.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ReportsDir: "reports",
			LogsDir:    "logs",
		},
		Analysis: AnalysisConfig{
			Delimiter: ";",
			TopN:      10,
		},
	}
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("CARTSCOPE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges the file config under the env config. Environment
// values win when both are set.
func mergeConfigs(file, env Config) Config {
	merged := file

	if env.Logging.Level != "" && env.Logging.Level != "info" {
		merged.Logging.Level = env.Logging.Level
	}
	if merged.Logging.Level == "" {
		merged.Logging.Level = "info"
	}
	if env.Logging.Output != "" && env.Logging.Output != "console" {
		merged.Logging.Output = env.Logging.Output
	}
	if merged.Logging.Output == "" {
		merged.Logging.Output = "console"
	}
	if env.Logging.FilePath != "" && env.Logging.FilePath != "logs/analyze.log" {
		merged.Logging.FilePath = env.Logging.FilePath
	}
	if merged.Logging.FilePath == "" {
		merged.Logging.FilePath = "logs/analyze.log"
	}
	if merged.Logging.Format == "" {
		merged.Logging.Format = "json"
	}

	if env.Paths.DataDir != "" && env.Paths.DataDir != "data" {
		merged.Paths.DataDir = env.Paths.DataDir
	}
	if merged.Paths.DataDir == "" {
		merged.Paths.DataDir = "data"
	}
	if env.Paths.ReportsDir != "" && env.Paths.ReportsDir != "reports" {
		merged.Paths.ReportsDir = env.Paths.ReportsDir
	}
	if merged.Paths.ReportsDir == "" {
		merged.Paths.ReportsDir = "reports"
	}
	if env.Paths.LogsDir != "" && env.Paths.LogsDir != "logs" {
		merged.Paths.LogsDir = env.Paths.LogsDir
	}
	if merged.Paths.LogsDir == "" {
		merged.Paths.LogsDir = "logs"
	}

	if env.Analysis.Delimiter != "" && env.Analysis.Delimiter != ";" {
		merged.Analysis.Delimiter = env.Analysis.Delimiter
	}
	if merged.Analysis.Delimiter == "" {
		merged.Analysis.Delimiter = ";"
	}
	if env.Analysis.TopN != 0 && env.Analysis.TopN != 10 {
		merged.Analysis.TopN = env.Analysis.TopN
	}
	if merged.Analysis.TopN == 0 {
		merged.Analysis.TopN = 10
	}
	if env.Analysis.MergeSoftDuplicates {
		merged.Analysis.MergeSoftDuplicates = true
	}

	return merged
}

// validate checks configuration values for consistency
func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid log output: %s", c.Logging.Output)
	}

	if len([]rune(c.Analysis.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Analysis.Delimiter)
	}

	if c.Analysis.TopN < 1 {
		return fmt.Errorf("top_n must be positive, got %d", c.Analysis.TopN)
	}

	return nil
}

// DelimiterRune returns the configured field delimiter as a rune.
func (c *AnalysisConfig) DelimiterRune() rune {
	return []rune(c.Delimiter)[0]
}

// getConfigFilePath returns the path of the optional YAML config file,
// resolved next to the executable.
func getConfigFilePath() string {
	exe, err := os.Executable()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "config.yaml")
}
