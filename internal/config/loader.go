package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".missioncontrol"

// xdgConfigFile is the file name looked up inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the configuration file.
// Zero values mean "not set" and leave the corresponding Config field alone.
type File struct {
	Server  ServerFile  `yaml:"server,omitempty"`
	Batch   BatchFile   `yaml:"batch,omitempty"`
	Output  OutputFile  `yaml:"output,omitempty"`
	Log     LogFile     `yaml:"log,omitempty"`
	Journal JournalFile `yaml:"journal,omitempty"`
}

// ServerFile holds the HTTP server section.
type ServerFile struct {
	Listen          string        `yaml:"listen,omitempty"`
	ReadTimeout     time.Duration `yaml:"readTimeout,omitempty"`
	WriteTimeout    time.Duration `yaml:"writeTimeout,omitempty"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout,omitempty"`
	MaxBodySize     int64         `yaml:"maxBodySize,omitempty"`
	MaxConnections  int           `yaml:"maxConnections,omitempty"`
}

// BatchFile holds the batch processing section.
type BatchFile struct {
	Size int `yaml:"size,omitempty"`
}

// OutputFile holds the output section.
type OutputFile struct {
	Format string `yaml:"format,omitempty"`
}

// LogFile holds the logging section.
type LogFile struct {
	Format  string `yaml:"format,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// JournalFile holds the intake journal section.
type JournalFile struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply copies every value set in the file onto cfg.
// CLI flags are applied afterwards so that they take precedence.
func (cf *File) Apply(cfg *Config) {
	if cf.Server.Listen != "" {
		cfg.ListenAddress = cf.Server.Listen
	}
	if cf.Server.ReadTimeout != 0 {
		cfg.ReadTimeout = cf.Server.ReadTimeout
	}
	if cf.Server.WriteTimeout != 0 {
		cfg.WriteTimeout = cf.Server.WriteTimeout
	}
	if cf.Server.ShutdownTimeout != 0 {
		cfg.ShutdownTimeout = cf.Server.ShutdownTimeout
	}
	if cf.Server.MaxBodySize != 0 {
		cfg.MaxBodySize = cf.Server.MaxBodySize
	}
	if cf.Server.MaxConnections != 0 {
		cfg.MaxConnections = cf.Server.MaxConnections
	}
	if cf.Batch.Size != 0 {
		cfg.BatchSize = cf.Batch.Size
	}
	if cf.Output.Format != "" {
		cfg.OutputFormat = cf.Output.Format
	}
	if cf.Log.Format != "" {
		cfg.LogFormat = cf.Log.Format
	}
	if cf.Log.Verbose {
		cfg.Verbose = true
	}
	if cf.Journal.Enabled {
		cfg.SaveToDB = true
	}
	if cf.Journal.Dir != "" {
		cfg.DBDir = cf.Journal.Dir
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .missioncontrol in the current directory
// 3. Look for .missioncontrol in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
