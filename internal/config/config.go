package config

import (
	"net"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Output formats accepted by the orchestrate and history commands.
const (
	OutputText     = "text"
	OutputJSON     = "json"
	OutputMarkdown = "markdown"
)

// Log formats accepted by the --log-format flag and the config file.
const (
	LogText = "text"
	LogJSON = "json"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "missioncontrol"

	// DefaultListenAddress binds to loopback only; exposing the server
	// beyond the local host is an explicit choice.
	DefaultListenAddress = "127.0.0.1:8080"

	// DefaultReadTimeout bounds how long a client may take to send a request.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout bounds how long writing a response may take.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultShutdownTimeout is how long in-flight requests get to finish
	// after a shutdown signal.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultMaxBodySize limits request bodies to 1MB.
	DefaultMaxBodySize = 1 << 20

	// DefaultMaxConnections caps simultaneously accepted connections.
	DefaultMaxConnections = 256

	// DefaultBatchSize is the number of requests processed concurrently by
	// the orchestrate command.
	DefaultBatchSize = 10

	// DefaultOutputFormat is the plain output document.
	DefaultOutputFormat = OutputText

	// DefaultLogFormat is slog's text format.
	DefaultLogFormat = LogText
)

// Config holds all configuration options for Mission Control.
// It is populated from the config file and CLI flags and passed through the
// application explicitly rather than kept in global state.
type Config struct {
	// ListenAddress is the "host:port" the HTTP server listens on.
	ListenAddress string

	// ReadTimeout is the maximum duration for reading an entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out a response write.
	WriteTimeout time.Duration

	// ShutdownTimeout is the grace period for in-flight requests on shutdown.
	ShutdownTimeout time.Duration

	// MaxBodySize is the maximum accepted request body size in bytes.
	MaxBodySize int64

	// MaxConnections limits concurrently accepted connections.
	// Zero disables the limit.
	MaxConnections int

	// BatchSize is the number of intake requests processed concurrently
	// by the orchestrate command.
	BatchSize int

	// OutputFormat selects the result writer: text, json or markdown.
	OutputFormat string

	// OutputFile is where results are written. Empty means stdout.
	OutputFile string

	// LogFormat selects the slog handler: text or json.
	LogFormat string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path of the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// SaveToDB enables the intake journal.
	SaveToDB bool

	// DBDir is the directory holding the journal database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ListenAddress:   DefaultListenAddress,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxBodySize:     DefaultMaxBodySize,
		MaxConnections:  DefaultMaxConnections,
		BatchSize:       DefaultBatchSize,
		OutputFormat:    DefaultOutputFormat,
		LogFormat:       DefaultLogFormat,
		DBDir:           XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for Mission Control.
// On Linux: ~/.local/share/missioncontrol
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for Mission Control.
// On Linux: ~/.config/missioncontrol
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.ListenAddress); err != nil {
		return ErrInvalidListenAddress
	}

	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}

	if c.MaxConnections < 0 {
		return ErrInvalidMaxConnections
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if !IsOutputFormat(c.OutputFormat) {
		return ErrUnknownOutputFormat
	}

	if c.LogFormat != LogText && c.LogFormat != LogJSON {
		return ErrUnknownLogFormat
	}

	if c.SaveToDB && c.DBDir == "" {
		return ErrNoJournalDir
	}

	return nil
}

// IsOutputFormat reports whether format names a supported output format.
func IsOutputFormat(format string) bool {
	switch format {
	case OutputText, OutputJSON, OutputMarkdown:
		return true
	default:
		return false
	}
}
