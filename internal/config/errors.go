package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still getting a readable message.
var (
	// ErrInvalidListenAddress is returned when the listen address is empty
	// or not in "host:port" form.
	ErrInvalidListenAddress = errors.New("invalid listen address: must be host:port")

	// ErrInvalidTimeout is returned when a server timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the request body limit is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrInvalidMaxConnections is returned when the connection limit is negative.
	// Zero disables the limit.
	ErrInvalidMaxConnections = errors.New("invalid max connections: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrUnknownOutputFormat is returned for output formats other than
	// text, json and markdown.
	ErrUnknownOutputFormat = errors.New("unknown output format: must be text, json or markdown")

	// ErrUnknownLogFormat is returned for log formats other than text and json.
	ErrUnknownLogFormat = errors.New("unknown log format: must be text or json")

	// ErrNoJournalDir is returned when journaling is enabled without a directory.
	ErrNoJournalDir = errors.New("journal enabled but no database directory configured")
)
