// Package log provides secure logging built on top of the standard slog
// package.
//
// SecureHandler wraps any slog.Handler and, before a record is written:
//   - masks values stored under sensitive keys (pin, token, password,
//     authorization, cookie and similar)
//   - masks string values that look like credentials (JWTs, bearer tokens,
//     long API keys, private key blocks)
//   - truncates long string values so that free-form request text cannot
//     flood the log
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, slog.LevelInfo)
//	logger.Info("intake received",
//	    "pin", "1234",           // logged as ***REDACTED***
//	    "input_text", longText,  // cut to MaxValueLength runes
//	)
//	slog.SetDefault(logger)
package log
