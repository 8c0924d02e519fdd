// Package database provides the optional SQLite intake journal.
//
// When journaling is enabled every finished intake request is appended to a
// single SQLite file so operators can review what was asked and what
// assumptions were surfaced. The intake transform itself never reads the
// journal; results do not depend on history.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. No external service - the journal is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. WAL mode lets the history command read while the server writes
package database
