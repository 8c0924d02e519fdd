package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/missioncontrol/internal/intake"
	"github.com/nao1215/missioncontrol/internal/model"
)

// FileName is the journal database file name inside the database directory.
const FileName = "missioncontrol.db"

// storedTimeFormat is fixed-width so that stored timestamps sort and compare
// correctly as strings.
const storedTimeFormat = "2006-01-02 15:04:05.000000"

// ErrIntakeNotFound is returned when no journal entry has the requested ID.
var ErrIntakeNotFound = errors.New("intake not found")

// IntakeDB provides SQLite-based storage for finished intake reports.
// It is safe for concurrent use.
type IntakeDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures IntakeDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an IntakeDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*IntakeDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	idb := &IntakeDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := idb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return idb, nil
}

// Close closes the database connection.
func (idb *IntakeDB) Close() error {
	return idb.db.Close()
}

// Path returns the database file path.
func (idb *IntakeDB) Path() string {
	return idb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (idb *IntakeDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS intakes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id TEXT NOT NULL UNIQUE,
		received_at TEXT NOT NULL,
		fingerprint TEXT,
		input_text TEXT NOT NULL,
		normalized_text TEXT NOT NULL,
		softened_text TEXT NOT NULL,
		output_text TEXT NOT NULL,
		assumptions TEXT NOT NULL,
		signals TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_intakes_received ON intakes(received_at);
	CREATE INDEX IF NOT EXISTS idx_intakes_fingerprint ON intakes(fingerprint);
	`

	_, err := idb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveIntake appends a finished report to the journal and sets its JournalID.
func (idb *IntakeDB) SaveIntake(ctx context.Context, report *model.IntakeReport) (int64, error) {
	assumptions := report.Assumptions
	if assumptions == nil {
		assumptions = []string{}
	}
	assumptionsJSON, err := json.Marshal(assumptions)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize assumptions: %w", err)
	}

	signalsJSON, err := json.Marshal(report.Signals)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize signals: %w", err)
	}

	query := `
	INSERT INTO intakes (request_id, received_at, fingerprint, input_text, normalized_text,
		softened_text, output_text, assumptions, signals)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := idb.db.ExecContext(ctx, query,
		report.ID,
		report.ReceivedAt.UTC().Format(storedTimeFormat),
		report.Fingerprint,
		report.Input,
		report.Normalized,
		report.Softened,
		report.OutputText,
		string(assumptionsJSON),
		string(signalsJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save intake: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read intake id: %w", err)
	}

	report.JournalID = id
	return id, nil
}

// selectColumns lists the columns scanned by scanIntake, in order.
const selectColumns = `id, request_id, received_at, fingerprint, input_text, normalized_text,
	softened_text, output_text, assumptions, signals`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanIntake reads one journal row into a report.
func scanIntake(row rowScanner) (*model.IntakeReport, error) {
	var (
		report          model.IntakeReport
		receivedAt      string
		fingerprint     sql.NullString
		assumptionsJSON string
		signalsJSON     string
	)

	if err := row.Scan(
		&report.JournalID,
		&report.ID,
		&receivedAt,
		&fingerprint,
		&report.Input,
		&report.Normalized,
		&report.Softened,
		&report.OutputText,
		&assumptionsJSON,
		&signalsJSON,
	); err != nil {
		return nil, err
	}

	report.ReceivedAt = parseTimestamp(receivedAt)
	report.Fingerprint = fingerprint.String

	report.Assumptions = make([]string, 0)
	if err := json.Unmarshal([]byte(assumptionsJSON), &report.Assumptions); err != nil {
		return nil, fmt.Errorf("failed to parse assumptions: %w", err)
	}

	var signals intake.Signals
	if err := json.Unmarshal([]byte(signalsJSON), &signals); err != nil {
		return nil, fmt.Errorf("failed to parse signals: %w", err)
	}
	report.Signals = signals
	report.PerformedSteps = make([]string, 0)

	return &report, nil
}

// GetIntake retrieves a journal entry by row ID.
// Returns ErrIntakeNotFound if there is no such entry.
func (idb *IntakeDB) GetIntake(ctx context.Context, id int64) (*model.IntakeReport, error) {
	query := `SELECT ` + selectColumns + ` FROM intakes WHERE id = ?`

	report, err := scanIntake(idb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIntakeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get intake: %w", err)
	}

	return report, nil
}

// ListIntakes returns the most recent journal entries, newest first.
// A non-positive limit returns all entries.
func (idb *IntakeDB) ListIntakes(ctx context.Context, limit int) ([]*model.IntakeReport, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	query := `SELECT ` + selectColumns + ` FROM intakes ORDER BY id DESC LIMIT ?`

	return idb.queryIntakes(ctx, query, limit)
}

// ListIntakesByFingerprint returns every entry whose normalized text had the
// given fingerprint, newest first.
func (idb *IntakeDB) ListIntakesByFingerprint(ctx context.Context, fingerprint string) ([]*model.IntakeReport, error) {
	query := `SELECT ` + selectColumns + ` FROM intakes WHERE fingerprint = ? ORDER BY id DESC`

	return idb.queryIntakes(ctx, query, fingerprint)
}

// queryIntakes runs a SELECT over selectColumns and scans all rows.
func (idb *IntakeDB) queryIntakes(ctx context.Context, query string, args ...any) ([]*model.IntakeReport, error) {
	rows, err := idb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query intakes: %w", err)
	}
	defer rows.Close()

	results := make([]*model.IntakeReport, 0)
	for rows.Next() {
		report, err := scanIntake(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan intake: %w", err)
		}
		results = append(results, report)
	}

	return results, rows.Err()
}

// CountIntakes returns the number of journal entries.
func (idb *IntakeDB) CountIntakes(ctx context.Context) (int64, error) {
	var count int64
	if err := idb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM intakes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count intakes: %w", err)
	}
	return count, nil
}

// DeleteIntakesBefore removes entries received before cutoff and returns
// how many were removed.
func (idb *IntakeDB) DeleteIntakesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := idb.db.ExecContext(ctx,
		`DELETE FROM intakes WHERE received_at < ?`,
		cutoff.UTC().Format(storedTimeFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete intakes: %w", err)
	}
	return result.RowsAffected()
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	storedTimeFormat,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
