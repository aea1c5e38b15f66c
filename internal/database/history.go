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

	"github.com/jhouedanou/lessonpatch/internal/model"
)

// DBFileName is the name of the database file inside the data directory.
const DBFileName = "lessonpatch.db"

// timestampLayout is fixed width so timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryDB provides SQLite-based storage for patch runs.
//
// Design decision: Rows are keyed by the absolute document path so runs
// started from different working directories land on the same history.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

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

	// modernc.org/sqlite: mode=rw refuses to create a new file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	// Two lessonpatch processes may share the database.
	if _, err := db.ExecContext(context.Background(), "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per document per pipeline run
	CREATE TABLE IF NOT EXISTS patch_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document TEXT NOT NULL,
		identifier TEXT NOT NULL,
		pipeline TEXT NOT NULL,
		outcome TEXT NOT NULL,
		dry_run INTEGER NOT NULL DEFAULT 0,
		changes_json TEXT,
		diagnostics_json TEXT,
		backup_path TEXT,
		before_digest TEXT,
		after_digest TEXT,
		error TEXT,
		timestamp TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_document ON patch_runs(document);
	CREATE INDEX IF NOT EXISTS idx_runs_pipeline ON patch_runs(pipeline);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON patch_runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord represents a stored patch run.
type RunRecord struct {
	ID           int64              `json:"id"`
	Document     string             `json:"document"`
	Identifier   string             `json:"identifier"`
	Pipeline     string             `json:"pipeline"`
	Outcome      model.Outcome      `json:"outcome"`
	DryRun       bool               `json:"dry_run"`
	Changes      model.ChangeReport `json:"changes"`
	Diagnostics  []model.Diagnostic `json:"diagnostics,omitempty"`
	BackupPath   string             `json:"backup_path,omitempty"`
	BeforeDigest string             `json:"before_digest,omitempty"`
	AfterDigest  string             `json:"after_digest,omitempty"`
	Error        string             `json:"error,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}

// DocumentKey returns the key a document path is stored under.
func DocumentKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// SaveRun records a finished patch report and returns the row id.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.PatchReport) (int64, error) {
	changesJSON, err := json.Marshal(report.Changes)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize changes: %w", err)
	}

	diagnosticsJSON, err := json.Marshal(report.Diagnostics)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize diagnostics: %w", err)
	}

	timestamp := report.FinishedAt
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	query := `
	INSERT INTO patch_runs (document, identifier, pipeline, outcome, dry_run, changes_json,
		diagnostics_json, backup_path, before_digest, after_digest, error, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		DocumentKey(report.Path),
		report.Identifier(),
		report.Pipeline,
		report.Outcome.String(),
		report.DryRun,
		string(changesJSON),
		string(diagnosticsJSON),
		report.BackupPath,
		report.BeforeDigest,
		report.AfterDigest,
		report.ErrorMessage,
		timestamp.UTC().Format(timestampLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save patch run: %w", err)
	}

	return result.LastInsertId()
}

// runColumns is the column list shared by the read queries.
const runColumns = `id, document, identifier, pipeline, outcome, dry_run, changes_json,
	diagnostics_json, backup_path, before_digest, after_digest, error, timestamp`

// ListRuns returns the most recent runs, newest first.
// An empty document lists runs of every document. A limit of zero or less
// returns every matching run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, document string, limit int) ([]*RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM patch_runs`
	args := make([]any, 0, 2)

	if document != "" {
		query += ` WHERE document = ?`
		args = append(args, DocumentKey(document))
	}
	query += ` ORDER BY timestamp DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list patch runs: %w", err)
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// LatestRun returns the most recent run of pipeline on document,
// or nil if the document was never patched by it.
func (hdb *HistoryDB) LatestRun(ctx context.Context, document, pipeline string) (*RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM patch_runs
	WHERE document = ? AND pipeline = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1`

	record, err := scanRun(hdb.db.QueryRowContext(ctx, query, DocumentKey(document), pipeline))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListDocuments returns every document with at least one recorded run.
func (hdb *HistoryDB) ListDocuments(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT document FROM patch_runs
	ORDER BY document
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var documents []string
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, document)
	}

	return documents, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun reads one patch_runs row.
func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		record          RunRecord
		outcome         string
		changesJSON     sql.NullString
		diagnosticsJSON sql.NullString
		backupPath      sql.NullString
		beforeDigest    sql.NullString
		afterDigest     sql.NullString
		errorMessage    sql.NullString
		timestamp       string
	)

	err := row.Scan(
		&record.ID,
		&record.Document,
		&record.Identifier,
		&record.Pipeline,
		&outcome,
		&record.DryRun,
		&changesJSON,
		&diagnosticsJSON,
		&backupPath,
		&beforeDigest,
		&afterDigest,
		&errorMessage,
		&timestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan patch run: %w", err)
	}

	if err := record.Outcome.UnmarshalText([]byte(outcome)); err != nil {
		record.Outcome = model.OutcomePending
	}

	// Malformed JSON columns are tolerated: the row is still useful.
	if changesJSON.Valid && changesJSON.String != "" {
		_ = json.Unmarshal([]byte(changesJSON.String), &record.Changes) //nolint:errcheck // Malformed rows keep empty changes
	}
	if diagnosticsJSON.Valid && diagnosticsJSON.String != "" {
		_ = json.Unmarshal([]byte(diagnosticsJSON.String), &record.Diagnostics) //nolint:errcheck // Malformed rows keep empty diagnostics
	}

	record.BackupPath = backupPath.String
	record.BeforeDigest = beforeDigest.String
	record.AfterDigest = afterDigest.String
	record.Error = errorMessage.String
	record.Timestamp = parseTimestamp(timestamp)

	return &record, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,           // Format written by SaveRun
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
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
