package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"chunklapse/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; old databases must be deleted rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// BeginRender records a world's render starting and returns the row ID used
// to finish it.
func (s *Store) BeginRender(ctx context.Context, runID, scene, world string) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO render_runs (run_id, scene, world, status, started_at)
         VALUES (?, ?, ?, ?, ?)`,
		runID, scene, world, StatusRunning, timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("insert render run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// FinishRender records a render's terminal status.
func (s *Store) FinishRender(ctx context.Context, id int64, status, errorMessage, snapshotPath string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE render_runs
         SET status = ?, error_message = ?, snapshot_path = ?, finished_at = ?
         WHERE id = ?`,
		status, nullableString(errorMessage), nullableString(snapshotPath), timestamp, id,
	)
	if err != nil {
		return fmt.Errorf("update render run: %w", err)
	}
	return nil
}

// RecordVideo stores the outcome of one assembly run.
func (s *Store) RecordVideo(ctx context.Context, record VideoRecord) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO video_runs (scene, output_path, codec, fps, frames, skipped, status, error_message, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Scene, record.OutputPath, record.Codec, record.FPS,
		record.Frames, record.Skipped, record.Status,
		nullableString(record.ErrorMessage), timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert video run: %w", err)
	}
	return nil
}

// RecentRenders returns the newest render records, most recent first.
func (s *Store) RecentRenders(ctx context.Context, limit int) ([]RenderRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, scene, world, status, error_message, snapshot_path, started_at, finished_at
         FROM render_runs ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query render runs: %w", err)
	}
	defer rows.Close()

	var records []RenderRecord
	for rows.Next() {
		var (
			record       RenderRecord
			errorMessage sql.NullString
			snapshotPath sql.NullString
			startedAt    string
			finishedAt   sql.NullString
		)
		if err := rows.Scan(&record.ID, &record.RunID, &record.Scene, &record.World,
			&record.Status, &errorMessage, &snapshotPath, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan render run: %w", err)
		}
		record.ErrorMessage = errorMessage.String
		record.SnapshotPath = snapshotPath.String
		record.StartedAt = parseTimestamp(startedAt)
		if finishedAt.Valid {
			record.FinishedAt = parseTimestamp(finishedAt.String)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate render runs: %w", err)
	}
	return records, nil
}

// RecentVideos returns the newest assembly records, most recent first.
func (s *Store) RecentVideos(ctx context.Context, limit int) ([]VideoRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, scene, output_path, codec, fps, frames, skipped, status, error_message, created_at
         FROM video_runs ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query video runs: %w", err)
	}
	defer rows.Close()

	var records []VideoRecord
	for rows.Next() {
		var (
			record       VideoRecord
			errorMessage sql.NullString
			createdAt    string
		)
		if err := rows.Scan(&record.ID, &record.Scene, &record.OutputPath, &record.Codec,
			&record.FPS, &record.Frames, &record.Skipped, &record.Status,
			&errorMessage, &createdAt); err != nil {
			return nil, fmt.Errorf("scan video run: %w", err)
		}
		record.ErrorMessage = errorMessage.String
		record.CreatedAt = parseTimestamp(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video runs: %w", err)
	}
	return records, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
