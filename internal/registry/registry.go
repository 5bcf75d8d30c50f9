// SPDX-License-Identifier: MPL-2.0

// Package registry records packaging and install history in a local
// SQLite database.
package registry

import (
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	// sqlite driver registration
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Actions recorded in the registry.
const (
	ActionPackage   = "package"
	ActionInstall   = "install"
	ActionUninstall = "uninstall"
)

// DBFileName is the registry database file name inside the data directory.
const DBFileName = "registry.db"

type (
	// Event is one recorded packaging or install action.
	Event struct {
		ID          int64
		Slug        string
		Version     string
		Action      string
		ArchivePath string
		SHA256      string
		SizeBytes   int64
		CreatedAt   time.Time
	}

	// Registry is a handle to the history database.
	Registry struct {
		db *sql.DB
	}
)

// Open ensures the parent directory exists, opens the SQLite database at
// path, and creates the schema if it does not exist.
func Open(path string) (*Registry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply registry schema: %w", err)
	}

	return &Registry{db: db}, nil
}

// Close closes the underlying database.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Record inserts an event. The CreatedAt field is set by the database.
func (r *Registry) Record(e Event) error {
	if e.Slug == "" {
		return fmt.Errorf("event slug cannot be empty")
	}
	switch e.Action {
	case ActionPackage, ActionInstall, ActionUninstall:
	default:
		return fmt.Errorf("unknown event action: %q", e.Action)
	}

	_, err := r.db.Exec(
		`INSERT INTO events (slug, version, action, archive_path, sha256, size_bytes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Slug, e.Version, e.Action, e.ArchivePath, e.SHA256, e.SizeBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// History returns events, newest first. When slug is non-empty, only events
// for that add-on are returned. A limit of 0 means no limit.
func (r *Registry) History(slug string, limit int) ([]Event, error) {
	query := `SELECT id, slug, version, action, archive_path, sha256, size_bytes, created_at
	          FROM events`
	args := []any{}
	if slug != "" {
		query += " WHERE slug = ?"
		args = append(args, slug)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Installed returns, for each add-on whose most recent install/uninstall
// event is an install, that latest install event. Ordered by slug.
func (r *Registry) Installed() ([]Event, error) {
	// For each slug, the newest install/uninstall event wins.
	rows, err := r.db.Query(
		`SELECT id, slug, version, action, archive_path, sha256, size_bytes, created_at
		 FROM events e
		 WHERE action IN (?, ?)
		   AND id = (SELECT MAX(id) FROM events
		             WHERE slug = e.slug AND action IN (?, ?))
		   AND action = ?
		 ORDER BY slug`,
		ActionInstall, ActionUninstall, ActionInstall, ActionUninstall, ActionInstall,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query installed add-ons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanEvent(rows *sql.Rows) (Event, error) {
	var e Event
	var createdAt string
	if err := rows.Scan(&e.ID, &e.Slug, &e.Version, &e.Action, &e.ArchivePath, &e.SHA256, &e.SizeBytes, &createdAt); err != nil {
		return Event{}, fmt.Errorf("failed to scan event: %w", err)
	}
	t, err := time.Parse("2006-01-02T15:04:05.999Z", createdAt)
	if err != nil {
		return Event{}, fmt.Errorf("failed to parse event timestamp %q: %w", createdAt, err)
	}
	e.CreatedAt = t
	return e, nil
}

// HashFile returns the hex-encoded SHA-256 digest and size of the file at
// path, for recording alongside archive events.
func HashFile(path string) (digest string, size int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	h := sha256.New()
	size, err = io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}
