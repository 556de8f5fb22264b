package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/mverett/fabula/pkg/schema"
)

// LibSQLStore implements SnapshotStore using libSQL (embedded SQLite fork).
type LibSQLStore struct {
	db *sql.DB
}

// NewLibSQLStore opens a libSQL database at the given path.
// The path should be a file URI, e.g. "file:/path/to/saves.db".
func NewLibSQLStore(dbPath string) (*LibSQLStore, error) {
	db, err := sql.Open("libsql", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open libsql: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Apply connection-level PRAGMAs. Some PRAGMAs return rows so we use QueryRow.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		var result string
		_ = db.QueryRow(p).Scan(&result)
	}

	return &LibSQLStore{db: db}, nil
}

// DB returns the underlying *sql.DB.
func (s *LibSQLStore) DB() *sql.DB { return s.db }

// Migrate runs all pending database migrations.
func (s *LibSQLStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, s.db)
}

func (s *LibSQLStore) Save(ctx context.Context, slot string, snap *Snapshot) error {
	if slot == "" {
		return schema.NewError(schema.ErrCodeValidation, "slot name is empty")
	}
	if snap == nil {
		return schema.NewError(schema.ErrCodeValidation, "snapshot is nil")
	}
	vars, err := json.Marshal(snap.Variables)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "marshal variables: %s", err.Error()).WithCause(err)
	}
	savedAt := snap.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (slot, graph_name, current_node_id, variables, saved_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   graph_name=excluded.graph_name, current_node_id=excluded.current_node_id,
		   variables=excluded.variables, saved_at=excluded.saved_at`,
		slot, snap.GraphName, nullStr(snap.CurrentNodeID), string(vars), savedAt,
	)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "save snapshot %q: %s", slot, err.Error()).WithCause(err)
	}
	return nil
}

func (s *LibSQLStore) Load(ctx context.Context, slot string) (*Snapshot, error) {
	snap := &Snapshot{}
	var nodeID sql.NullString
	var varsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT graph_name, current_node_id, variables, saved_at FROM snapshots WHERE slot = ?`, slot,
	).Scan(&snap.GraphName, &nodeID, &varsJSON, &snap.SavedAt)
	if err == sql.ErrNoRows {
		return nil, schema.NewErrorf(schema.ErrCodeNotFound, "snapshot slot %q not found", slot)
	}
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeStore, "load snapshot %q: %s", slot, err.Error()).WithCause(err)
	}
	snap.CurrentNodeID = nodeID.String
	if err := json.Unmarshal([]byte(varsJSON), &snap.Variables); err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeStore, "unmarshal variables: %s", err.Error()).WithCause(err)
	}
	return snap, nil
}

func (s *LibSQLStore) Delete(ctx context.Context, slot string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE slot = ?`, slot)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "delete snapshot %q: %s", slot, err.Error()).WithCause(err)
	}
	return nil
}

func (s *LibSQLStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot FROM snapshots ORDER BY slot ASC`)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeStore, "list snapshots: %s", err.Error()).WithCause(err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (s *LibSQLStore) Close() error { return s.db.Close() }

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
