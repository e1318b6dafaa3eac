// Package store persists conversation transcripts and completed price
// queries to a local SQLite database. The data is diagnostic: nothing in the
// dialogue path reads it back, so every write failure is logged and
// swallowed by the caller rather than surfaced to the user.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mandibot/internal/logging"
)

// Turn roles.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Query sources.
const (
	SourceLive      = "live"
	SourceSynthetic = "synthetic"
)

// Turn is one persisted conversation turn.
type Turn struct {
	ID             string
	ConversationID string
	Role           string
	Content        string
	CreatedAt      time.Time
}

// QueryRecord is one completed price query.
type QueryRecord struct {
	ID             string
	ConversationID string
	Commodity      string
	Area           string
	Date           string
	Source         string
	RowCount       int
	CreatedAt      time.Time
}

// Store wraps the SQLite database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// New creates or opens the database under dir.
func New(dir string) (*Store, error) {
	dbPath := filepath.Join(dir, "mandibot.db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	logging.Store("opened %s", dbPath)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS turns (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_turns_conversation ON turns(conversation_id);
	CREATE INDEX IF NOT EXISTS idx_turns_created ON turns(created_at);

	CREATE TABLE IF NOT EXISTS queries (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		commodity TEXT NOT NULL,
		area TEXT NOT NULL,
		date TEXT NOT NULL,
		source TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_queries_conversation ON queries(conversation_id);
	CREATE INDEX IF NOT EXISTS idx_queries_commodity ON queries(commodity);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordTurn appends one transcript turn.
func (s *Store) RecordTurn(ctx context.Context, conversationID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), conversationID, role, content, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record turn: %w", err)
	}
	return nil
}

// History returns a conversation's turns oldest first.
func (s *Store) History(ctx context.Context, conversationID string) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, created_at
		 FROM turns WHERE conversation_id = ? ORDER BY created_at ASC`,
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.ConversationID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	logging.StoreDebug("history: %d turns for conversation %s", len(turns), conversationID)
	return turns, rows.Err()
}

// RecordQuery logs one completed price acquisition.
func (s *Store) RecordQuery(ctx context.Context, q QueryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO queries (id, conversation_id, commodity, area, date, source, row_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), q.ConversationID, q.Commodity, q.Area, q.Date, q.Source, q.RowCount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record query: %w", err)
	}
	return nil
}

// RecentQueries returns the latest completed queries, newest first.
func (s *Store) RecentQueries(ctx context.Context, limit int) ([]QueryRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, commodity, area, date, source, row_count, created_at
		 FROM queries ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var records []QueryRecord
	for rows.Next() {
		var q QueryRecord
		if err := rows.Scan(&q.ID, &q.ConversationID, &q.Commodity, &q.Area, &q.Date, &q.Source, &q.RowCount, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		records = append(records, q)
	}
	return records, rows.Err()
}
