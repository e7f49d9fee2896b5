// Package store persists room snapshots and the chat log in sqlite. Rooms
// are stored as JSON documents with last-writer-wins upserts; chat messages
// are append-only.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"potakka/internal/game"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path must not be empty")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS rooms (
  id TEXT PRIMARY KEY,
  snapshot TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS chat_messages (
  id TEXT PRIMARY KEY,
  room_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chat_room ON chat_messages(room_id, ts);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// SaveRoom upserts the full room snapshot. Last writer wins.
func (s *Store) SaveRoom(snap *game.Snapshot) error {
	doc, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal room %s: %w", snap.ID, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO rooms(id, snapshot, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = CURRENT_TIMESTAMP`,
		snap.ID, string(doc))
	if err != nil {
		return fmt.Errorf("save room %s: %w", snap.ID, err)
	}
	return nil
}

// LoadRooms returns every persisted room snapshot.
func (s *Store) LoadRooms() ([]*game.Snapshot, error) {
	rows, err := s.db.Query(`SELECT snapshot FROM rooms`)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	defer rows.Close()

	var snaps []*game.Snapshot
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		var snap game.Snapshot
		if err := json.Unmarshal([]byte(doc), &snap); err != nil {
			return nil, fmt.Errorf("unmarshal room: %w", err)
		}
		snaps = append(snaps, &snap)
	}
	return snaps, rows.Err()
}

// AppendMessage adds one chat entry to the room's log. Duplicate ids are
// ignored so a retried write cannot double-append.
func (s *Store) AppendMessage(roomID string, msg game.ChatMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message %s: %w", msg.ID, err)
	}
	_, err = s.db.Exec(
		`INSERT OR IGNORE INTO chat_messages(id, room_id, payload, ts) VALUES(?, ?, ?, ?)`,
		msg.ID, roomID, string(payload), msg.Timestamp)
	if err != nil {
		return fmt.Errorf("append message %s: %w", msg.ID, err)
	}
	return nil
}

// Messages returns the room's chat log ordered by timestamp.
func (s *Store) Messages(roomID string) ([]game.ChatMessage, error) {
	rows, err := s.db.Query(
		`SELECT payload FROM chat_messages WHERE room_id = ? ORDER BY ts ASC`, roomID)
	if err != nil {
		return nil, fmt.Errorf("load messages for %s: %w", roomID, err)
	}
	defer rows.Close()

	var msgs []game.ChatMessage
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		var msg game.ChatMessage
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}
