// Package session persists the backend session token between runs.
package session

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "chorus"
	dbFileName = "chorus.db"
)

// Session is the persisted login state for one backend server.
type Session struct {
	ServerURL string
	Token     string
	Username  string
	UpdatedAt time.Time
}

// Store is the on-disk session store. One row per backend server URL.
type Store struct {
	db *sql.DB
}

// Open opens the store at the xdg data location, creating it if needed.
func Open() (*Store, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens a store at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the session for its server URL, replacing any prior one.
func (s *Store) Save(sess Session) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (server_url, token, username, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(server_url) DO UPDATE SET
			token = excluded.token,
			username = excluded.username,
			updated_at = excluded.updated_at
	`, sess.ServerURL, sess.Token, sess.Username, time.Now().Unix())
	return err
}

// Load returns the session for a server URL, or nil if none is stored.
func (s *Store) Load(serverURL string) (*Session, error) {
	row := s.db.QueryRow(`
		SELECT server_url, token, username, updated_at
		FROM sessions WHERE server_url = ?
	`, serverURL)

	var sess Session
	var updatedAt int64
	err := row.Scan(&sess.ServerURL, &sess.Token, &sess.Username, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sess.UpdatedAt = time.Unix(updatedAt, 0)
	return &sess, nil
}

// Clear drops the session for a server URL. Clearing a URL with no
// stored session is not an error.
func (s *Store) Clear(serverURL string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE server_url = ?`, serverURL)
	return err
}
