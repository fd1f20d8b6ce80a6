package sdk

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLState stores engine records in a single-table SQLite database. The
// harness uses it so state survives across CLI invocations; the engine itself
// never knows the difference between this and MemState.
type SQLState struct {
	db *sql.DB
}

func NewSQLState(path string) (*SQLState, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &SQLState{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLState) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

func (s *SQLState) Set(key, value string) {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		panic(fmt.Errorf("kv set %q: %w", key, err))
	}
}

func (s *SQLState) Get(key string) *string {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		panic(fmt.Errorf("kv get %q: %w", key, err))
	}
	return &value
}

func (s *SQLState) Delete(key string) {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		panic(fmt.Errorf("kv delete %q: %w", key, err))
	}
}

func (s *SQLState) Close() error { return s.db.Close() }
