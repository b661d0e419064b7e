package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"

	"github.com/quickmate/backend/config"
)

// NewSQLiteConnection opens a SQLite database at cfg.URL. SQLite allows a single writer,
// so the pool is pinned to one connection.
func NewSQLiteConnection(cfg *config.DatabaseConfig) (*Database, error) {
	pinned := *cfg
	pinned.MaxOpenConns = 1
	pinned.MaxIdleConns = 1
	return open(sqlite.Open(cfg.URL), &pinned)
}

// NewInMemorySQLite opens a private in-memory database, used by tests and local runs.
func NewInMemorySQLite() (*Database, error) {
	return NewSQLiteConnection(&config.DatabaseConfig{
		URL: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
}
