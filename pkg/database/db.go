package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type Config struct {
	Path string
}

func DefaultConfig() Config {
	if p := os.Getenv("CLAWLEDGE_DB_PATH"); p != "" {
		return Config{Path: p}
	}

	// local default: ~/.clawledge/clawledge.db
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return Config{
		Path: filepath.Join(home, ".clawledge", "clawledge.db"),
	}
}

func EnsureDataDir(cfg Config) error {
	return os.MkdirAll(filepath.Dir(cfg.Path), 0o755)
}

// Open opens the SQLite file at cfg.Path, creating its directory, and turns
// on foreign keys and WAL.
func Open(cfg Config) (*sql.DB, error) {
	if err := EnsureDataDir(cfg); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma foreign_keys: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma journal_mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// MustOpen opens and migrates the database or exits through the logger.
func MustOpen(cfg Config, log *zap.Logger) *sql.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatal("failed to open db", zap.String("path", cfg.Path), zap.Error(err))
	}
	if err := Migrate(db); err != nil {
		log.Fatal("failed to migrate db", zap.String("path", cfg.Path), zap.Error(err))
	}
	return db
}
