// internal/store/sqlite.go
//
// SQLite-backed words.Cache.
// Responsibilities:
//   - Opening SQLite with safe defaults (WAL, busy timeout).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Storing successful dictionary lookups so repeat words skip the network.
//
// Only dictionary facts live here. Game state never touches disk.

package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scrabble/apps/go-server/internal/words"
)

//go:embed sql/*.sql
var migrations embed.FS

// LookupCache implements words.Cache on a SQLite table.
type LookupCache struct {
	db *sql.DB
}

var _ words.Cache = (*LookupCache)(nil)

// OpenLookupCache opens (creating if missing) the database at dsn and
// migrates it.
func OpenLookupCache(dsn string) (*LookupCache, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &LookupCache{db: db}, nil
}

// Close closes the underlying database.
func (c *LookupCache) Close() error { return c.db.Close() }

// Get returns the cached candidates for key. The bool is false on a miss; an
// empty, present list means the word was looked up and not found.
func (c *LookupCache) Get(ctx context.Context, key string) ([]words.Candidate, bool, error) {
	var raw string
	err := c.db.QueryRowContext(ctx, `SELECT candidates FROM lookup_cache WHERE query=?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	var cands []words.Candidate
	if err := json.Unmarshal([]byte(raw), &cands); err != nil {
		return nil, false, fmt.Errorf("decode %q: %w", key, err)
	}
	return cands, true, nil
}

// Put stores cands under key, replacing any previous row.
func (c *LookupCache) Put(ctx context.Context, key string, cands []words.Candidate) error {
	if cands == nil {
		cands = []words.Candidate{}
	}
	raw, err := json.Marshal(cands)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx, `
        INSERT INTO lookup_cache (query, candidates, fetched_at) VALUES (?, ?, ?)
        ON CONFLICT(query) DO UPDATE SET candidates=excluded.candidates, fetched_at=excluded.fetched_at`,
		key, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Len counts cached queries.
func (c *LookupCache) Len(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM lookup_cache`).Scan(&n)
	return n, err
}

// openDB ensures the parent directory exists for file DSNs, then opens
// with busy timeout and WAL journaling.
func openDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies the embedded sql/*.sql files in lexical order, each in
// its own transaction, skipping ones already recorded.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	files, err := fs.Glob(migrations, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		body, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}
