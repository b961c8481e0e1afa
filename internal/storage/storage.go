// Package storage persists guests and finished matches to SQLite. The
// embedded SQL and the prepared-statement map follow the same layout as
// go-kgp's database manager: statements are loaded once at startup from
// ./sql, keyed by file name, and reused for the life of the process.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed sql
var sqlFiles embed.FS

// pragmas tune SQLite for a single-writer, many-reader server process.
var pragmas = []string{
	"journal_mode = WAL",
	"synchronous = normal",
	"foreign_keys = on",
}

// DB wraps a SQLite connection and its prepared statements.
type DB struct {
	conn    *sql.DB
	queries map[string]*sql.Stmt
	writes  chan writeRequest
	done    chan struct{}
}

type writeRequest struct {
	fn   func(*sql.DB) error
	errc chan error
}

// Open connects to the SQLite database at path (created if absent),
// applies pragmas, loads every sql/*.sql file, and starts the
// background write-serializing goroutine.
func Open(path_ string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path_+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("storage: opening %s: %w", path_, err)
	}

	for _, p := range pragmas {
		if _, err := conn.Exec("PRAGMA " + p + ";"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("storage: pragma %s: %w", p, err)
		}
	}

	queries := make(map[string]*sql.Stmt)
	err = fs.WalkDir(sqlFiles, "sql", func(file string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		base := path.Base(file)
		data, err := fs.ReadFile(sqlFiles, file)
		if err != nil {
			return err
		}
		if strings.HasPrefix(base, "create-") {
			_, err = conn.Exec(string(data))
			return err
		}
		stmt, err := conn.Prepare(string(data))
		if err != nil {
			return fmt.Errorf("preparing %s: %w", base, err)
		}
		queries[strings.TrimSuffix(base, ".sql")] = stmt
		return nil
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{
		conn:    conn,
		queries: queries,
		writes:  make(chan writeRequest, 64),
		done:    make(chan struct{}),
	}
	go db.writer()
	return db, nil
}

// writer serializes every mutating statement through a single
// goroutine so SQLite's single-writer constraint is never contended,
// mirroring go-kgp's databaseManager loop.
func (db *DB) writer() {
	for {
		select {
		case req := <-db.writes:
			req.errc <- req.fn(db.conn)
		case <-db.done:
			return
		}
	}
}

// do runs fn on the writer goroutine and waits for it to complete,
// keeping callers' call sites synchronous while every write is still
// funneled through one goroutine.
func (db *DB) do(ctx context.Context, fn func(*sql.DB) error) error {
	errc := make(chan error, 1)
	select {
	case db.writes <- writeRequest{fn: fn, errc: errc}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the write goroutine and closes the connection.
func (db *DB) Close() error {
	close(db.done)
	return db.conn.Close()
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 5*time.Second)
}
