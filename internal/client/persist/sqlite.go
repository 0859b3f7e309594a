package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/migrations"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// RunMigrations brings the kv schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// SQLiteStore keeps values in the kv table. Every write stamps the row with
// the next revision and the writer's origin; deletes leave a NULL tombstone
// so other processes can observe them through Poll.
type SQLiteStore struct {
	db     *sql.DB
	ownsDB bool
	origin string
	log    logging.Logger
	w      watchers

	pollMu  sync.Mutex
	lastRev int64
}

// sqliteDSN opens path in WAL mode. Writers from other processes wait up to
// busy_timeout for the lock, and write transactions take it at BEGIN so a
// read never has to be upgraded mid-transaction.
func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}

// OpenSQLite opens (creating if needed) the database at path, migrates it and
// returns a store that owns the connection.
func OpenSQLite(ctx context.Context, path string, log logging.Logger) (*SQLiteStore, error) {
	db, err := dbx.Open(ctx, "sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	// one writer at a time; sqlite serialises them anyway
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s, err := NewSQLiteStore(ctx, db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.ownsDB = true
	return s, nil
}

// NewSQLiteStore wraps an already migrated database. Changes committed before
// this call are not reported to watchers.
func NewSQLiteStore(ctx context.Context, db *sql.DB, log logging.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = logging.Nop()
	}
	s := &SQLiteStore{
		db:     db,
		origin: uuid.NewString(),
		log:    log.With("component", "sqlite-store"),
	}
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(rev), 0) FROM kv`).Scan(&s.lastRev); err != nil {
		return nil, fmt.Errorf("failed to read kv revision: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.w.isClosed() {
		return nil, ErrClosed
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	return s.put(ctx, key, value)
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.put(ctx, key, nil)
}

func (s *SQLiteStore) put(ctx context.Context, key string, value []byte) error {
	if s.w.isClosed() {
		return ErrClosed
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var rev int64
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(rev), 0) + 1 FROM kv`).Scan(&rev); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO kv (key, value, rev, origin) VALUES (?, ?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, rev = excluded.rev, origin = excluded.origin
		`, key, value, rev, s.origin)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write kv[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Watch(key string, fn ChangeFunc) (func(), error) {
	return s.w.add(key, fn)
}

func (s *SQLiteStore) Origin() string { return s.origin }

// Poll reports every row written by another origin since the previous poll
// and returns how many changes were delivered.
func (s *SQLiteStore) Poll(ctx context.Context) (int, error) {
	if s.w.isClosed() {
		return 0, ErrClosed
	}

	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value, rev, origin FROM kv WHERE rev > ? ORDER BY rev`, s.lastRev)
	if err != nil {
		return 0, fmt.Errorf("failed to poll kv: %w", err)
	}

	type change struct {
		key   string
		value []byte
	}
	var changes []change
	for rows.Next() {
		var (
			c      change
			rev    int64
			origin string
		)
		if err := rows.Scan(&c.key, &c.value, &rev, &origin); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("failed to scan kv row: %w", err)
		}
		if rev > s.lastRev {
			s.lastRev = rev
		}
		if origin != s.origin {
			changes = append(changes, c)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, fmt.Errorf("failed to iterate kv rows: %w", err)
	}
	_ = rows.Close()

	for _, c := range changes {
		s.log.Debug(ctx, "external change", "key", c.key, "deleted", c.value == nil)
		s.w.notify(c.key, c.value)
	}
	return len(changes), nil
}

// Run polls every interval until ctx is done.
func (s *SQLiteStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Poll(ctx); err != nil {
				if errors.Is(err, ErrClosed) {
					return
				}
				s.log.Warn(ctx, "poll failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *SQLiteStore) Close() error {
	s.w.close()
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
