package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect identifies the backing relational engine.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Result reports the outcome of a mutating statement. ID is defined only
// for INSERT statements.
type Result struct {
	ID      int64
	Changes int64
}

// Querier is the uniform query contract shared by *DB and *Tx. All SQL is
// written with positional ? placeholders regardless of dialect; the adapter
// rewrites them for PostgreSQL.
type Querier interface {
	Run(ctx context.Context, query string, args ...any) (Result, error)
	Get(ctx context.Context, query string, args ...any) *sql.Row
	All(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type session struct {
	ex      executor
	dialect Dialect
	log     *zap.Logger
}

// DB is the process-wide database handle, constructed once at startup.
type DB struct {
	session
	db *sql.DB
}

// Tx exposes the Querier contract within a transaction.
type Tx struct {
	session
}

// OpenSQLite opens the embedded file store (or :memory:), enables foreign-key
// enforcement, and runs schema migrations.
func OpenSQLite(path string, log *zap.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// The embedded engine serializes writes anyway; a single connection also
	// keeps :memory: stores coherent across the pool.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	d := &DB{session: session{ex: db, dialect: SQLite, log: log}, db: db}
	if err := d.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return d, nil
}

// OpenPostgres opens the networked pool and runs schema migrations.
func OpenPostgres(connStr string, log *zap.Logger) (*DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres database: %w", err)
	}

	d := &DB{session: session{ex: db, dialect: Postgres, log: log}, db: db}
	if err := d.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return d, nil
}

// Dialect returns the engine this handle targets.
func (d *DB) Dialect() Dialect { return d.dialect }

// Close releases the connection pool. Graceful shutdown only.
func (d *DB) Close() error { return d.db.Close() }

// InTx runs fn inside a transaction, rolling back on any error.
func (d *DB) InTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&Tx{session: session{ex: tx, dialect: d.dialect, log: d.log}}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			d.log.Error("transaction rollback failed", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit()
}

var (
	insertRe    = regexp.MustCompile(`(?i)^\s*INSERT\s+INTO\s+`)
	returningRe = regexp.MustCompile(`(?i)\bRETURNING\b`)
)

// Run executes a mutating statement. For PostgreSQL a top-level INSERT
// without a RETURNING clause gets "RETURNING id" appended so the generated
// key is available under Result.ID; SQLite uses the engine's native
// last-inserted-row-id.
func (s *session) Run(ctx context.Context, query string, args ...any) (Result, error) {
	isInsert := insertRe.MatchString(query) && !returningRe.MatchString(query)

	if s.dialect == Postgres {
		q := rewritePlaceholders(query)
		if isInsert {
			q = strings.TrimRight(strings.TrimRight(q, " \t\n"), ";") + " RETURNING id"
			var id int64
			if err := s.ex.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
				s.logQueryError("run", q, args, err)
				return Result{}, fmt.Errorf("run insert: %w", err)
			}
			return Result{ID: id, Changes: 1}, nil
		}
		res, err := s.ex.ExecContext(ctx, q, args...)
		if err != nil {
			s.logQueryError("run", q, args, err)
			return Result{}, fmt.Errorf("run statement: %w", err)
		}
		changes, _ := res.RowsAffected()
		return Result{Changes: changes}, nil
	}

	res, err := s.ex.ExecContext(ctx, query, args...)
	if err != nil {
		s.logQueryError("run", query, args, err)
		return Result{}, fmt.Errorf("run statement: %w", err)
	}
	changes, _ := res.RowsAffected()
	out := Result{Changes: changes}
	if isInsert {
		out.ID, _ = res.LastInsertId()
	}
	return out, nil
}

// Get returns the first matching row. Zero rows surface as sql.ErrNoRows on
// Scan, never as a query failure.
func (s *session) Get(ctx context.Context, query string, args ...any) *sql.Row {
	if s.dialect == Postgres {
		query = rewritePlaceholders(query)
	}
	return s.ex.QueryRowContext(ctx, query, args...)
}

// All returns all matching rows; an empty result is an empty iteration.
func (s *session) All(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if s.dialect == Postgres {
		query = rewritePlaceholders(query)
	}
	rows, err := s.ex.QueryContext(ctx, query, args...)
	if err != nil {
		s.logQueryError("all", query, args, err)
		return nil, fmt.Errorf("query rows: %w", err)
	}
	return rows, nil
}

func (s *session) logQueryError(op, query string, args []any, err error) {
	s.log.Error("query failed",
		zap.String("op", op),
		zap.String("sql", query),
		zap.Any("params", args),
		zap.Error(err),
	)
}

// rewritePlaceholders converts ? placeholders to $1..$N by occurrence order,
// left to right, with a fresh counter per call. Quoted regions are skipped so
// a literal ? inside a string is left alone.
func rewritePlaceholders(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			b.WriteByte(c)
			if c == quote {
				// A doubled quote escapes itself inside a literal.
				if i+1 < len(query) && query[i+1] == quote {
					b.WriteByte(quote)
					i++
				} else {
					quote = 0
				}
			}
		case c == '\'' || c == '"':
			quote = c
			b.WriteByte(c)
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either engine. Constraint violations are the authoritative duplicate
// signal; callers map them to conflict responses.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		code := sqErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
