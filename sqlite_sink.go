package visitfacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteSink replaces a table in a SQLite database with the fact table. All
// columns are TEXT; null cells are stored as NULL. Prepare runs the whole
// replacement inside a transaction that Commit commits.
type SQLiteSink struct {
	path  string
	table string
}

func NewSQLiteSink(path, table string) *SQLiteSink {
	if table == "" {
		table = FactTableName
	}
	return &SQLiteSink{path: path, table: table}
}

func (s *SQLiteSink) Name() string { return "sqlite" }

func (s *SQLiteSink) Prepare(ctx context.Context, t *Table) (PendingWrite, error) {
	db, err := sqlx.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("begin: %w", err)
	}

	pending := &pendingTx{db: db, tx: tx, location: s.path + "#" + s.table}
	if err := s.replace(ctx, tx, t); err != nil {
		pending.Abort()
		return nil, err
	}
	return pending, nil
}

// Write prepares and commits in one go.
func (s *SQLiteSink) Write(ctx context.Context, t *Table) (string, error) {
	return commitNow(s.Prepare(ctx, t))
}

func (s *SQLiteSink) replace(ctx context.Context, tx *sqlx.Tx, t *Table) error {
	table := quoteIdent(s.table)
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		cols[i] = quoteIdent(c)
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("drop %s: %w", s.table, err)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s TEXT)", table, strings.Join(cols, " TEXT, "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for _, r := range t.rows {
		for i, c := range r {
			if c.Valid {
				args[i] = c.String
			} else {
				args[i] = nil
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", s.table, err)
		}
	}
	return nil
}

type pendingTx struct {
	db       *sqlx.DB
	tx       *sqlx.Tx
	location string
}

func (p *pendingTx) Commit() (string, error) {
	if err := p.tx.Commit(); err != nil {
		p.db.Close()
		return "", fmt.Errorf("commit: %w", err)
	}
	if err := p.db.Close(); err != nil {
		return "", fmt.Errorf("close: %w", err)
	}
	return p.location, nil
}

func (p *pendingTx) Abort() error {
	err := p.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		err = nil
	}
	return errors.Join(err, p.db.Close())
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
