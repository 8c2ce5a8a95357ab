package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/okian/jobscope/internal/domain/model"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`) //nolint:gochecknoglobals // compiled once

// SQLSource reads listings from a table holding the dataset columns.
type SQLSource struct {
	driver  string
	dsn     string
	table   string
	orderBy string
}

var _ Source = (*SQLSource)(nil)

// SQLOption configures an SQLSource.
type SQLOption func(*SQLSource)

// WithOrderBy sets the column that fixes ingestion order. SQLite tables
// default to rowid; Postgres tables are read in scan order unless set.
func WithOrderBy(column string) SQLOption {
	return func(s *SQLSource) {
		s.orderBy = column
	}
}

// NewSQLSource creates a source for kind ("sqlite" or "postgres").
func NewSQLSource(kind, dsn, table string, opts ...SQLOption) (*SQLSource, error) {
	s := &SQLSource{dsn: dsn, table: table}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindSQLite:
		s.driver = "sqlite"
		s.orderBy = "rowid"
	case KindPostgres:
		s.driver = "postgres"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
	for _, opt := range opts {
		opt(s)
	}
	if !identifier.MatchString(s.table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, s.table)
	}
	if s.orderBy != "" && !identifier.MatchString(s.orderBy) {
		return nil, fmt.Errorf("%w: order column %q", ErrInvalidTable, s.orderBy)
	}
	return s, nil
}

// Name implements Source.
func (s *SQLSource) Name() string { return s.driver + ":" + s.table }

// Load implements Source. NULL columns read as empty strings.
func (s *SQLSource) Load(ctx context.Context) ([]model.RawListing, error) {
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrLoadDataset, s.driver, err)
	}
	defer db.Close()
	return s.read(ctx, db)
}

func (s *SQLSource) read(ctx context.Context, db *sql.DB) ([]model.RawListing, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: ping %s: %w", ErrLoadDataset, s.driver, err)
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(Columns, ", "), s.table)
	if s.orderBy != "" {
		query += " ORDER BY " + s.orderBy
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", ErrLoadDataset, s.table, err)
	}
	defer rows.Close()

	var out []model.RawListing
	values := make([]sql.NullString, len(Columns))
	dest := make([]any, len(Columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %w", ErrLoadDataset, s.table, err)
		}
		var raw model.RawListing
		for i, c := range Columns {
			set(&raw, c, values[i].String)
		}
		out = append(out, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows %s: %w", ErrLoadDataset, s.table, err)
	}
	return out, nil
}

// Import creates the table if needed and appends raws to it in order.
func (s *SQLSource) Import(ctx context.Context, raws []model.RawListing) error {
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.driver, err)
	}
	defer db.Close()
	return s.write(ctx, db, raws)
}

func (s *SQLSource) write(ctx context.Context, db *sql.DB, raws []model.RawListing) error {
	cols := make([]string, len(Columns))
	marks := make([]string, len(Columns))
	for i, c := range Columns {
		cols[i] = c + " TEXT"
		marks[i] = s.placeholder(i + 1)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", s.table, strings.Join(cols, ", "))); err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table, strings.Join(Columns, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range raws {
		vals := Values(&raws[i])
		args := make([]any, len(vals))
		for j, v := range vals {
			args[j] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (s *SQLSource) placeholder(n int) string {
	if s.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
