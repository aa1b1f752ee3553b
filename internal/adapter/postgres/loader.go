// Package postgres loads the facility table from a Postgres-compatible
// warehouse through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

// querier is the part of *pgxpool.Pool the loader uses.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Loader implements dashboard.Loader against one Postgres table.
type Loader struct {
	db     querier
	pool   *pgxpool.Pool
	table  string
	query  string
	logger *slog.Logger
}

// NewLoader creates the pool. Connections are opened lazily, so bad
// credentials surface on the first Load.
func NewLoader(ctx context.Context, databaseURL, table string, logger *slog.Logger) (*Loader, error) {
	query, err := selectAll(table)
	if err != nil {
		return nil, err
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	return &Loader{db: pool, pool: pool, table: table, query: query, logger: logger}, nil
}

// selectAll builds the fixed statement with a quoted, optionally
// schema-qualified table name.
func selectAll(table string) (string, error) {
	parts := strings.Split(table, ".")
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return "", fmt.Errorf("invalid postgres table %q", table)
		}
	}
	return "SELECT * FROM " + pgx.Identifier(parts).Sanitize(), nil
}

// Query returns the fixed statement the loader runs.
func (l *Loader) Query() string { return l.query }

// Load runs the query and decodes every row. Column names are upper-cased
// to match the warehouse layout, since Postgres folds unquoted identifiers
// to lower case.
func (l *Loader) Load(ctx context.Context) (domain.Dataset, error) {
	rows, err := l.db.Query(ctx, l.query)
	if err != nil {
		return domain.Dataset{}, classify("run query", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = strings.ToUpper(fd.Name)
	}

	var out []domain.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return domain.Dataset{}, classify("read row", err)
		}
		row := make(domain.Row, len(values))
		for i, v := range values {
			row[names[i]] = normalize(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return domain.Dataset{}, classify("read rows", err)
	}

	l.logger.Debug("postgres rows read", "table", l.table, "rows", len(out))
	return domain.DecodeRows(out)
}

// Ping checks connectivity.
func (l *Loader) Ping(ctx context.Context) error {
	if err := l.pool.Ping(ctx); err != nil {
		return classify("ping", err)
	}
	return nil
}

// Close releases the pool.
func (l *Loader) Close() {
	if l.pool != nil {
		l.pool.Close()
	}
}

// normalize converts pgx values the schema decoder does not know.
func normalize(v any) any {
	switch x := v.(type) {
	case int16:
		return int64(x)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	default:
		return v
	}
}

// classify maps driver errors onto the render-pass taxonomy. SQLSTATE
// class 28 (invalid authorization) is an authentication error.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "28") {
		return fmt.Errorf("%w: %s: %v", domain.ErrAuthentication, op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrQuery, op, err)
}
