package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DBTX is the subset of *sqlx.DB the queries need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	Rebind(query string) string
	DriverName() string
}

// Queries executes the structured store statements. Every record statement takes
// the resolved table location; values are always bound, never spliced.
type Queries struct {
	db      DBTX
	dialect Dialect
}

func New(db DBTX) (*Queries, error) {
	dialect, err := DialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	return &Queries{db: db, dialect: dialect}, nil
}

func (q *Queries) Dialect() Dialect { return q.dialect }

// Qualify returns the quoted location of kind's table in ns.
func (q *Queries) Qualify(ns Namespace, kind RecordKind) string {
	return q.dialect.Qualify(ns, kind.Table())
}

// CurrentNamespace asks the warehouse for the session's default catalog and schema.
func (q *Queries) CurrentNamespace(ctx context.Context) (Namespace, error) {
	var catalog, schema sql.NullString
	if err := q.db.QueryRowContext(ctx, q.dialect.currentNamespace).Scan(&catalog, &schema); err != nil {
		return Namespace{}, fmt.Errorf("query current namespace: %w", err)
	}
	return Namespace{Catalog: catalog.String, Schema: schema.String}, nil
}

// CreateSchema creates ns if the dialect supports schema DDL.
func (q *Queries) CreateSchema(ctx context.Context, ns Namespace) error {
	stmt, ok := q.dialect.CreateSchemaSQL(ns)
	if !ok {
		return fmt.Errorf("%s: schema creation not supported", q.dialect.Name)
	}
	if _, err := q.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create schema %s: %w", ns, err)
	}
	return nil
}

func (q *Queries) CreateTable(ctx context.Context, location string, kind RecordKind) error {
	if _, err := q.db.ExecContext(ctx, q.dialect.CreateTableSQL(location, kind)); err != nil {
		return fmt.Errorf("create table %s: %w", location, err)
	}
	return nil
}

// ProbeTable runs the cheapest read that proves location exists and is readable.
func (q *Queries) ProbeTable(ctx context.Context, location string) error {
	var id sql.NullString
	err := q.db.QueryRowContext(ctx, "SELECT id FROM "+location+" LIMIT 1").Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("probe %s: %w", location, err)
	}
	return nil
}

func (q *Queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.db.ExecContext(ctx, q.db.Rebind(query), args...)
}

func (q *Queries) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	return q.db.SelectContext(ctx, dest, q.db.Rebind(query), args...)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Compile-time check that sqlx satisfies DBTX.
var _ DBTX = (*sqlx.DB)(nil)
