package postgres

import (
	"context"
	_ "embed"

	"github.com/kailas-cloud/worldsearch/internal/db"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the bootstrap DDL.
func Schema() string {
	return schemaSQL
}

// Migrate creates the extension, table, indexes and stored functions. Safe to run repeatedly.
func Migrate(ctx context.Context, e Execer) error {
	if _, err := e.Exec(ctx, schemaSQL); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	return nil
}

// Execer is the subset of db.Querier Migrate needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
}
