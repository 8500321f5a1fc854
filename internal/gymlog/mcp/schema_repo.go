package mcp

import (
	"context"
	"fmt"
	"slices"

	"github.com/2beens/gymlog/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaRepo provides gymlog DB schema (information_schema) data.
type SchemaRepo interface {
	GetGymlogColumns(ctx context.Context) ([]SchemaColumn, error)
}

// SchemaColumn represents one row from information_schema.columns for gymlog tables.
type SchemaColumn struct {
	TableSchema string
	TableName   string
	ColumnName  string
	DataType    string
	IsNullable  string
	ColumnDef   *string
}

// schemaTables are the domain tables exposed to MCP clients; the users table is left out.
var schemaTables = slices.DeleteFunc(slices.Clone(db.Tables), func(table string) bool {
	return table == "gymlog_user"
})

type poolSchemaRepo struct {
	pool *pgxpool.Pool
}

// NewPoolSchemaRepo returns a SchemaRepo that uses the given pool.
func NewPoolSchemaRepo(pool *pgxpool.Pool) SchemaRepo {
	return &poolSchemaRepo{pool: pool}
}

func (r *poolSchemaRepo) GetGymlogColumns(ctx context.Context) ([]SchemaColumn, error) {
	query := `
		SELECT table_schema, table_name, column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
		ORDER BY table_name, ordinal_position`
	rows, err := r.pool.Query(ctx, query, schemaTables)
	if err != nil {
		return nil, fmt.Errorf("query information_schema: %w", err)
	}
	defer rows.Close()

	var cols []SchemaColumn
	for rows.Next() {
		var c SchemaColumn
		if err := rows.Scan(&c.TableSchema, &c.TableName, &c.ColumnName, &c.DataType, &c.IsNullable, &c.ColumnDef); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating columns: %w", err)
	}

	return cols, nil
}
