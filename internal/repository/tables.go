package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnknownTable is returned for table names outside the allow-list.
var ErrUnknownTable = errors.New("invalid table name")

// allowedTables is the full set of tables the dump endpoint may expose.
// The table name is interpolated into the query, so membership here is the
// only thing standing between the request and arbitrary SQL — never relax it.
var allowedTables = map[string]struct{}{
	"users":       {},
	"products":    {},
	"addresses":   {},
	"orders":      {},
	"order_items": {},
	"payments":    {},
}

// TableDump holds a raw table snapshot: column names plus row values in
// column order.
type TableDump struct {
	Columns []string
	Rows    [][]any
}

// TableRepository provides raw allow-listed table dumps for the admin
// endpoint.
type TableRepository struct {
	pool *pgxpool.Pool
}

// NewTableRepository returns a TableRepository that uses the given pool.
func NewTableRepository(pool *pgxpool.Pool) *TableRepository {
	return &TableRepository{pool: pool}
}

// Dump returns every row of the named table. Returns ErrUnknownTable when
// the name is not in the allow-list.
func (r *TableRepository) Dump(ctx context.Context, table string) (*TableDump, error) {
	if _, ok := allowedTables[table]; !ok {
		return nil, ErrUnknownTable
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s", table))
	if err != nil {
		return nil, fmt.Errorf("dumping table %s: %w", table, err)
	}
	defer rows.Close()

	dump := &TableDump{}
	for _, fd := range rows.FieldDescriptions() {
		dump.Columns = append(dump.Columns, fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("reading row from table %s: %w", table, err)
		}
		dump.Rows = append(dump.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dumping table %s: %w", table, err)
	}
	return dump, nil
}
