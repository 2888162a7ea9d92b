package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	_ "modernc.org/sqlite"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/dataframe"
	"github.com/cah-jamey-weyenberg/great-expectations/engine/validator"
)

// Querier is the connection handle SQL readers accept, satisfied by
// pgx pools, connections and transactions.
type Querier = pgxscan.Querier

// The connection argument is excluded from the recorded pass-through
// arguments: a live handle cannot be serialized.
var (
	sqlTableBinding = binding{
		name:           "read_sql_table",
		primaryArgName: "table_name",
		defaultUseAsID: boolPtr(true),
		excludedArgs:   map[string]int{"con": 1},
	}

	sqlQueryBinding = binding{
		name:           "read_sql_query",
		primaryArgName: "sql",
		defaultUseAsID: boolPtr(false),
		excludedArgs:   map[string]int{"con": 1},
	}

	sqlBinding = binding{
		name:           "read_sql",
		primaryArgName: "sql",
		excludedArgs:   map[string]int{"con": 1},
	}

	sqliteBinding = binding{
		name:           "read_sqlite",
		primaryArgName: "path",
		defaultUseAsID: boolPtr(true),
	}
)

// ReadSQLTable loads a whole table. The connection is passed as the
// first extra positional argument or the `con` kwarg.
func (d *ReaderDatasource) ReadSQLTable(ctx context.Context, primary any, opts ...LoadOption) (*validator.Validator, error) {
	return d.load(ctx, sqlTableBinding, d.loadSQLTable, primary, opts...)
}

// ReadSQLQuery runs a free-form query. Connection passing matches
// ReadSQLTable.
func (d *ReaderDatasource) ReadSQLQuery(ctx context.Context, primary any, opts ...LoadOption) (*validator.Validator, error) {
	return d.load(ctx, sqlQueryBinding, d.loadSQLQuery, primary, opts...)
}

// ReadSQL dispatches on its primary argument: a bare name loads that
// table, anything else runs as a query.
func (d *ReaderDatasource) ReadSQL(ctx context.Context, primary any, opts ...LoadOption) (*validator.Validator, error) {
	return d.load(ctx, sqlBinding, d.loadSQL, primary, opts...)
}

// ReadSQLite opens a SQLite database file and loads the table or query
// named by the `table` or `query` kwarg.
func (d *ReaderDatasource) ReadSQLite(ctx context.Context, primary any, opts ...LoadOption) (*validator.Validator, error) {
	return d.load(ctx, sqliteBinding, d.loadSQLite, primary, opts...)
}

func connectionFrom(args []any, kwargs map[string]any) (Querier, error) {
	var raw any
	if con, ok := kwargs["con"]; ok {
		raw = con
	} else if len(args) > 0 {
		raw = args[0]
	}
	if raw == nil {
		return nil, fmt.Errorf("a connection is required (pass it as the first argument or the con kwarg)")
	}
	q, ok := raw.(Querier)
	if !ok {
		return nil, fmt.Errorf("unsupported connection type %T", raw)
	}
	return q, nil
}

func (d *ReaderDatasource) loadSQLTable(ctx context.Context, primary any, args []any, kwargs map[string]any) (*dataframe.DataFrame, error) {
	table, ok := primary.(string)
	if !ok || table == "" {
		return nil, fmt.Errorf("read_sql_table requires a table name")
	}
	q, err := connectionFrom(args, kwargs)
	if err != nil {
		return nil, err
	}
	return queryPostgres(ctx, q, "SELECT * FROM "+pgx.Identifier{table}.Sanitize())
}

func (d *ReaderDatasource) loadSQLQuery(ctx context.Context, primary any, args []any, kwargs map[string]any) (*dataframe.DataFrame, error) {
	query, ok := primary.(string)
	if !ok || query == "" {
		return nil, fmt.Errorf("read_sql_query requires a query string")
	}
	q, err := connectionFrom(args, kwargs)
	if err != nil {
		return nil, err
	}
	return queryPostgres(ctx, q, query)
}

func (d *ReaderDatasource) loadSQL(ctx context.Context, primary any, args []any, kwargs map[string]any) (*dataframe.DataFrame, error) {
	text, ok := primary.(string)
	if !ok || text == "" {
		return nil, fmt.Errorf("read_sql requires a table name or query")
	}
	if whitespaceRE.MatchString(text) {
		return d.loadSQLQuery(ctx, primary, args, kwargs)
	}
	return d.loadSQLTable(ctx, primary, args, kwargs)
}

// queryPostgres materializes a result set into a DataFrame, keeping
// the result's column order.
func queryPostgres(ctx context.Context, q Querier, query string, queryArgs ...any) (*dataframe.DataFrame, error) {
	rows, err := q.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	columns := make([]string, 0, len(rows.FieldDescriptions()))
	for _, fd := range rows.FieldDescriptions() {
		columns = append(columns, fd.Name)
	}
	var records []dataframe.Record
	for rows.Next() {
		rec := map[string]any{}
		if err := pgxscan.ScanRow(&rec, rows); err != nil {
			return nil, err
		}
		records = append(records, dataframe.Record(rec))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dataframe.New(columns, records), nil
}

func (d *ReaderDatasource) loadSQLite(ctx context.Context, primary any, _ []any, kwargs map[string]any) (*dataframe.DataFrame, error) {
	path, ok := primary.(string)
	if !ok || path == "" {
		return nil, fmt.Errorf("read_sqlite requires a database path")
	}
	query, _ := kwargs["query"].(string)
	if query == "" {
		table, _ := kwargs["table"].(string)
		if table == "" {
			return nil, fmt.Errorf("read_sqlite requires a query or table kwarg")
		}
		query = `SELECT * FROM "` + strings.ReplaceAll(table, `"`, `""`) + `"`
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer db.Close()
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var records []dataframe.Record
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(dataframe.Record, len(columns))
		for i, col := range columns {
			rec[col] = values[i]
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dataframe.New(columns, records), nil
}
