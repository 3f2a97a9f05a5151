package connections

import (
	"context"

	"inventory-system/pkg/database/postgresql"
)

// QueryResult - результат произвольного запроса в виде, пригодном для JSON.
type QueryResult struct {
	Columns      []string         `json:"columns"`
	Rows         []map[string]any `json:"rows"`
	RowsAffected int64            `json:"rows_affected"`
}

// RunQuery выполняет запрос на q и собирает все строки результата.
func RunQuery(ctx context.Context, q postgresql.Querier, sql string, params ...any) (*QueryResult, error) {
	rows, err := q.Query(ctx, sql, params...)
	if err != nil {
		return nil, wrapQueryError(err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := &QueryResult{
		Columns: make([]string, len(fields)),
		Rows:    make([]map[string]any, 0),
	}
	for i, f := range fields {
		result.Columns[i] = f.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, wrapQueryError(err)
		}
		row := make(map[string]any, len(values))
		for i, v := range values {
			if i < len(result.Columns) {
				row[result.Columns[i]] = v
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err)
	}

	result.RowsAffected = rows.CommandTag().RowsAffected()
	return result, nil
}

func wrapQueryError(err error) error {
	if postgresql.IsConnectivityError(err) {
		return postgresql.ClassifyError(err)
	}
	return err
}
