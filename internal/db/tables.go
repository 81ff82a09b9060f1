package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"geostats/internal/apperr"
	"geostats/internal/store"
)

// workbook stores each table row as a JSON array of cells, ordered by a
// 1-based position where position 1 is the header.
type workbook struct {
	db   *DB
	id   string
	name string
}

func (w *workbook) ID() string   { return w.id }
func (w *workbook) Name() string { return w.name }

func (w *workbook) EnsureTable(ctx context.Context, table string, header []string) (bool, error) {
	var created bool
	err := w.db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO workbook_tables (workbook_id, name) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, w.id, table)
		if err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
		if n == 0 {
			return nil
		}
		created = true
		return w.insertRows(ctx, tx, table, 1, [][]string{header})
	})
	return created, wrap("ensure table", err)
}

func (w *workbook) Rows(ctx context.Context, table string) ([][]string, error) {
	var rows [][]string
	err := w.db.withTx(ctx, func(tx *sql.Tx) error {
		if err := w.mustExist(ctx, tx, table); err != nil {
			return err
		}
		var err error
		rows, err = w.readRows(ctx, tx, table)
		return err
	})
	return rows, wrap("read table", err)
}

func (w *workbook) Append(ctx context.Context, table string, rows ...[]string) error {
	err := w.db.withTx(ctx, func(tx *sql.Tx) error {
		if err := w.mustExist(ctx, tx, table); err != nil {
			return err
		}
		var last int
		err := tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(position), 0) FROM table_rows
			WHERE workbook_id = $1 AND table_name = $2
		`, w.id, table).Scan(&last)
		if err != nil {
			return fmt.Errorf("getting last row: %w", err)
		}
		return w.insertRows(ctx, tx, table, last+1, rows)
	})
	return wrap("append rows", err)
}

func (w *workbook) Replace(ctx context.Context, table string, rows [][]string) error {
	err := w.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO workbook_tables (workbook_id, name) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, w.id, table); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
		return w.rewrite(ctx, tx, table, rows)
	})
	return wrap("replace table", err)
}

func (w *workbook) SortDesc(ctx context.Context, table string, col int) error {
	err := w.db.withTx(ctx, func(tx *sql.Tx) error {
		if err := w.mustExist(ctx, tx, table); err != nil {
			return err
		}
		rows, err := w.readRows(ctx, tx, table)
		if err != nil {
			return err
		}
		if len(rows) <= 2 {
			return nil
		}
		store.SortRowsDesc(rows[1:], col)
		return w.rewrite(ctx, tx, table, rows)
	})
	return wrap("sort table", err)
}

func (w *workbook) mustExist(ctx context.Context, tx *sql.Tx, table string) error {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM workbook_tables WHERE workbook_id = $1 AND name = $2
	`, w.id, table).Scan(&n)
	if err != nil {
		return fmt.Errorf("checking table: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("", "sheet not found: %s", table)
	}
	return nil
}

func (w *workbook) readRows(ctx context.Context, tx *sql.Tx, table string) ([][]string, error) {
	res, err := tx.QueryContext(ctx, `
		SELECT cells FROM table_rows
		WHERE workbook_id = $1 AND table_name = $2
		ORDER BY position
	`, w.id, table)
	if err != nil {
		return nil, fmt.Errorf("getting rows: %w", err)
	}
	defer res.Close()

	var rows [][]string
	for res.Next() {
		var raw string
		if err := res.Scan(&raw); err != nil {
			return nil, err
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("decoding row: %w", err)
		}
		rows = append(rows, cells)
	}
	return rows, res.Err()
}

func (w *workbook) rewrite(ctx context.Context, tx *sql.Tx, table string, rows [][]string) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM table_rows WHERE workbook_id = $1 AND table_name = $2
	`, w.id, table); err != nil {
		return fmt.Errorf("clearing table: %w", err)
	}
	return w.insertRows(ctx, tx, table, 1, rows)
}

func (w *workbook) insertRows(ctx context.Context, tx *sql.Tx, table string, start int, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO table_rows (workbook_id, table_name, position, cells)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if r == nil {
			r = []string{}
		}
		cells, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding row: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, w.id, table, start+i, string(cells)); err != nil {
			return fmt.Errorf("inserting row: %w", err)
		}
	}
	return nil
}

func wrap(op string, err error) error {
	if err == nil || apperr.KindOf(err) != nil {
		return err
	}
	return apperr.Upstream(op, err)
}
