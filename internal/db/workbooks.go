package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"geostats/internal/apperr"
	"geostats/internal/store"
)

func (d *DB) EnsureFolder(ctx context.Context, name string, access store.Access) (string, error) {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO folders (id, name, access)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET access = excluded.access
	`, uuid.New().String(), name, string(access))
	if err != nil {
		return "", apperr.Upstream("ensure folder", fmt.Errorf("upserting folder: %w", err))
	}

	var id string
	err = d.conn.QueryRowContext(ctx, `SELECT id FROM folders WHERE name = $1`, name).Scan(&id)
	if err != nil {
		return "", apperr.Upstream("ensure folder", fmt.Errorf("getting folder: %w", err))
	}
	return id, nil
}

func (d *DB) Open(ctx context.Context, folderID, name string) (store.Workbook, error) {
	var id string
	err := d.conn.QueryRowContext(ctx, `
		SELECT id FROM workbooks WHERE folder_id = $1 AND name = $2
	`, folderID, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("open workbook", "workbook not found: %s", name)
	}
	if err != nil {
		return nil, apperr.Upstream("open workbook", fmt.Errorf("getting workbook: %w", err))
	}
	return &workbook{db: d, id: id, name: name}, nil
}

func (d *DB) Create(ctx context.Context, folderID, name string) (store.Workbook, error) {
	id := uuid.New().String()
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO workbooks (id, folder_id, name) VALUES ($1, $2, $3)
	`, id, folderID, name)
	if err != nil {
		return nil, apperr.Upstream("create workbook", fmt.Errorf("creating workbook: %w", err))
	}
	return &workbook{db: d, id: id, name: name}, nil
}

func (d *DB) Share(ctx context.Context, workbookID string, access store.Access) error {
	res, err := d.conn.ExecContext(ctx, `
		UPDATE workbooks SET access = $1 WHERE id = $2
	`, string(access), workbookID)
	if err != nil {
		return apperr.Upstream("share workbook", fmt.Errorf("updating access: %w", err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("share workbook", "workbook not found: %s", workbookID)
	}
	return nil
}

// AccessOf returns the link access recorded for a workbook.
func (d *DB) AccessOf(ctx context.Context, workbookID string) (store.Access, error) {
	var access string
	err := d.conn.QueryRowContext(ctx, `SELECT access FROM workbooks WHERE id = $1`, workbookID).Scan(&access)
	if err != nil {
		return "", fmt.Errorf("getting access: %w", err)
	}
	return store.Access(access), nil
}
