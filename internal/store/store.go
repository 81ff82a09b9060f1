// Package store defines the workbook storage the ingestion pipeline writes
// to: named workbooks inside folders, each holding named tables of rows.
package store

import (
	"context"
	"sort"
	"strconv"
	"time"
)

// RootFolder is where workbooks land when their folder cannot be used.
const RootFolder = "root"

type Access string

const (
	AccessPrivate Access = "private"
	AccessView    Access = "view"
	AccessEdit    Access = "edit"
)

type Store interface {
	// EnsureFolder returns the id of the named folder, creating it if needed,
	// and sets its link access.
	EnsureFolder(ctx context.Context, name string, access Access) (string, error)
	// Open returns the workbook with the given name in folderID, or an
	// apperr.ErrNotFound error.
	Open(ctx context.Context, folderID, name string) (Workbook, error)
	Create(ctx context.Context, folderID, name string) (Workbook, error)
	Share(ctx context.Context, workbookID string, access Access) error
	Ping(ctx context.Context) error
}

// Workbook is a set of named tables. The first row of a table is its header.
type Workbook interface {
	ID() string
	Name() string
	// EnsureTable creates the table with header when it does not exist and
	// reports whether it was created.
	EnsureTable(ctx context.Context, table string, header []string) (bool, error)
	// Rows returns every row including the header, or apperr.ErrNotFound.
	Rows(ctx context.Context, table string) ([][]string, error)
	Append(ctx context.Context, table string, rows ...[]string) error
	// Replace clears the table, creating it if needed, and writes rows.
	Replace(ctx context.Context, table string, rows [][]string) error
	// SortDesc orders every row below the header by column col, descending.
	SortDesc(ctx context.Context, table string, col int) error
}

// SortRowsDesc sorts rows in place by column col, descending, keeping equal
// rows in their current order.
func SortRowsDesc(rows [][]string, col int) {
	sort.SliceStable(rows, func(i, j int) bool {
		return CompareCells(cellAt(rows[i], col), cellAt(rows[j], col)) > 0
	})
}

// CompareCells orders two cells as timestamps when both parse as RFC 3339,
// as numbers when both are numeric, and as strings otherwise.
func CompareCells(a, b string) int {
	if ta, err := time.Parse(time.RFC3339, a); err == nil {
		if tb, err := time.Parse(time.RFC3339, b); err == nil {
			return ta.Compare(tb)
		}
	}
	if fa, err := strconv.ParseFloat(a, 64); err == nil {
		if fb, err := strconv.ParseFloat(b, 64); err == nil {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cellAt(r []string, i int) string {
	if i < len(r) {
		return r[i]
	}
	return ""
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
