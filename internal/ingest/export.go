package ingest

import (
	"context"
	"errors"
	"strings"

	"geostats/internal/apperr"
	"geostats/internal/store"
)

// Export renders table from userID's workbook as CSV. With an empty userID
// the configured default workbook is used.
func (s *Service) Export(ctx context.Context, userID, table string) (string, error) {
	if table == "" {
		return "", apperr.Validation("export", `missing "sheet" parameter`)
	}

	name := s.opts.DefaultWorkbook
	if userID != "" {
		name = WorkbookName(userID)
	}
	if name == "" {
		return "", apperr.Validation("export", `missing "user" parameter`)
	}

	wb, err := s.openExisting(ctx, name)
	if err != nil {
		return "", err
	}
	rows, err := wb.Rows(ctx, table)
	if err != nil {
		return "", err
	}
	if len(rows) < 2 {
		return "", apperr.Validation("export", "sheet %q is empty", table)
	}
	return EncodeCSV(rows), nil
}

// openExisting looks for a workbook in the user folder, then the root folder.
func (s *Service) openExisting(ctx context.Context, name string) (store.Workbook, error) {
	folders := []string{store.RootFolder}
	if s.opts.Folder != "" {
		if id, err := s.store.EnsureFolder(ctx, s.opts.Folder, store.AccessView); err == nil {
			folders = append([]string{id}, folders...)
		}
	}
	var err error
	for _, f := range folders {
		var wb store.Workbook
		if wb, err = s.store.Open(ctx, f, name); err == nil {
			return wb, nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
	}
	return nil, err
}

// EncodeCSV quotes every cell, doubling embedded quotes, joins cells with
// commas and rows with newlines. Rows are padded to the widest row.
func EncodeCSV(rows [][]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j := 0; j < width; j++ {
			if j > 0 {
				b.WriteByte(',')
			}
			var cell string
			if j < len(r) {
				cell = r[j]
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}
