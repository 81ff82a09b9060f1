package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"geostats/internal/apperr"
)

// Memory is an in-process Store. It is used when no database is configured
// and in tests.
type Memory struct {
	mu        sync.Mutex
	folders   map[string]string // name -> id
	access    map[string]Access // folder or workbook id -> access
	workbooks map[string]*memWorkbook
}

func NewMemory() *Memory {
	return &Memory{
		folders:   map[string]string{"": RootFolder},
		access:    map[string]Access{RootFolder: AccessPrivate},
		workbooks: make(map[string]*memWorkbook),
	}
}

func (m *Memory) EnsureFolder(_ context.Context, name string, access Access) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.folders[name]
	if !ok {
		id = uuid.New().String()
		m.folders[name] = id
	}
	m.access[id] = access
	return id, nil
}

func (m *Memory) Open(_ context.Context, folderID, name string) (Workbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, wb := range m.workbooks {
		if wb.folder == folderID && wb.name == name {
			return wb, nil
		}
	}
	return nil, apperr.NotFound("open workbook", "workbook not found: %s", name)
}

func (m *Memory) Create(_ context.Context, folderID, name string) (Workbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wb := &memWorkbook{
		id:     uuid.New().String(),
		name:   name,
		folder: folderID,
		tables: make(map[string][][]string),
	}
	m.workbooks[wb.id] = wb
	m.access[wb.id] = AccessPrivate
	return wb, nil
}

func (m *Memory) Share(_ context.Context, workbookID string, access Access) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workbooks[workbookID]; !ok {
		return apperr.NotFound("share workbook", "workbook not found: %s", workbookID)
	}
	m.access[workbookID] = access
	return nil
}

// AccessOf reports the link access recorded for a folder or workbook id.
func (m *Memory) AccessOf(id string) Access {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access[id]
}

func (m *Memory) Ping(context.Context) error { return nil }

type memWorkbook struct {
	mu     sync.Mutex
	id     string
	name   string
	folder string
	tables map[string][][]string
}

func (w *memWorkbook) ID() string   { return w.id }
func (w *memWorkbook) Name() string { return w.name }

func (w *memWorkbook) EnsureTable(_ context.Context, table string, header []string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.tables[table]; ok {
		return false, nil
	}
	w.tables[table] = [][]string{append([]string(nil), header...)}
	return true, nil
}

func (w *memWorkbook) Rows(_ context.Context, table string) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, ok := w.tables[table]
	if !ok {
		return nil, apperr.NotFound("read table", "sheet not found: %s", table)
	}
	return cloneRows(rows), nil
}

func (w *memWorkbook) Append(_ context.Context, table string, rows ...[]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	existing, ok := w.tables[table]
	if !ok {
		return apperr.NotFound("append rows", "sheet not found: %s", table)
	}
	w.tables[table] = append(existing, cloneRows(rows)...)
	return nil
}

func (w *memWorkbook) Replace(_ context.Context, table string, rows [][]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tables[table] = cloneRows(rows)
	return nil
}

func (w *memWorkbook) SortDesc(_ context.Context, table string, col int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, ok := w.tables[table]
	if !ok {
		return apperr.NotFound("sort table", "sheet not found: %s", table)
	}
	if len(rows) > 2 {
		SortRowsDesc(rows[1:], col)
	}
	return nil
}
