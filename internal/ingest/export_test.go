package ingest

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"geostats/internal/apperr"
	"geostats/internal/records"
	"geostats/internal/store"
)

func TestEncodeCSV_QuotesEveryCell(t *testing.T) {
	got := EncodeCSV([][]string{
		{"Country", "Encountered"},
		{"FR", "3"},
	})
	assert.Equal(t, "\"Country\",\"Encountered\"\n\"FR\",\"3\"", got)
}

func TestEncodeCSV_PadsShortRows(t *testing.T) {
	got := EncodeCSV([][]string{{"a", "b", "c"}, {"d"}})
	assert.Equal(t, "\"a\",\"b\",\"c\"\n\"d\",\"\",\"\"", got)
}

func TestEncodeCSV_RoundTrip(t *testing.T) {
	rows := [][]string{
		{"Map", "Note"},
		{"World, Big", `say "hi"`},
		{"Europe", "line one\nline two"},
		{"", ""},
	}

	parsed, err := csv.NewReader(strings.NewReader(EncodeCSV(rows))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, rows, parsed)
}

func TestExport_UserTable(t *testing.T) {
	st := store.NewMemory()
	g := new(mockGeocoder)
	g.On("ReverseCountry", mock.Anything, mock.Anything).Return("fr", nil)
	svc := newTestService(t, st, g)
	require.True(t, svc.Submit(context.Background(), "u", sampleGame("tok")).Success)

	out, err := svc.Export(context.Background(), "u", records.TableCountryRecognition)
	require.NoError(t, err)

	parsed, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 3)
	assert.Equal(t, []string(records.CountryRecognitionHeader), parsed[0])
	assert.Equal(t, "tok", parsed[1][1])
}

func TestExport_DefaultWorkbookInRoot(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	wb, err := st.Create(ctx, store.RootFolder, "Shared Stats")
	require.NoError(t, err)
	require.NoError(t, wb.Replace(ctx, "Countries", [][]string{{"Country", "Encountered"}, {"FR", "2"}}))

	opts := testOpts
	opts.DefaultWorkbook = "Shared Stats"
	svc := NewService(st, new(mockGeocoder), zap.NewNop(), opts)

	out, err := svc.Export(ctx, "", "Countries")
	require.NoError(t, err)
	assert.Equal(t, "\"Country\",\"Encountered\"\n\"FR\",\"2\"", out)
}

func TestExport_Errors(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	g := new(mockGeocoder)
	g.On("ReverseCountry", mock.Anything, mock.Anything).Return("fr", nil)
	svc := newTestService(t, st, g)
	require.True(t, svc.Submit(ctx, "u", sampleGame("tok")).Success)

	wb := openUserWorkbook(t, st, "u")
	_, err := wb.EnsureTable(ctx, "Empty", records.Row{"Country", "Encountered"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		user  string
		table string
		kind  error
		msg   string
	}{
		{name: "missing sheet", user: "u", table: "", kind: apperr.ErrValidation, msg: `missing "sheet" parameter`},
		{name: "no default workbook", user: "", table: "Games", kind: apperr.ErrValidation, msg: `missing "user" parameter`},
		{name: "unknown user", user: "nobody", table: "Games", kind: apperr.ErrNotFound},
		{name: "unknown table", user: "u", table: "Nope", kind: apperr.ErrNotFound, msg: "sheet not found: Nope"},
		{name: "header only", user: "u", table: "Empty", kind: apperr.ErrValidation, msg: `sheet "Empty" is empty`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Export(ctx, tt.user, tt.table)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}
