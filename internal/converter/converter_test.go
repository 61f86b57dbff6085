package converter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nconklindev/vizprep/internal/errors"
	"github.com/nconklindev/vizprep/internal/types"
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func writeXLSX(t *testing.T, name string, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadTableCSV(t *testing.T) {
	path := writeTemp(t, "sales.csv", []byte("Name,Amount\nWidgets,12\nGadgets,3.5\n"))

	table, err := ReadTable(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Amount"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, types.Row{"Name": "Widgets", "Amount": "12"}, table.Rows[0])
	assert.Equal(t, types.Row{"Name": "Gadgets", "Amount": "3.5"}, table.Rows[1])
}

func TestReadTableStripsBOM(t *testing.T) {
	path := writeTemp(t, "bom.csv", []byte("\xef\xbb\xbfCategory,Value\nA,1\n"))

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Category", "Value"}, table.Columns)
}

func TestReadTableTSVFallback(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"Tab separated txt", "data.txt", "Label\tCount\nApples\t4\nPears\t7\n"},
		{"Tab separated with commas in cells", "data.csv", "Label\tCount\nApples, red\t4\nPears\t7,5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadTable(writeTemp(t, tt.file, []byte(tt.content)))
			require.NoError(t, err)
			assert.Equal(t, []string{"Label", "Count"}, table.Columns)
			assert.Len(t, table.Rows, 2)
		})
	}
}

func TestReadTablePadsShortRows(t *testing.T) {
	path := writeTemp(t, "short.csv", []byte("Category,Value,Note\nA,1\n"))

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, types.Row{"Category": "A", "Value": "1", "Note": ""}, table.Rows[0])
}

func TestReadTableHeaders(t *testing.T) {
	path := writeTemp(t, "headers.csv", []byte(" Name ,,Name,Name\nA,1,2,3\n"))

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Unnamed: 1", "Name.1", "Name.2"}, table.Columns)
	assert.Equal(t, "3", table.Rows[0]["Name.2"])
}

func TestReadTableXLSX(t *testing.T) {
	path := writeXLSX(t, "report.xlsx", [][]interface{}{
		{},
		{"Item", "Quantity"},
		{"Bolts", 120},
		{"Nuts", 80.25},
	})

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Item", "Quantity"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "120", table.Rows[0]["Quantity"])
	assert.Equal(t, "80.25", table.Rows[1]["Quantity"])
}

func TestReadTableErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code string
	}{
		{
			name: "Unsupported extension",
			path: func(t *testing.T) string { return writeTemp(t, "data.json", []byte("{}")) },
			code: errors.CodeUnsupportedFileType,
		},
		{
			name: "Missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.csv") },
			code: errors.CodeFileNotFound,
		},
		{
			name: "Empty file",
			path: func(t *testing.T) string { return writeTemp(t, "empty.csv", nil) },
			code: errors.CodeEmptyInput,
		},
		{
			name: "Header only",
			path: func(t *testing.T) string { return writeTemp(t, "header.csv", []byte("Category,Value\n")) },
			code: errors.CodeEmptyInput,
		},
		{
			name: "Not a workbook",
			path: func(t *testing.T) string { return writeTemp(t, "legacy.xls", []byte("not a zip archive")) },
			code: errors.CodeParseFailure,
		},
		{
			name: "Neither CSV nor TSV",
			path: func(t *testing.T) string {
				return writeTemp(t, "ragged.txt", []byte("a,b\n1,2,3\n4\t5\t6\n"))
			},
			code: errors.CodeParseFailure,
		},
		{
			name: "Blank worksheet",
			path: func(t *testing.T) string { return writeXLSX(t, "blank.xlsx", nil) },
			code: errors.CodeEmptyInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(tt.path(t))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), err.Error())
		})
	}
}

func TestFindHeaderRow(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		expected int
	}{
		{"First row", [][]string{{"a", "b"}, {"1", "2"}}, 0},
		{"Leading blank rows", [][]string{{}, {"", " "}, {"a"}}, 2},
		{"All blank", [][]string{{}, {""}}, -1},
		{"No rows", nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, findHeaderRow(tt.rows))
		})
	}
}
