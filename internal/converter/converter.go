package converter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/vizprep/internal/errors"
	"github.com/nconklindev/vizprep/internal/types"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const RowDetectionLimit = 10

// SupportedExtensions lists the input extensions ReadTable accepts.
var SupportedExtensions = []string{".xlsx", ".xls", ".csv", ".txt"}

// ReadTable loads the first sheet of a spreadsheet or a delimited text file
// into a Table keyed by (de-duplicated) header names.
func ReadTable(filePath string) (*types.Table, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	var read func(string) ([][]string, error)
	switch ext {
	case ".xlsx", ".xls":
		read = readXLSXRows
	case ".csv", ".txt":
		read = readDelimitedRows
	default:
		return nil, errors.UnsupportedFileType(ext)
	}

	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound(filePath)
		}
		return nil, errors.ParseFailure(filePath, err)
	}

	rows, err := read(filePath)
	if err != nil {
		return nil, err
	}

	return buildTable(rows)
}

// readDelimitedRows parses the file as CSV, falling back to tab-separated
// values when the CSV parse fails structurally.
func readDelimitedRows(filePath string) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.ParseFailure(filePath, err)
	}
	defer file.Close()

	// Strips a UTF-8 BOM and decodes UTF-16 exports that carry one.
	decoded := transform.NewReader(file, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	content, err := io.ReadAll(decoded)
	if err != nil {
		return nil, errors.ParseFailure(filePath, err)
	}

	records, csvErr := parseDelimited(content, ',')
	if csvErr == nil {
		return records, nil
	}

	records, tsvErr := parseDelimited(content, '\t')
	if tsvErr == nil {
		return records, nil
	}

	return nil, errors.ParseFailure(filePath, fmt.Errorf("as CSV: %v; as TSV: %w", csvErr, tsvErr))
}

// parseDelimited reads every record with the given separator. Rows shorter
// than the header are allowed; longer rows are a structural error. A comma
// parse that yields a single tab-bearing header column is also rejected so
// tab-separated input reaches the TSV pass.
func parseDelimited(content []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}

	width := len(records[0])
	if comma == ',' && width == 1 && strings.Contains(records[0][0], "\t") {
		return nil, fmt.Errorf("header looks tab-separated")
	}
	for i, record := range records[1:] {
		if len(record) > width {
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", width, i+2, len(record))
		}
	}

	return records, nil
}

func readXLSXRows(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, errors.ParseFailure(filePath, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)

	// Raw values keep number formats ("$1,200.00") out of numeric parsing.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.ParseFailure(filePath, err)
	}

	headerRowIdx := findHeaderRow(rows)
	if headerRowIdx == -1 {
		return nil, nil
	}

	return rows[headerRowIdx:], nil
}

// findHeaderRow returns the index of the first row with a non-blank cell,
// looking no further than the first 20 rows.
func findHeaderRow(rows [][]string) int {
	searchLimit := len(rows)
	if searchLimit > RowDetectionLimit*2 {
		searchLimit = RowDetectionLimit * 2
	}

	for i := 0; i < searchLimit; i++ {
		for _, cell := range rows[i] {
			if strings.TrimSpace(cell) != "" {
				return i
			}
		}
	}

	return -1
}

// buildTable turns a header row plus data rows into a Table. Short rows are
// padded with empty cells.
func buildTable(records [][]string) (*types.Table, error) {
	if len(records) < 2 {
		return nil, errors.EmptyInput()
	}

	width := 0
	for _, record := range records {
		if len(record) > width {
			width = len(record)
		}
	}

	header := make([]string, width)
	copy(header, records[0])
	columns := normalizeHeaders(header)

	rows := make([]types.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(types.Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return &types.Table{Columns: columns, Rows: rows}, nil
}

// normalizeHeaders trims header names, names blank ones "Unnamed: <index>"
// and suffixes repeats with ".1", ".2", ... so every column id is unique.
func normalizeHeaders(header []string) []string {
	columns := make([]string, len(header))
	used := make(map[string]bool, len(header))

	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		candidate := name
		for n := 1; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", name, n)
		}

		used[candidate] = true
		columns[i] = candidate
	}

	return columns
}
