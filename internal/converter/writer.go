package converter

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/nconklindev/vizprep/internal/errors"
	"github.com/nconklindev/vizprep/internal/types"
)

// OutputHeader is the header row of every formatted file.
var OutputHeader = []string{"Category", "Value"}

// FormatValue renders a value the way it appears in the output file.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EncodeCSV writes the header and one row per valid entry, in insertion
// order. Entries with a blank category or a non-finite value are skipped and
// counted as invalid. An empty map produces just the header.
func EncodeCSV(w io.Writer, data *types.CategoryValueMap) (written, invalid int, err error) {
	writer := csv.NewWriter(w)

	if err := writer.Write(OutputHeader); err != nil {
		return 0, 0, err
	}

	if data != nil {
		data.Each(func(category string, value float64) {
			category = strings.TrimSpace(category)
			if category == "" || math.IsNaN(value) || math.IsInf(value, 0) {
				invalid++
				return
			}
			if err != nil {
				return
			}
			err = writer.Write([]string{category, FormatValue(math.Abs(value))})
			if err == nil {
				written++
			}
		})
		if err != nil {
			return written, invalid, err
		}
	}

	writer.Flush()
	return written, invalid, writer.Error()
}

// WriteCSV creates outputFile and encodes data into it.
func WriteCSV(outputFile string, data *types.CategoryValueMap) (written, invalid int, err error) {
	outFile, err := os.Create(outputFile)
	if err != nil {
		return 0, 0, errors.OutputWrite(outputFile, err)
	}

	written, invalid, err = EncodeCSV(outFile, data)
	if closeErr := outFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return written, invalid, errors.OutputWrite(outputFile, err)
	}

	return written, invalid, nil
}
