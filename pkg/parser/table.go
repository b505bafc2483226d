package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"

	"github.com/nikosa/p2pflow/pkg/platform"
)

// maxRows bounds spreadsheet reading; a personal account statement never
// comes close.
const maxRows = 100000

// readTable loads the raw statement into rows of cells, dispatching on the
// declared format with the file extension as a sanity check.
func readTable(desc *platform.Descriptor, path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat statement file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case desc.Format == platform.FormatCSV && (ext == ".csv" || ext == ".txt"):
		return readCSV(path, desc.Delimiter)
	case desc.Format == platform.FormatXLS && ext == ".xls":
		return readXLS(path)
	default:
		return nil, fmt.Errorf("%w: %s for %s statement", ErrUnsupportedFormat, ext, desc.Format)
	}
}

func readCSV(path string, delimiter rune) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	// Column counts vary between header, data and footer sections.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading delimited statement: %v", ErrUnsupportedFormat, err)
	}
	return rows, nil
}

func readXLS(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	workbook, err := xls.OpenReader(file, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %v", ErrUnsupportedFormat, err)
	}

	rows := workbook.ReadAllCells(maxRows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no data found in sheet", ErrUnsupportedFormat)
	}
	return rows, nil
}
