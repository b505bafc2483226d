package parser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned when a statement file is neither
	// delimited text nor a legacy spreadsheet.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrFileNotFound is returned when the statement path does not exist.
	ErrFileNotFound = errors.New("statement file not found")
)

// MissingColumnsError aborts a parse when the statement lacks columns the
// descriptor mapping requires. A single missing column fails the whole
// platform; there is no partial-column parse.
type MissingColumnsError struct {
	Platform string
	Columns  []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: statement is missing columns: %s",
		e.Platform, strings.Join(e.Columns, ", "))
}
