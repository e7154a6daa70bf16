package types

import "fmt"

// Location identifies a position in a source file. Line and Column are
// 1-based.
type Location struct {
	File   string
	Line   int
	Column int
}

// NewLocation creates a Location.
func NewLocation(file string, line, column int) Location {
	return Location{File: file, Line: line, Column: column}
}

// String returns the location in file:line form.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// IsValid reports whether the location has a file and positive coordinates.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line >= 1 && l.Column >= 1
}
