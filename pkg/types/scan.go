package types

import "fmt"

// ScanError describes a problem encountered while scanning source text
type ScanError struct {
	File    string
	Line    int
	Column  int
	Message string
}

// Error implements the error interface
func (e ScanError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// ScanResult holds the stubs extracted from one source file
type ScanResult struct {
	Stubs  []*Stub
	Errors []ScanError
}

// AddStub appends a stub to the result
func (r *ScanResult) AddStub(stub *Stub) {
	r.Stubs = append(r.Stubs, stub)
}

// AddError records a scan error
func (r *ScanResult) AddError(file string, line, column int, message string) {
	r.Errors = append(r.Errors, ScanError{File: file, Line: line, Column: column, Message: message})
}

// HasErrors reports whether any scan errors were recorded
func (r *ScanResult) HasErrors() bool {
	return len(r.Errors) > 0
}
