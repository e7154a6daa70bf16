package types

import "errors"

// Domain errors for type validation
var (
	ErrMissingName     = errors.New("stub name is required")
	ErrInvalidKind     = errors.New("invalid stub kind")
	ErrInvalidLocation = errors.New("invalid location: file required and line/column must be >= 1")
)
