package types

import "errors"

// Domain errors for type validation
var (
	ErrInvalidChunkID  = errors.New("invalid chunk ID")
	ErrEmptyContent    = errors.New("content cannot be empty")
	ErrMissingFilename = errors.New("filename or file ID is required")
)
