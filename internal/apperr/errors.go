// Package apperr holds the error classes shared by the store, the parse
// pipeline and the surfaces that report them to the user.
package apperr

import "errors"

var (
	// ErrConfiguration means the completion endpoint cannot be used
	// (usually a missing credential). Parsing is disabled; the store is not.
	ErrConfiguration = errors.New("configuration error")

	// ErrParse means the completion call failed or returned something
	// that is not the expected JSON object.
	ErrParse = errors.New("parse failure")

	// ErrValidation means a draft or a status change was rejected before
	// any store mutation.
	ErrValidation = errors.New("validation error")

	// ErrStorageRead means the backing file exists but is not a readable table.
	ErrStorageRead = errors.New("storage read error")

	ErrNotFound = errors.New("not found")
)
