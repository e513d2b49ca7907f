package domain

import "errors"

// Error taxonomy shared by the repositories and the app layer. The storage
// layer translates driver errors into these before they cross the boundary,
// so callers only ever match with errors.Is.
var (
	// ErrNotFound indicates the referenced record, video or user does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a (user, video) pair already has a download record
	ErrConflict = errors.New("already exists")
)
