package domain

import "errors"

// Store-level sentinels. Repositories return these; usecases translate them
// into client-facing errors.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("resource already exists")
)
