package repository

import "errors"

// ErrNoRecord is returned when a lookup matches nothing. Services translate
// it into a typed NOT_FOUND error.
var ErrNoRecord = errors.New("record not found")

// ErrDuplicate is returned when a unique field is already taken.
var ErrDuplicate = errors.New("record already exists")
