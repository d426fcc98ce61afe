package store

import "errors"

// ErrNotFound indicates a lookup or patch against an absent record.
var ErrNotFound = errors.New("record not found")
