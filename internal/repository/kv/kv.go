package kv

import (
	"errors"
)

// ErrKeyNotFound is returned by Load when no value exists for the key.
// Callers treat it as "empty state", not a persistence failure.
var ErrKeyNotFound = errors.New("key not found")
