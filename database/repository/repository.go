// Package repository holds errors shared by the entity repositories.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist (or is soft-deleted).
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a uniqueness guarantee rejects a write.
var ErrConflict = errors.New("conflicting record exists")
