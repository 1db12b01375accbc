// Package repository holds the in-process stores for bookings and
// payments.  Records live for the lifetime of the server; every read
// returns a copy so callers never share state with the store.
package repository

import "errors"

// ErrConflict is returned when a record with the same ID already exists.
// Higher layers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
