// Package repository implements the data access layer over MySQL.
// Repositories speak raw SQL and surface failures either as
// sql.ErrNoRows (row absent) or as the sentinel values below, so
// that the booking service and handlers can classify errors with
// errors.Is without inspecting driver details.
package repository

import "errors"

// ErrConflict is returned when a write cannot proceed because of the
// current state of the row, such as flipping a sale listing that the
// caller does not own. Handlers translate this into an HTTP 4xx.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by UserRepo.Create when the email is
// already registered (MySQL duplicate-key error 1062 on users.email).
var ErrEmailExists = errors.New("email already exists")
