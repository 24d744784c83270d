package models

import "errors"

// ErrInvalidRoster is returned when roster input is not a non-empty array of
// well-formed participant records.
var ErrInvalidRoster = errors.New("invalid roster")
