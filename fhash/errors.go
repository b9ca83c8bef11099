package fhash

import "errors"

// ErrAccessDenied is returned when a file cannot be opened for reading.
var ErrAccessDenied = errors.New("fhash: access denied")
