package compare

import "errors"

// ErrAlgorithmMismatch is returned when the compared catalogs were hashed differently.
var ErrAlgorithmMismatch = errors.New("compare: catalogs use different hash algorithms")

// ErrSamePath is returned when the comparison file would replace one of its catalogs.
var ErrSamePath = errors.New("compare: comparison path is a catalog path")
