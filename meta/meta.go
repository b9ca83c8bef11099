package meta

import "strings"

// HashWalkError returns the placeholder hash recorded for a path the traversal failed on.
func HashWalkError(message string) string {
	return HashWalkErrorPrefix + message
}

// IsSentinel reports whether hash is one of the placeholder values.
func IsSentinel(hash string) bool {
	return hash == HashEmpty || hash == HashInaccessible || strings.HasPrefix(hash, HashWalkErrorPrefix)
}
