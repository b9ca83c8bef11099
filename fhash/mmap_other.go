//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || solaris || aix)

package fhash

import (
	"hash"
	"os"
)

// No mmap here; stream the file instead.
func sum(digest hash.Hash, file *os.File) error {
	return copyTo(digest, file)
}
