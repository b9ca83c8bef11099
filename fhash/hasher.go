// Package fhash computes content digests of files.
package fhash

import (
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
)

// Hasher computes fixed-width hex digests of file content.
type Hasher struct {
	algorithm *Algorithm
}

// New creates a hasher for the named algorithm.
func New(name string) (*Hasher, error) {
	algorithm, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return &Hasher{algorithm: algorithm}, nil
}

// Algorithm returns the name of the digest algorithm.
func (h *Hasher) Algorithm() string { return h.algorithm.Name }

// Hash returns the hex digest of the file content at path.
func (h *Hasher) Hash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return "", fmt.Errorf("%w: %s", ErrAccessDenied, path)
		}
		return "", err
	}
	defer file.Close()

	digest := h.algorithm.New()
	if err := sum(digest, file); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

func copyTo(digest hash.Hash, file *os.File) error {
	_, err := io.Copy(digest, file)
	return err
}
