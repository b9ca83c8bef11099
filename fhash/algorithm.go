package fhash

import (
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"
	"strings"

	"github.com/minio/highwayhash"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = "sha1"

var highwayKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Algorithm describes a content digest.
type Algorithm struct {
	Name string
	// Size is the digest size in bytes; hex digests are twice as wide.
	Size int
	New  func() hash.Hash
}

// Lookup returns the algorithm registered under name (case-insensitive).
func Lookup(name string) (*Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sha1":
		return &Algorithm{Name: "sha1", Size: sha1.Size, New: sha1.New}, nil
	case "sha256":
		return &Algorithm{Name: "sha256", Size: sha256.Size, New: sha256.New}, nil
	case "highwayhash":
		return &Algorithm{Name: "highwayhash", Size: highwayhash.Size, New: newHighway}, nil
	default:
		return nil, fmt.Errorf("fhash: unsupported algorithm: %s", name)
	}
}

func newHighway() hash.Hash {
	h, err := highwayhash.New(highwayKey)
	if err != nil {
		// only fails for keys that are not 32 bytes long
		panic(err)
	}
	return h
}
