package schema

import (
	"database/sql"

	"github.com/viant/findex/meta"
)

// File describes one entry of a catalog.
type File struct {
	Path     string
	Size     int64
	Hash     string
	Created  sql.NullTime
	Modified sql.NullTime
}

// IsSentinel reports whether the file carries a placeholder instead of a content digest.
func (f *File) IsSentinel() bool {
	return meta.IsSentinel(f.Hash)
}

// ContentGroup lists the paths on both sides of a comparison that share one content hash.
type ContentGroup struct {
	Hash   string
	Size   int64
	Files1 []string
	Files2 []string
}
