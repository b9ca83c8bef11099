package meta

// Placeholder hash values for files that were not, or could not be, hashed.
// Real digests are lower-case hex, so the leading underscore keeps them apart.
const (
	HashEmpty           = "_empty"
	HashInaccessible    = "_inaccessible_file"
	HashWalkErrorPrefix = "_error: "
)

// Meta table keys.
const (
	Date         = "DATE"
	Version      = "VERSION"
	RootResolved = "ROOT_RESOLVED"
	HashName     = "HASH"
)

// Table names.
const (
	FileTable  = "file"
	MetaTable  = "meta"
	Side1Table = "file1"
	Side2Table = "file2"
	Meta1Table = "meta1"
	Meta2Table = "meta2"
)
