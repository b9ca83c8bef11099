package store

import (
	"fmt"

	"github.com/viant/findex/meta"
)

func fileTableDDL(table string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE %s (
			path TEXT NOT NULL,
			size INTEGER NOT NULL CHECK (size >= 0),
			hash TEXT NOT NULL,
			created DATETIME,
			modified DATETIME
		);`, table),
		fmt.Sprintf(`CREATE INDEX idx_%s_hash ON %s(hash);`, table, table),
		fmt.Sprintf(`CREATE INDEX idx_%s_path ON %s(path);`, table, table),
	}
}

func metaTableDDL(table string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE %s (
			key TEXT PRIMARY KEY,
			value TEXT
		);`, table),
	}
}

func (s *Store) schemaDDL() []string {
	var stmts []string
	for _, table := range s.tables {
		stmts = append(stmts, fileTableDDL(table)...)
	}
	stmts = append(stmts, metaTableDDL(meta.MetaTable)...)
	for _, table := range s.metaTables {
		stmts = append(stmts, metaTableDDL(table)...)
	}
	return stmts
}
