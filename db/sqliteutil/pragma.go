// Package sqliteutil builds connection strings for the pure Go SQLite driver.
package sqliteutil

import (
	"fmt"
	"strings"
)

// DriverName is the database/sql name of modernc.org/sqlite.
const DriverName = "sqlite"

// Pragma is applied by the driver to every new connection, e.g. "busy_timeout(5000)".
type Pragma string

// BusyTimeout makes a locked database wait up to ms milliseconds.
func BusyTimeout(ms int) Pragma {
	return Pragma(fmt.Sprintf("busy_timeout(%d)", ms))
}

// JournalMode selects the journal; DELETE keeps the database a single file between
// transactions, WAL leaves -wal and -shm files next to it.
func JournalMode(mode string) Pragma {
	return Pragma("journal_mode(" + strings.ToUpper(mode) + ")")
}

// Name returns the pragma name without its argument.
func (p Pragma) Name() string {
	name, _, _ := strings.Cut(string(p), "(")
	return strings.ToLower(strings.TrimSpace(name))
}

// uriEscaper percent-encodes the characters SQLite would read as URI syntax in a file name.
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// FileDSN returns the DSN of the database file at path with pragmas appended.
func FileDSN(path string, pragmas ...Pragma) string {
	return WithPragmas("file:"+uriEscaper.Replace(path), pragmas...)
}

// WithPragmas appends pragmas to dsn; a pragma the DSN already sets is left as is.
func WithPragmas(dsn string, pragmas ...Pragma) string {
	for _, pragma := range pragmas {
		if pragma == "" || strings.Contains(strings.ToLower(dsn), "_pragma="+pragma.Name()) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=" + string(pragma)
	}
	return dsn
}
