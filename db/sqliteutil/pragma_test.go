package sqliteutil

import "testing"

func TestFileDSN(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		pragmas []Pragma
		want    string
	}{
		{"plain", "a.db", nil, "file:a.db"},
		{"busy timeout", "a.db", []Pragma{BusyTimeout(5000)}, "file:a.db?_pragma=busy_timeout(5000)"},
		{"journal and busy", "/tmp/a.db", []Pragma{JournalMode("delete"), BusyTimeout(100)}, "file:/tmp/a.db?_pragma=journal_mode(DELETE)&_pragma=busy_timeout(100)"},
		{"uri characters escaped", "/tmp/a?b#c%d.db", []Pragma{BusyTimeout(1)}, "file:/tmp/a%3fb%23c%25d.db?_pragma=busy_timeout(1)"},
		{"duplicate skipped", "a.db", []Pragma{BusyTimeout(1), BusyTimeout(2)}, "file:a.db?_pragma=busy_timeout(1)"},
	}
	for _, tc := range tests {
		if got := FileDSN(tc.path, tc.pragmas...); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestWithPragmas_KeepsExisting(t *testing.T) {
	dsn := "file:a.db?_pragma=busy_timeout(1)"
	if got := WithPragmas(dsn, BusyTimeout(5000)); got != dsn {
		t.Fatalf("got %q", got)
	}
	if got := BusyTimeout(10).Name(); got != "busy_timeout" {
		t.Fatalf("Name = %q", got)
	}
}
