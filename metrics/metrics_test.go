package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(filesWalked.WithLabelValues(KindEmpty))
	FileWalked(KindEmpty)
	FileWalked(KindEmpty)
	if got := testutil.ToFloat64(filesWalked.WithLabelValues(KindEmpty)); got != before+2 {
		t.Fatalf("empty files: got %v want %v", got, before+2)
	}

	beforeBytes := testutil.ToFloat64(bytesHashed)
	BytesHashed(10)
	BytesHashed(-1)
	if got := testutil.ToFloat64(bytesHashed); got != beforeBytes+10 {
		t.Fatalf("bytes hashed: got %v want %v", got, beforeBytes+10)
	}

	beforeRows := testutil.ToFloat64(rowsCommitted)
	Committed(3)
	if got := testutil.ToFloat64(rowsCommitted); got != beforeRows+3 {
		t.Fatalf("rows committed: got %v want %v", got, beforeRows+3)
	}
}

func TestWriteFile(t *testing.T) {
	FileWalked(KindHashed)
	path := filepath.Join(t.TempDir(), "findex.prom")
	if err := WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "findex_files_walked_total") {
		t.Fatalf("missing counter in output:\n%s", data)
	}
}
