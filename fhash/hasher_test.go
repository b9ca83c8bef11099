package fhash

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func digestOf(h *Hasher, data []byte) string {
	digest := h.algorithm.New()
	digest.Write(data)
	return hex.EncodeToString(digest.Sum(nil))
}

func TestHasher_Hash(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hello.txt", []byte("hello"))

	tests := []struct {
		algorithm string
		want      string
	}{
		{"sha1", "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"},
		{"SHA256", "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
	}
	for _, tc := range tests {
		h, err := New(tc.algorithm)
		if err != nil {
			t.Fatalf("New(%s): %v", tc.algorithm, err)
		}
		got, err := h.Hash(path)
		if err != nil {
			t.Fatalf("Hash: %v", err)
		}
		if got != tc.want {
			t.Fatalf("%s digest mismatch: got %q want %q", tc.algorithm, got, tc.want)
		}
		if len(got) != 2*h.algorithm.Size {
			t.Fatalf("%s width mismatch: got %d want %d", tc.algorithm, len(got), 2*h.algorithm.Size)
		}
	}
}

func TestHasher_Deterministic(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.bin", []byte("same content"))
	b := writeFile(t, dir, "b.bin", []byte("same content"))
	c := writeFile(t, dir, "c.bin", []byte("other content"))

	for _, name := range []string{"sha1", "sha256", "highwayhash"} {
		h, err := New(name)
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		ha, err := h.Hash(a)
		if err != nil {
			t.Fatalf("hash a: %v", err)
		}
		hb, err := h.Hash(b)
		if err != nil {
			t.Fatalf("hash b: %v", err)
		}
		hc, err := h.Hash(c)
		if err != nil {
			t.Fatalf("hash c: %v", err)
		}
		if ha != hb {
			t.Fatalf("%s: equal content hashed differently: %s vs %s", name, ha, hb)
		}
		if ha == hc {
			t.Fatalf("%s: different content hashed equally", name)
		}
		if ha != digestOf(h, []byte("same content")) {
			t.Fatalf("%s: file and byte digests differ", name)
		}
	}
}

func TestHasher_AccessDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	dir := t.TempDir()
	path := writeFile(t, dir, "secret.txt", []byte("secret"))
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	defer os.Chmod(path, 0o644)

	h, _ := New(DefaultAlgorithm)
	if _, err := h.Hash(path); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestHasher_MissingFile(t *testing.T) {
	h, _ := New(DefaultAlgorithm)
	_, err := h.Hash(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if errors.Is(err, ErrAccessDenied) {
		t.Fatalf("missing file must not be reported as access denied")
	}
}

func TestLookup_Unsupported(t *testing.T) {
	if _, err := Lookup("crc32"); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
}
