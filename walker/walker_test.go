package walker

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/viant/findex/fhash"
	"github.com/viant/findex/matching"
	"github.com/viant/findex/matching/option"
	"github.com/viant/findex/meta"
	"github.com/viant/findex/schema"
)

func buildTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func newWalker(t *testing.T, opts ...Option) *Walker {
	t.Helper()
	h, err := fhash.New(fhash.DefaultAlgorithm)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	return New(h, opts...)
}

func collect(w *Walker, root string) map[string]*schema.File {
	out := map[string]*schema.File{}
	for file := range w.Walk(root) {
		out[file.Path] = file
	}
	return out
}

func TestWalk_ClassifiesFiles(t *testing.T) {
	root := buildTree(t, map[string]string{
		"a.txt":         "hello",
		"empty.txt":     "",
		"sub/b.txt":     "hello",
		"sub/deep/c.md": "other",
	})
	w := newWalker(t)
	files := collect(w, root)
	if len(files) != 4 {
		t.Fatalf("expected 4 entries, got %d: %v", len(files), files)
	}
	if got := files["empty.txt"].Hash; got != meta.HashEmpty {
		t.Fatalf("empty file hash: got %q", got)
	}
	if files["a.txt"].Hash != files["sub/b.txt"].Hash {
		t.Fatalf("identical content must hash identically")
	}
	if files["a.txt"].Hash != "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d" {
		t.Fatalf("unexpected digest %q", files["a.txt"].Hash)
	}
	c := files["sub/deep/c.md"]
	if c == nil {
		t.Fatalf("nested path must be slash separated and relative: %v", files)
	}
	if c.Size != 5 || !c.Created.Valid || !c.Modified.Valid {
		t.Fatalf("unexpected descriptor: %+v", c)
	}
	if got := w.Count(root); got != 4 {
		t.Fatalf("Count = %d, want 4", got)
	}
}

func TestWalk_LexicalOrder(t *testing.T) {
	root := buildTree(t, map[string]string{"b": "1", "a/z": "2", "c/a": "3"})
	var paths []string
	for file := range newWalker(t).Walk(root) {
		paths = append(paths, file.Path)
	}
	if got := strings.Join(paths, ","); got != "a/z,b,c/a" {
		t.Fatalf("unexpected order: %s", got)
	}
}

func TestWalk_PermissionDeniedDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := buildTree(t, map[string]string{
		"ok.txt":            "ok",
		"locked/hidden.txt": "hidden",
		"locked/more.txt":   "more",
	})
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	defer os.Chmod(locked, 0o755)

	w := newWalker(t)
	files := collect(w, root)
	if count := w.Count(root); count != len(files) {
		t.Fatalf("Count = %d, Walk yielded %d", count, len(files))
	}
	entry := files["locked"]
	if entry == nil {
		t.Fatalf("walk error entry missing: %v", files)
	}
	if !strings.HasPrefix(entry.Hash, meta.HashWalkErrorPrefix) || entry.Size != 0 {
		t.Fatalf("unexpected walk error entry: %+v", entry)
	}
	if entry.Created.Valid || entry.Modified.Valid {
		t.Fatalf("walk error entry must not carry timestamps")
	}
	if files["ok.txt"] == nil {
		t.Fatalf("sibling file missing")
	}
}

func TestWalk_InaccessibleFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := buildTree(t, map[string]string{"secret.txt": "secret", "plain.txt": "plain"})
	secret := filepath.Join(root, "secret.txt")
	if err := os.Chmod(secret, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	defer os.Chmod(secret, 0o644)

	w := newWalker(t)
	files := collect(w, root)
	if got := files["secret.txt"].Hash; got != meta.HashInaccessible {
		t.Fatalf("inaccessible hash: got %q", got)
	}
	if files["secret.txt"].Size != 6 {
		t.Fatalf("inaccessible file keeps its size, got %d", files["secret.txt"].Size)
	}
	if w.Count(root) != 2 {
		t.Fatalf("inaccessible files are counted")
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")
	w := newWalker(t)
	files := collect(w, root)
	if len(files) != 1 || w.Count(root) != 1 {
		t.Fatalf("expected one walk error entry, got %v", files)
	}
	for _, file := range files {
		if !file.IsSentinel() {
			t.Fatalf("expected sentinel, got %+v", file)
		}
	}
}

func TestWalk_Matcher(t *testing.T) {
	root := buildTree(t, map[string]string{
		"keep.txt":              "1",
		"trace.log":             "2",
		"node_modules/x/y.js":   "3",
		"src/node_modules/z.js": "4",
		"src/main.go":           "5",
	})
	m := matching.New(option.WithExclusionPatterns("*.log", "node_modules/"))
	w := newWalker(t, WithMatcher(m))
	files := collect(w, root)
	if len(files) != 2 || files["keep.txt"] == nil || files["src/main.go"] == nil {
		t.Fatalf("unexpected entries: %v", files)
	}
	if w.Count(root) != len(files) {
		t.Fatalf("Count must honour the matcher")
	}
}

func TestWalk_StopEarly(t *testing.T) {
	root := buildTree(t, map[string]string{"a": "1", "b": "2", "c": "3"})
	seen := 0
	for range newWalker(t).Walk(root) {
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Fatalf("expected to stop after 2 entries, got %d", seen)
	}
}

func TestWalk_RootIsFile(t *testing.T) {
	root := buildTree(t, map[string]string{"single.txt": "x"})
	files := collect(newWalker(t), filepath.Join(root, "single.txt"))
	if len(files) != 1 || files["single.txt"] == nil {
		t.Fatalf("unexpected entries: %v", files)
	}
}

func TestWalk_SymlinkedFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges")
	}
	base := buildTree(t, map[string]string{
		"tree/plain.txt":   "plain",
		"outside/real.txt": "linked content",
	})
	root := filepath.Join(base, "tree")
	if err := os.Symlink(filepath.Join("..", "outside", "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(filepath.Join("..", "outside"), filepath.Join(root, "dirlink")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	w := newWalker(t)
	files := collect(w, root)
	if len(files) != 2 || files["plain.txt"] == nil || files["link.txt"] == nil {
		t.Fatalf("unexpected entries: %v", files)
	}
	if count := w.Count(root); count != len(files) {
		t.Fatalf("Count = %d, Walk yielded %d", count, len(files))
	}
	direct := collect(w, filepath.Join(base, "outside"))["real.txt"]
	link := files["link.txt"]
	if link.Hash != direct.Hash || link.Size != int64(len("linked content")) {
		t.Fatalf("link must describe its target: %+v vs %+v", link, direct)
	}
}

func TestWalk_BrokenSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges")
	}
	root := buildTree(t, map[string]string{"plain.txt": "plain"})
	if err := os.Symlink("nowhere.txt", filepath.Join(root, "dangling.txt")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	w := newWalker(t)
	files := collect(w, root)
	if count := w.Count(root); count != len(files) || count != 2 {
		t.Fatalf("Count = %d, Walk yielded %d", count, len(files))
	}
	entry := files["dangling.txt"]
	if entry == nil || !strings.HasPrefix(entry.Hash, meta.HashWalkErrorPrefix) {
		t.Fatalf("broken link must be a walk error entry: %+v", entry)
	}
}
