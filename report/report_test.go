package report

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/viant/findex/catalog"
	"github.com/viant/findex/compare"
	"github.com/xuri/excelize/v2"
)

func newCatalog(t *testing.T, files map[string]string) *catalog.Catalog {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	c := catalog.New(filepath.Join(t.TempDir(), "index.db"))
	if err := c.Create(context.Background(), root); err != nil {
		t.Fatalf("catalog Create: %v", err)
	}
	return c
}

func newComparison(t *testing.T, files1, files2 map[string]string) *compare.Comparison {
	t.Helper()
	ctx := context.Background()
	cmp := compare.New(filepath.Join(t.TempDir(), "compare.db"))
	if err := cmp.Create(ctx, newCatalog(t, files1), newCatalog(t, files2)); err != nil {
		t.Fatalf("compare Create: %v", err)
	}
	if err := cmp.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = cmp.Close() })
	return cmp
}

func TestReport_Write(t *testing.T) {
	ctx := context.Background()
	cmp := newComparison(t,
		map[string]string{"missing1.txt": "gone", "updated1.txt": "X", "same.txt": "same"},
		map[string]string{"sub2/new1.txt": "fresh", "updated1.txt": "Y", "moved/same.txt": "same"},
	)
	counts := map[string]int{}
	URL := filepath.Join(t.TempDir(), "out", "report.xlsx")
	r := New(cmp, WithSheetListener(func(sheet string, rows int) { counts[sheet] = rows }))
	if err := r.Write(ctx, URL); err != nil {
		t.Fatalf("Write: %v", err)
	}

	book, err := excelize.OpenFile(URL)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer book.Close()
	expectSheets := []string{SheetMissing, SheetUpdated, SheetNew, SheetMoved}
	if got := book.GetSheetList(); !slices.Equal(got, expectSheets) {
		t.Fatalf("sheets = %v, want %v", got, expectSheets)
	}
	testCases := []struct {
		sheet  string
		cell   string
		expect string
	}{
		{SheetMissing, "A1", "Path"},
		{SheetMissing, "A2", "missing1.txt"},
		{SheetMissing, "B2", "4"},
		{SheetUpdated, "A2", "updated1.txt"},
		{SheetNew, "A2", "sub2/new1.txt"},
		{SheetMoved, "B2", "same.txt"},
		{SheetMoved, "D2", "moved/same.txt"},
		{SheetMoved, "E2", "4"},
	}
	for _, tc := range testCases {
		value, err := book.GetCellValue(tc.sheet, tc.cell)
		if err != nil {
			t.Fatalf("%s!%s: %v", tc.sheet, tc.cell, err)
		}
		if value != tc.expect {
			t.Fatalf("%s!%s = %q, want %q", tc.sheet, tc.cell, value, tc.expect)
		}
	}
	if counts[SheetMissing] != 1 || counts[SheetMoved] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestReport_EmptyComparison(t *testing.T) {
	cmp := newComparison(t, nil, nil)
	book, err := New(cmp).Workbook(context.Background())
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	defer book.Close()
	expectSheets := []string{SheetMissing, SheetUpdated, SheetNew}
	if got := book.GetSheetList(); !slices.Equal(got, expectSheets) {
		t.Fatalf("sheets = %v, want %v", got, expectSheets)
	}
	value, _ := book.GetCellValue(SheetNew, "A1")
	if value != "No 'New Files' found." {
		t.Fatalf("placeholder = %q", value)
	}
}
