// Package report renders a comparison as an xlsx workbook.
package report

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/findex/compare"
	"github.com/viant/findex/logging"
	"github.com/viant/findex/schema"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Worksheet names.
const (
	SheetMissing = "Missing Files"
	SheetUpdated = "Updated Files"
	SheetNew     = "New Files"
	SheetMoved   = "Moved Files"
)

const (
	widthPath  = 130
	widthSize  = 15
	widthDate  = 25
	widthCount = 12
	widthHash  = 70

	tableStyle = "TableStyleLight18"
)

// SheetFunc is notified once a worksheet is rendered.
type SheetFunc func(sheet string, rows int)

// Report renders the result of a comparison.
type Report struct {
	cmp     *compare.Comparison
	fs      afs.Service
	onSheet SheetFunc
}

// Option configures a Report.
type Option func(*Report)

// WithFS sets the storage service the workbook is uploaded with.
func WithFS(fs afs.Service) Option {
	return func(r *Report) { r.fs = fs }
}

// WithSheetListener registers a callback invoked per rendered worksheet.
func WithSheetListener(fn SheetFunc) Option {
	return func(r *Report) { r.onSheet = fn }
}

// New returns a report over an open comparison.
func New(cmp *compare.Comparison, opts ...Option) *Report {
	r := &Report{cmp: cmp}
	for _, opt := range opts {
		opt(r)
	}
	if r.fs == nil {
		r.fs = afs.New()
	}
	return r
}

// Write renders the workbook and uploads it to URL.
func (r *Report) Write(ctx context.Context, URL string) error {
	book, err := r.Workbook(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = book.Close() }()
	buffer, err := book.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	if err := r.fs.Upload(ctx, URL, file.DefaultFileOsMode, buffer); err != nil {
		return fmt.Errorf("report: upload %s: %w", URL, err)
	}
	logging.Info("report written", zap.String("url", URL))
	return nil
}

// Workbook renders the comparison into a new workbook.
func (r *Report) Workbook(ctx context.Context) (*excelize.File, error) {
	book := excelize.NewFile()
	initial := book.GetSheetName(0)
	w := &writer{book: book}
	if err := w.styles(); err != nil {
		_ = book.Close()
		return nil, err
	}
	steps := []struct {
		sheet string
		files iter.Seq2[*schema.File, error]
	}{
		{SheetMissing, r.cmp.Missing(ctx, false)},
		{SheetUpdated, r.cmp.Updated(ctx)},
		{SheetNew, r.cmp.New(ctx, false)},
	}
	for _, step := range steps {
		rows, err := w.files(step.sheet, step.files)
		if err != nil {
			_ = book.Close()
			return nil, err
		}
		r.notify(step.sheet, rows)
	}
	rows, err := w.groups(SheetMoved, r.cmp.ContentGroups(ctx))
	if err != nil {
		_ = book.Close()
		return nil, err
	}
	r.notify(SheetMoved, rows)

	if err := book.DeleteSheet(initial); err != nil {
		_ = book.Close()
		return nil, err
	}
	book.SetActiveSheet(0)
	return book, nil
}

func (r *Report) notify(sheet string, rows int) {
	logging.Info("worksheet rendered", zap.String("sheet", sheet), zap.Int("entries", rows))
	if r.onSheet != nil {
		r.onSheet(sheet, rows)
	}
}

type writer struct {
	book     *excelize.File
	datetime int
	hash     int
	textList int
	tables   int
}

func (w *writer) styles() (err error) {
	format := "dd/mm/yyyy hh:mm:ss"
	if w.datetime, err = w.book.NewStyle(&excelize.Style{CustomNumFmt: &format}); err != nil {
		return err
	}
	if w.hash, err = w.book.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Courier New", Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return err
	}
	w.textList, err = w.book.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	return err
}

func (w *writer) files(sheet string, files iter.Seq2[*schema.File, error]) (int, error) {
	if _, err := w.book.NewSheet(sheet); err != nil {
		return 0, err
	}
	rows := 0
	for f, err := range files {
		if err != nil {
			return 0, err
		}
		rows++
		row := []any{f.Path, f.Size, timeCell(f.Created), timeCell(f.Modified), f.Hash}
		if err := w.book.SetSheetRow(sheet, cell(1, rows+1), &row); err != nil {
			return 0, err
		}
	}
	if rows == 0 {
		logging.Warn("empty worksheet", zap.String("sheet", sheet))
		return 0, w.book.SetCellStr(sheet, "A1", fmt.Sprintf("No '%s' found.", sheet))
	}
	header := []any{"Path", "Size (Bytes)", "Created", "Modified", "Checksum"}
	if err := w.book.SetSheetRow(sheet, "A1", &header); err != nil {
		return 0, err
	}
	widths := []struct {
		from, to string
		width    float64
	}{{"A", "A", widthPath}, {"B", "B", widthSize}, {"C", "D", widthDate}, {"E", "E", widthHash}}
	for _, c := range widths {
		if err := w.book.SetColWidth(sheet, c.from, c.to, c.width); err != nil {
			return 0, err
		}
	}
	last := rows + 1
	if err := w.book.SetCellStyle(sheet, "C2", cell(4, last), w.datetime); err != nil {
		return 0, err
	}
	if err := w.book.SetCellStyle(sheet, "E2", cell(5, last), w.hash); err != nil {
		return 0, err
	}
	return rows, w.table(sheet, "A1:"+cell(5, last))
}

func (w *writer) groups(sheet string, groups iter.Seq2[*schema.ContentGroup, error]) (int, error) {
	var data [][]any
	for g, err := range groups {
		if err != nil {
			return 0, err
		}
		data = append(data, []any{len(g.Files1), strings.Join(g.Files1, "\n"), len(g.Files2), strings.Join(g.Files2, "\n"), g.Size, g.Hash})
	}
	if len(data) == 0 {
		logging.Warn("skipping empty worksheet", zap.String("sheet", sheet))
		return 0, nil
	}
	if _, err := w.book.NewSheet(sheet); err != nil {
		return 0, err
	}
	header := []any{"Duplicates 1", "Original Location (Catalog 1)", "Duplicates 2", "New Location (Catalog 2)", "Size (Bytes)", "Checksum"}
	if err := w.book.SetSheetRow(sheet, "A1", &header); err != nil {
		return 0, err
	}
	for i := range data {
		if err := w.book.SetSheetRow(sheet, cell(1, i+2), &data[i]); err != nil {
			return 0, err
		}
	}
	widths := []struct {
		from, to string
		width    float64
	}{{"A", "A", widthCount}, {"B", "B", widthPath}, {"C", "C", widthCount}, {"D", "D", widthPath}, {"E", "E", widthSize}, {"F", "F", widthHash}}
	for _, c := range widths {
		if err := w.book.SetColWidth(sheet, c.from, c.to, c.width); err != nil {
			return 0, err
		}
	}
	last := len(data) + 1
	if err := w.book.SetCellStyle(sheet, "B2", cell(2, last), w.textList); err != nil {
		return 0, err
	}
	if err := w.book.SetCellStyle(sheet, "D2", cell(4, last), w.textList); err != nil {
		return 0, err
	}
	if err := w.book.SetCellStyle(sheet, "F2", cell(6, last), w.hash); err != nil {
		return 0, err
	}
	return len(data), w.table(sheet, "A1:"+cell(6, last))
}

func (w *writer) table(sheet, ref string) error {
	w.tables++
	return w.book.AddTable(sheet, &excelize.Table{
		Range:     ref,
		Name:      fmt.Sprintf("Table%d", w.tables),
		StyleName: tableStyle,
	})
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
