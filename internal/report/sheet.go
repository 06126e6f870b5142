package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	maxColumnWidth = 30
	columnPadding  = 4
)

// sheetWriter writes one worksheet top to bottom. The first failing call is
// remembered and returned by finish.
type sheetWriter struct {
	f      *excelize.File
	name   string
	st     *styles
	row    int
	widths map[int]int
	err    error
}

func newSheetWriter(f *excelize.File, name string, st *styles) *sheetWriter {
	return &sheetWriter{f: f, name: name, st: st, row: 1, widths: map[int]int{}}
}

func (w *sheetWriter) set(col, row int, value any, style int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellValue(w.name, cell, value); err != nil {
		w.err = fmt.Errorf("failed to write %s!%s: %w", w.name, cell, err)
		return
	}
	if style != 0 {
		if err := w.f.SetCellStyle(w.name, cell, cell, style); err != nil {
			w.err = fmt.Errorf("failed to style %s!%s: %w", w.name, cell, err)
			return
		}
	}

	if width := displayWidth(fmt.Sprint(value)); width > w.widths[col] {
		w.widths[col] = width
	}
}

// values writes one table row starting at column A and advances
func (w *sheetWriter) values(style int, values ...any) {
	for i, v := range values {
		w.set(i+1, w.row, v, style)
	}
	w.row++
}

func (w *sheetWriter) header(titles ...string) {
	for i, t := range titles {
		w.set(i+1, w.row, t, w.st.header)
	}
	w.row++
}

// section writes a title merged across span columns
func (w *sheetWriter) section(title string, span int) {
	// merged titles do not drive the column width
	width := w.widths[1]
	w.set(1, w.row, title, w.st.section)
	w.widths[1] = width
	if w.err == nil && span > 1 {
		end, _ := excelize.CoordinatesToCellName(span, w.row)
		start, _ := excelize.CoordinatesToCellName(1, w.row)
		if err := w.f.MergeCell(w.name, start, end); err != nil {
			w.err = fmt.Errorf("failed to merge section title: %w", err)
		}
	}
	w.row++
}

func (w *sheetWriter) freezeHeader() {
	if w.err != nil {
		return
	}
	if err := w.f.SetPanes(w.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		w.err = fmt.Errorf("failed to freeze header: %w", err)
	}
}

// finish applies the column widths and reports the first error
func (w *sheetWriter) finish() error {
	if w.err != nil {
		return w.err
	}
	for col, width := range w.widths {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(w.name, name, name, float64(min(width+columnPadding, maxColumnWidth))); err != nil {
			return fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}
	return nil
}

// displayWidth counts non-ASCII characters as two columns
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		if r > 127 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
