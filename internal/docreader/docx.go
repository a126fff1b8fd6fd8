package docreader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"

	"college-schedule/backend/internal/timetable"
	pkgerrors "college-schedule/backend/pkg/errors"
)

// ReadDOCX читает абзацы и таблицы верхнего уровня из тела документа.
// Объединённые по горизонтали ячейки повторяются на каждую колонку,
// продолжение вертикального объединения получает текст верхней ячейки.
func ReadDOCX(data []byte) (timetable.Document, error) {
	f, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return timetable.Document{}, fmt.Errorf("%w: файл не является DOCX: %v", pkgerrors.ErrMalformedInput, err)
	}
	// имя корня выставляется только при разборе word/document.xml
	if f.Document.XMLName.Local != "document" {
		return timetable.Document{}, fmt.Errorf("%w: в архиве нет word/document.xml", pkgerrors.ErrMalformedInput)
	}

	var doc timetable.Document
	for _, item := range f.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			doc.Paragraphs = append(doc.Paragraphs, paragraphText(it))
		case *docx.Table:
			doc.Tables = append(doc.Tables, readTable(it))
		}
	}
	return doc, nil
}

func paragraphText(p *docx.Paragraph) string {
	var b strings.Builder
	for _, child := range p.Children {
		switch c := child.(type) {
		case *docx.Run:
			runText(&b, c)
		case *docx.Hyperlink:
			runText(&b, &c.Run)
		}
	}
	return b.String()
}

func runText(b *strings.Builder, r *docx.Run) {
	for _, child := range r.Children {
		switch c := child.(type) {
		case *docx.Text:
			b.WriteString(c.Text)
		case *docx.Tab:
			b.WriteByte('\t')
		case *docx.BarterRabbet:
			b.WriteByte('\n')
		}
	}
}

func cellText(tc *docx.WTableCell) string {
	parts := make([]string, 0, len(tc.Paragraphs))
	for _, p := range tc.Paragraphs {
		parts = append(parts, paragraphText(p))
	}
	return strings.Join(parts, "\n")
}

func readTable(tbl *docx.Table) timetable.Table {
	var t timetable.Table
	var above []string

	for _, tr := range tbl.TableRows {
		var row []string
		for _, tc := range tr.TableCells {
			span, continued := cellProps(tc)
			text := cellText(tc)
			for k := 0; k < span; k++ {
				col := len(row)
				if continued && col < len(above) {
					row = append(row, above[col])
					continue
				}
				row = append(row, text)
			}
		}
		t.Rows = append(t.Rows, row)
		above = row
	}
	return t
}

// cellProps ширина ячейки в колонках сетки и признак продолжения вертикального объединения
func cellProps(tc *docx.WTableCell) (int, bool) {
	span, continued := 1, false
	pr := tc.TableCellProperties
	if pr == nil {
		return span, continued
	}
	if pr.GridSpan != nil && pr.GridSpan.Val > 1 {
		span = pr.GridSpan.Val
	}
	if pr.VMerge != nil {
		continued = pr.VMerge.Val != "restart"
	}
	return span, continued
}
