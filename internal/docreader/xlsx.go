package docreader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"college-schedule/backend/internal/timetable"
	pkgerrors "college-schedule/backend/pkg/errors"
)

// ReadXLSX раскладывает листы книги на абзацы и таблицы.
// Строка с единственным непустым значением (кроме номера урока) считается абзацем.
// Таблицу закрывает пустая строка или абзац перед шапкой следующей таблицы.
// Значение объединённой области копируется во все её ячейки.
func ReadXLSX(data []byte) (timetable.Document, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return timetable.Document{}, fmt.Errorf("%w: файл не является XLSX: %v", pkgerrors.ErrMalformedInput, err)
	}
	defer f.Close()

	var doc timetable.Document
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return timetable.Document{}, fmt.Errorf("%w: лист %q: %v", pkgerrors.ErrMalformedInput, sheet, err)
		}
		if err := fillMerged(f, sheet, rows); err != nil {
			return timetable.Document{}, fmt.Errorf("%w: лист %q: %v", pkgerrors.ErrMalformedInput, sheet, err)
		}
		splitSheet(rows, &doc)
	}
	return doc, nil
}

func fillMerged(f *excelize.File, sheet string, rows [][]string) error {
	merged, err := f.GetMergeCells(sheet)
	if err != nil {
		return err
	}
	for _, m := range merged {
		c1, r1, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			return err
		}
		c2, r2, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			return err
		}
		value := m.GetCellValue()
		for r := r1; r <= r2 && r <= len(rows); r++ {
			row := rows[r-1]
			for len(row) < c2 {
				row = append(row, "")
			}
			for c := c1; c <= c2; c++ {
				row[c-1] = value
			}
			rows[r-1] = row
		}
	}
	return nil
}

func splitSheet(rows [][]string, doc *timetable.Document) {
	var current [][]string
	flush := func() {
		if len(current) > 0 {
			doc.Tables = append(doc.Tables, timetable.Table{Rows: current})
			current = nil
		}
	}

	for i, row := range rows {
		values := distinctValues(row)
		switch {
		case len(values) == 0:
			flush()
		case len(values) == 1 && !isSlotNumber(values[0]):
			// строка-разделитель внутри таблицы ("Обед") её не закрывает
			// и абзацем не считается
			if len(current) > 0 && !startsTable(rows[i+1:]) {
				current = append(current, row)
				continue
			}
			flush()
			doc.Paragraphs = append(doc.Paragraphs, values[0])
		default:
			current = append(current, row)
		}
	}
	flush()
}

// startsTable следующая непустая строка похожа на шапку новой таблицы
func startsTable(rest [][]string) bool {
	for _, row := range rest {
		values := distinctValues(row)
		if len(values) == 0 {
			continue
		}
		return len(values) > 1 && !isSlotNumber(strings.TrimSpace(firstCell(row)))
	}
	return true
}

func firstCell(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

// distinctValues непустые значения строки без повторов, в порядке появления
func distinctValues(row []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range row {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func isSlotNumber(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
