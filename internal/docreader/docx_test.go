package docreader

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"college-schedule/backend/internal/model"
	"college-schedule/backend/internal/timetable"
	pkgerrors "college-schedule/backend/pkg/errors"
)

// ── Тестовый DOCX ──

func para(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func cell(props, text string) string {
	return `<w:tc>` + props + para(text) + `</w:tc>`
}

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `<w:sectPr/></w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("zip: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip: %v", err)
	}
	return buf.Bytes()
}

func sampleBody() string {
	return para("Расписание уроков для 101 группы") +
		`<w:p><w:r><w:t>Расписание уроков для </w:t></w:r><w:r><w:t xml:space="preserve">102 </w:t></w:r><w:r><w:t>группы</w:t></w:r></w:p>` +
		`<w:tbl>` +
		`<w:tr>` + cell("", "№") + cell("", "Понедельник") + cell("", "Вторник") + `</w:tr>` +
		`<w:tr>` + cell("", "1") + cell(`<w:tcPr><w:gridSpan w:val="2"/></w:tcPr>`, "Практика Иванов И.И.") + `</w:tr>` +
		`<w:tr>` + cell("", "2") + cell(`<w:tcPr><w:vMerge w:val="restart"/></w:tcPr>`, "Физика Сидоров С.С.") + cell("", "##") + `</w:tr>` +
		`<w:tr>` + cell("", "3") + cell(`<w:tcPr><w:vMerge/></w:tcPr>`, "") + cell("", "Химия Орлова О.О.") + `</w:tr>` +
		`</w:tbl>` +
		`<w:tbl><w:tr>` + cell("", "№") + cell("", "Среда") + `</w:tr>` +
		`<w:tr>` + cell("", "1") + cell("", "История Петров П.П.") + `</w:tr></w:tbl>`
}

func TestReadDOCX_Structure(t *testing.T) {
	doc, err := ReadDOCX(buildDOCX(t, sampleBody()))
	if err != nil {
		t.Fatalf("ReadDOCX: %v", err)
	}
	if len(doc.Paragraphs) != 2 || doc.Paragraphs[1] != "Расписание уроков для 102 группы" {
		t.Fatalf("абзацы: %q", doc.Paragraphs)
	}
	if len(doc.Tables) != 2 {
		t.Fatalf("ожидалось 2 таблицы, получено %d", len(doc.Tables))
	}

	rows := doc.Tables[0].Rows
	if got := rows[1]; len(got) != 3 || got[1] != got[2] {
		t.Errorf("gridSpan должен повторять текст ячейки: %q", got)
	}
	if got := rows[3][1]; got != "Физика Сидоров С.С." {
		t.Errorf("продолжение vMerge должно брать текст верхней ячейки, получено %q", got)
	}
}

func TestReadDOCX_Parse(t *testing.T) {
	doc, err := Read("Расписание.DOCX", buildDOCX(t, sampleBody()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	groups, err := timetable.Parse(doc, timetable.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := groups[0].Schedule
	if l := s.Days[model.Tuesday][1]; l.Teacher != "Иванов И.И." {
		t.Errorf("вторник 1: %+v", l)
	}
	if l := s.Days[model.Monday][3]; l.Subject != "Физика" {
		t.Errorf("понедельник 3 (vMerge): %+v", l)
	}
	if l := groups[1].Schedule.Days[model.Wednesday][1]; l.Subject != "История" {
		t.Errorf("102, среда 1: %+v", l)
	}
}

func TestReadDOCX_Malformed(t *testing.T) {
	if _, err := ReadDOCX([]byte("not a zip")); !errors.Is(err, pkgerrors.ErrMalformedInput) {
		t.Errorf("ожидалась MalformedInput, получено %v", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, _ = zw.Create("content.xml")
	_ = zw.Close()
	if _, err := ReadDOCX(buf.Bytes()); !errors.Is(err, pkgerrors.ErrMalformedInput) {
		t.Errorf("архив без document.xml: %v", err)
	}
}

func TestRead_UnsupportedFormat(t *testing.T) {
	_, err := Read("schedule.pdf", []byte("%PDF"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ожидалась ErrUnsupportedFormat, получено %v", err)
	}
	if Supported("schedule.pdf") || !Supported("a.xlsx") || !Supported(strings.ToUpper("a.docx")) {
		t.Error("Supported: неверный результат")
	}
}

func TestSniff(t *testing.T) {
	if got := Sniff(buildDOCX(t, para("x"))); got != ".docx" {
		t.Errorf("Sniff(docx) = %q", got)
	}
	if got := Sniff(buildXLSX(t)); got != ".xlsx" {
		t.Errorf("Sniff(xlsx) = %q", got)
	}
	if _, err := ReadAny([]byte("plain text")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ReadAny: ожидалась ErrUnsupportedFormat, получено %v", err)
	}
}

func TestReadDOCX_RunsHyperlinksAndTabs(t *testing.T) {
	body := `<w:p><w:r><w:t>Группа</w:t><w:tab/></w:r>` +
		`<w:hyperlink w:anchor="g101"><w:r><w:t>101</w:t></w:r></w:hyperlink></w:p>`
	doc, err := ReadDOCX(buildDOCX(t, body))
	if err != nil {
		t.Fatalf("ReadDOCX: %v", err)
	}
	if len(doc.Paragraphs) != 1 || doc.Paragraphs[0] != "Группа\t101" {
		t.Errorf("абзацы: %q", doc.Paragraphs)
	}
	if len(doc.Tables) != 0 {
		t.Errorf("таблиц быть не должно: %d", len(doc.Tables))
	}
}
