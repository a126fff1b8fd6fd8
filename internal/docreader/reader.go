// Package docreader строит структурное представление документа с расписанием
// (абзацы и таблицы по порядку) из файлов DOCX и XLSX.
package docreader

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"college-schedule/backend/internal/timetable"
	pkgerrors "college-schedule/backend/pkg/errors"
)

// ErrUnsupportedFormat расширение файла не поддерживается
var ErrUnsupportedFormat = fmt.Errorf("%w: поддерживаются только .docx и .xlsx", pkgerrors.ErrMalformedInput)

// documentPart главная часть пакета DOCX
const documentPart = "word/document.xml"

// Read выбирает формат по расширению имени файла
func Read(filename string, data []byte) (timetable.Document, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return ReadDOCX(data)
	case ".xlsx":
		return ReadXLSX(data)
	default:
		return timetable.Document{}, ErrUnsupportedFormat
	}
}

// Supported true для расширений, которые умеет читать Read
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx", ".xlsx":
		return true
	}
	return false
}

// Sniff определяет формат по содержимому: оба формата: zip-архивы,
// отличаются главной частью пакета. Пустая строка: формат не распознан.
func Sniff(data []byte) string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		switch f.Name {
		case documentPart:
			return ".docx"
		case "xl/workbook.xml":
			return ".xlsx"
		}
	}
	return ""
}

// ReadAny читает документ, формат которого определён по содержимому
func ReadAny(data []byte) (timetable.Document, error) {
	return Read("document"+Sniff(data), data)
}
