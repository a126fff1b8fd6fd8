package timetable

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ── Нормализация ФИО преподавателя ──────────────────────────
//
// Каноническая форма: "Фамилия И.О.": фамилия с заглавной буквы
// (допустима двойная через дефис), два инициала, каждый с точкой.
// ─────────────────────────────────────────────────────────────

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	fioSearchRe   = regexp.MustCompile(`[А-ЯЁ][а-яё]+(?:-[А-ЯЁ][а-яё]+)?\s+[А-ЯЁ]\.[А-ЯЁ]\.?`)
	codeSuffixRe  = regexp.MustCompile(`\s*\d{2,4}[А-Яа-яЁё]?$`)
	danglingRe    = regexp.MustCompile(`([А-ЯЁ])\.([А-ЯЁ])$`)
	repeatedDotRe = regexp.MustCompile(`\.{2,}`)
	foreignRe     = regexp.MustCompile(`[^А-Яа-яЁё.\s-]`)
	canonicalRe   = regexp.MustCompile(`^[А-ЯЁ][а-яё]+(?:-[А-ЯЁа-яё][а-яё]+)?\s+[А-ЯЁ]\.[А-ЯЁ]\.?$`)
	nameCleanupRe = regexp.MustCompile(`[.\s]`)
)

// invisibleReplacer убирает неразрывные пробелы, zero-width space и BOM
var invisibleReplacer = strings.NewReplacer("\u00a0", " ", "\u200b", "", "\ufeff", "")

// cleanText убирает невидимые символы и схлопывает пробелы
func cleanText(s string) string {
	s = invisibleReplacer.Replace(s)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// NormalizeTeacherName приводит ФИО к виду "Фамилия И.О.".
// Возвращает false, если в тексте нет уверенно распознанного ФИО.
func NormalizeTeacherName(raw string) (string, bool) {
	name := cleanText(raw)
	if name == "" {
		return "", false
	}

	if m := fioSearchRe.FindString(name); m != "" {
		name = m
	}
	name = codeSuffixRe.ReplaceAllString(name, "")
	name = danglingRe.ReplaceAllString(name, "$1.$2.")
	name = repeatedDotRe.ReplaceAllString(name, ".")
	name = strings.TrimSpace(foreignRe.ReplaceAllString(name, ""))

	if !canonicalRe.MatchString(name) {
		return "", false
	}

	parts := strings.Fields(name)
	surname, initials := parts[0], strings.Join(parts[1:], "")
	if !strings.HasSuffix(initials, ".") {
		initials += "."
	}
	return titleSurname(surname) + " " + initials, true
}

// titleSurname каждая часть двойной фамилии: с заглавной буквы
func titleSurname(surname string) string {
	segments := strings.Split(surname, "-")
	for i, seg := range segments {
		r, size := utf8.DecodeRuneInString(seg)
		if r == utf8.RuneError {
			continue
		}
		segments[i] = string(unicode.ToUpper(r)) + strings.ToLower(seg[size:])
	}
	return strings.Join(segments, "-")
}

// CleanName форма для сравнения: без невидимых символов, точек и пробелов, в нижнем регистре.
// В отличие от NormalizeTeacherName принимает любое написание, в том числе полное ФИО.
func CleanName(name string) string {
	name = invisibleReplacer.Replace(strings.TrimSpace(name))
	return strings.ToLower(nameCleanupRe.ReplaceAllString(name, ""))
}
