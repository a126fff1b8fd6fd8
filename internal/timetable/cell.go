package timetable

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"college-schedule/backend/internal/model"
)

var (
	trailingTeacherRe = regexp.MustCompile(`([А-ЯЁ][а-яё]+(?:-[А-ЯЁ][а-яё]+)?\s+[А-ЯЁ]\.[А-ЯЁ]\.?)$`)
	integerRe         = regexp.MustCompile(`^\d+$`)
)

// placeholders отметки «пары нет» в ячейках документа
var placeholders = map[string]bool{"##": true, "-": true, "—": true, "–": true}

// ParseLessonCell разбирает текст ячейки на предмет и преподавателя.
// false означает, что занятия в ячейке нет.
func ParseLessonCell(cellText string) (model.Lesson, bool) {
	text := cleanText(cellText)
	if text == "" || placeholders[text] {
		return model.Lesson{}, false
	}
	if utf8.RuneCountInString(text) < 2 || integerRe.MatchString(text) {
		return model.Lesson{}, false
	}

	lesson := model.Lesson{Subject: text}

	loc := trailingTeacherRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return lesson, true
	}
	teacher, ok := NormalizeTeacherName(text[loc[2]:loc[3]])
	if !ok {
		return lesson, true
	}
	lesson.Teacher = teacher
	if subject := strings.TrimSpace(text[:loc[2]]); subject != "" {
		lesson.Subject = subject
	}
	return lesson, true
}
