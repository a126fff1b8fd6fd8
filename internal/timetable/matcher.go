package timetable

import (
	"strings"
	"unicode"
)

// Matcher решает, относится ли сохранённое имя преподавателя к запросу
type Matcher interface {
	Match(query, teacher string) bool
}

const (
	MatchContainment = "containment"
	MatchInitials    = "initials"
)

// NewMatcher возвращает стратегию сравнения по имени из конфигурации
func NewMatcher(kind string) Matcher {
	if kind == MatchInitials {
		return InitialsMatcher{}
	}
	return ContainmentMatcher{}
}

// ContainmentMatcher совпадение, если одна очищенная строка содержит другую
type ContainmentMatcher struct{}

func (ContainmentMatcher) Match(query, teacher string) bool {
	q, t := CleanName(query), CleanName(teacher)
	if q == "" || t == "" {
		return false
	}
	return strings.Contains(t, q) || strings.Contains(q, t)
}

// InitialsMatcher фамилии равны, последовательности инициалов: префиксы друг друга.
// Запрос без инициалов совпадает со всеми однофамильцами.
type InitialsMatcher struct{}

func (InitialsMatcher) Match(query, teacher string) bool {
	qs, qi := splitName(query)
	ts, ti := splitName(teacher)
	if qs == "" || ts == "" || qs != ts {
		return false
	}
	return strings.HasPrefix(qi, ti) || strings.HasPrefix(ti, qi)
}

// splitName делит имя на фамилию и строку инициалов в нижнем регистре.
// "Иванов И.И.", "Иванов ИИ" и "Иванов Иван Иванович" дают ("иванов", "ии").
func splitName(name string) (string, string) {
	name = invisibleReplacer.Replace(name)
	fields := strings.Fields(strings.ReplaceAll(name, ".", ". "))
	if len(fields) == 0 {
		return "", ""
	}
	var initials strings.Builder
	for _, f := range fields[1:] {
		f = strings.Trim(f, ".")
		if f == "" {
			continue
		}
		runes := []rune(f)
		if len(runes) <= 3 && isUpper(runes) {
			for _, r := range runes {
				initials.WriteRune(unicode.ToLower(r))
			}
			continue
		}
		initials.WriteRune(unicode.ToLower(runes[0]))
	}
	return strings.ToLower(strings.Trim(fields[0], ".")), initials.String()
}

func isUpper(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
