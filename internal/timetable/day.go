package timetable

import (
	"strings"

	"college-schedule/backend/internal/model"
)

// dayAliases сокращения и синонимы, встречающиеся в запросах и ключах таблицы звонков
var dayAliases = map[string]string{
	"пн": "понедельник", "понедельник": "понедельник", "mon": "понедельник", "monday": "понедельник",
	"вт": "вторник", "вторник": "вторник", "tue": "вторник", "tuesday": "вторник",
	"ср": "среда", "среда": "среда", "wed": "среда", "wednesday": "среда",
	"чт": "четверг", "четверг": "четверг", "thu": "четверг", "thursday": "четверг",
	"пт": "пятница", "пятница": "пятница", "fri": "пятница", "friday": "пятница",
	"сб": "суббота", "суббота": "суббота", "sat": "суббота", "saturday": "суббота",
}

// NormalizeDay приводит название дня к нижнему регистру и канонической форме.
// Неизвестные значения возвращаются в нижнем регистре без изменений.
func NormalizeDay(day string) string {
	day = strings.ToLower(strings.TrimSpace(day))
	if day == "" {
		return ""
	}
	if canonical, ok := dayAliases[day]; ok {
		return canonical
	}
	return day
}

// ParseDay сопоставляет произвольное написание дня с каноническим model.Day
func ParseDay(day string) (model.Day, bool) {
	normalized := NormalizeDay(day)
	for _, d := range model.Weekdays {
		if strings.ToLower(string(d)) == normalized {
			return d, true
		}
	}
	return "", false
}

// dayInText ищет в тексте ячейки подпись дня недели
func dayInText(text string) (model.Day, bool) {
	lower := strings.ToLower(text)
	for _, d := range model.Weekdays {
		if strings.Contains(lower, strings.ToLower(string(d))) {
			return d, true
		}
	}
	return "", false
}
