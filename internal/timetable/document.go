package timetable

// Document структурное представление документа с расписанием:
// абзацы и таблицы в порядке следования, без связей между ними.
type Document struct {
	Paragraphs []string
	Tables     []Table
}

// Table строки таблицы, каждая строка: тексты ячеек слева направо
type Table struct {
	Rows [][]string
}

// containsWeekday есть ли в какой-либо ячейке подпись дня недели
func (t Table) containsWeekday() bool {
	for _, row := range t.Rows {
		for _, cell := range row {
			if _, ok := dayInText(cell); ok {
				return true
			}
		}
	}
	return false
}
