// Package errors определяет виды ошибок, общие для всех модулей.
// Ошибки модулей оборачивают один из видов, обработчики различают их через errors.Is.
package errors

import "errors"

var (
	// ErrMalformedInput документ или служебный файл не удалось разобрать
	ErrMalformedInput = errors.New("некорректные входные данные")
	// ErrNotFound группа или преподаватель отсутствуют в текущих записях
	ErrNotFound = errors.New("не найдено")
	// ErrEmptyResult сущность есть, но под фильтр ничего не попало
	ErrEmptyResult = errors.New("нет данных")
	// ErrConflict операция уже выполняется
	ErrConflict = errors.New("операция уже выполняется")
)

// Kind возвращает вид ошибки или nil, если ошибка не относится ни к одному виду
func Kind(err error) error {
	for _, k := range []error{ErrMalformedInput, ErrNotFound, ErrEmptyResult, ErrConflict} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
