package schedule

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrInvalidCode = errors.New("invalid cell code")
	ErrDerivedCode = errors.New("resignation letters are derived and cannot be entered manually")
)

// Code - значение ячейки графика
type Code string

const (
	CodeEmpty Code = ""
	// CodeCO - оплачиваемый отпуск
	CodeCO Code = "CO"
	// CodeCM - больничный
	CodeCM Code = "CM"
	// CodeX - неоплачиваемое отсутствие
	CodeX Code = "X"
)

// Границы числового кода смены в часах
const (
	MinShiftHours = 1
	MaxShiftHours = 48
)

// LegacyShiftCode - единственный числовой код ранних версий графика
const LegacyShiftCode Code = "24"

// ParseCode проверяет код, введённый вручную
func ParseCode(s string) (Code, error) {
	switch c := Code(s); c {
	case CodeEmpty, CodeCO, CodeCM, CodeX:
		return c, nil
	}

	if IsDerivedLetter(s) {
		return "", fmt.Errorf("%w: %q", ErrDerivedCode, s)
	}

	n, ok := parseHours(s)
	if !ok || n < MinShiftHours || n > MaxShiftHours {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, s)
	}
	// "024" и "24" - один и тот же код
	return Code(strconv.Itoa(n)), nil
}

// Hours возвращает количество часов для числового кода
func (c Code) Hours() (int, bool) {
	return parseHours(string(c))
}

// IsLeave сообщает, является ли код днём отпуска или больничного
func (c Code) IsLeave() bool {
	return c == CodeCO || c == CodeCM
}

// IsDerivedLetter сообщает, входит ли строка в алфавит заполнения после увольнения
func IsDerivedLetter(s string) bool {
	for _, l := range ResignationPattern {
		if s == l {
			return true
		}
	}
	return false
}

// parseHours принимает только строки из цифр с положительным значением
func parseHours(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
