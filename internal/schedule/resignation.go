package schedule

// ResignationPattern - циклическая последовательность, которой заполняются дни
// после даты увольнения
var ResignationPattern = [7]string{"D", "E", "M", "I", "S", "I", "E"}

// ResignationFill вычисляет вычисляемые ячейки месяца после увольнения.
// Если увольнение раньше целевого месяца, заполняется весь месяц с первого дня.
// Если в том же месяце - дни с даты увольнения включительно. Если позже - пусто.
func ResignationFill(termination Date, year, month int) map[int]string {
	result := make(map[int]string)

	startDay, ok := ResignationClearFrom(termination, year, month)
	if !ok {
		return result
	}

	days := DaysInMonth(year, month)
	for d := startDay; d <= days; d++ {
		result[d] = ResignationPattern[(d-startDay)%len(ResignationPattern)]
	}
	return result
}

// ResignationFillString - вариант ResignationFill для сохранённой строки.
// Пустая или некорректная дата не влияет на график.
func ResignationFillString(termination string, year, month int) map[int]string {
	if termination == "" {
		return map[int]string{}
	}
	d, err := ParseLocalDate(termination)
	if err != nil {
		return map[int]string{}
	}
	return ResignationFill(d, year, month)
}

// ResignationClearFrom возвращает первый день целевого месяца, начиная с которого
// действует заполнение после увольнения. ok=false, если увольнение позже месяца.
func ResignationClearFrom(termination Date, year, month int) (int, bool) {
	target := MonthKey{Year: year, Month: month}
	switch tk := termination.MonthKey(); {
	case tk.Before(target):
		return 1, true
	case tk.Equal(target):
		return termination.Day, true
	default:
		return 0, false
	}
}
