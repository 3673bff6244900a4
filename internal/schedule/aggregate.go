package schedule

import "sort"

// TotalHours суммирует часы всех числовых кодов сотрудника
func TotalHours(cells map[int]string) int {
	total := 0
	for _, v := range cells {
		if h, ok := Code(v).Hours(); ok {
			total += h
		}
	}
	return total
}

// CountLeaveDays считает ячейки, точно совпадающие с кодом
func CountLeaveDays(cells map[int]string, code string) int {
	n := 0
	for _, v := range cells {
		if v == code {
			n++
		}
	}
	return n
}

// LeaveDays возвращает отсортированные по возрастанию дни с заданным кодом
func LeaveDays(cells map[int]string, code string) []int {
	days := make([]int, 0)
	for d, v := range cells {
		if v == code {
			days = append(days, d)
		}
	}
	sort.Ints(days)
	return days
}
