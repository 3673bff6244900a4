package schedule

import (
	"fmt"
	"time"
)

// EmployeeRecord - данные сотрудника, нужные для расчёта состава месяца.
// Пустые строки означают отсутствие даты.
type EmployeeRecord struct {
	ID              string
	StartDate       string
	TerminationDate string
	CreatedAt       time.Time
}

// DateIssue описывает дату, которую не удалось разобрать при расчёте состава
type DateIssue struct {
	EmployeeID string
	Field      string
	Value      string
	Err        error
}

func (i *DateIssue) Error() string {
	return fmt.Sprintf("employee %s: %s %q: %v", i.EmployeeID, i.Field, i.Value, i.Err)
}

func (i *DateIssue) Unwrap() error {
	return i.Err
}

// CheckEligibility определяет, относится ли сотрудник к месяцу.
// Некорректная дата не исключает сотрудника: результат true, а проблема
// возвращается вторым значением.
func CheckEligibility(rec EmployeeRecord, year, month int) (bool, *DateIssue) {
	target := MonthKey{Year: year, Month: month}

	start, issue := effectiveStart(rec)
	if issue != nil {
		return true, issue
	}
	if start.After(target) {
		return false, nil
	}

	if rec.TerminationDate == "" {
		return true, nil
	}
	term, err := ParseLocalDate(rec.TerminationDate)
	if err != nil {
		return true, &DateIssue{EmployeeID: rec.ID, Field: "termination_date", Value: rec.TerminationDate, Err: err}
	}
	return !term.MonthKey().Before(target), nil
}

func effectiveStart(rec EmployeeRecord) (MonthKey, *DateIssue) {
	if rec.StartDate != "" {
		d, err := ParseLocalDate(rec.StartDate)
		if err != nil {
			return MonthKey{}, &DateIssue{EmployeeID: rec.ID, Field: "start_date", Value: rec.StartDate, Err: err}
		}
		return d.MonthKey(), nil
	}
	if rec.CreatedAt.IsZero() {
		return MonthKey{}, &DateIssue{EmployeeID: rec.ID, Field: "created_at", Err: ErrInvalidDateFormat}
	}
	// Месяц создания считается по локальному времени, а не по зоне драйвера БД
	created := rec.CreatedAt.In(time.Local)
	return MonthKey{Year: created.Year(), Month: int(created.Month())}, nil
}

// EligibleEmployeeIDs возвращает id сотрудников месяца в порядке входного списка
func EligibleEmployeeIDs(records []EmployeeRecord, year, month int) []string {
	ids, _ := EligibleEmployeeIDsWithIssues(records, year, month)
	return ids
}

// EligibleEmployeeIDsWithIssues дополнительно возвращает все проблемы с датами
func EligibleEmployeeIDsWithIssues(records []EmployeeRecord, year, month int) ([]string, []*DateIssue) {
	ids := make([]string, 0, len(records))
	var issues []*DateIssue
	for _, rec := range records {
		ok, issue := CheckEligibility(rec, year, month)
		if issue != nil {
			issues = append(issues, issue)
		}
		if ok {
			ids = append(ids, rec.ID)
		}
	}
	return ids, issues
}

// ReconcileMembership добавляет в конец состава новых подходящих сотрудников.
// Существующие id никогда не удаляются и не переставляются.
func ReconcileMembership(existing, eligible []string) []string {
	result := make([]string, 0, len(existing)+len(eligible))
	seen := make(map[string]struct{}, len(existing)+len(eligible))
	for _, id := range existing {
		result = append(result, id)
		seen[id] = struct{}{}
	}
	for _, id := range eligible {
		if _, ok := seen[id]; ok {
			continue
		}
		result = append(result, id)
		seen[id] = struct{}{}
	}
	return result
}

// EmploymentStatus - состояние сотрудника относительно месяца
type EmploymentStatus int

const (
	StatusActive EmploymentStatus = iota
	StatusNotYetStarted
	StatusResignedThisMonth
	StatusResignedBefore
)

func (s EmploymentStatus) String() string {
	switch s {
	case StatusNotYetStarted:
		return "not_yet_started"
	case StatusResignedThisMonth:
		return "resigned_this_month"
	case StatusResignedBefore:
		return "resigned_before"
	default:
		return "active"
	}
}

// StatusFor вычисляет состояние сотрудника по датам. Увольнение имеет приоритет
// над датой начала, если даты противоречат друг другу.
func StatusFor(rec EmployeeRecord, year, month int) EmploymentStatus {
	target := MonthKey{Year: year, Month: month}

	if rec.TerminationDate != "" {
		if term, err := ParseLocalDate(rec.TerminationDate); err == nil {
			switch tk := term.MonthKey(); {
			case tk.Before(target):
				return StatusResignedBefore
			case tk.Equal(target):
				return StatusResignedThisMonth
			}
		}
	}

	if start, issue := effectiveStart(rec); issue == nil && start.After(target) {
		return StatusNotYetStarted
	}
	return StatusActive
}
