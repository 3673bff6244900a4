package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDateFormat возвращается, если строка не является датой YYYY-MM-DD
var ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")

const dateLayout = "2006-01-02"

// Date - календарная дата без времени и часового пояса
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseLocalDate разбирает строку YYYY-MM-DD. Компоненты результата совпадают
// с компонентами строки независимо от часового пояса хоста.
func ParseLocalDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// LocalMidnight возвращает дату, привязанную к локальной полуночи
func (d Date) LocalMidnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before сообщает, что дата раньше other
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// MonthKey возвращает пару (год, месяц) даты
func (d Date) MonthKey() MonthKey {
	return MonthKey{Year: d.Year, Month: int(d.Month)}
}

// MonthKey - пара (год, месяц) с 1-based месяцем
type MonthKey struct {
	Year  int
	Month int
}

func (k MonthKey) Before(other MonthKey) bool {
	return k.Year < other.Year || (k.Year == other.Year && k.Month < other.Month)
}

func (k MonthKey) After(other MonthKey) bool {
	return other.Before(k)
}

func (k MonthKey) Equal(other MonthKey) bool {
	return k == other
}

// DaysInMonth возвращает количество дней в месяце. Нулевой день следующего
// месяца нормализуется в последний день текущего, поэтому високосные годы
// и выход месяца за 1..12 обрабатываются календарной арифметикой.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DayOfWeek возвращает день недели для даты по григорианскому календарю
func DayOfWeek(year, month, day int) time.Weekday {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday()
}

// IsWeekend сообщает, приходится ли день на субботу или воскресенье
func IsWeekend(year, month, day int) bool {
	wd := DayOfWeek(year, month, day)
	return wd == time.Saturday || wd == time.Sunday
}
