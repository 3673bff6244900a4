package schedule

import "time"

// CellSource различает сохранённые ячейки и вычисляемые после увольнения
type CellSource int

const (
	SourceNone CellSource = iota
	SourcePersisted
	SourceDerived
)

func (s CellSource) String() string {
	switch s {
	case SourcePersisted:
		return "persisted"
	case SourceDerived:
		return "derived"
	default:
		return "none"
	}
}

// GridCell - отображаемое значение одного дня
type GridCell struct {
	Day     int
	Code    string
	Source  CellSource
	Weekend bool
}

// ComposeRow собирает строку графика на весь месяц. Вычисляемое значение
// всегда перекрывает сохранённое.
func ComposeRow(year, month int, persisted, derived map[int]string) []GridCell {
	days := DaysInMonth(year, month)
	row := make([]GridCell, days)
	for d := 1; d <= days; d++ {
		cell := GridCell{Day: d, Weekend: IsWeekend(year, month, d)}
		if v, ok := derived[d]; ok {
			cell.Code = v
			cell.Source = SourceDerived
		} else if v := persisted[d]; v != "" {
			cell.Code = v
			cell.Source = SourcePersisted
		}
		row[d-1] = cell
	}
	return row
}

// VisibleCells возвращает сохранённые ячейки, не перекрытые вычисляемыми
func VisibleCells(row []GridCell) map[int]string {
	cells := make(map[int]string)
	for _, c := range row {
		if c.Source == SourcePersisted {
			cells[c.Day] = c.Code
		}
	}
	return cells
}

// GridEmployee - сотрудник в строке графика
type GridEmployee struct {
	ID              string
	FullName        string
	StartDate       string
	TerminationDate string
	CreatedAt       time.Time
}

func (e GridEmployee) record() EmployeeRecord {
	return EmployeeRecord{
		ID:              e.ID,
		StartDate:       e.StartDate,
		TerminationDate: e.TerminationDate,
		CreatedAt:       e.CreatedAt,
	}
}

type GridInput struct {
	Year       int
	Month      int
	Membership []string
	Employees  []GridEmployee
	// Cells: id сотрудника -> день -> код
	Cells map[string]map[int]string
}

type DayHeader struct {
	Day     int
	Weekday time.Weekday
	Weekend bool
}

type GridRow struct {
	EmployeeID string
	FullName   string
	Status     EmploymentStatus
	Cells      []GridCell
	TotalHours int
	LeaveDays  map[Code]int
}

type LeaveNote struct {
	Code       Code
	EmployeeID string
	FullName   string
	Days       []int
}

type ResignationNote struct {
	EmployeeID      string
	FullName        string
	TerminationDate string
}

type Footnotes struct {
	Leave        []LeaveNote
	Resignations []ResignationNote
}

type Grid struct {
	Year      int
	Month     int
	Days      int
	Header    []DayHeader
	Rows      []GridRow
	Footnotes Footnotes
}

var leaveCodes = []Code{CodeCO, CodeCM}

// BuildGrid строит график месяца в порядке состава плана. Id без сотрудника
// пропускаются.
func BuildGrid(in GridInput) Grid {
	g := Grid{
		Year:  in.Year,
		Month: in.Month,
		Days:  DaysInMonth(in.Year, in.Month),
	}

	g.Header = make([]DayHeader, g.Days)
	for d := 1; d <= g.Days; d++ {
		wd := DayOfWeek(in.Year, in.Month, d)
		g.Header[d-1] = DayHeader{Day: d, Weekday: wd, Weekend: wd == time.Saturday || wd == time.Sunday}
	}

	byID := make(map[string]GridEmployee, len(in.Employees))
	for _, e := range in.Employees {
		byID[e.ID] = e
	}

	leaveNotes := make(map[Code][]LeaveNote)
	for _, id := range in.Membership {
		emp, ok := byID[id]
		if !ok {
			continue
		}

		derived := ResignationFillString(emp.TerminationDate, in.Year, in.Month)
		cells := ComposeRow(in.Year, in.Month, in.Cells[id], derived)
		visible := VisibleCells(cells)

		row := GridRow{
			EmployeeID: id,
			FullName:   emp.FullName,
			Status:     StatusFor(emp.record(), in.Year, in.Month),
			Cells:      cells,
			TotalHours: TotalHours(visible),
			LeaveDays:  make(map[Code]int, len(leaveCodes)),
		}
		for _, code := range leaveCodes {
			days := LeaveDays(visible, string(code))
			row.LeaveDays[code] = len(days)
			if len(days) > 0 {
				leaveNotes[code] = append(leaveNotes[code], LeaveNote{
					Code:       code,
					EmployeeID: id,
					FullName:   emp.FullName,
					Days:       days,
				})
			}
		}
		g.Rows = append(g.Rows, row)

		if emp.TerminationDate != "" {
			g.Footnotes.Resignations = append(g.Footnotes.Resignations, ResignationNote{
				EmployeeID:      id,
				FullName:        emp.FullName,
				TerminationDate: emp.TerminationDate,
			})
		}
	}

	for _, code := range leaveCodes {
		g.Footnotes.Leave = append(g.Footnotes.Leave, leaveNotes[code]...)
	}
	return g
}
