package handler

import (
	"time"

	"github.com/pontaj-api/internal/domain"
	"github.com/pontaj-api/internal/dto"
	"github.com/pontaj-api/internal/service"
)

// weekdayLabels - сокращения дней недели в шапке графика
var weekdayLabels = map[time.Weekday]string{
	time.Monday:    "Lu",
	time.Tuesday:   "Ma",
	time.Wednesday: "Mi",
	time.Thursday:  "Jo",
	time.Friday:    "Vi",
	time.Saturday:  "Sâ",
	time.Sunday:    "Du",
}

func toBusinessResponse(biz *domain.Business) dto.BusinessResponse {
	return dto.BusinessResponse{
		ID:           biz.ID,
		Name:         biz.Name,
		LocationName: biz.LocationName,
		CreatedAt:    biz.CreatedAt,
	}
}

func toEmployeeResponse(emp *domain.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:              emp.ID,
		BusinessID:      emp.BusinessID,
		FullName:        emp.FullName,
		Active:          emp.Active,
		StartDate:       emp.StartDate,
		TerminationDate: emp.TerminationDate,
		CreatedAt:       emp.CreatedAt,
	}
}

func toCellResponse(c domain.Cell) dto.CellResponse {
	return dto.CellResponse{
		EmployeeID: c.EmployeeID,
		Day:        c.Day,
		Value:      c.Code,
	}
}

func toPlanResponse(plan *domain.MonthPlan) dto.PlanResponse {
	ids := make([]string, len(plan.EmployeeIDs))
	copy(ids, plan.EmployeeIDs)

	resp := dto.PlanResponse{
		ID:           plan.ID,
		BusinessID:   plan.BusinessID,
		Month:        plan.Month,
		Year:         plan.Year,
		LocationName: plan.LocationName,
		EmployeeIDs:  ids,
		Version:      plan.Version,
		CreatedAt:    plan.CreatedAt,
		UpdatedAt:    plan.UpdatedAt,
	}
	for _, c := range plan.Cells {
		resp.Cells = append(resp.Cells, toCellResponse(c))
	}
	return resp
}

func toGridResponse(pg *service.PlanGrid) dto.GridResponse {
	g := pg.Grid
	resp := dto.GridResponse{
		PlanID:       pg.Plan.ID,
		Month:        g.Month,
		Year:         g.Year,
		LocationName: pg.Plan.LocationName,
		Days:         g.Days,
		Header:       make([]dto.DayHeaderResponse, 0, len(g.Header)),
		Rows:         make([]dto.GridRowResponse, 0, len(g.Rows)),
		Leave:        make([]dto.LeaveNoteResponse, 0, len(g.Footnotes.Leave)),
		Resignations: make([]dto.ResignationNoteResponse, 0, len(g.Footnotes.Resignations)),
	}

	for _, h := range g.Header {
		resp.Header = append(resp.Header, dto.DayHeaderResponse{
			Day:     h.Day,
			Weekday: weekdayLabels[h.Weekday],
			Weekend: h.Weekend,
		})
	}

	for _, row := range g.Rows {
		r := dto.GridRowResponse{
			EmployeeID: row.EmployeeID,
			FullName:   row.FullName,
			Status:     row.Status.String(),
			Cells:      make([]dto.GridCellResponse, 0, len(row.Cells)),
			TotalHours: row.TotalHours,
			LeaveDays:  make(map[string]int, len(row.LeaveDays)),
		}
		for _, c := range row.Cells {
			r.Cells = append(r.Cells, dto.GridCellResponse{
				Day:     c.Day,
				Value:   c.Code,
				Source:  c.Source.String(),
				Weekend: c.Weekend,
			})
		}
		for code, n := range row.LeaveDays {
			r.LeaveDays[string(code)] = n
		}
		resp.Rows = append(resp.Rows, r)
	}

	for _, n := range g.Footnotes.Leave {
		resp.Leave = append(resp.Leave, dto.LeaveNoteResponse{
			Code:       string(n.Code),
			EmployeeID: n.EmployeeID,
			FullName:   n.FullName,
			Days:       n.Days,
		})
	}
	for _, n := range g.Footnotes.Resignations {
		resp.Resignations = append(resp.Resignations, dto.ResignationNoteResponse{
			EmployeeID:      n.EmployeeID,
			FullName:        n.FullName,
			TerminationDate: n.TerminationDate,
		})
	}
	return resp
}
