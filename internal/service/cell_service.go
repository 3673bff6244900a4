package service

import (
	"context"
	"fmt"

	"github.com/pontaj-api/internal/domain"
	"github.com/pontaj-api/internal/dto"
	"github.com/pontaj-api/internal/repository"
	"github.com/pontaj-api/internal/schedule"
)

// CellService определяет интерфейс записи ячеек плана
type CellService interface {
	Upsert(ctx context.Context, userID string, items []dto.CellInput) ([]domain.Cell, error)
}

type cellService struct {
	planRepo repository.PlanRepository
	empRepo  repository.EmployeeRepository
	cellRepo repository.CellRepository
}

// NewCellService создаёт новый экземпляр сервиса
func NewCellService(
	planRepo repository.PlanRepository,
	empRepo repository.EmployeeRepository,
	cellRepo repository.CellRepository,
) CellService {
	return &cellService{
		planRepo: planRepo,
		empRepo:  empRepo,
		cellRepo: cellRepo,
	}
}

type cellKey struct {
	planID     string
	employeeID string
	day        int
}

// Upsert проверяет и сохраняет пакет ячеек. Повтор ключа внутри пакета:
// побеждает последнее значение. Буквы, которые вычисляются из даты
// увольнения, не сохраняются.
func (s *cellService) Upsert(ctx context.Context, userID string, items []dto.CellInput) ([]domain.Cell, error) {
	plans := make(map[string]*domain.MonthPlan)
	employeeIDs := make([]string, 0, len(items))
	seenEmp := make(map[string]bool)

	order := make([]cellKey, 0, len(items))
	byKey := make(map[cellKey]domain.Cell, len(items))

	for i, item := range items {
		plan, ok := plans[item.MonthPlanID]
		if !ok {
			var err error
			plan, err = s.planRepo.GetByIDForUser(ctx, item.MonthPlanID, userID, false)
			if err != nil {
				return nil, err
			}
			plans[item.MonthPlanID] = plan
		}

		if item.Day < 1 || item.Day > schedule.DaysInMonth(plan.Year, plan.Month) {
			return nil, fmt.Errorf("cell %d: %w", i, domain.ErrInvalidDay)
		}

		code, err := schedule.ParseCode(item.Value)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}

		if !seenEmp[item.EmployeeID] {
			seenEmp[item.EmployeeID] = true
			employeeIDs = append(employeeIDs, item.EmployeeID)
		}

		key := cellKey{planID: plan.ID, employeeID: item.EmployeeID, day: item.Day}
		if _, dup := byKey[key]; !dup {
			order = append(order, key)
		}
		byKey[key] = domain.Cell{
			MonthPlanID: plan.ID,
			EmployeeID:  item.EmployeeID,
			Day:         item.Day,
			Code:        string(code),
		}
	}

	employees, err := s.empRepo.ListByIDs(ctx, employeeIDs)
	if err != nil {
		return nil, err
	}
	businessOf := make(map[string]string, len(employees))
	for _, emp := range employees {
		businessOf[emp.ID] = emp.BusinessID
	}

	cells := make([]domain.Cell, 0, len(order))
	for _, key := range order {
		bizID, ok := businessOf[key.employeeID]
		if !ok {
			return nil, domain.ErrEmployeeNotFound
		}
		if bizID != plans[key.planID].BusinessID {
			return nil, domain.ErrEmployeeNotInBusiness
		}
		cells = append(cells, byKey[key])
	}

	if err := s.cellRepo.Upsert(ctx, cells); err != nil {
		return nil, err
	}
	return cells, nil
}
