package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/pontaj-api/internal/domain"
	"github.com/pontaj-api/internal/dto"
	"github.com/pontaj-api/internal/repository"
	"github.com/pontaj-api/internal/schedule"
)

// maxReconcileAttempts ограничивает число повторов при конкурентном обновлении состава
const maxReconcileAttempts = 3

// PlanGrid - план вместе с вычисленным графиком
type PlanGrid struct {
	Plan *domain.MonthPlan
	Grid schedule.Grid
}

// PlanService определяет интерфейс бизнес-логики для планов месяца
type PlanService interface {
	FetchOrCreate(ctx context.Context, userID string, req *dto.FetchPlanRequest) (*domain.MonthPlan, error)
	List(ctx context.Context, userID, businessID string) ([]domain.MonthPlan, error)
	Get(ctx context.Context, userID, id string) (*domain.MonthPlan, error)
	Update(ctx context.Context, userID, id string, req *dto.UpdatePlanRequest) (*domain.MonthPlan, error)
	Delete(ctx context.Context, userID, id string) error
	Grid(ctx context.Context, userID, id string) (*PlanGrid, error)
	SetResignation(ctx context.Context, userID, planID, employeeID string, req *dto.ResignationRequest) (*domain.Employee, error)
}

type planService struct {
	planRepo repository.PlanRepository
	empRepo  repository.EmployeeRepository
	bizRepo  repository.BusinessRepository
	cellRepo repository.CellRepository
	logger   *slog.Logger
}

// NewPlanService создаёт новый экземпляр сервиса
func NewPlanService(
	planRepo repository.PlanRepository,
	empRepo repository.EmployeeRepository,
	bizRepo repository.BusinessRepository,
	cellRepo repository.CellRepository,
	logger *slog.Logger,
) PlanService {
	return &planService{
		planRepo: planRepo,
		empRepo:  empRepo,
		bizRepo:  bizRepo,
		cellRepo: cellRepo,
		logger:   logger,
	}
}

// FetchOrCreate возвращает план месяца, создавая его при отсутствии.
// Существующий план дополняется сотрудниками, ставшими подходящими,
// без удаления и перестановки уже включённых.
func (s *planService) FetchOrCreate(ctx context.Context, userID string, req *dto.FetchPlanRequest) (*domain.MonthPlan, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, domain.ErrInvalidMonth
	}

	biz, err := s.bizRepo.GetByIDForOwner(ctx, req.BusinessID, userID)
	if err != nil {
		return nil, err
	}

	employees, err := s.empRepo.ListActiveByBusiness(ctx, biz.ID)
	if err != nil {
		return nil, err
	}

	records := make([]schedule.EmployeeRecord, 0, len(employees))
	for _, emp := range employees {
		records = append(records, employeeRecord(emp))
	}

	eligible, issues := schedule.EligibleEmployeeIDsWithIssues(records, req.Year, req.Month)
	for _, issue := range issues {
		s.logger.Warn("employee date could not be parsed, treating as eligible",
			"employee_id", issue.EmployeeID,
			"field", issue.Field,
			"value", issue.Value,
			"business_id", biz.ID,
		)
	}

	for attempt := 0; attempt < maxReconcileAttempts; attempt++ {
		plan, err := s.planRepo.GetByKey(ctx, biz.ID, req.Month, req.Year)
		if errors.Is(err, domain.ErrPlanNotFound) {
			plan = &domain.MonthPlan{
				BusinessID:   biz.ID,
				UserID:       userID,
				Month:        req.Month,
				Year:         req.Year,
				LocationName: biz.LocationName,
				EmployeeIDs:  domain.Membership(eligible),
			}
			err = s.planRepo.Create(ctx, plan)
			if err == nil {
				s.logger.Info("month plan created",
					"plan_id", plan.ID,
					"business_id", biz.ID,
					"month", req.Month,
					"year", req.Year,
					"employees", len(plan.EmployeeIDs),
				)
				return plan, nil
			}
			if errors.Is(err, domain.ErrDuplicatePlan) {
				// План создан параллельным запросом, сверяем его состав
				continue
			}
			return nil, err
		}
		if err != nil {
			return nil, err
		}

		merged := schedule.ReconcileMembership(plan.EmployeeIDs, eligible)
		if len(merged) == len(plan.EmployeeIDs) {
			return plan, nil
		}

		version, err := s.planRepo.UpdateMembership(ctx, plan.ID, plan.Version, domain.Membership(merged))
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			s.logger.Debug("month plan membership changed concurrently, retrying",
				"plan_id", plan.ID,
				"attempt", attempt+1,
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info("month plan membership extended",
			"plan_id", plan.ID,
			"added", len(merged)-len(plan.EmployeeIDs),
		)
		plan.EmployeeIDs = domain.Membership(merged)
		plan.Version = version
		return plan, nil
	}

	return nil, domain.ErrConcurrentUpdate
}

func (s *planService) List(ctx context.Context, userID, businessID string) ([]domain.MonthPlan, error) {
	if businessID != "" {
		if _, err := s.bizRepo.GetByIDForOwner(ctx, businessID, userID); err != nil {
			return nil, err
		}
	}
	return s.planRepo.ListByUser(ctx, userID, businessID)
}

func (s *planService) Get(ctx context.Context, userID, id string) (*domain.MonthPlan, error) {
	return s.planRepo.GetByIDForUser(ctx, id, userID, true)
}

// Update меняет порядок состава или локацию плана. Новый состав может
// содержать только сотрудников фирмы плана.
func (s *planService) Update(ctx context.Context, userID, id string, req *dto.UpdatePlanRequest) (*domain.MonthPlan, error) {
	plan, err := s.planRepo.GetByIDForUser(ctx, id, userID, false)
	if err != nil {
		return nil, err
	}

	if req.EmployeeIDs != nil {
		employees, err := s.empRepo.ListByIDs(ctx, req.EmployeeIDs)
		if err != nil {
			return nil, err
		}
		found := make(map[string]bool, len(employees))
		for _, emp := range employees {
			if emp.BusinessID == plan.BusinessID {
				found[emp.ID] = true
			}
		}
		for _, empID := range req.EmployeeIDs {
			if !found[empID] {
				return nil, domain.ErrEmployeeNotInBusiness
			}
		}

		membership := make(domain.Membership, len(req.EmployeeIDs))
		copy(membership, req.EmployeeIDs)
		version, err := s.planRepo.UpdateMembership(ctx, plan.ID, plan.Version, membership)
		if err != nil {
			return nil, err
		}
		plan.EmployeeIDs = membership
		plan.Version = version
	}

	if req.LocationName != nil {
		location := strings.TrimSpace(*req.LocationName)
		if err := s.planRepo.UpdateLocation(ctx, plan.ID, location); err != nil {
			return nil, err
		}
		plan.LocationName = location
	}

	return plan, nil
}

func (s *planService) Delete(ctx context.Context, userID, id string) error {
	plan, err := s.planRepo.GetByIDForUser(ctx, id, userID, false)
	if err != nil {
		return err
	}
	return s.planRepo.Delete(ctx, plan.ID)
}

// Grid строит график плана: сохранённые коды, дни увольнения, итоги и примечания
func (s *planService) Grid(ctx context.Context, userID, id string) (*PlanGrid, error) {
	plan, err := s.planRepo.GetByIDForUser(ctx, id, userID, true)
	if err != nil {
		return nil, err
	}

	employees, err := s.empRepo.ListByIDs(ctx, plan.EmployeeIDs)
	if err != nil {
		return nil, err
	}

	in := schedule.GridInput{
		Year:       plan.Year,
		Month:      plan.Month,
		Membership: plan.EmployeeIDs,
		Employees:  make([]schedule.GridEmployee, 0, len(employees)),
		Cells:      make(map[string]map[int]string),
	}
	for _, emp := range employees {
		in.Employees = append(in.Employees, gridEmployee(emp))
	}
	for _, c := range plan.Cells {
		byDay, ok := in.Cells[c.EmployeeID]
		if !ok {
			byDay = make(map[int]string)
			in.Cells[c.EmployeeID] = byDay
		}
		byDay[c.Day] = c.Code
	}

	return &PlanGrid{Plan: plan, Grid: schedule.BuildGrid(in)}, nil
}

// SetResignation устанавливает или сбрасывает дату увольнения сотрудника плана.
// При установке коды плана начиная с дня увольнения очищаются.
func (s *planService) SetResignation(ctx context.Context, userID, planID, employeeID string, req *dto.ResignationRequest) (*domain.Employee, error) {
	plan, err := s.planRepo.GetByIDForUser(ctx, planID, userID, false)
	if err != nil {
		return nil, err
	}

	emp, err := s.empRepo.GetByIDForUser(ctx, employeeID, userID)
	if err != nil {
		return nil, err
	}
	if emp.BusinessID != plan.BusinessID {
		return nil, domain.ErrEmployeeNotInBusiness
	}

	emp.TerminationDate = optionalDate(req.TerminationDate)
	if err := validateEmploymentDates(emp, false, true); err != nil {
		return nil, err
	}
	if err := s.empRepo.Update(ctx, emp); err != nil {
		return nil, err
	}

	if emp.TerminationDate == nil {
		return emp, nil
	}

	termination, err := schedule.ParseLocalDate(*emp.TerminationDate)
	if err != nil {
		return nil, err
	}
	if fromDay, ok := schedule.ResignationClearFrom(termination, plan.Year, plan.Month); ok {
		if err := s.cellRepo.ClearFrom(ctx, plan.ID, emp.ID, fromDay); err != nil {
			return nil, err
		}
	}

	s.logger.Info("employee resignation set",
		"employee_id", emp.ID,
		"plan_id", plan.ID,
		"termination_date", *emp.TerminationDate,
	)
	return emp, nil
}
