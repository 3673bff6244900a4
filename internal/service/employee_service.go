package service

import (
	"context"
	"strings"

	"github.com/pontaj-api/internal/domain"
	"github.com/pontaj-api/internal/dto"
	"github.com/pontaj-api/internal/repository"
	"github.com/pontaj-api/internal/schedule"
)

// EmployeeService определяет интерфейс бизнес-логики для сотрудников
type EmployeeService interface {
	List(ctx context.Context, userID, businessID string) ([]domain.Employee, error)
	Create(ctx context.Context, userID, businessID string, req *dto.CreateEmployeeRequest) (*domain.Employee, error)
	Update(ctx context.Context, userID, id string, req *dto.UpdateEmployeeRequest) (*domain.Employee, error)
	Deactivate(ctx context.Context, userID, id string) error
	DeletePermanently(ctx context.Context, userID, businessID, id string) error
}

type employeeService struct {
	empRepo repository.EmployeeRepository
	bizRepo repository.BusinessRepository
}

// NewEmployeeService создаёт новый экземпляр сервиса
func NewEmployeeService(empRepo repository.EmployeeRepository, bizRepo repository.BusinessRepository) EmployeeService {
	return &employeeService{
		empRepo: empRepo,
		bizRepo: bizRepo,
	}
}

func (s *employeeService) List(ctx context.Context, userID, businessID string) ([]domain.Employee, error) {
	if _, err := s.bizRepo.GetByIDForOwner(ctx, businessID, userID); err != nil {
		return nil, err
	}
	return s.empRepo.ListActiveByBusiness(ctx, businessID)
}

func (s *employeeService) Create(ctx context.Context, userID, businessID string, req *dto.CreateEmployeeRequest) (*domain.Employee, error) {
	// Проверяем, что фирма принадлежит пользователю
	if _, err := s.bizRepo.GetByIDForOwner(ctx, businessID, userID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, domain.ErrEmptyName
	}

	emp := &domain.Employee{
		BusinessID: businessID,
		UserID:     userID,
		FullName:   name,
		Active:     true,
		StartDate:  optionalDate(req.StartDate),
	}
	if emp.StartDate != nil {
		if _, err := schedule.ParseLocalDate(*emp.StartDate); err != nil {
			return nil, err
		}
	}

	if err := s.empRepo.Create(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *employeeService) Update(ctx context.Context, userID, id string, req *dto.UpdateEmployeeRequest) (*domain.Employee, error) {
	emp, err := s.empRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, domain.ErrEmptyName
		}
		emp.FullName = name
	}
	if req.Active != nil {
		emp.Active = *req.Active
	}
	if req.StartDate != nil {
		emp.StartDate = optionalDate(req.StartDate)
	}
	if req.TerminationDate != nil {
		emp.TerminationDate = optionalDate(req.TerminationDate)
	}

	if err := validateEmploymentDates(emp, req.StartDate != nil, req.TerminationDate != nil); err != nil {
		return nil, err
	}

	if err := s.empRepo.Update(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// Deactivate скрывает сотрудника из будущих планов, не трогая существующие
func (s *employeeService) Deactivate(ctx context.Context, userID, id string) error {
	emp, err := s.empRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return err
	}
	if !emp.Active {
		return nil
	}
	emp.Active = false
	return s.empRepo.Update(ctx, emp)
}

func (s *employeeService) DeletePermanently(ctx context.Context, userID, businessID, id string) error {
	emp, err := s.empRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return err
	}
	if emp.BusinessID != businessID {
		return domain.ErrEmployeeNotFound
	}
	return s.empRepo.DeletePermanently(ctx, id, businessID)
}

// optionalDate превращает пустую строку в отсутствие значения
func optionalDate(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// validateEmploymentDates проверяет формат изменённых дат и их порядок.
// Сохранённые ранее некорректные даты не мешают обновлению других полей.
func validateEmploymentDates(emp *domain.Employee, startChanged, termChanged bool) error {
	if !startChanged && !termChanged {
		return nil
	}

	var start, term schedule.Date
	var startErr, termErr error
	if emp.StartDate != nil {
		start, startErr = schedule.ParseLocalDate(*emp.StartDate)
		if startErr != nil && startChanged {
			return startErr
		}
	}
	if emp.TerminationDate != nil {
		term, termErr = schedule.ParseLocalDate(*emp.TerminationDate)
		if termErr != nil && termChanged {
			return termErr
		}
	}

	if emp.StartDate == nil || emp.TerminationDate == nil || startErr != nil || termErr != nil {
		return nil
	}
	if term.Before(start) {
		return domain.ErrTerminationBeforeStart
	}
	return nil
}

// employeeRecord переводит сотрудника в представление для расчёта состава
func employeeRecord(emp domain.Employee) schedule.EmployeeRecord {
	return schedule.EmployeeRecord{
		ID:              emp.ID,
		StartDate:       deref(emp.StartDate),
		TerminationDate: deref(emp.TerminationDate),
		CreatedAt:       emp.CreatedAt,
	}
}

func gridEmployee(emp domain.Employee) schedule.GridEmployee {
	return schedule.GridEmployee{
		ID:              emp.ID,
		FullName:        emp.FullName,
		StartDate:       deref(emp.StartDate),
		TerminationDate: deref(emp.TerminationDate),
		CreatedAt:       emp.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
