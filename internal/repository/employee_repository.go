package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pontaj-api/internal/domain"
	"gorm.io/gorm"
)

// EmployeeRepository определяет интерфейс для работы с сотрудниками
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	GetByIDForUser(ctx context.Context, id, userID string) (*domain.Employee, error)
	ListActiveByBusiness(ctx context.Context, businessID string) ([]domain.Employee, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Employee, error)
	Update(ctx context.Context, emp *domain.Employee) error
	DeletePermanently(ctx context.Context, id, businessID string) error
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository создаёт новый экземпляр репозитория
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *employeeRepository) GetByIDForUser(ctx context.Context, id, userID string) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

// ListActiveByBusiness возвращает активных сотрудников в порядке создания
func (r *employeeRepository) ListActiveByBusiness(ctx context.Context, businessID string) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND active = ?", businessID, true).
		Order("created_at ASC").
		Order("id ASC").
		Find(&employees).Error
	return employees, err
}

// ListByIDs возвращает сотрудников независимо от активности
func (r *employeeRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Employee, error) {
	employees := make([]domain.Employee, 0, len(ids))
	if len(ids) == 0 {
		return employees, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

// DeletePermanently удаляет сотрудника, его ячейки и убирает его из составов
// всех планов фирмы в одной транзакции
func (r *employeeRepository) DeletePermanently(ctx context.Context, id, businessID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&domain.Cell{}).Error; err != nil {
			return err
		}

		var plans []domain.MonthPlan
		if err := tx.Select("id", "employee_ids").Where("business_id = ?", businessID).Find(&plans).Error; err != nil {
			return err
		}
		for _, plan := range plans {
			if !plan.EmployeeIDs.Contains(id) {
				continue
			}
			err := tx.Model(&domain.MonthPlan{}).
				Where("id = ?", plan.ID).
				Updates(map[string]any{
					"employee_ids": plan.EmployeeIDs.Without(id),
					"version":      gorm.Expr("version + 1"),
				}).Error
			if err != nil {
				return err
			}
		}

		result := tx.Where("id = ?", id).Delete(&domain.Employee{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrEmployeeNotFound
		}
		return nil
	})
}
