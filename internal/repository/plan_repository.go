package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pontaj-api/internal/domain"
	"gorm.io/gorm"
)

// PlanRepository определяет интерфейс для работы с планами месяца
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.MonthPlan) error
	GetByKey(ctx context.Context, businessID string, month, year int) (*domain.MonthPlan, error)
	GetByIDForUser(ctx context.Context, id, userID string, withCells bool) (*domain.MonthPlan, error)
	ListByUser(ctx context.Context, userID, businessID string) ([]domain.MonthPlan, error)
	UpdateMembership(ctx context.Context, id string, expectedVersion int64, membership domain.Membership) (int64, error)
	UpdateLocation(ctx context.Context, id, locationName string) error
	Delete(ctx context.Context, id string) error
}

type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository создаёт новый экземпляр репозитория
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// Create сохраняет план. Повтор (фирма, месяц, год) даёт ErrDuplicatePlan.
func (r *planRepository) Create(ctx context.Context, plan *domain.MonthPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.EmployeeIDs == nil {
		plan.EmployeeIDs = domain.Membership{}
	}
	if plan.Version == 0 {
		plan.Version = 1
	}
	err := r.db.WithContext(ctx).Omit("Cells").Create(plan).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicatePlan
	}
	return err
}

func (r *planRepository) GetByKey(ctx context.Context, businessID string, month, year int) (*domain.MonthPlan, error) {
	var plan domain.MonthPlan
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND month = ? AND year = ?", businessID, month, year).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) GetByIDForUser(ctx context.Context, id, userID string, withCells bool) (*domain.MonthPlan, error) {
	var plan domain.MonthPlan

	query := r.db.WithContext(ctx)
	if withCells {
		query = query.Preload("Cells", func(db *gorm.DB) *gorm.DB {
			return db.Order("employee_id ASC, day ASC")
		})
	}

	err := query.Where("id = ? AND user_id = ?", id, userID).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListByUser возвращает планы пользователя от новых к старым.
// Пустой businessID означает все фирмы.
func (r *planRepository) ListByUser(ctx context.Context, userID, businessID string) ([]domain.MonthPlan, error) {
	var plans []domain.MonthPlan
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if businessID != "" {
		query = query.Where("business_id = ?", businessID)
	}
	err := query.Order("year DESC").Order("month DESC").Find(&plans).Error
	return plans, err
}

// UpdateMembership записывает состав, только если версия плана не изменилась.
// Возвращает новую версию.
func (r *planRepository) UpdateMembership(ctx context.Context, id string, expectedVersion int64, membership domain.Membership) (int64, error) {
	if membership == nil {
		membership = domain.Membership{}
	}
	result := r.db.WithContext(ctx).
		Model(&domain.MonthPlan{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{
			"employee_ids": membership,
			"version":      expectedVersion + 1,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, domain.ErrConcurrentUpdate
	}
	return expectedVersion + 1, nil
}

func (r *planRepository) UpdateLocation(ctx context.Context, id, locationName string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.MonthPlan{}).
		Where("id = ?", id).
		Update("location_name", locationName)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("month_plan_id = ?", id).Delete(&domain.Cell{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.MonthPlan{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrPlanNotFound
		}
		return nil
	})
}
