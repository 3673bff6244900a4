package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pontaj-api/internal/domain"
	"gorm.io/gorm"
)

// BusinessRepository определяет интерфейс для работы с фирмами
type BusinessRepository interface {
	Create(ctx context.Context, biz *domain.Business) error
	GetByIDForOwner(ctx context.Context, id, ownerUserID string) (*domain.Business, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]domain.Business, error)
	Update(ctx context.Context, biz *domain.Business) error
	Delete(ctx context.Context, id string) error
}

type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository создаёт новый экземпляр репозитория
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(ctx context.Context, biz *domain.Business) error {
	if biz.ID == "" {
		biz.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(biz).Error
}

func (r *businessRepository) GetByIDForOwner(ctx context.Context, id, ownerUserID string) (*domain.Business, error) {
	var biz domain.Business
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_user_id = ?", id, ownerUserID).
		First(&biz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, err
	}
	return &biz, nil
}

func (r *businessRepository) ListByOwner(ctx context.Context, ownerUserID string) ([]domain.Business, error) {
	var businesses []domain.Business
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at ASC").
		Find(&businesses).Error
	return businesses, err
}

func (r *businessRepository) Update(ctx context.Context, biz *domain.Business) error {
	return r.db.WithContext(ctx).Save(biz).Error
}

// Delete удаляет фирму вместе с сотрудниками, планами и ячейками
func (r *businessRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		planIDs := tx.Model(&domain.MonthPlan{}).Select("id").Where("business_id = ?", id)
		if err := tx.Where("month_plan_id IN (?)", planIDs).Delete(&domain.Cell{}).Error; err != nil {
			return err
		}
		if err := tx.Where("business_id = ?", id).Delete(&domain.MonthPlan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("business_id = ?", id).Delete(&domain.Employee{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&domain.Business{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrBusinessNotFound
		}
		return nil
	})
}
