package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pontaj-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CellRepository определяет интерфейс для работы с ячейками графика
type CellRepository interface {
	Upsert(ctx context.Context, cells []domain.Cell) error
	ListByPlan(ctx context.Context, planID string) ([]domain.Cell, error)
	ClearFrom(ctx context.Context, planID, employeeID string, fromDay int) error
}

type cellRepository struct {
	db *gorm.DB
}

// NewCellRepository создаёт новый экземпляр репозитория
func NewCellRepository(db *gorm.DB) CellRepository {
	return &cellRepository{db: db}
}

// Upsert создаёт или обновляет ячейки по ключу (план, сотрудник, день).
// Одновременная запись одного ключа - последняя запись побеждает.
func (r *cellRepository) Upsert(ctx context.Context, cells []domain.Cell) error {
	if len(cells) == 0 {
		return nil
	}
	now := time.Now()
	for i := range cells {
		if cells[i].ID == "" {
			cells[i].ID = uuid.NewString()
		}
		cells[i].UpdatedAt = now
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "month_plan_id"}, {Name: "employee_id"}, {Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "updated_at"}),
		}).
		Create(&cells).Error
}

func (r *cellRepository) ListByPlan(ctx context.Context, planID string) ([]domain.Cell, error) {
	var cells []domain.Cell
	err := r.db.WithContext(ctx).
		Where("month_plan_id = ?", planID).
		Order("employee_id ASC, day ASC").
		Find(&cells).Error
	return cells, err
}

// ClearFrom обнуляет коды сотрудника в плане начиная с дня fromDay
func (r *cellRepository) ClearFrom(ctx context.Context, planID, employeeID string, fromDay int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Cell{}).
		Where("month_plan_id = ? AND employee_id = ? AND day >= ?", planID, employeeID, fromDay).
		Updates(map[string]any{
			"code":       "",
			"updated_at": time.Now(),
		}).Error
}
