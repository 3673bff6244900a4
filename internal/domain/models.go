package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultLocationName - локация фирмы по умолчанию
const DefaultLocationName = "Ansamblul Petrila"

// User - владелец фирм
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	Name         string    `json:"name" gorm:"type:varchar(200)"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName задаёт имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// Business представляет фирму пользователя
type Business struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerUserID  string    `json:"owner_user_id" gorm:"type:varchar(36);not null;index"`
	Name         string    `json:"name" gorm:"type:varchar(200);not null"`
	LocationName string    `json:"location_name" gorm:"type:varchar(200);not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName задаёт имя таблицы для GORM
func (Business) TableName() string {
	return "businesses"
}

// Employee представляет сотрудника фирмы.
// Даты хранятся строкой YYYY-MM-DD без времени и часового пояса.
type Employee struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BusinessID      string    `json:"business_id" gorm:"type:varchar(36);not null;index"`
	UserID          string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	FullName        string    `json:"full_name" gorm:"type:varchar(200);not null"`
	Active          bool      `json:"active" gorm:"not null;default:true"`
	StartDate       *string   `json:"start_date" gorm:"type:varchar(10)"`
	TerminationDate *string   `json:"termination_date" gorm:"type:varchar(10)"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName задаёт имя таблицы для GORM
func (Employee) TableName() string {
	return "employees"
}

// Membership - упорядоченный список id сотрудников плана.
// Хранится JSON-массивом в текстовой колонке.
type Membership []string

// Value реализует driver.Valuer
func (m Membership) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan реализует sql.Scanner. Повреждённый JSON даёт ErrCorruptMembership,
// чтобы состав не был перезаписан по неполным данным.
func (m *Membership) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = Membership{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("membership: unsupported type %T", src)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptMembership, err)
	}
	if ids == nil {
		ids = []string{}
	}
	*m = ids
	return nil
}

// Contains сообщает, входит ли сотрудник в состав
func (m Membership) Contains(id string) bool {
	for _, v := range m {
		if v == id {
			return true
		}
	}
	return false
}

// Without возвращает состав без указанного сотрудника
func (m Membership) Without(id string) Membership {
	out := make(Membership, 0, len(m))
	for _, v := range m {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// MonthPlan - график фирмы на один месяц
type MonthPlan struct {
	ID           string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BusinessID   string     `json:"business_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_month_plans_business_month_year"`
	UserID       string     `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Month        int        `json:"month" gorm:"not null;uniqueIndex:idx_month_plans_business_month_year"`
	Year         int        `json:"year" gorm:"not null;uniqueIndex:idx_month_plans_business_month_year"`
	LocationName string     `json:"location_name" gorm:"type:varchar(200);not null"`
	EmployeeIDs  Membership `json:"employee_ids" gorm:"column:employee_ids;type:text;not null"`
	Version      int64      `json:"version" gorm:"not null;default:1"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Cells []Cell `json:"cells,omitempty" gorm:"foreignKey:MonthPlanID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (MonthPlan) TableName() string {
	return "month_plans"
}

// Cell - код одного сотрудника на один день плана
type Cell struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	MonthPlanID string    `json:"month_plan_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cells_plan_employee_day"`
	EmployeeID  string    `json:"employee_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cells_plan_employee_day;index"`
	Day         int       `json:"day" gorm:"not null;uniqueIndex:idx_cells_plan_employee_day"`
	Code        string    `json:"value" gorm:"column:code;type:varchar(8);not null;default:''"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName задаёт имя таблицы для GORM
func (Cell) TableName() string {
	return "cells"
}
