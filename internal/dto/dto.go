package dto

import (
	"time"
)

// RegisterRequest - запрос на регистрацию
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"omitempty,max=200"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse - выданный токен
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
}

// CreateBusinessRequest - запрос на создание фирмы
type CreateBusinessRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	LocationName *string `json:"location_name" validate:"omitempty,max=200"`
}

// UpdateBusinessRequest - запрос на обновление фирмы
type UpdateBusinessRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	LocationName *string `json:"location_name" validate:"omitempty,max=200"`
}

// BusinessResponse - ответ с данными фирмы
type BusinessResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LocationName string    `json:"location_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateEmployeeRequest - запрос на создание сотрудника
type CreateEmployeeRequest struct {
	FullName  string  `json:"full_name" validate:"required,min=1,max=200"`
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateEmployeeRequest - запрос на обновление сотрудника.
// Пустая строка в датах сбрасывает значение.
type UpdateEmployeeRequest struct {
	FullName        *string `json:"full_name" validate:"omitempty,min=1,max=200"`
	Active          *bool   `json:"active"`
	StartDate       *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	TerminationDate *string `json:"termination_date" validate:"omitempty,datetime=2006-01-02"`
}

// EmployeeResponse - ответ с данными сотрудника
type EmployeeResponse struct {
	ID              string    `json:"id"`
	BusinessID      string    `json:"business_id"`
	FullName        string    `json:"full_name"`
	Active          bool      `json:"active"`
	StartDate       *string   `json:"start_date,omitempty"`
	TerminationDate *string   `json:"termination_date,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// FetchPlanRequest - запрос на получение или создание плана месяца
type FetchPlanRequest struct {
	BusinessID string `json:"business_id" validate:"required"`
	Month      int    `json:"month" validate:"required,min=1,max=12"`
	Year       int    `json:"year" validate:"required,min=2000,max=2100"`
}

// UpdatePlanRequest - изменение порядка состава или локации
type UpdatePlanRequest struct {
	EmployeeIDs  []string `json:"employee_ids" validate:"omitempty,unique,dive,required"`
	LocationName *string  `json:"location_name" validate:"omitempty,max=200"`
}

// ResignationRequest - установка или сброс даты увольнения из плана
type ResignationRequest struct {
	TerminationDate *string `json:"termination_date" validate:"omitempty,datetime=2006-01-02"`
}

// CellResponse - ячейка плана
type CellResponse struct {
	EmployeeID string `json:"employee_id"`
	Day        int    `json:"day"`
	Value      string `json:"value"`
}

// PlanResponse - ответ с данными плана
type PlanResponse struct {
	ID           string         `json:"id"`
	BusinessID   string         `json:"business_id"`
	Month        int            `json:"month"`
	Year         int            `json:"year"`
	LocationName string         `json:"location_name"`
	EmployeeIDs  []string       `json:"employee_ids"`
	Version      int64          `json:"version"`
	Cells        []CellResponse `json:"cells,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// CellInput - одна ячейка в запросе
type CellInput struct {
	MonthPlanID string `json:"month_plan_id" validate:"required"`
	EmployeeID  string `json:"employee_id" validate:"required"`
	Day         int    `json:"day" validate:"required,min=1,max=31"`
	Value       string `json:"value" validate:"max=8"`
}

// MaxCellsPerRequest ограничивает размер пакета
const MaxCellsPerRequest = 1000

// UpsertCellsRequest - одиночная ячейка или пакет в поле cells
type UpsertCellsRequest struct {
	Cells       []CellInput `json:"cells"`
	MonthPlanID string      `json:"month_plan_id"`
	EmployeeID  string      `json:"employee_id"`
	Day         int         `json:"day"`
	Value       string      `json:"value"`
}

// Items возвращает ячейки запроса в едином виде
func (r *UpsertCellsRequest) Items() []CellInput {
	if r.Cells != nil {
		return r.Cells
	}
	return []CellInput{{
		MonthPlanID: r.MonthPlanID,
		EmployeeID:  r.EmployeeID,
		Day:         r.Day,
		Value:       r.Value,
	}}
}

// GridCellResponse - отображаемая ячейка графика
type GridCellResponse struct {
	Day     int    `json:"day"`
	Value   string `json:"value"`
	Source  string `json:"source"`
	Weekend bool   `json:"weekend"`
}

// GridRowResponse - строка графика
type GridRowResponse struct {
	EmployeeID string             `json:"employee_id"`
	FullName   string             `json:"full_name"`
	Status     string             `json:"status"`
	Cells      []GridCellResponse `json:"cells"`
	TotalHours int                `json:"total_hours"`
	LeaveDays  map[string]int     `json:"leave_days"`
}

// DayHeaderResponse - заголовок дня
type DayHeaderResponse struct {
	Day     int    `json:"day"`
	Weekday string `json:"weekday"`
	Weekend bool   `json:"weekend"`
}

// LeaveNoteResponse - примечание об отпуске
type LeaveNoteResponse struct {
	Code       string `json:"code"`
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Days       []int  `json:"days"`
}

// ResignationNoteResponse - примечание об увольнении
type ResignationNoteResponse struct {
	EmployeeID      string `json:"employee_id"`
	FullName        string `json:"full_name"`
	TerminationDate string `json:"termination_date"`
}

// GridResponse - вычисленный график плана
type GridResponse struct {
	PlanID       string                    `json:"plan_id"`
	Month        int                       `json:"month"`
	Year         int                       `json:"year"`
	LocationName string                    `json:"location_name"`
	Days         int                       `json:"days"`
	Header       []DayHeaderResponse       `json:"header"`
	Rows         []GridRowResponse         `json:"rows"`
	Leave        []LeaveNoteResponse       `json:"leave"`
	Resignations []ResignationNoteResponse `json:"resignations"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ListPlansQuery - параметры запроса списка планов
type ListPlansQuery struct {
	BusinessID string
}
