package domain

import "errors"

// Определение бизнес-ошибок
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrDuplicateEmail         = errors.New("user with this email already exists")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrBusinessNotFound       = errors.New("business not found")
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrPlanNotFound           = errors.New("month plan not found")
	ErrDuplicatePlan          = errors.New("month plan already exists for this business and month")
	ErrConcurrentUpdate       = errors.New("month plan was modified concurrently")
	ErrInvalidDay             = errors.New("day is outside the plan month")
	ErrEmployeeNotInBusiness  = errors.New("employee does not belong to the plan business")
	ErrTerminationBeforeStart = errors.New("termination date is before start date")
	ErrInvalidMonth           = errors.New("month must be between 1 and 12")
	ErrEmptyName              = errors.New("name must not be empty")
	ErrCorruptMembership      = errors.New("stored plan membership is corrupt")
)
