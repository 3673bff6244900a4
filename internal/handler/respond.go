package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/pontaj-api/internal/auth"
	"github.com/pontaj-api/internal/domain"
	"github.com/pontaj-api/internal/dto"
	"github.com/pontaj-api/internal/schedule"
)

// responder содержит общие для всех хендлеров помощники
type responder struct {
	validator *validator.Validate
	logger    *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	return responder{
		validator: validator.New(),
		logger:    logger,
	}
}

// decode читает тело запроса и валидирует его. При ошибке ответ уже отправлен.
func (h responder) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return false
	}
	return true
}

// userID достаёт пользователя, положенного в контекст middleware.Auth
func (h responder) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized", "")
		return "", false
	}
	return id, true
}

func (h responder) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBusinessNotFound):
		h.respondError(w, http.StatusNotFound, "business not found", "")
	case errors.Is(err, domain.ErrEmployeeNotFound):
		h.respondError(w, http.StatusNotFound, "employee not found", "")
	case errors.Is(err, domain.ErrPlanNotFound):
		h.respondError(w, http.StatusNotFound, "month plan not found", "")
	case errors.Is(err, domain.ErrUserNotFound):
		h.respondError(w, http.StatusNotFound, "user not found", "")
	case errors.Is(err, domain.ErrDuplicateEmail):
		h.respondError(w, http.StatusConflict, "user with this email already exists", "")
	case errors.Is(err, domain.ErrDuplicatePlan):
		h.respondError(w, http.StatusConflict, "month plan already exists", "")
	case errors.Is(err, domain.ErrConcurrentUpdate):
		h.respondError(w, http.StatusConflict, "month plan was modified concurrently, retry the request", "")
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.respondError(w, http.StatusUnauthorized, "invalid email or password", "")
	case errors.Is(err, domain.ErrInvalidDay),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrEmployeeNotInBusiness),
		errors.Is(err, domain.ErrTerminationBeforeStart),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, schedule.ErrInvalidCode),
		errors.Is(err, schedule.ErrDerivedCode),
		errors.Is(err, schedule.ErrInvalidDateFormat):
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
	case errors.Is(err, domain.ErrCorruptMembership):
		h.logger.Error("month plan membership could not be read", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "month plan membership is corrupt", "")
	default:
		h.logger.Error("internal error", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

func (h responder) respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h responder) respondError(w http.ResponseWriter, status int, errMsg, details string) {
	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: errMsg}
	if details != "" {
		resp.Message = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode error response", slog.Any("error", err))
	}
}
