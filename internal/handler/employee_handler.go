package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pontaj-api/internal/dto"
	"github.com/pontaj-api/internal/service"
)

type EmployeeHandler struct {
	responder
	empService service.EmployeeService
}

func NewEmployeeHandler(empService service.EmployeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		responder:  newResponder(logger),
		empService: empService,
	}
}

// List возвращает активных сотрудников фирмы
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	list, err := h.empService.List(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]dto.EmployeeResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toEmployeeResponse(&list[i]))
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	emp, err := h.empService.Create(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toEmployeeResponse(emp))
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	emp, err := h.empService.Update(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toEmployeeResponse(emp))
}

// Deactivate - мягкое удаление: сотрудник остаётся в существующих планах
func (h *EmployeeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.empService.Deactivate(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeletePermanently удаляет сотрудника вместе с его ячейками и местом в планах
func (h *EmployeeHandler) DeletePermanently(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	err := h.empService.DeletePermanently(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "employeeId"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
