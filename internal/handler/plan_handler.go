package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pontaj-api/internal/dto"
	"github.com/pontaj-api/internal/service"
)

type PlanHandler struct {
	responder
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{
		responder:   newResponder(logger),
		planService: planService,
	}
}

// FetchOrCreate возвращает план месяца, создавая или дополняя его состав
func (h *PlanHandler) FetchOrCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.FetchPlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan, err := h.planService.FetchOrCreate(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toPlanResponse(plan))
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	query := h.parseListQuery(r)
	plans, err := h.planService.List(r.Context(), userID, query.BusinessID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		resp = append(resp, toPlanResponse(&plans[i]))
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	plan, err := h.planService.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toPlanResponse(plan))
}

func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.UpdatePlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan, err := h.planService.Update(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toPlanResponse(plan))
}

func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.planService.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Grid возвращает вычисленный график плана для отображения и печати
func (h *PlanHandler) Grid(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	pg, err := h.planService.Grid(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toGridResponse(pg))
}

func (h *PlanHandler) SetResignation(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.ResignationRequest
	if !h.decode(w, r, &req) {
		return
	}

	emp, err := h.planService.SetResignation(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "employeeId"), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toEmployeeResponse(emp))
}

func (h *PlanHandler) parseListQuery(r *http.Request) dto.ListPlansQuery {
	return dto.ListPlansQuery{
		BusinessID: strings.TrimSpace(r.URL.Query().Get("businessId")),
	}
}
