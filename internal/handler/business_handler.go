package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pontaj-api/internal/dto"
	"github.com/pontaj-api/internal/service"
)

type BusinessHandler struct {
	responder
	bizService service.BusinessService
}

func NewBusinessHandler(bizService service.BusinessService, logger *slog.Logger) *BusinessHandler {
	return &BusinessHandler{
		responder:  newResponder(logger),
		bizService: bizService,
	}
}

func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	list, err := h.bizService.List(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]dto.BusinessResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toBusinessResponse(&list[i]))
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.CreateBusinessRequest
	if !h.decode(w, r, &req) {
		return
	}

	biz, err := h.bizService.Create(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toBusinessResponse(biz))
}

func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateBusinessRequest
	if !h.decode(w, r, &req) {
		return
	}

	biz, err := h.bizService.Update(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toBusinessResponse(biz))
}

func (h *BusinessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.bizService.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
