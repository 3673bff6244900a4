package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pontaj-api/internal/dto"
	"github.com/pontaj-api/internal/service"
)

type CellHandler struct {
	responder
	cellService service.CellService
}

func NewCellHandler(cellService service.CellService, logger *slog.Logger) *CellHandler {
	return &CellHandler{
		responder:   newResponder(logger),
		cellService: cellService,
	}
}

// Upsert принимает одну ячейку или пакет в поле cells
func (h *CellHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.UpsertCellsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	items := req.Items()
	if len(items) == 0 {
		h.respondError(w, http.StatusBadRequest, "validation error", "cells must not be empty")
		return
	}
	if len(items) > dto.MaxCellsPerRequest {
		h.respondError(w, http.StatusBadRequest, "validation error",
			fmt.Sprintf("at most %d cells per request", dto.MaxCellsPerRequest))
		return
	}
	for i := range items {
		if err := h.validator.Struct(&items[i]); err != nil {
			h.respondError(w, http.StatusBadRequest, "validation error", fmt.Sprintf("cell %d: %v", i, err))
			return
		}
	}

	cells, err := h.cellService.Upsert(r.Context(), userID, items)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]dto.CellResponse, 0, len(cells))
	for _, c := range cells {
		resp = append(resp, toCellResponse(c))
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"cells": resp})
}
