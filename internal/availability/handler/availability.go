package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"slotly/internal/availability/service"
	httputil "slotly/pkg/http"
	"slotly/pkg/logger"
	"slotly/pkg/model"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) GetWeekly(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hostID := ps.ByName("hostId")
	if hostID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Host ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "GetWeekly", "operation", "WriteJSON", "error", err)
		}
		return
	}

	avail, err := h.service.GetWeekly(r.Context(), hostID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetWeekly", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, avail); err != nil {
		h.log.Error("failed to write success response", "handler", "GetWeekly", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) PutWeekly(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var avail model.WeeklyAvailability
	if err := json.NewDecoder(r.Body).Decode(&avail); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "PutWeekly", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	avail.HostID = ps.ByName("hostId")

	if err := h.service.PutWeekly(r.Context(), &avail); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PutWeekly", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, avail); err != nil {
		h.log.Error("failed to write success response", "handler", "PutWeekly", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) GetGap(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hostID := ps.ByName("hostId")
	if hostID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Host ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "GetGap", "operation", "WriteJSON", "error", err)
		}
		return
	}

	gap, err := h.service.GetGap(r.Context(), hostID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetGap", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, gap); err != nil {
		h.log.Error("failed to write success response", "handler", "GetGap", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) PutGap(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var gap model.TimeGap
	if err := json.NewDecoder(r.Body).Decode(&gap); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "PutGap", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	gap.HostID = ps.ByName("hostId")

	if err := h.service.PutGap(r.Context(), &gap); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PutGap", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, gap); err != nil {
		h.log.Error("failed to write success response", "handler", "PutGap", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/hosts/:hostId/availability", h.GetWeekly)
	router.PUT("/api/v1/hosts/:hostId/availability", h.PutWeekly)
	router.GET("/api/v1/hosts/:hostId/availability/gap", h.GetGap)
	router.PUT("/api/v1/hosts/:hostId/availability/gap", h.PutGap)
}
