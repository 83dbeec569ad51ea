package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"gearbook/internal/booking/flow"
	"gearbook/internal/booking/service"
	apperrors "gearbook/pkg/errors"
	httputil "gearbook/pkg/http"
	"gearbook/pkg/logger"
	"gearbook/pkg/sanitizer"
)

type BookingHandler struct {
	flows     service.FlowService
	lifecycle service.LifecycleService
	log       *logger.Logger
}

func NewBookingHandler(flows service.FlowService, lifecycle service.LifecycleService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		flows:     flows,
		lifecycle: lifecycle,
		log:       log,
	}
}

type decisionRequest struct {
	Decision   string `json:"decision"`
	ApproverID string `json:"approver_id"`
}

func (h *BookingHandler) StartFlow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := sanitizer.SanitizeID(ps.ByName("user_id"))

	result, err := h.flows.Start(r.Context(), userID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "StartFlow", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "StartFlow", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) AdvanceFlow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := sanitizer.SanitizeID(ps.ByName("user_id"))

	var opt flow.Option
	if err := json.NewDecoder(r.Body).Decode(&opt); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AdvanceFlow", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := h.flows.Advance(r.Context(), userID, opt)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AdvanceFlow", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if result.Reservation != nil {
		if err := httputil.WriteCreated(w, result); err != nil {
			h.log.Error("failed to write created response", "handler", "AdvanceFlow", "operation", "WriteCreated", "error", err)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "AdvanceFlow", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) AbandonFlow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := sanitizer.SanitizeID(ps.ByName("user_id"))

	if !h.flows.Abandon(userID) {
		if writeErr := httputil.WriteError(w, apperrors.StaleSession(userID)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AbandonFlow", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	reservation, err := h.lifecycle.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid limit parameter: %s", limitStr))); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	var offset int64
	if offsetStr := query.Get("offset"); offsetStr != "" {
		var err error
		offset, err = strconv.ParseInt(offsetStr, 10, 64)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid offset parameter: %s", offsetStr))); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	if userID := query.Get("user_id"); userID != "" {
		reservations, err := h.lifecycle.GetByUser(r.Context(), userID, limit, offset)
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		if err := httputil.WriteSuccess(w, reservations); err != nil {
			h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
		}
		return
	}

	reservations, total, err := h.lifecycle.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Decide(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Decide", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	reservation, err := h.lifecycle.Decide(r.Context(), id, sanitizer.NormalizeDecision(req.Decision), sanitizer.SanitizeID(req.ApproverID))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Decide", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "Decide", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/sessions/:user_id/start", h.StartFlow)
	router.POST("/api/v1/sessions/:user_id/advance", h.AdvanceFlow)
	router.DELETE("/api/v1/sessions/:user_id", h.AbandonFlow)
	router.GET("/api/v1/reservations", h.GetAll)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.POST("/api/v1/reservations/id/:id/decision", h.Decide)
}
