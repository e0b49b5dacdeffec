package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/officechores/duty-api/entity"
)

const (
	defaultDutyLimit = 100

	// Mutations respond with a refreshed duty list so the frontend can
	// re-render without a second request.
	refreshDutyLimit = 50
)

// ListDuties handles GET /api/duties.
func (h *Handler) ListDuties(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultDutyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	duties, err := h.dutyStore.List(ctx, limit)
	if err != nil {
		slog.Error("list duties", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve duties")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"duties": duties,
		"total":  len(duties),
	})
}

// CompleteDuty handles POST /api/duties/complete.
func (h *Handler) CompleteDuty(w http.ResponseWriter, r *http.Request) {
	h.toggleDuty(w, r, true)
}

// UncompleteDuty handles POST /api/duties/uncomplete.
func (h *Handler) UncompleteDuty(w http.ResponseWriter, r *http.Request) {
	h.toggleDuty(w, r, false)
}

func (h *Handler) toggleDuty(w http.ResponseWriter, r *http.Request, completed bool) {
	ctx := r.Context()

	var payload entity.DutyCompletionPayload
	if !decodePayload(w, r, &payload) {
		return
	}

	dutyID, err := strconv.Atoi(payload.DutyID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Problem validating payload: duty_id must be a number")
		return
	}

	if err := h.dutyStore.SetCompleted(ctx, dutyID, payload.DutyType, completed); err != nil {
		h.respondStoreError(w, err,
			fmt.Sprintf("No %s duty found with ID %s", payload.DutyType, payload.DutyID), "")
		return
	}

	if h.recentCache != nil {
		if err := h.recentCache.Invalidate(ctx, payload.DutyType); err != nil {
			slog.Warn("invalidate recent duty cache", "duty_type", payload.DutyType, "error", err)
		}
	}

	duties, err := h.dutyStore.List(ctx, refreshDutyLimit)
	if err != nil {
		slog.Error("refresh duties after toggle", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve duties")
		return
	}

	msg := "Duty marked as completed successfully"
	if !completed {
		msg = "Duty marked as uncompleted successfully"
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": msg,
		"success": true,
		"duties":  duties,
	})
}

// RecentDuty handles GET /api/duties/recent. The response names its source
// so the frontend can tell a cache hit from a database read.
func (h *Handler) RecentDuty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := r.URL.Query().Get("duty_type")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "duty_type query parameter is required")
		return
	}

	dutyType := entity.DutyType(raw)
	if !dutyType.Valid() {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid duty_type %s", raw))
		return
	}

	if h.recentCache != nil {
		duty, err := h.recentCache.Get(ctx, dutyType)
		if err != nil {
			slog.Warn("read recent duty cache", "duty_type", dutyType, "error", err)
		} else if duty != nil {
			slog.Info("recent duty served from cache", "duty_type", dutyType)
			respondJSON(w, http.StatusOK, map[string]any{
				"duty":   duty,
				"source": "cache",
			})
			return
		}
	}

	duty, err := h.dutyStore.MostRecentByType(ctx, dutyType)
	if err != nil {
		slog.Error("get recent duty", "duty_type", dutyType, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve recent duty")
		return
	}
	if duty == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("No %s duty found", dutyType))
		return
	}

	if h.recentCache != nil {
		if err := h.recentCache.Set(ctx, dutyType, duty); err != nil {
			slog.Warn("cache recent duty", "duty_type", dutyType, "error", err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"duty":   duty,
		"source": "database",
	})
}
