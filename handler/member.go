package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/officechores/duty-api/entity"
)

// ListMembers handles GET /api/members. Only active members are returned;
// ?coffee_drinkers=true narrows the roster to coffee drinkers.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	coffeeDrinkersOnly := r.URL.Query().Get("coffee_drinkers") == "true"

	members, err := h.memberStore.ListActive(ctx, coffeeDrinkersOnly)
	if err != nil {
		slog.Error("list members", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve members")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"members": members})
}

// AddMember handles POST /api/members.
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload entity.NewMemberPayload
	if !decodePayload(w, r, &payload) {
		return
	}

	// Create never reports ErrNotFound, so the 404 message is unused.
	if err := h.memberStore.Create(ctx, payload); err != nil {
		h.respondStoreError(w, err, "",
			fmt.Sprintf("Username '%s' already exists", payload.Username))
		return
	}

	h.respondMemberList(w, r, "New member added to the office")
}

// UpdateMember handles PUT /api/members. Only the fields present in the
// payload are changed.
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload entity.UpdateMemberPayload
	if !decodePayload(w, r, &payload) {
		return
	}
	if !payload.HasChanges() {
		respondError(w, http.StatusBadRequest, "Problem validating payload: no fields to update")
		return
	}

	if err := h.memberStore.Update(ctx, payload); err != nil {
		conflictMsg := "Username already exists"
		if payload.Username != nil {
			conflictMsg = fmt.Sprintf("Username '%s' already exists", *payload.Username)
		}
		h.respondStoreError(w, err,
			fmt.Sprintf("No member found with ID %d", payload.ID), conflictMsg)
		return
	}

	h.respondMemberList(w, r, "Updated office member")
}

// DeactivateMember handles DELETE /api/members. Members are soft-deleted so
// the duty history keeps its names.
func (h *Handler) DeactivateMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload entity.DeactivateMemberPayload
	if !decodePayload(w, r, &payload) {
		return
	}

	if err := h.memberStore.Deactivate(ctx, payload.ID); err != nil {
		h.respondStoreError(w, err,
			fmt.Sprintf("No member found with ID %d", payload.ID), "")
		return
	}

	h.respondMemberList(w, r, "Deactivated office member")
}

// respondMemberList answers a successful mutation with the refreshed active
// roster, which is the contract every member mutation shares.
func (h *Handler) respondMemberList(w http.ResponseWriter, r *http.Request, msg string) {
	members, err := h.memberStore.ListActive(r.Context(), false)
	if err != nil {
		slog.Error("refresh members after mutation", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve members")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": msg,
		"success": true,
		"members": members,
	})
}
