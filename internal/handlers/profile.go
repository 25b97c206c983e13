package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"podcast-repurposer/internal/db"
)

const defaultPlan = "trial"

type meResponse struct {
	Plan            string `json:"plan"`
	TokensRemaining int    `json:"tokens_remaining"`
}

// GetMe reports the caller's plan and remaining credits.
func (h *Handlers) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	resp := meResponse{Plan: defaultPlan}
	profile, err := h.store.GetUserByID(r.Context(), user.ID)
	switch {
	case errors.Is(err, db.ErrNotFound):
	case err != nil:
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("Error loading profile")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	default:
		if profile.Plan != "" {
			resp.Plan = profile.Plan
		}
		resp.TokensRemaining = profile.TokensRemaining
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateProfile sets full_name (anything but a string clears it) and, when
// present, phone (blank or null clears it).
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	var u db.ProfileUpdate
	if raw, ok := body["full_name"]; ok {
		var name string
		if json.Unmarshal(raw, &name) == nil {
			u.FullName = &name
		}
	}
	if raw, ok := body["phone"]; ok {
		var phone *string
		if err := json.Unmarshal(raw, &phone); err != nil {
			writeError(w, http.StatusBadRequest, "phone must be a string or null")
			return
		}
		u.Phone = phone
		u.PhoneSet = true
	}

	err := h.store.UpdateProfile(r.Context(), user.ID, u)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeOK(w)
}
