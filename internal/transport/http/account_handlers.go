package http

import (
	"net/http"

	"sfc/internal/domain"
	"sfc/internal/dto"
)

func (h *Handler) onboard(w http.ResponseWriter, r *http.Request) {
	var req dto.OnboardingRequest
	if !decode(w, r, &req) {
		return
	}
	prof, err := h.profiles.Onboard(r.Context(), currentUser(r.Context()).ID, req)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, prof)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	prof, err := h.profiles.Get(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}
	prof, err := h.profiles.Update(r.Context(), currentUser(r.Context()).ID, req)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (h *Handler) getConsent(w http.ResponseWriter, r *http.Request) {
	res, err := h.privacy.Consent(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) updateConsent(w http.ResponseWriter, r *http.Request) {
	var req dto.ConsentUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.privacy.UpdateConsent(r.Context(), currentUser(r.Context()).ID, req)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) exportData(w http.ResponseWriter, r *http.Request) {
	res, err := h.privacy.Export(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.DeleteAccountRequest
	if !decode(w, r, &req) {
		return
	}
	if !req.Confirm {
		writeError(w, r, domain.ErrConfirmationRequired, http.StatusBadRequest)
		return
	}
	res, err := h.auth.DeleteAccount(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
