package http

import (
	"net/http"

	"sfc/internal/dto"
	"sfc/internal/netutil"
)

const (
	msgLoggedOut       = "Logged out successfully."
	msgPasswordReset   = "Password reset successfully. Please sign in."
	msgPasswordChanged = "Password changed successfully. Please sign in again."
)

func clientOf(r *http.Request) dto.Client {
	return dto.Client{IP: netutil.ClientIP(r), DeviceInfo: netutil.DeviceInfo(r.UserAgent())}
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyOTPRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.auth.VerifyOTP(r.Context(), req, clientOf(r))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) resendOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.auth.ResendOTP(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	var req dto.SigninRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.auth.Signin(r.Context(), req, clientOf(r))
	if err != nil {
		writeError(w, r, err, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.auth.Refresh(r.Context(), req.RefreshToken, clientOf(r))
	if err != nil {
		writeError(w, r, err, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// logout always succeeds so a client cannot probe which tokens are live.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if !decode(w, r, &req) {
		return
	}
	h.auth.Logout(r.Context(), req.RefreshToken)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: msgLoggedOut})
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.auth.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.auth.ResetPassword(r.Context(), req); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: msgPasswordReset})
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.auth.ChangePassword(r.Context(), currentUser(r.Context()).ID, req); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: msgPasswordChanged})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewUserResponse(currentUser(r.Context())))
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	res, err := h.auth.Status(r.Context(), currentUser(r.Context()))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
