package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"sfc/internal/domain"
	"sfc/internal/observability/logging"
	"sfc/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// errorBody is the envelope every failure is reported in.
type errorBody struct {
	Detail errorDetail `json:"detail"`
}

type errorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// codeStatus pins codes whose status does not depend on the endpoint.
var codeStatus = map[string]int{
	"OTP_RATE_LIMITED":    http.StatusTooManyRequests,
	"SIGNIN_RATE_LIMITED": http.StatusTooManyRequests,
	"EMAIL_NOT_VERIFIED":  http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"PROGRAM_NOT_FOUND":   http.StatusNotFound,
	"WORKOUT_NOT_FOUND":   http.StatusNotFound,
	"PROFILE_NOT_FOUND":   http.StatusNotFound,
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeDetail(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorBody{Detail: errorDetail{Message: message, Code: code}})
}

// writeError maps a service error to a response. Domain errors without a
// pinned status use fallback; anything unrecognized is a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback int) {
	var (
		ae *domain.AuthError
		pe *domain.ProgramError
	)
	switch {
	case errors.Is(err, service.ErrValidation):
		writeDetail(w, http.StatusUnprocessableEntity, strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": "), "VALIDATION_ERROR")
	case errors.As(err, &ae):
		writeDetail(w, statusOf(ae.Code, fallback), ae.Message, ae.Code)
	case errors.As(err, &pe):
		writeDetail(w, statusOf(pe.Code, fallback), pe.Message, pe.Code)
	default:
		logging.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		writeDetail(w, http.StatusInternalServerError, "internal server error", "")
	}
}

func statusOf(code string, fallback int) int {
	if s, ok := codeStatus[code]; ok {
		return s
	}
	return fallback
}

// decode reads a JSON body. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body", "VALIDATION_ERROR")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, name+" must be a UUID", "VALIDATION_ERROR")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter bounded to [lo, hi].
func queryInt(w http.ResponseWriter, r *http.Request, name string, def, lo, hi int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		writeDetail(w, http.StatusUnprocessableEntity,
			name+" must be between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi), "VALIDATION_ERROR")
		return 0, false
	}
	return n, true
}

func queryBool(r *http.Request, name string, def bool) bool {
	if b, err := strconv.ParseBool(r.URL.Query().Get(name)); err == nil {
		return b
	}
	return def
}
