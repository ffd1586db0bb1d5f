package http

import (
	"math"
	"net/http"

	"sfc/internal/dto"
)

const (
	msgEnrolled   = "Successfully enrolled in program"
	msgUnenrolled = "Successfully unenrolled from program"
)

// listQuery reads the catalog filters shared by the public and admin listings.
func listQuery(w http.ResponseWriter, r *http.Request, defLimit, maxLimit int) (dto.ProgramListQuery, bool) {
	limit, ok := queryInt(w, r, "limit", defLimit, 1, maxLimit)
	if !ok {
		return dto.ProgramListQuery{}, false
	}
	offset, ok := queryInt(w, r, "offset", 0, 0, math.MaxInt32)
	if !ok {
		return dto.ProgramListQuery{}, false
	}
	q := r.URL.Query()
	return dto.ProgramListQuery{
		Goal:         q.Get("goal"),
		Difficulty:   q.Get("difficulty"),
		FeaturedOnly: queryBool(r, "featured", false),
		Limit:        limit,
		Offset:       offset,
	}, true
}

func (h *Handler) listPrograms(w http.ResponseWriter, r *http.Request) {
	q, ok := listQuery(w, r, 50, 100)
	if !ok {
		return
	}
	programs, err := h.catalog.ListPublished(r.Context(), q)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, programs)
}

func (h *Handler) featuredPrograms(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", 6, 1, 20)
	if !ok {
		return
	}
	programs, err := h.catalog.Featured(r.Context(), limit)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, programs)
}

func (h *Handler) recommendedPrograms(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", 6, 1, 20)
	if !ok {
		return
	}
	res, err := h.progress.Recommend(r.Context(), currentUser(r.Context()).ID, limit)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) continuePrograms(w http.ResponseWriter, r *http.Request) {
	items, err := h.progress.Continue(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	if items == nil {
		items = []dto.EnrollmentProgress{}
	}
	writeJSON(w, http.StatusOK, dto.ContinueResponse{Enrollments: items})
}

func (h *Handler) programDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "programID")
	if !ok {
		return
	}
	detail, err := h.catalog.PublishedDetail(r.Context(), id)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) enroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "programID")
	if !ok {
		return
	}
	e, err := h.progress.Enroll(r.Context(), currentUser(r.Context()).ID, id)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, dto.EnrollResponse{EnrollmentID: e.ID, ProgramID: id, Message: msgEnrolled})
}

func (h *Handler) unenroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "programID")
	if !ok {
		return
	}
	if err := h.progress.Unenroll(r.Context(), currentUser(r.Context()).ID, id); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: msgUnenrolled})
}

func (h *Handler) programProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "programID")
	if !ok {
		return
	}
	res, err := h.progress.Progress(r.Context(), currentUser(r.Context()).ID, id)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) programWorkouts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "programID")
	if !ok {
		return
	}
	items, err := h.progress.ListWorkouts(r.Context(), currentUser(r.Context()).ID, id)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	if items == nil {
		items = []dto.WorkoutWithProgress{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) completeWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "workoutID")
	if !ok {
		return
	}
	var req dto.CompleteWorkoutRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.progress.CompleteWorkout(r.Context(), currentUser(r.Context()).ID, id, req)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewCompletionResponse(res))
}
