package http

import (
	"net/http"

	"sfc/internal/dto"
)

func (h *Handler) adminListPrograms(w http.ResponseWriter, r *http.Request) {
	q, ok := listQuery(w, r, 100, 500)
	if !ok {
		return
	}
	q.PublishedOnly = !queryBool(r, "include_unpublished", true)
	programs, err := h.catalog.AdminList(r.Context(), q)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, programs)
}

func (h *Handler) adminCreateProgram(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProgramRequest
	if !decode(w, r, &req) {
		return
	}
	detail, err := h.catalog.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (h *Handler) adminProgramDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "programID")
	if !ok {
		return
	}
	detail, err := h.catalog.AdminDetail(r.Context(), id)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) adminUpdateProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "programID")
	if !ok {
		return
	}
	var req dto.UpdateProgramRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.catalog.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) adminDeleteProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "programID")
	if !ok {
		return
	}
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Program deleted successfully"})
}

func (h *Handler) adminPublish(published bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "programID")
		if !ok {
			return
		}
		p, err := h.catalog.SetPublished(r.Context(), id, published)
		if err != nil {
			writeError(w, r, err, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func (h *Handler) adminAddWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "programID")
	if !ok {
		return
	}
	var req dto.WorkoutInput
	if !decode(w, r, &req) {
		return
	}
	wk, err := h.catalog.AddWorkout(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, wk)
}

func (h *Handler) adminWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "workoutID")
	if !ok {
		return
	}
	wk, err := h.catalog.Workout(r.Context(), id)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (h *Handler) adminUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "workoutID")
	if !ok {
		return
	}
	var req dto.UpdateWorkoutRequest
	if !decode(w, r, &req) {
		return
	}
	wk, err := h.catalog.UpdateWorkout(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (h *Handler) adminDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "workoutID")
	if !ok {
		return
	}
	if err := h.catalog.DeleteWorkout(r.Context(), id); err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Workout deleted successfully"})
}
