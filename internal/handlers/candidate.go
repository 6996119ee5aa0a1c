package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/crucial707/candidate-hub/internal/middleware"
	"github.com/crucial707/candidate-hub/internal/models"
	"github.com/crucial707/candidate-hub/internal/respond"
	"github.com/crucial707/candidate-hub/internal/service"
	"github.com/go-chi/chi/v5"
)

type CandidateHandler struct {
	Candidates *service.CandidateService
}

type candidateInput struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Experience *int   `json:"experience" validate:"required,gte=0"`
}

func (in candidateInput) model() models.Candidate {
	return models.Candidate{
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Experience: *in.Experience,
	}
}

//
// ==========================
// Create Candidate
// ==========================
//

func (h *CandidateHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		JSONError(w, r, apperr.ErrUnauthorized)
		return
	}

	var input candidateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	c, err := h.Candidates.Create(r.Context(), user.ID, input.model())
	if err != nil {
		JSONError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]int{"id": c.ID})
}

//
// ==========================
// Get Candidate By ID
// ==========================
//

func (h *CandidateHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateID(w, r)
	if !ok {
		return
	}

	c, err := h.Candidates.Get(r.Context(), id)
	if err != nil {
		JSONError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, c)
}

//
// ==========================
// Update Candidate
// ==========================
//

func (h *CandidateHandler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		JSONError(w, r, apperr.ErrUnauthorized)
		return
	}
	id, ok := candidateID(w, r)
	if !ok {
		return
	}

	var input candidateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	c, err := h.Candidates.Update(r.Context(), user.ID, id, input.model())
	if err != nil {
		JSONError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, c)
}

//
// ==========================
// Delete Candidate
// ==========================
//

func (h *CandidateHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		JSONError(w, r, apperr.ErrUnauthorized)
		return
	}
	id, ok := candidateID(w, r)
	if !ok {
		return
	}

	c, err := h.Candidates.Delete(r.Context(), user.ID, id)
	if err != nil {
		JSONError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, c)
}

//
// ==========================
// List Candidates
// ==========================
//

// ListCandidates serves the filtered, paginated listing. Query: name,
// experience, page (default 1), page_size (default 10). search_by_name and
// search_by_experience are accepted as aliases.
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fields := make(map[string]string)

	f := models.CandidateFilter{Name: firstOf(q.Get("name"), q.Get("search_by_name"))}
	if v := firstOf(q.Get("experience"), q.Get("search_by_experience")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fields["experience"] = "must be an integer"
		} else {
			f.Experience = &n
		}
	}

	page := intParam(q.Get("page"), service.DefaultPage, "page", fields)
	pageSize := intParam(q.Get("page_size"), service.DefaultPageSize, "page_size", fields)
	if len(fields) > 0 {
		JSONValidationError(w, fields)
		return
	}

	result, err := h.Candidates.List(r.Context(), f, page, pageSize)
	if err != nil {
		JSONError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, result)
}

func candidateID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		JSONValidationError(w, map[string]string{"id": "must be a positive integer"})
		return 0, false
	}
	return id, true
}

// intParam parses an optional integer query parameter, recording a field
// error when it is present but not a number.
func intParam(raw string, fallback int, name string, fields map[string]string) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fields[name] = "must be an integer"
		return fallback
	}
	return n
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
