package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/vgurov/talentflow/internal/candidate/auth"
	e "github.com/vgurov/talentflow/internal/candidate/errors"
	"github.com/vgurov/talentflow/internal/candidate/models"
	"github.com/vgurov/talentflow/internal/candidate/request"
	"go.uber.org/zap"
)

// CandidateHandler provides HTTP methods for candidate operations, mapping
// requests to a CandidateController interface.
type CandidateHandler struct {
	service CandidateController
	logger  *zap.Logger
}

// NewCandidateHandler constructs a new CandidateHandler with the given
// service and logger.
func NewCandidateHandler(service CandidateController, logger *zap.Logger) *CandidateHandler {
	return &CandidateHandler{
		service: service,
		logger:  logger.Named("http_handler"),
	}
}

// Create handles POST /v1/candidates.
func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var req createCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errInvalidInputf("malformed JSON payload: %v", err))
		return
	}

	created, err := h.service.CreateCandidate(r.Context(), req.toModel(), caller)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toResponse(created))
}

// List handles GET /v1/candidates. The result is implicitly scoped to the
// caller; query parameters can never widen it.
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	candidates, err := h.service.ListCandidates(r.Context(), caller)
	if err != nil {
		h.writeError(w, err)
		return
	}
	responses := make([]*candidateResponse, 0, len(candidates))
	for _, c := range candidates {
		responses = append(responses, toResponse(c))
	}
	h.writeJSON(w, http.StatusOK, listResponse{Candidates: responses})
}

// Get handles GET /v1/candidates/{id}.
func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r)
	if !ok {
		return
	}

	candidate, err := h.service.GetCandidate(r.Context(), id, caller)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toResponse(candidate))
}

// Update handles PATCH /v1/candidates/{id}, accepting either of the two
// supported encodings. The normalizer resolves the encoding before any
// business logic runs.
func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r)
	if !ok {
		return
	}

	update, err := request.Normalize(r, id, caller)
	if err != nil {
		h.writeError(w, err)
		return
	}

	updated, err := h.service.UpdateCandidate(r.Context(), update)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toResponse(updated))
}

// Transitions handles GET /v1/candidates/{id}/transitions, returning the
// statuses the candidate may move to next. Presentation layers populate
// their choices from this endpoint instead of keeping their own copy of
// the transition table.
func (h *CandidateHandler) Transitions(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r)
	if !ok {
		return
	}

	statuses, err := h.service.NextStatuses(r.Context(), id, caller)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, transitionsResponse{Next: statuses})
}

func (h *CandidateHandler) callerAndID(w http.ResponseWriter, r *http.Request) (models.Identity, uuid.UUID, bool) {
	caller, found := auth.IdentityFromContext(r.Context())
	if !found {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return caller, uuid.Nil, false
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeError(w, errInvalidInputf("invalid candidate ID"))
		return caller, uuid.Nil, false
	}
	return caller, id, true
}

func errInvalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", e.ErrInvalidInput, fmt.Sprintf(format, args...))
}
