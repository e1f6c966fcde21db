package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	e "github.com/vgurov/talentflow/internal/candidate/errors"
	"github.com/vgurov/talentflow/internal/candidate/models"
	"go.uber.org/zap"
)

// createCandidateRequest is the wire shape of a creation payload. Tenant
// and owner are deliberately absent: they come from the caller identity.
type createCandidateRequest struct {
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	AppliedRole     string     `json:"applied_role"`
	ApplicationDate *time.Time `json:"application_date"`
	YearsExperience int        `json:"years_experience"`
	Skills          []string   `json:"skills"`
	Notes           string     `json:"notes"`
}

func (r *createCandidateRequest) toModel() *models.Candidate {
	candidate := &models.Candidate{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Phone:           r.Phone,
		AppliedRole:     r.AppliedRole,
		YearsExperience: r.YearsExperience,
		Skills:          r.Skills,
		Notes:           r.Notes,
	}
	if r.ApplicationDate != nil {
		candidate.ApplicationDate = *r.ApplicationDate
	}
	return candidate
}

// candidateResponse is the wire shape of a candidate record.
type candidateResponse struct {
	ID              string                 `json:"id"`
	TenantID        string                 `json:"tenant_id"`
	OwnerID         string                 `json:"owner_id"`
	Status          models.CandidateStatus `json:"status"`
	AppliedRole     string                 `json:"applied_role,omitempty"`
	InterviewRound  int                    `json:"interview_round"`
	ApplicationDate time.Time              `json:"application_date"`
	FirstName       string                 `json:"first_name"`
	LastName        string                 `json:"last_name"`
	Email           string                 `json:"email,omitempty"`
	Phone           string                 `json:"phone,omitempty"`
	YearsExperience int                    `json:"years_experience"`
	Skills          []string               `json:"skills,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	ResumeRef       string                 `json:"resume_ref,omitempty"`
	PhotoRef        string                 `json:"photo_ref,omitempty"`
	Version         int64                  `json:"version"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

func toResponse(c *models.Candidate) *candidateResponse {
	return &candidateResponse{
		ID:              c.ID.String(),
		TenantID:        c.TenantID,
		OwnerID:         c.OwnerID,
		Status:          c.Status,
		AppliedRole:     c.AppliedRole,
		InterviewRound:  c.InterviewRound,
		ApplicationDate: c.ApplicationDate,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Email:           c.Email,
		Phone:           c.Phone,
		YearsExperience: c.YearsExperience,
		Skills:          c.Skills,
		Notes:           c.Notes,
		ResumeRef:       c.ResumeRef,
		PhotoRef:        c.PhotoRef,
		Version:         c.Version,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

type listResponse struct {
	Candidates []*candidateResponse `json:"candidates"`
}

type transitionsResponse struct {
	Next []models.CandidateStatus `json:"next"`
}

// errorResponse is the wire shape of a failure. Current and Requested are
// set only for rejected status transitions.
type errorResponse struct {
	Error     string                 `json:"error"`
	Current   models.CandidateStatus `json:"current,omitempty"`
	Requested models.CandidateStatus `json:"requested,omitempty"`
}

func (h *CandidateHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// writeError maps domain or repository errors to appropriate HTTP status
// codes.
func (h *CandidateHandler) writeError(w http.ResponseWriter, err error) {
	var transitionErr *e.TransitionError

	switch {
	case errors.As(err, &transitionErr):
		h.writeJSON(w, http.StatusConflict, errorResponse{
			Error:     transitionErr.Error(),
			Current:   transitionErr.Current,
			Requested: transitionErr.Requested,
		})
	case errors.Is(err, e.ErrVersionConflict):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, e.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, e.ErrForbidden):
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, e.ErrInvalidInput):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, e.ErrUnsupportedEncoding):
		h.writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: err.Error()})
	case errors.Is(err, e.ErrAttachmentStore):
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("Internal server error", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
