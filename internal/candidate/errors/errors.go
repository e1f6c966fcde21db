package errors

import (
	"fmt"

	"github.com/vgurov/talentflow/internal/candidate/models"
)

var (
	ErrNotFound            = fmt.Errorf("not found")
	ErrForbidden           = fmt.Errorf("forbidden")
	ErrInvalidInput        = fmt.Errorf("invalid input")
	ErrInvalidTransition   = fmt.Errorf("invalid status transition")
	ErrUnsupportedEncoding = fmt.Errorf("unsupported request encoding")
	ErrAttachmentStore     = fmt.Errorf("attachment store failure")
	ErrVersionConflict     = fmt.Errorf("version conflict")
)

// TransitionError reports a rejected status change. It carries both sides
// of the edge so callers can surface them for diagnostics.
type TransitionError struct {
	Current   models.CandidateStatus
	Requested models.CandidateStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.Current, e.Requested)
}

// Unwrap makes errors.Is(err, ErrInvalidTransition) match.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
