// Package controller implements the core business logic (service layer)
// for managing candidate records: scoped reads, merge-based updates
// validated by the status policy engine, and lifecycle event production.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vgurov/talentflow/internal/candidate/access"
	"github.com/vgurov/talentflow/internal/candidate/attachments"
	e "github.com/vgurov/talentflow/internal/candidate/errors"
	"github.com/vgurov/talentflow/internal/candidate/events"
	"github.com/vgurov/talentflow/internal/candidate/models"
	"github.com/vgurov/talentflow/internal/candidate/policy"
	"go.uber.org/zap"
)

const (
	// maxUpdateRetries bounds the read-validate-write loop on version
	// conflicts.
	maxUpdateRetries = 3
	// attachmentTimeout bounds each call to the attachment store.
	attachmentTimeout = 10 * time.Second
)

type EventProducer interface {
	Produce(eventType events.EventType, candidate *models.Candidate)
	ProduceStatusChanged(candidate *models.Candidate, from, to models.CandidateStatus)
}

// Repository defines the storage interface for candidate records.
type Repository interface {
	CreateCandidate(ctx context.Context, candidate *models.Candidate) error
	GetCandidate(ctx context.Context, id uuid.UUID, tenantID string) (*models.Candidate, error)
	ListCandidates(ctx context.Context, caller models.Identity) ([]*models.Candidate, error)
	UpdateCandidate(ctx context.Context, candidate *models.Candidate) error
	Close() error
}

// CandidateService provides methods to manage candidate records via
// repository operations, the attachment store, and event production.
type CandidateService struct {
	repo     Repository
	store    attachments.Store
	producer EventProducer
	logger   *zap.Logger
	validate *validator.Validate
}

// NewCandidateService constructs a CandidateService with a repository, an
// attachment store, an event producer, and a logger.
func NewCandidateService(repo Repository, store attachments.Store, producer EventProducer, logger *zap.Logger) *CandidateService {
	return &CandidateService{
		repo:     repo,
		store:    store,
		producer: producer,
		logger:   logger.Named("candidate_service"),
		validate: validator.New(),
	}
}

// CreateCandidate adds a new candidate record. Tenant and owner are taken
// from the caller identity, never from the payload, and the status is
// always initialized to PENDING.
func (s *CandidateService) CreateCandidate(ctx context.Context, input *models.Candidate, caller models.Identity) (*models.Candidate, error) {
	candidate := *input
	candidate.ID = uuid.New()
	candidate.TenantID = caller.TenantID
	candidate.OwnerID = caller.ID
	candidate.Status = models.Pending
	candidate.Version = 1
	candidate.ResumeRef = ""
	candidate.PhotoRef = ""
	if candidate.ApplicationDate.IsZero() {
		candidate.ApplicationDate = time.Now().UTC()
	}

	if err := s.validate.Struct(&candidate); err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}

	if err := s.repo.CreateCandidate(ctx, &candidate); err != nil {
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}
	go func() {
		s.producer.Produce(events.CandidateCreated, &candidate)
	}()
	return &candidate, nil
}

// GetCandidate retrieves a candidate by ID within the caller's scope.
// Records outside the caller's tenant are reported as not found; records
// inside the tenant but owned by someone else are forbidden to non-admins.
func (s *CandidateService) GetCandidate(ctx context.Context, id uuid.UUID, caller models.Identity) (*models.Candidate, error) {
	candidate, err := s.repo.GetCandidate(ctx, id, caller.TenantID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	if !access.CanAccess(caller, candidate, access.OpRead) {
		return nil, fmt.Errorf("%w: candidate %s", e.ErrForbidden, id)
	}
	return candidate, nil
}

// ListCandidates returns the candidates visible to the caller.
func (s *CandidateService) ListCandidates(ctx context.Context, caller models.Identity) ([]*models.Candidate, error) {
	candidates, err := s.repo.ListCandidates(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

// NextStatuses returns the statuses the candidate may move to, derived from
// the policy engine's edge table. Used by presentation layers to populate
// choices.
func (s *CandidateService) NextStatuses(ctx context.Context, id uuid.UUID, caller models.Identity) ([]models.CandidateStatus, error) {
	candidate, err := s.GetCandidate(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	return policy.NextStatuses(candidate.Status), nil
}

// UpdateCandidate applies a canonical update command: load, authorize,
// merge, validate the status transition, store attachments, persist with a
// compare-and-swap on the record version. On a version conflict the whole
// sequence retries against the fresh record, so a concurrent winner's
// status is always revalidated. A rejected transition aborts the update
// with no side effects.
func (s *CandidateService) UpdateCandidate(ctx context.Context, update *models.CandidateUpdate) (*models.Candidate, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid candidate ID", e.ErrInvalidInput)
	}
	caller := update.Actor

	var merged models.Candidate
	var from models.CandidateStatus

	operation := func() error {
		current, err := s.repo.GetCandidate(ctx, update.ID, caller.TenantID)
		if err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return backoff.Permanent(err)
			}
			return backoff.Permanent(fmt.Errorf("failed to load candidate: %w", err))
		}
		if !access.CanAccess(caller, current, access.OpWrite) {
			return backoff.Permanent(fmt.Errorf("%w: candidate %s", e.ErrForbidden, update.ID))
		}

		merged = *current
		from = current.Status
		mergeFields(&merged, update)

		if update.Status != nil && *update.Status != from {
			if !policy.IsTransitionAllowed(from, *update.Status) {
				return backoff.Permanent(&e.TransitionError{Current: from, Requested: *update.Status})
			}
			merged.Status = *update.Status
		}

		if err := s.validate.Struct(&merged); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", e.ErrInvalidInput, err))
		}

		if err := s.storeAttachments(ctx, &merged, update.Attachments); err != nil {
			return backoff.Permanent(err)
		}

		if err := s.repo.UpdateCandidate(ctx, &merged); err != nil {
			if errors.Is(err, e.ErrVersionConflict) {
				s.logger.Info("Version conflict, retrying update",
					zap.String("candidate_id", update.ID.String()),
				)
				return err
			}
			if errors.Is(err, e.ErrNotFound) {
				return backoff.Permanent(err)
			}
			return backoff.Permanent(fmt.Errorf("failed to update candidate: %w", err))
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxUpdateRetries), ctx))
	if err != nil {
		return nil, err
	}

	updated := merged
	go func() {
		s.producer.Produce(events.CandidateUpdated, &updated)
		if updated.Status != from {
			s.producer.ProduceStatusChanged(&updated, from, updated.Status)
		}
	}()
	return &updated, nil
}

// storeAttachments writes each pending attachment with a bounded timeout
// and retry, recording the returned references on the merged record. A
// failure aborts the whole update before anything is persisted.
func (s *CandidateService) storeAttachments(ctx context.Context, candidate *models.Candidate, uploads []models.AttachmentUpload) error {
	for _, upload := range uploads {
		actx, cancel := context.WithTimeout(ctx, attachmentTimeout)
		var ref string
		err := backoff.Retry(func() error {
			var putErr error
			ref, putErr = s.store.Put(actx, candidate.ID, upload.Kind, upload.Filename, upload.Content)
			return putErr
		}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), actx))
		cancel()
		if err != nil {
			return fmt.Errorf("%w: %s: %v", e.ErrAttachmentStore, upload.Kind, err)
		}

		switch upload.Kind {
		case models.AttachmentResume:
			candidate.ResumeRef = ref
		case models.AttachmentPhoto:
			candidate.PhotoRef = ref
		default:
			return fmt.Errorf("%w: unknown attachment kind %q", e.ErrInvalidInput, upload.Kind)
		}
	}
	return nil
}

// mergeFields copies the set fields of the update onto the candidate.
// Unset (nil) fields leave existing values untouched. Status is handled
// separately so it always passes through the policy engine.
func mergeFields(candidate *models.Candidate, update *models.CandidateUpdate) {
	if update.AppliedRole != nil {
		candidate.AppliedRole = *update.AppliedRole
	}
	if update.InterviewRound != nil {
		candidate.InterviewRound = *update.InterviewRound
	}
	if update.ApplicationDate != nil {
		candidate.ApplicationDate = *update.ApplicationDate
	}
	if update.FirstName != nil {
		candidate.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		candidate.LastName = *update.LastName
	}
	if update.Email != nil {
		candidate.Email = *update.Email
	}
	if update.Phone != nil {
		candidate.Phone = *update.Phone
	}
	if update.YearsExperience != nil {
		candidate.YearsExperience = *update.YearsExperience
	}
	if update.Skills != nil {
		candidate.Skills = append([]string(nil), (*update.Skills)...)
	}
	if update.Notes != nil {
		candidate.Notes = *update.Notes
	}
}
