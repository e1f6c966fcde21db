// Package models defines the core domain models for the candidate pipeline.
// It includes definitions for Candidate, CandidateUpdate, the
// CandidateStatus enumeration, and the caller Identity that scopes every
// operation.
package models

import (
	"time"

	"github.com/google/uuid"
)

// CandidateStatus represents a candidate's position in the hiring pipeline.
type CandidateStatus string

const (
	// Pending is the status every candidate is created with.
	Pending            CandidateStatus = "PENDING"
	InterviewScheduled CandidateStatus = "INTERVIEW_SCHEDULED"
	InProgress         CandidateStatus = "IN_PROGRESS"
	Completed          CandidateStatus = "COMPLETED"
	Rejected           CandidateStatus = "REJECTED"
	OnHold             CandidateStatus = "ON_HOLD"
	Withdrawn          CandidateStatus = "WITHDRAWN"
)

// AllStatuses lists every pipeline status in declaration order.
var AllStatuses = []CandidateStatus{
	Pending,
	InterviewScheduled,
	InProgress,
	Completed,
	Rejected,
	OnHold,
	Withdrawn,
}

// Role is the coarse permission level of a caller within its tenant.
type Role string

const (
	RoleRecruiter Role = "RECRUITER"
	RoleAdmin     Role = "ADMIN"
)

// Identity identifies the authenticated caller of an operation. It is
// supplied by the session layer and passed explicitly into every service
// call; the core never reads it from ambient request state.
type Identity struct {
	// ID is the caller's user id.
	ID string
	// TenantID is the organization boundary the caller belongs to.
	TenantID string
	// Role is the caller's permission level within the tenant.
	Role Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// AttachmentKind names the binary artifacts a candidate record may carry.
type AttachmentKind string

const (
	AttachmentResume AttachmentKind = "resume"
	AttachmentPhoto  AttachmentKind = "photo"
)

// AttachmentUpload is a pending attachment replacement carried by an
// update command.
type AttachmentUpload struct {
	Kind     AttachmentKind
	Filename string
	Content  []byte
}

// Candidate defines the domain model for one applicant tracked through the
// hiring pipeline.
type Candidate struct {
	// ID is the unique identifier for the candidate.
	ID uuid.UUID
	// TenantID is the organization boundary. Immutable after creation.
	TenantID string
	// OwnerID is the recruiter managing this record.
	OwnerID string
	// Status is the candidate's pipeline status. Only the policy engine
	// decides whether it may change.
	Status CandidateStatus
	// AppliedRole is the position the candidate applied for.
	AppliedRole string `validate:"max=255"`
	// InterviewRound counts completed interview rounds.
	InterviewRound int `validate:"gte=0"`
	// ApplicationDate records when the application was received.
	ApplicationDate time.Time
	// FirstName is the candidate's given name.
	FirstName string `validate:"required,max=255"`
	// LastName is the candidate's family name.
	LastName string `validate:"required,max=255"`
	// Email is the candidate's contact address.
	Email string `validate:"omitempty,email,max=255"`
	// Phone is the candidate's contact number.
	Phone string `validate:"max=64"`
	// YearsExperience is the candidate's total professional experience.
	YearsExperience int `validate:"gte=0"`
	// Skills is the candidate's skill set.
	Skills []string
	// Notes holds free-text recruiter notes.
	Notes string `validate:"max=3000"`
	// ResumeRef is an opaque reference to the stored resume, if any.
	ResumeRef string
	// PhotoRef is an opaque reference to the stored profile picture, if any.
	PhotoRef string
	// Version backs the optimistic lock taken on every update.
	Version int64
	// CreatedAt records when the record was created.
	CreatedAt time.Time
	// UpdatedAt records the last modification time.
	UpdatedAt time.Time
}

// CandidateUpdate is the canonical update command: apply these field
// changes, and optionally these attachment replacements, to candidate ID,
// requested by Actor. Pointer types are used to allow partial updates; nil
// fields leave the stored value untouched. TenantID and OwnerID are
// deliberately absent: no update path may move a record across the tenant
// or owner boundary.
type CandidateUpdate struct {
	// ID is the unique identifier of the candidate to update.
	ID uuid.UUID
	// Status is the requested pipeline status, subject to the policy engine.
	Status *CandidateStatus
	// AppliedRole is the new applied position.
	AppliedRole *string
	// InterviewRound is the new interview round counter.
	InterviewRound *int
	// ApplicationDate is the new application date.
	ApplicationDate *time.Time
	// FirstName is the new given name.
	FirstName *string
	// LastName is the new family name.
	LastName *string
	// Email is the new contact address.
	Email *string
	// Phone is the new contact number.
	Phone *string
	// YearsExperience is the new experience count.
	YearsExperience *int
	// Skills replaces the skill set.
	Skills *[]string
	// Notes replaces the recruiter notes.
	Notes *string
	// Attachments are pending attachment replacements.
	Attachments []AttachmentUpload
	// Actor is the caller requesting the update.
	Actor Identity
}
