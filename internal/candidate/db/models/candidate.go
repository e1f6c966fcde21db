// Package models contains the persistence model for candidate records,
// configured to work using GORM as the ORM.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Candidate represents a candidate row in the database. Version backs the
// optimistic lock taken on every update. tenant_id and owner_id are written
// once on insert and never appear in an update column set.
type Candidate struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID        string    `gorm:"size:64;not null;index:idx_candidates_tenant_owner,priority:1"`
	OwnerID         string    `gorm:"size:64;not null;index:idx_candidates_tenant_owner,priority:2"`
	Status          string    `gorm:"size:32;not null"`
	AppliedRole     string    `gorm:"size:255"`
	InterviewRound  int
	ApplicationDate time.Time
	FirstName       string `gorm:"size:255"`
	LastName        string `gorm:"size:255"`
	Email           string `gorm:"size:255"`
	Phone           string `gorm:"size:64"`
	YearsExperience int
	Skills          []string `gorm:"serializer:json"`
	Notes           string   `gorm:"size:3000"`
	ResumeRef       string   `gorm:"size:512"`
	PhotoRef        string   `gorm:"size:512"`
	Version         int64    `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
