package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vgurov/talentflow/internal/candidate/access"
	dbmodels "github.com/vgurov/talentflow/internal/candidate/db/models"
	e "github.com/vgurov/talentflow/internal/candidate/errors"
	"github.com/vgurov/talentflow/internal/candidate/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// updateColumns is the exact column set a candidate update may touch.
// id, tenant_id, owner_id and created_at are never in it.
var updateColumns = []string{
	"status", "applied_role", "interview_round", "application_date",
	"first_name", "last_name", "email", "phone", "years_experience",
	"skills", "notes", "resume_ref", "photo_ref", "version", "updated_at",
}

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
	return NewRepositoryWithDialector(postgres.Open(dsn))
}

// NewRepositoryWithDialector opens a repository over an explicit gorm
// dialector. Integration tests use it to run against SQLite.
func NewRepositoryWithDialector(dialector gorm.Dialector) (*Repository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&dbmodels.Candidate{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) CreateCandidate(ctx context.Context, candidate *models.Candidate) error {
	row := toRow(candidate)
	if row.Version == 0 {
		row.Version = 1
	}
	result := r.db.WithContext(ctx).Create(row)
	if result.Error != nil {
		return result.Error
	}
	*candidate = *toDomain(row)
	return nil
}

// GetCandidate loads one candidate within the given tenant. A record in
// another tenant is indistinguishable from a missing one.
func (r *Repository) GetCandidate(ctx context.Context, id uuid.UUID, tenantID string) (*models.Candidate, error) {
	var row dbmodels.Candidate
	result := r.db.WithContext(ctx).
		Scopes(access.TenantScope(tenantID)).
		First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return toDomain(&row), nil
}

// ListCandidates returns every candidate visible to the caller, applying
// the row-level scope derived from the access predicate.
func (r *Repository) ListCandidates(ctx context.Context, caller models.Identity) ([]*models.Candidate, error) {
	var rows []dbmodels.Candidate
	result := r.db.WithContext(ctx).
		Scopes(access.Scope(caller)).
		Order("created_at").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	candidates := make([]*models.Candidate, 0, len(rows))
	for i := range rows {
		candidates = append(candidates, toDomain(&rows[i]))
	}
	return candidates, nil
}

// UpdateCandidate persists a fully merged candidate with a compare-and-swap
// on the version the caller read. On success candidate.Version is bumped in
// place. Zero rows affected means either the record vanished (ErrNotFound)
// or someone else won the race (ErrVersionConflict).
func (r *Repository) UpdateCandidate(ctx context.Context, candidate *models.Candidate) error {
	row := toRow(candidate)
	row.Version = candidate.Version + 1
	row.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&dbmodels.Candidate{}).
		Where("id = ? AND version = ?", candidate.ID, candidate.Version).
		Select(updateColumns).
		Updates(row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&dbmodels.Candidate{}).
			Where("id = ?", candidate.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return e.ErrNotFound
		}
		return e.ErrVersionConflict
	}
	candidate.Version = row.Version
	candidate.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func toRow(c *models.Candidate) *dbmodels.Candidate {
	return &dbmodels.Candidate{
		ID:              c.ID,
		TenantID:        c.TenantID,
		OwnerID:         c.OwnerID,
		Status:          string(c.Status),
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

func toDomain(row *dbmodels.Candidate) *models.Candidate {
	return &models.Candidate{
		ID:              row.ID,
		TenantID:        row.TenantID,
		OwnerID:         row.OwnerID,
		Status:          models.CandidateStatus(row.Status),
		AppliedRole:     row.AppliedRole,
		InterviewRound:  row.InterviewRound,
		ApplicationDate: row.ApplicationDate,
		FirstName:       row.FirstName,
		LastName:        row.LastName,
		Email:           row.Email,
		Phone:           row.Phone,
		YearsExperience: row.YearsExperience,
		Skills:          row.Skills,
		Notes:           row.Notes,
		ResumeRef:       row.ResumeRef,
		PhotoRef:        row.PhotoRef,
		Version:         row.Version,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
