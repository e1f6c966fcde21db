// Package request normalizes the two accepted update encodings into one
// canonical update command before any business logic runs. The encoding is
// resolved from the declared content type as a tagged union, never from
// which parts happen to be present.
package request

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"
	e "github.com/vgurov/talentflow/internal/candidate/errors"
	"github.com/vgurov/talentflow/internal/candidate/models"
	"github.com/vgurov/talentflow/internal/candidate/policy"
)

// Encoding identifies one of the two accepted request shapes.
type Encoding int

const (
	EncodingUnknown Encoding = iota
	// EncodingStructured is a single JSON payload: fields only, no
	// attachments.
	EncodingStructured
	// EncodingMultipart is a multipart payload: a "candidate" JSON part
	// plus up to two binary attachment parts ("resume", "photo").
	EncodingMultipart
)

const (
	fieldsPartName = "candidate"
	maxRequestSize = 16 << 20
)

// Fields mirrors the updatable candidate fields as they appear on the
// wire. Absent keys leave the stored values untouched.
type Fields struct {
	Status          *string    `json:"status"`
	AppliedRole     *string    `json:"applied_role"`
	InterviewRound  *int       `json:"interview_round"`
	ApplicationDate *time.Time `json:"application_date"`
	FirstName       *string    `json:"first_name"`
	LastName        *string    `json:"last_name"`
	Email           *string    `json:"email"`
	Phone           *string    `json:"phone"`
	YearsExperience *int       `json:"years_experience"`
	Skills          *[]string  `json:"skills"`
	Notes           *string    `json:"notes"`
}

// DetectEncoding resolves the declared Content-Type of the request. It
// deliberately ignores the body: an ambiguous or unknown declaration is
// rejected rather than guessed.
func DetectEncoding(r *http.Request) Encoding {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return EncodingUnknown
	}
	switch mediaType {
	case "application/json":
		return EncodingStructured
	case "multipart/form-data":
		return EncodingMultipart
	default:
		return EncodingUnknown
	}
}

// Normalize produces the canonical update command for candidate id,
// requested by caller, from either accepted encoding. Downstream components
// are encoding-agnostic.
func Normalize(r *http.Request, id uuid.UUID, caller models.Identity) (*models.CandidateUpdate, error) {
	switch DetectEncoding(r) {
	case EncodingStructured:
		return normalizeStructured(r, id, caller)
	case EncodingMultipart:
		return normalizeMultipart(r, id, caller)
	default:
		return nil, fmt.Errorf("%w: content type %q", e.ErrUnsupportedEncoding, r.Header.Get("Content-Type"))
	}
}

func normalizeStructured(r *http.Request, id uuid.UUID, caller models.Identity) (*models.CandidateUpdate, error) {
	var fields Fields
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestSize)).Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON payload: %v", e.ErrInvalidInput, err)
	}
	return buildUpdate(&fields, id, caller, nil)
}

func normalizeMultipart(r *http.Request, id uuid.UUID, caller models.Identity) (*models.CandidateUpdate, error) {
	if err := r.ParseMultipartForm(maxRequestSize); err != nil {
		return nil, fmt.Errorf("%w: malformed multipart payload: %v", e.ErrInvalidInput, err)
	}

	raw := r.FormValue(fieldsPartName)
	if raw == "" {
		return nil, fmt.Errorf("%w: missing %q part", e.ErrInvalidInput, fieldsPartName)
	}
	var fields Fields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: malformed %q part: %v", e.ErrInvalidInput, fieldsPartName, err)
	}

	var uploads []models.AttachmentUpload
	for _, kind := range []models.AttachmentKind{models.AttachmentResume, models.AttachmentPhoto} {
		upload, ok, err := filePart(r, kind)
		if err != nil {
			return nil, err
		}
		if ok {
			uploads = append(uploads, upload)
		}
	}
	return buildUpdate(&fields, id, caller, uploads)
}

func filePart(r *http.Request, kind models.AttachmentKind) (models.AttachmentUpload, bool, error) {
	file, header, err := r.FormFile(string(kind))
	if err == http.ErrMissingFile {
		return models.AttachmentUpload{}, false, nil
	}
	if err != nil {
		return models.AttachmentUpload{}, false, fmt.Errorf("%w: reading %q part: %v", e.ErrInvalidInput, kind, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.AttachmentUpload{}, false, fmt.Errorf("%w: reading %q part: %v", e.ErrInvalidInput, kind, err)
	}
	return models.AttachmentUpload{
		Kind:     kind,
		Filename: header.Filename,
		Content:  content,
	}, true, nil
}

func buildUpdate(fields *Fields, id uuid.UUID, caller models.Identity, uploads []models.AttachmentUpload) (*models.CandidateUpdate, error) {
	update := &models.CandidateUpdate{
		ID:              id,
		AppliedRole:     fields.AppliedRole,
		InterviewRound:  fields.InterviewRound,
		ApplicationDate: fields.ApplicationDate,
		FirstName:       fields.FirstName,
		LastName:        fields.LastName,
		Email:           fields.Email,
		Phone:           fields.Phone,
		YearsExperience: fields.YearsExperience,
		Skills:          fields.Skills,
		Notes:           fields.Notes,
		Attachments:     uploads,
		Actor:           caller,
	}
	if fields.Status != nil {
		status := models.CandidateStatus(*fields.Status)
		if !policy.IsValidStatus(status) {
			return nil, fmt.Errorf("%w: unknown status %q", e.ErrInvalidInput, *fields.Status)
		}
		update.Status = &status
	}
	return update, nil
}
