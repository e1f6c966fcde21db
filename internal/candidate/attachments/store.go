// Package attachments defines the narrow contract with the attachment
// store collaborator and provides a local-disk implementation of it. The
// core never interprets attachment content; it only moves bytes and keeps
// the returned opaque reference.
package attachments

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vgurov/talentflow/internal/candidate/models"
)

// Store persists one binary attachment per (candidate, kind) and returns an
// opaque reference to it. Put must overwrite any previous content for the
// same pair so that retrying a whole update stays idempotent.
type Store interface {
	Put(ctx context.Context, candidateID uuid.UUID, kind models.AttachmentKind, filename string, content []byte) (string, error)
}

// DiskStore writes attachments under a base directory, one file per
// (candidate, kind).
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates the base directory if needed and returns a store
// rooted at it.
func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create attachment directory: %w", err)
	}
	return &DiskStore{baseDir: baseDir}, nil
}

// Put stores content for the given candidate and kind, overwriting any
// previous attachment of that kind. The original filename only contributes
// its extension; the reference is derived from the candidate id and kind so
// repeated uploads produce the same reference.
func (s *DiskStore) Put(ctx context.Context, candidateID uuid.UUID, kind models.AttachmentKind, filename string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ref := fmt.Sprintf("%s_%s%s", candidateID, kind, filepath.Ext(filename))
	if err := os.WriteFile(filepath.Join(s.baseDir, ref), content, 0o600); err != nil {
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}
	return ref, nil
}
