// Package access implements the tenant/owner scoping predicate applied to
// every candidate read and write. The rule is expressed twice on purpose:
// CanAccess for in-memory decisions and Scope for row-level filtering in
// the repository. The two must stay equivalent; the repository tests
// compare them exhaustively.
package access

import (
	"github.com/vgurov/talentflow/internal/candidate/models"
	"gorm.io/gorm"
)

// Operation distinguishes read access from write access.
type Operation int

const (
	OpRead Operation = iota
	OpWrite
)

// CanAccess reports whether caller may perform op on record. A caller may
// access a record if it belongs to the caller's tenant and the caller is
// either the record's owner or a tenant admin. The tenant boundary is
// absolute: the admin role bypasses the owner check but never the tenant
// check. Reads and writes share the same predicate.
func CanAccess(caller models.Identity, record *models.Candidate, _ Operation) bool {
	if record == nil {
		return false
	}
	if caller.TenantID == "" || caller.TenantID != record.TenantID {
		return false
	}
	return caller.IsAdmin() || caller.ID == record.OwnerID
}

// Scope returns a gorm scope restricting a candidate query to the rows
// caller may see, mirroring CanAccess at the storage layer.
func Scope(caller models.Identity) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("tenant_id = ?", caller.TenantID)
		if !caller.IsAdmin() {
			tx = tx.Where("owner_id = ?", caller.ID)
		}
		return tx
	}
}

// TenantScope restricts a query to the caller's tenant only. Single-record
// lookups use it so the service layer can distinguish a record that does
// not exist in the tenant (NotFound) from one the caller may not touch
// (Forbidden) without leaking cross-tenant existence.
func TenantScope(tenantID string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("tenant_id = ?", tenantID)
	}
}
