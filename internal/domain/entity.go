// Package domain contains the core entity types for the MovieVault server.
package domain

import "time"

// Base provides common identity, timestamp, and soft-delete fields.
// Embed it in any persisted entity.
type Base struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	ID        string     `json:"id"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the underlying entity changes.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new entity.
func (b *Base) InitTimestamps() {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
}

// IsDeleted returns true if this entity has been soft-deleted.
func (b *Base) IsDeleted() bool {
	return b.DeletedAt != nil
}

// MarkDeleted marks this entity as soft-deleted by setting DeletedAt to now.
func (b *Base) MarkDeleted() {
	now := time.Now()
	b.DeletedAt = &now
	b.UpdatedAt = now
}
