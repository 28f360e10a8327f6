// Package base provides the Base catalog: the physical sites holding equipment stock.
package base

import (
	"context"
	"strings"
	"time"

	"logitrack/internal/core/apperror"
)

// Base is a physical site. Every movement references one or two bases.
type Base struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Location  string    `db:"location" json:"location"`
	Commander *string   `db:"commander" json:"commander,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Validate implements domain.Entity interface.
func (b *Base) Validate(ctx context.Context) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Location = strings.TrimSpace(b.Location)

	if b.Name == "" {
		return apperror.NewInvalidField("name", b.Name, "name is required")
	}
	if b.Location == "" {
		return apperror.NewInvalidField("location", b.Location, "location is required")
	}
	return nil
}

func (b *Base) GetID() int64    { return b.ID }
func (b *Base) GetName() string { return b.Name }

// AuditFields implements domain.Entity interface.
func (b *Base) AuditFields() map[string]any {
	return map[string]any{
		"name":      b.Name,
		"location":  b.Location,
		"commander": b.Commander,
	}
}
