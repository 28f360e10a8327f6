// Package equipment provides the EquipmentType catalog used to classify movement line items.
package equipment

import (
	"context"
	"strings"
	"time"

	"logitrack/internal/core/apperror"
)

// EquipmentType classifies movement line items (weapons, vehicles, ammunition...).
type EquipmentType struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Validate implements domain.Entity interface.
func (e *EquipmentType) Validate(ctx context.Context) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Category = strings.TrimSpace(e.Category)

	if e.Name == "" {
		return apperror.NewInvalidField("name", e.Name, "name is required")
	}
	if e.Category == "" {
		return apperror.NewInvalidField("category", e.Category, "category is required")
	}
	return nil
}

func (e *EquipmentType) GetID() int64    { return e.ID }
func (e *EquipmentType) GetName() string { return e.Name }

// AuditFields implements domain.Entity interface.
func (e *EquipmentType) AuditFields() map[string]any {
	return map[string]any{
		"name":        e.Name,
		"category":    e.Category,
		"description": e.Description,
	}
}
