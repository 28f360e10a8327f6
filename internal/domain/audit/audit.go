// Package audit defines how domain services record who changed what.
package audit

import (
	"context"

	"logitrack/internal/core/security"
)

// Action is the kind of audited operation.
type Action string

const (
	ActionCreate       Action = "create"
	ActionStatusChange Action = "status_change"
)

// Recorder persists change sets. Implementations write inside the
// transaction carried by ctx so the entry commits with the change.
type Recorder interface {
	LogChange(ctx context.Context, entityType string, entityID int64, action Action, changes map[string]any) error
}

// Nop discards every entry.
type Nop struct{}

func (Nop) LogChange(context.Context, string, int64, Action, map[string]any) error { return nil }

// Actor returns the user id to stamp into created_by columns.
func Actor(ctx context.Context) string {
	if scope := security.GetScope(ctx); scope != nil {
		return scope.UserID
	}
	return ""
}

// StatusChange builds the change set of a status transition.
func StatusChange(from, to string) map[string]any {
	return map[string]any{"status": map[string]any{"old": from, "new": to}}
}
