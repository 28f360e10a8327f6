// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"logitrack/internal/domain/dashboard"
)

// Date renders and parses a calendar day as YYYY-MM-DD.
type Date time.Time

// NewDate wraps t.
func NewDate(t time.Time) Date { return Date(t) }

// DatePtr wraps an optional day.
func DatePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := Date(*t)
	return &d
}

// Time returns the underlying UTC day.
func (d Date) Time() time.Time { return time.Time(d) }

// TimePtr unwraps an optional day.
func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(dashboard.DateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := time.Parse(dashboard.DateLayout, s)
	if err != nil {
		return fmt.Errorf("date %q must be in YYYY-MM-DD format", s)
	}
	*d = Date(t)
	return nil
}

// --- List Response ---

// ListResponse wraps list results with the applied page.
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewListResponse maps items with fn.
func NewListResponse[S any, T any](items []S, limit, offset int, fn func(S) T) ListResponse[T] {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return ListResponse[T]{Items: out, Limit: limit, Offset: offset}
}

// ErrorResponse documents the error body written by middleware.ErrorHandler.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
