package dashboard

import (
	"strconv"
	"strings"
	"time"

	"logitrack/internal/core/apperror"
)

// DateLayout is the only accepted date format for filters.
const DateLayout = "2006-01-02"

// Filter selects the movements a dashboard query aggregates over.
// It is a value type: every With* method returns a modified copy.
// Date bounds are inclusive and apply to the business date columns.
type Filter struct {
	baseID          int64
	hasBase         bool
	equipmentTypeID int64
	hasEquipment    bool
	startDate       time.Time
	endDate         time.Time
}

// BaseID returns the base restriction, if any.
func (f Filter) BaseID() (int64, bool) {
	return f.baseID, f.hasBase
}

// BasePtr returns the base restriction as a pointer (nil = all bases).
func (f Filter) BasePtr() *int64 {
	if !f.hasBase {
		return nil
	}
	id := f.baseID
	return &id
}

// EquipmentTypeID returns the equipment type restriction, if any.
func (f Filter) EquipmentTypeID() (int64, bool) {
	return f.equipmentTypeID, f.hasEquipment
}

// StartDate returns the inclusive lower date bound, if any.
func (f Filter) StartDate() (time.Time, bool) {
	return f.startDate, !f.startDate.IsZero()
}

// EndDate returns the inclusive upper date bound, if any.
func (f Filter) EndDate() (time.Time, bool) {
	return f.endDate, !f.endDate.IsZero()
}

// WithBase restricts the filter to one base.
func (f Filter) WithBase(id int64) Filter {
	f.baseID, f.hasBase = id, true
	return f
}

// WithoutBase drops the base restriction.
func (f Filter) WithoutBase() Filter {
	f.baseID, f.hasBase = 0, false
	return f
}

// WithBasePtr applies a resolved base (nil = all bases).
func (f Filter) WithBasePtr(id *int64) Filter {
	if id == nil {
		return f.WithoutBase()
	}
	return f.WithBase(*id)
}

// WithEquipmentType restricts the filter to one equipment type.
func (f Filter) WithEquipmentType(id int64) Filter {
	f.equipmentTypeID, f.hasEquipment = id, true
	return f
}

// WithStartDate sets the inclusive lower bound. A zero time clears it.
func (f Filter) WithStartDate(t time.Time) Filter {
	f.startDate = truncateDay(t)
	return f
}

// WithEndDate sets the inclusive upper bound. A zero time clears it.
func (f Filter) WithEndDate(t time.Time) Filter {
	f.endDate = truncateDay(t)
	return f
}

// RawFilter is the untrusted query-string form of a Filter.
type RawFilter struct {
	BaseID          string
	EquipmentTypeID string
	StartDate       string
	EndDate         string
}

// ParseFilter validates raw input and builds a Filter.
// Empty fields mean "no restriction".
func ParseFilter(raw RawFilter) (Filter, error) {
	var f Filter

	if s := strings.TrimSpace(raw.BaseID); s != "" {
		id, err := ParseID("baseId", s)
		if err != nil {
			return Filter{}, err
		}
		f = f.WithBase(id)
	}

	if s := strings.TrimSpace(raw.EquipmentTypeID); s != "" {
		id, err := ParseID("equipmentTypeId", s)
		if err != nil {
			return Filter{}, err
		}
		f = f.WithEquipmentType(id)
	}

	if s := strings.TrimSpace(raw.StartDate); s != "" {
		d, err := ParseDate("startDate", s)
		if err != nil {
			return Filter{}, err
		}
		f = f.WithStartDate(d)
	}

	if s := strings.TrimSpace(raw.EndDate); s != "" {
		d, err := ParseDate("endDate", s)
		if err != nil {
			return Filter{}, err
		}
		f = f.WithEndDate(d)
	}

	start, hasStart := f.StartDate()
	end, hasEnd := f.EndDate()
	if hasStart && hasEnd && start.After(end) {
		return Filter{}, apperror.NewValidation("startDate must not be after endDate").
			WithDetail("startDate", start.Format(DateLayout)).
			WithDetail("endDate", end.Format(DateLayout))
	}

	return f, nil
}

// ParseDate parses a YYYY-MM-DD value as a UTC calendar day.
func ParseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, apperror.NewInvalidField(field, value, "date must be in YYYY-MM-DD format")
	}
	return d, nil
}

// ParseID parses a positive integer identifier.
func ParseID(field, value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewInvalidField(field, value, "must be a positive integer")
	}
	return id, nil
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
