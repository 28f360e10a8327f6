// Package movements records stock movements between bases: purchases,
// transfers, personnel assignments and expenditures.
package movements

import (
	"context"
	"strings"
	"time"

	"logitrack/internal/core/apperror"
	"logitrack/internal/core/types"
)

// TransferStatus is the lifecycle state of a transfer.
// Only completed transfers move stock.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferInTransit TransferStatus = "in_transit"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
)

var transferTransitions = map[TransferStatus][]TransferStatus{
	TransferPending:   {TransferInTransit, TransferCompleted, TransferCancelled},
	TransferInTransit: {TransferCompleted, TransferCancelled},
}

// IsValid reports whether s is a known status.
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferPending, TransferInTransit, TransferCompleted, TransferCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows s -> next.
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	for _, allowed := range transferTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AssignmentStatus is the lifecycle state of an assignment.
type AssignmentStatus string

const (
	AssignmentActive   AssignmentStatus = "active"
	AssignmentReturned AssignmentStatus = "returned"
	AssignmentOverdue  AssignmentStatus = "overdue"
)

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentActive:  {AssignmentReturned, AssignmentOverdue},
	AssignmentOverdue: {AssignmentReturned, AssignmentActive},
}

// IsValid reports whether s is a known status.
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentActive, AssignmentReturned, AssignmentOverdue:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows s -> next.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	for _, allowed := range assignmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Names carries display names joined in by listings.
type Names struct {
	BaseName      string `db:"base_name" json:"baseName,omitempty"`
	EquipmentName string `db:"equipment_name" json:"equipmentName,omitempty"`
}

// Purchase adds stock at BaseID.
type Purchase struct {
	ID                  int64        `db:"id" json:"id"`
	BaseID              int64        `db:"base_id" json:"baseId"`
	EquipmentTypeID     int64        `db:"equipment_type_id" json:"equipmentTypeId"`
	ItemName            *string      `db:"item_name" json:"itemName,omitempty"`
	Quantity            int64        `db:"quantity" json:"quantity"`
	UnitCost            *types.Money `db:"unit_cost" json:"unitCost,omitempty"`
	TotalCost           *types.Money `db:"total_cost" json:"totalCost,omitempty"`
	Vendor              *string      `db:"vendor" json:"vendor,omitempty"`
	PurchaseOrderNumber *string      `db:"purchase_order_number" json:"purchaseOrderNumber,omitempty"`
	PurchaseDate        time.Time    `db:"purchase_date" json:"purchaseDate"`
	Notes               *string      `db:"notes" json:"notes,omitempty"`
	CreatedBy           string       `db:"created_by" json:"createdBy"`
	CreatedAt           time.Time    `db:"created_at" json:"createdAt"`
	Names
}

// Validate checks purchase invariants and fills TotalCost from UnitCost when absent.
func (p *Purchase) Validate(ctx context.Context) error {
	if err := validateRefs(p.BaseID, p.EquipmentTypeID); err != nil {
		return err
	}
	if err := validateQuantity(p.Quantity); err != nil {
		return err
	}
	if p.PurchaseDate.IsZero() {
		return apperror.NewInvalidField("purchaseDate", "", "purchase date is required")
	}
	if p.UnitCost != nil && !types.ValidMoney(*p.UnitCost) {
		return apperror.NewInvalidField("unitCost", p.UnitCost.String(), "unit cost must be a non-negative amount with at most 2 decimals")
	}
	if p.TotalCost != nil && !types.ValidMoney(*p.TotalCost) {
		return apperror.NewInvalidField("totalCost", p.TotalCost.String(), "total cost must be a non-negative amount with at most 2 decimals")
	}
	if p.TotalCost == nil && p.UnitCost != nil {
		total := types.LineTotal(*p.UnitCost, p.Quantity)
		p.TotalCost = &total
	}
	return nil
}

// Transfer moves stock from FromBaseID to ToBaseID once completed.
type Transfer struct {
	ID              int64          `db:"id" json:"id"`
	TransferNumber  string         `db:"transfer_number" json:"transferNumber"`
	EquipmentTypeID int64          `db:"equipment_type_id" json:"equipmentTypeId"`
	ItemName        *string        `db:"item_name" json:"itemName,omitempty"`
	Quantity        int64          `db:"quantity" json:"quantity"`
	FromBaseID      int64          `db:"from_base_id" json:"fromBaseId"`
	ToBaseID        int64          `db:"to_base_id" json:"toBaseId"`
	TransferDate    time.Time      `db:"transfer_date" json:"transferDate"`
	Reason          *string        `db:"reason" json:"reason,omitempty"`
	Status          TransferStatus `db:"status" json:"status"`
	CreatedBy       string         `db:"created_by" json:"createdBy"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
	CompletedAt     *time.Time     `db:"completed_at" json:"completedAt,omitempty"`
	FromBaseName    string         `db:"from_base_name" json:"fromBaseName,omitempty"`
	ToBaseName      string         `db:"to_base_name" json:"toBaseName,omitempty"`
	EquipmentName   string         `db:"equipment_name" json:"equipmentName,omitempty"`
}

// Validate checks transfer invariants.
func (t *Transfer) Validate(ctx context.Context) error {
	if t.FromBaseID <= 0 {
		return apperror.NewInvalidField("fromBaseId", t.FromBaseID, "source base is required")
	}
	if t.ToBaseID <= 0 {
		return apperror.NewInvalidField("toBaseId", t.ToBaseID, "destination base is required")
	}
	if t.FromBaseID == t.ToBaseID {
		return apperror.NewInvalidField("toBaseId", t.ToBaseID, "source and destination bases must differ")
	}
	if t.EquipmentTypeID <= 0 {
		return apperror.NewInvalidField("equipmentTypeId", t.EquipmentTypeID, "equipment type is required")
	}
	if err := validateQuantity(t.Quantity); err != nil {
		return err
	}
	if t.TransferDate.IsZero() {
		return apperror.NewInvalidField("transferDate", "", "transfer date is required")
	}
	return nil
}

// Assignment marks stock as held by personnel. It does not change base stock.
type Assignment struct {
	ID                 int64            `db:"id" json:"id"`
	BaseID             int64            `db:"base_id" json:"baseId"`
	EquipmentTypeID    int64            `db:"equipment_type_id" json:"equipmentTypeId"`
	ItemName           *string          `db:"item_name" json:"itemName,omitempty"`
	PersonnelID        *string          `db:"personnel_id" json:"personnelId,omitempty"`
	PersonnelName      string           `db:"personnel_name" json:"personnelName"`
	PersonnelRank      *string          `db:"personnel_rank" json:"personnelRank,omitempty"`
	SerialNumber       *string          `db:"serial_number" json:"serialNumber,omitempty"`
	Quantity           *int64           `db:"quantity" json:"quantity,omitempty"`
	AssignmentDate     time.Time        `db:"assignment_date" json:"assignmentDate"`
	ExpectedReturnDate *time.Time       `db:"expected_return_date" json:"expectedReturnDate,omitempty"`
	ActualReturnDate   *time.Time       `db:"actual_return_date" json:"actualReturnDate,omitempty"`
	Status             AssignmentStatus `db:"status" json:"status"`
	CreatedBy          string           `db:"created_by" json:"createdBy"`
	CreatedAt          time.Time        `db:"created_at" json:"createdAt"`
	Names
}

// Units is the number of units held. A row without quantity is one unit.
func (a *Assignment) Units() int64 {
	if a.Quantity == nil {
		return 1
	}
	return *a.Quantity
}

// Validate checks assignment invariants.
func (a *Assignment) Validate(ctx context.Context) error {
	if err := validateRefs(a.BaseID, a.EquipmentTypeID); err != nil {
		return err
	}
	a.PersonnelName = strings.TrimSpace(a.PersonnelName)
	if a.PersonnelName == "" {
		return apperror.NewInvalidField("personnelName", "", "personnel name is required")
	}
	if a.Quantity != nil {
		if err := validateQuantity(*a.Quantity); err != nil {
			return err
		}
	}
	if a.AssignmentDate.IsZero() {
		return apperror.NewInvalidField("assignmentDate", "", "assignment date is required")
	}
	if a.ExpectedReturnDate != nil && a.ExpectedReturnDate.Before(a.AssignmentDate) {
		return apperror.NewInvalidField("expectedReturnDate", a.ExpectedReturnDate.Format(time.DateOnly), "expected return date precedes assignment date")
	}
	return nil
}

// Expenditure permanently removes stock (consumed or destroyed).
type Expenditure struct {
	ID              int64     `db:"id" json:"id"`
	BaseID          int64     `db:"base_id" json:"baseId"`
	EquipmentTypeID int64     `db:"equipment_type_id" json:"equipmentTypeId"`
	ItemName        *string   `db:"item_name" json:"itemName,omitempty"`
	Quantity        int64     `db:"quantity" json:"quantity"`
	ExpenditureDate time.Time `db:"expenditure_date" json:"expenditureDate"`
	Reason          string    `db:"reason" json:"reason"`
	AuthorizedBy    *string   `db:"authorized_by" json:"authorizedBy,omitempty"`
	CreatedBy       string    `db:"created_by" json:"createdBy"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	Names
}

// Validate checks expenditure invariants.
func (e *Expenditure) Validate(ctx context.Context) error {
	if err := validateRefs(e.BaseID, e.EquipmentTypeID); err != nil {
		return err
	}
	if err := validateQuantity(e.Quantity); err != nil {
		return err
	}
	if e.ExpenditureDate.IsZero() {
		return apperror.NewInvalidField("expenditureDate", "", "expenditure date is required")
	}
	e.Reason = strings.TrimSpace(e.Reason)
	if e.Reason == "" {
		return apperror.NewInvalidField("reason", "", "reason is required")
	}
	return nil
}

// --- Validation Helpers ---

func validateRefs(baseID, equipmentTypeID int64) error {
	if baseID <= 0 {
		return apperror.NewInvalidField("baseId", baseID, "base is required")
	}
	if equipmentTypeID <= 0 {
		return apperror.NewInvalidField("equipmentTypeId", equipmentTypeID, "equipment type is required")
	}
	return nil
}

func validateQuantity(q int64) error {
	if q <= 0 {
		return apperror.NewInvalidField("quantity", q, "quantity must be positive")
	}
	return nil
}
