package dto

import (
	"time"

	"logitrack/internal/core/types"
	"logitrack/internal/domain/movements"
)

// ListQuery adds a status to the shared filter. Paging is parsed separately.
type ListQuery struct {
	FilterQuery
	Status string `form:"status"`
}

// --- Purchases ---

type CreatePurchaseRequest struct {
	BaseID              int64        `json:"baseId" binding:"required"`
	EquipmentTypeID     int64        `json:"equipmentTypeId" binding:"required"`
	ItemName            *string      `json:"itemName"`
	Quantity            int64        `json:"quantity" binding:"required"`
	UnitCost            *types.Money `json:"unitCost"`
	TotalCost           *types.Money `json:"totalCost"`
	Vendor              *string      `json:"vendor"`
	PurchaseOrderNumber *string      `json:"purchaseOrderNumber"`
	PurchaseDate        Date         `json:"purchaseDate"`
	Notes               *string      `json:"notes"`
}

func (r CreatePurchaseRequest) ToEntity() *movements.Purchase {
	return &movements.Purchase{
		BaseID:              r.BaseID,
		EquipmentTypeID:     r.EquipmentTypeID,
		ItemName:            r.ItemName,
		Quantity:            r.Quantity,
		UnitCost:            r.UnitCost,
		TotalCost:           r.TotalCost,
		Vendor:              r.Vendor,
		PurchaseOrderNumber: r.PurchaseOrderNumber,
		PurchaseDate:        r.PurchaseDate.Time(),
		Notes:               r.Notes,
	}
}

type PurchaseResponse struct {
	ID                  int64        `json:"id"`
	BaseID              int64        `json:"baseId"`
	BaseName            string       `json:"baseName,omitempty"`
	EquipmentTypeID     int64        `json:"equipmentTypeId"`
	EquipmentName       string       `json:"equipmentName,omitempty"`
	ItemName            *string      `json:"itemName,omitempty"`
	Quantity            int64        `json:"quantity"`
	UnitCost            *types.Money `json:"unitCost,omitempty"`
	TotalCost           *types.Money `json:"totalCost,omitempty"`
	Vendor              *string      `json:"vendor,omitempty"`
	PurchaseOrderNumber *string      `json:"purchaseOrderNumber,omitempty"`
	PurchaseDate        Date         `json:"purchaseDate"`
	Notes               *string      `json:"notes,omitempty"`
	CreatedBy           string       `json:"createdBy"`
	CreatedAt           time.Time    `json:"createdAt"`
}

func FromPurchase(p movements.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:                  p.ID,
		BaseID:              p.BaseID,
		BaseName:            p.BaseName,
		EquipmentTypeID:     p.EquipmentTypeID,
		EquipmentName:       p.EquipmentName,
		ItemName:            p.ItemName,
		Quantity:            p.Quantity,
		UnitCost:            p.UnitCost,
		TotalCost:           p.TotalCost,
		Vendor:              p.Vendor,
		PurchaseOrderNumber: p.PurchaseOrderNumber,
		PurchaseDate:        NewDate(p.PurchaseDate),
		Notes:               p.Notes,
		CreatedBy:           p.CreatedBy,
		CreatedAt:           p.CreatedAt,
	}
}

// --- Transfers ---

type CreateTransferRequest struct {
	EquipmentTypeID int64   `json:"equipmentTypeId" binding:"required"`
	ItemName        *string `json:"itemName"`
	Quantity        int64   `json:"quantity" binding:"required"`
	FromBaseID      int64   `json:"fromBaseId" binding:"required"`
	ToBaseID        int64   `json:"toBaseId" binding:"required"`
	TransferDate    Date    `json:"transferDate"`
	Reason          *string `json:"reason"`
}

func (r CreateTransferRequest) ToEntity() *movements.Transfer {
	return &movements.Transfer{
		EquipmentTypeID: r.EquipmentTypeID,
		ItemName:        r.ItemName,
		Quantity:        r.Quantity,
		FromBaseID:      r.FromBaseID,
		ToBaseID:        r.ToBaseID,
		TransferDate:    r.TransferDate.Time(),
		Reason:          r.Reason,
	}
}

type TransferResponse struct {
	ID              int64      `json:"id"`
	TransferNumber  string     `json:"transferNumber"`
	EquipmentTypeID int64      `json:"equipmentTypeId"`
	EquipmentName   string     `json:"equipmentName,omitempty"`
	ItemName        *string    `json:"itemName,omitempty"`
	Quantity        int64      `json:"quantity"`
	FromBaseID      int64      `json:"fromBaseId"`
	FromBaseName    string     `json:"fromBaseName,omitempty"`
	ToBaseID        int64      `json:"toBaseId"`
	ToBaseName      string     `json:"toBaseName,omitempty"`
	TransferDate    Date       `json:"transferDate"`
	Reason          *string    `json:"reason,omitempty"`
	Status          string     `json:"status"`
	CreatedBy       string     `json:"createdBy"`
	CreatedAt       time.Time  `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

func FromTransfer(t movements.Transfer) TransferResponse {
	return TransferResponse{
		ID:              t.ID,
		TransferNumber:  t.TransferNumber,
		EquipmentTypeID: t.EquipmentTypeID,
		EquipmentName:   t.EquipmentName,
		ItemName:        t.ItemName,
		Quantity:        t.Quantity,
		FromBaseID:      t.FromBaseID,
		FromBaseName:    t.FromBaseName,
		ToBaseID:        t.ToBaseID,
		ToBaseName:      t.ToBaseName,
		TransferDate:    NewDate(t.TransferDate),
		Reason:          t.Reason,
		Status:          string(t.Status),
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
		CompletedAt:     t.CompletedAt,
	}
}

type UpdateTransferStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- Assignments ---

type CreateAssignmentRequest struct {
	BaseID             int64   `json:"baseId" binding:"required"`
	EquipmentTypeID    int64   `json:"equipmentTypeId" binding:"required"`
	ItemName           *string `json:"itemName"`
	PersonnelID        *string `json:"personnelId"`
	PersonnelName      string  `json:"personnelName" binding:"required"`
	PersonnelRank      *string `json:"personnelRank"`
	SerialNumber       *string `json:"serialNumber"`
	Quantity           *int64  `json:"quantity"`
	AssignmentDate     Date    `json:"assignmentDate"`
	ExpectedReturnDate *Date   `json:"expectedReturnDate"`
}

func (r CreateAssignmentRequest) ToEntity() *movements.Assignment {
	return &movements.Assignment{
		BaseID:             r.BaseID,
		EquipmentTypeID:    r.EquipmentTypeID,
		ItemName:           r.ItemName,
		PersonnelID:        r.PersonnelID,
		PersonnelName:      r.PersonnelName,
		PersonnelRank:      r.PersonnelRank,
		SerialNumber:       r.SerialNumber,
		Quantity:           r.Quantity,
		AssignmentDate:     r.AssignmentDate.Time(),
		ExpectedReturnDate: r.ExpectedReturnDate.TimePtr(),
	}
}

type AssignmentResponse struct {
	ID                 int64     `json:"id"`
	BaseID             int64     `json:"baseId"`
	BaseName           string    `json:"baseName,omitempty"`
	EquipmentTypeID    int64     `json:"equipmentTypeId"`
	EquipmentName      string    `json:"equipmentName,omitempty"`
	ItemName           *string   `json:"itemName,omitempty"`
	PersonnelID        *string   `json:"personnelId,omitempty"`
	PersonnelName      string    `json:"personnelName"`
	PersonnelRank      *string   `json:"personnelRank,omitempty"`
	SerialNumber       *string   `json:"serialNumber,omitempty"`
	Quantity           int64     `json:"quantity"`
	AssignmentDate     Date      `json:"assignmentDate"`
	ExpectedReturnDate *Date     `json:"expectedReturnDate,omitempty"`
	ActualReturnDate   *Date     `json:"actualReturnDate,omitempty"`
	Status             string    `json:"status"`
	CreatedBy          string    `json:"createdBy"`
	CreatedAt          time.Time `json:"createdAt"`
}

// FromAssignment reports the effective unit count; an empty quantity is one unit.
func FromAssignment(a movements.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:                 a.ID,
		BaseID:             a.BaseID,
		BaseName:           a.BaseName,
		EquipmentTypeID:    a.EquipmentTypeID,
		EquipmentName:      a.EquipmentName,
		ItemName:           a.ItemName,
		PersonnelID:        a.PersonnelID,
		PersonnelName:      a.PersonnelName,
		PersonnelRank:      a.PersonnelRank,
		SerialNumber:       a.SerialNumber,
		Quantity:           a.Units(),
		AssignmentDate:     NewDate(a.AssignmentDate),
		ExpectedReturnDate: DatePtr(a.ExpectedReturnDate),
		ActualReturnDate:   DatePtr(a.ActualReturnDate),
		Status:             string(a.Status),
		CreatedBy:          a.CreatedBy,
		CreatedAt:          a.CreatedAt,
	}
}

type UpdateAssignmentStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	ReturnDate *Date  `json:"returnDate"`
}

// --- Expenditures ---

type CreateExpenditureRequest struct {
	BaseID          int64   `json:"baseId" binding:"required"`
	EquipmentTypeID int64   `json:"equipmentTypeId" binding:"required"`
	ItemName        *string `json:"itemName"`
	Quantity        int64   `json:"quantity" binding:"required"`
	ExpenditureDate Date    `json:"expenditureDate"`
	Reason          string  `json:"reason" binding:"required"`
	AuthorizedBy    *string `json:"authorizedBy"`
}

func (r CreateExpenditureRequest) ToEntity() *movements.Expenditure {
	return &movements.Expenditure{
		BaseID:          r.BaseID,
		EquipmentTypeID: r.EquipmentTypeID,
		ItemName:        r.ItemName,
		Quantity:        r.Quantity,
		ExpenditureDate: r.ExpenditureDate.Time(),
		Reason:          r.Reason,
		AuthorizedBy:    r.AuthorizedBy,
	}
}

type ExpenditureResponse struct {
	ID              int64     `json:"id"`
	BaseID          int64     `json:"baseId"`
	BaseName        string    `json:"baseName,omitempty"`
	EquipmentTypeID int64     `json:"equipmentTypeId"`
	EquipmentName   string    `json:"equipmentName,omitempty"`
	ItemName        *string   `json:"itemName,omitempty"`
	Quantity        int64     `json:"quantity"`
	ExpenditureDate Date      `json:"expenditureDate"`
	Reason          string    `json:"reason"`
	AuthorizedBy    *string   `json:"authorizedBy,omitempty"`
	CreatedBy       string    `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
}

func FromExpenditure(e movements.Expenditure) ExpenditureResponse {
	return ExpenditureResponse{
		ID:              e.ID,
		BaseID:          e.BaseID,
		BaseName:        e.BaseName,
		EquipmentTypeID: e.EquipmentTypeID,
		EquipmentName:   e.EquipmentName,
		ItemName:        e.ItemName,
		Quantity:        e.Quantity,
		ExpenditureDate: NewDate(e.ExpenditureDate),
		Reason:          e.Reason,
		AuthorizedBy:    e.AuthorizedBy,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
	}
}
