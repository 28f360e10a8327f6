package dto

import (
	"logitrack/internal/domain/dashboard"
)

// FilterQuery is the shared dashboard/listing query string.
type FilterQuery struct {
	BaseID          string `form:"baseId"`
	EquipmentTypeID string `form:"equipmentTypeId"`
	StartDate       string `form:"startDate"`
	EndDate         string `form:"endDate"`
}

// Raw converts the query into the domain's unparsed filter.
func (q FilterQuery) Raw() dashboard.RawFilter {
	return dashboard.RawFilter{
		BaseID:          q.BaseID,
		EquipmentTypeID: q.EquipmentTypeID,
		StartDate:       q.StartDate,
		EndDate:         q.EndDate,
	}
}

// TransactionResponse is one activity feed row.
type TransactionResponse struct {
	ID        int64  `json:"id"`
	Date      Date   `json:"date"`
	Type      string `json:"type"`
	Equipment string `json:"equipment"`
	Quantity  int64  `json:"quantity"`
	Base      string `json:"base"`
	BaseID    int64  `json:"baseId"`
	Status    string `json:"status"`
	Impact    int64  `json:"impact"`
}

func FromTransaction(r dashboard.TransactionRecord) TransactionResponse {
	return TransactionResponse{
		ID:        r.ID,
		Date:      NewDate(r.Date),
		Type:      string(r.Type),
		Equipment: r.Equipment,
		Quantity:  r.Quantity,
		Base:      r.Base,
		BaseID:    r.BaseID,
		Status:    r.Status,
		Impact:    r.Impact,
	}
}

// FromTransactions never returns nil so the JSON body is always an array.
func FromTransactions(records []dashboard.TransactionRecord) []TransactionResponse {
	out := make([]TransactionResponse, len(records))
	for i, r := range records {
		out[i] = FromTransaction(r)
	}
	return out
}

// NetMovementResponse is the drill-down body.
type NetMovementResponse struct {
	Purchases    int64                 `json:"purchases"`
	TransferIn   int64                 `json:"transferIn"`
	TransferOut  int64                 `json:"transferOut"`
	NetMovement  int64                 `json:"netMovement"`
	Transactions []TransactionResponse `json:"transactions"`
}

func FromNetMovement(d *dashboard.NetMovementDetails) NetMovementResponse {
	return NetMovementResponse{
		Purchases:    d.Purchases,
		TransferIn:   d.TransferIn,
		TransferOut:  d.TransferOut,
		NetMovement:  d.NetMovement,
		Transactions: FromTransactions(d.Transactions),
	}
}
