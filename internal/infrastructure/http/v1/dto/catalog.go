package dto

import (
	"time"

	"logitrack/internal/domain/catalogs/base"
	"logitrack/internal/domain/catalogs/equipment"
)

// --- Bases ---

type CreateBaseRequest struct {
	Name      string  `json:"name" binding:"required,max=100"`
	Location  string  `json:"location" binding:"required,max=200"`
	Commander *string `json:"commander" binding:"omitempty,max=100"`
}

func (r CreateBaseRequest) ToEntity() *base.Base {
	return &base.Base{
		Name:      r.Name,
		Location:  r.Location,
		Commander: r.Commander,
	}
}

type BaseResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Commander *string   `json:"commander,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromBase(b *base.Base) BaseResponse {
	return BaseResponse{
		ID:        b.ID,
		Name:      b.Name,
		Location:  b.Location,
		Commander: b.Commander,
		CreatedAt: b.CreatedAt,
	}
}

// --- Equipment types ---

type CreateEquipmentTypeRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Category    string  `json:"category" binding:"required,max=50"`
	Description *string `json:"description"`
}

func (r CreateEquipmentTypeRequest) ToEntity() *equipment.EquipmentType {
	return &equipment.EquipmentType{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
	}
}

type EquipmentTypeResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func FromEquipmentType(e *equipment.EquipmentType) EquipmentTypeResponse {
	return EquipmentTypeResponse{
		ID:          e.ID,
		Name:        e.Name,
		Category:    e.Category,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}
