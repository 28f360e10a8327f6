package security

import (
	"context"
)

// Action is a write operation subject to role checks.
type Action string

const (
	ActionCreateBase          Action = "create_base"
	ActionCreateEquipmentType Action = "create_equipment_type"
	ActionPurchase            Action = "purchase"
	ActionTransfer            Action = "transfer"
	ActionTransferStatus      Action = "update_transfer_status"
	ActionAssignment          Action = "assignment"
	ActionAssignmentStatus    Action = "update_assignment_status"
	ActionExpenditure         Action = "expenditure"
)

// actionRoles lists who may perform each action. Base ownership is checked separately.
var actionRoles = map[Action][]Role{
	ActionCreateBase:          {RoleAdmin},
	ActionCreateEquipmentType: {RoleAdmin},
	ActionPurchase:            {RoleAdmin, RoleBaseCommander, RoleLogisticsOfficer},
	ActionTransfer:            {RoleAdmin, RoleBaseCommander, RoleLogisticsOfficer},
	ActionTransferStatus:      {RoleAdmin, RoleBaseCommander, RoleLogisticsOfficer},
	ActionAssignment:          {RoleAdmin, RoleBaseCommander},
	ActionAssignmentStatus:    {RoleAdmin, RoleBaseCommander},
	ActionExpenditure:         {RoleAdmin, RoleBaseCommander},
}

// RolesFor returns roles allowed to perform action.
func RolesFor(action Action) []Role {
	return actionRoles[action]
}

// Authorize checks the role of the caller found in ctx against action.
func Authorize(ctx context.Context, action Action) (*AccessScope, error) {
	scope := GetScope(ctx)
	if err := scope.RequireRole(RolesFor(action)...); err != nil {
		return nil, err
	}
	return scope, nil
}
