package service

import (
	"context"

	"gearbook/pkg/model"
)

// InventoryDirectory lists the bookable equipment pool. Backed by the
// inventory service client in production.
type InventoryDirectory interface {
	List(ctx context.Context) ([]model.Equipment, error)
	GetByID(ctx context.Context, id string) (*model.Equipment, error)
}

// ApproverDirectory answers whether an actor carries one of the configured
// approver roles. Backed by the users service client in production.
type ApproverDirectory interface {
	HasApproverRole(ctx context.Context, actorID string, approverRoles []string) (bool, error)
}
