package model

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Reservation struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty"`
	EquipmentID   string    `json:"equipment_id" bson:"equipment_id" validate:"required"`
	UserID        string    `json:"user_id" bson:"user_id" validate:"required"`
	ResponsibleID string    `json:"responsible_id,omitempty" bson:"responsible_id,omitempty" validate:"omitempty"`
	StartTime     time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime       time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=pending approved rejected"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Decided reports whether an approver has already ruled on the reservation.
// A decided reservation never changes status again.
func (r *Reservation) Decided() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}
