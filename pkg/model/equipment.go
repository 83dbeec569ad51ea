package model

const (
	EquipmentAvailable   = "available"
	EquipmentInUse       = "in_use"
	EquipmentMaintenance = "maintenance"
)

// Equipment is owned by the external inventory service; this service only
// reads it.
type Equipment struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Status      string `json:"status" validate:"required,oneof=available in_use maintenance"`
}

// Selectable reports whether the equipment may start a new booking flow.
// Maintenance items are listed but never selectable.
func (e Equipment) Selectable() bool {
	return e.Status != EquipmentMaintenance
}
