package errors

import "errors"

var (
	ErrStaleSession = errors.New("no booking session in progress")

	ErrOutOfOrder = errors.New("step not allowed in current session state")

	ErrEquipmentUnavailable = errors.New("equipment is under maintenance")

	ErrSlotUnavailable = errors.New("requested time slot is already booked")

	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")
)
