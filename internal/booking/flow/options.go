package flow

import (
	"strconv"
	"time"

	"gearbook/pkg/model"
)

type OptionKind string

const (
	KindEquipment OptionKind = "equipment"
	KindDate      OptionKind = "date"
	KindStartTime OptionKind = "start_time"
	KindEndTime   OptionKind = "end_time"
)

// Option is one selectable choice presented to the user at a flow step. The
// Kind tags what the payload means, so a client submitting an option back
// never has to guess which step it belongs to.
type Option struct {
	Kind    OptionKind        `json:"kind"`
	Payload map[string]string `json:"payload"`
}

func EquipmentOption(e model.Equipment) Option {
	return Option{
		Kind: KindEquipment,
		Payload: map[string]string{
			"equipment_id": e.ID,
			"name":         e.Name,
			"status":       e.Status,
		},
	}
}

func DateOption(date time.Time, freeSlots int) Option {
	return Option{
		Kind: KindDate,
		Payload: map[string]string{
			"date":       model.DateKey(date),
			"free_slots": strconv.Itoa(freeSlots),
		},
	}
}

func StartTimeOption(c model.Clock, available bool) Option {
	return Option{
		Kind: KindStartTime,
		Payload: map[string]string{
			"time":      c.String(),
			"available": strconv.FormatBool(available),
		},
	}
}

func EndTimeOption(c model.Clock) Option {
	return Option{
		Kind: KindEndTime,
		Payload: map[string]string{
			"time": c.String(),
		},
	}
}
