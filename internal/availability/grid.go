// Package availability holds the pure slot and date calculators behind the
// booking flow. Nothing here touches storage or the network; the only
// failure mode is a configuration that cannot describe a valid grid.
package availability

import (
	"fmt"

	apperrors "gearbook/pkg/errors"
	"gearbook/pkg/model"
)

// Slots returns every grid point open + k*granularity strictly before close,
// in increasing order. When the granularity does not evenly divide the
// open-close span, the last slot is the final point before close; no partial
// slot is emitted.
func Slots(open, close model.Clock, granularityMin int) ([]model.Clock, error) {
	if granularityMin <= 0 {
		return nil, apperrors.InvalidConfiguration(fmt.Sprintf("slot granularity must be positive, got %d", granularityMin))
	}
	if close <= open {
		return nil, apperrors.InvalidConfiguration(fmt.Sprintf("close time %s must be after open time %s", close, open))
	}

	var grid []model.Clock
	for cur := open; cur < close; cur = cur.Add(granularityMin) {
		grid = append(grid, cur)
	}
	return grid, nil
}

// FreeSlots is the grid minus the booked set, preserving grid order. Booked
// times are already snapped to the grid, so plain set difference suffices.
func FreeSlots(grid []model.Clock, booked map[model.Clock]bool) []model.Clock {
	free := make([]model.Clock, 0, len(grid))
	for _, slot := range grid {
		if !booked[slot] {
			free = append(free, slot)
		}
	}
	return free
}
