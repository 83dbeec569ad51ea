package availability

import (
	"fmt"

	apperrors "gearbook/pkg/errors"
	"gearbook/pkg/model"
)

// PossibleEndTimes enumerates the valid end times after a chosen start.
// Stepping forward by the granularity, each reached point is a candidate end
// until one of three stop conditions fires: the point is already booked
// (included, then stop — a reservation may end where the next one starts but
// never straddle it), the point reaches closing time (included when exactly
// at close, never past it), or maxBlocks steps have been taken. The result
// is therefore a contiguous run of at most maxBlocks times.
func PossibleEndTimes(start, close model.Clock, maxBlocks int, booked map[model.Clock]bool, granularityMin int) ([]model.Clock, error) {
	if granularityMin <= 0 {
		return nil, apperrors.InvalidConfiguration(fmt.Sprintf("slot granularity must be positive, got %d", granularityMin))
	}
	if maxBlocks <= 0 {
		return nil, apperrors.InvalidConfiguration(fmt.Sprintf("max contiguous blocks must be positive, got %d", maxBlocks))
	}

	var ends []model.Clock
	cur := start
	for step := 0; step < maxBlocks; step++ {
		cur = cur.Add(granularityMin)
		if cur > close {
			break
		}
		ends = append(ends, cur)
		if booked[cur] || cur >= close {
			break
		}
	}
	return ends, nil
}
