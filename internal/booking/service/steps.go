package service

import (
	"context"
	"time"

	"gearbook/internal/availability"
	"gearbook/internal/booking/flow"
	"gearbook/pkg/model"
)

const (
	FlowDateOptions  = "date_options"
	FlowStartOptions = "start_options"
	FlowEndOptions   = "end_options"

	KeyEquipmentID = "equipment_id"
	KeyDates       = "dates"
	KeyBookedByDay = "booked_by_day"
	KeyBooked      = "booked"
	KeyGrid        = "grid"
	KeyStart       = "start"
	KeyEnds        = "ends"
	KeyOptions     = "options"
)

func (s *flowService) listBookableDates(ctx context.Context, fc *flow.Context) error {
	dates, err := availability.NextBookableDates(
		time.Now(),
		s.cfg.MaxLookaheadDays,
		s.cfg.WeekdaySet(),
		s.cfg.Holidays,
	)
	if err != nil {
		return err
	}
	fc.Process[KeyDates] = dates
	return nil
}

func (s *flowService) fetchBookedSlots(ctx context.Context, fc *flow.Context) error {
	equipmentID := fc.ExtractString(KeyEquipmentID)
	if equipmentID == "" {
		return flow.MissingParamErr(KeyEquipmentID)
	}
	dates := fc.Process[KeyDates].([]time.Time)

	booked, err := s.repo.UnavailableSlots(ctx, equipmentID, dates, s.cfg.SlotGranularityMin)
	if err != nil {
		return err
	}
	fc.Process[KeyBookedByDay] = booked
	return nil
}

// buildDateOptions keeps only days that still have at least one free slot,
// and tags each with its free-slot count so clients can show how full a day
// already is.
func (s *flowService) buildDateOptions(ctx context.Context, fc *flow.Context) error {
	grid, err := availability.Slots(s.cfg.OpenTime, s.cfg.CloseTime, s.cfg.SlotGranularityMin)
	if err != nil {
		return err
	}

	dates := fc.Process[KeyDates].([]time.Time)
	bookedByDay := fc.Process[KeyBookedByDay].(map[string][]model.Clock)

	options := make([]flow.Option, 0, len(dates))
	for _, date := range dates {
		free := availability.FreeSlots(grid, clockSet(bookedByDay[model.DateKey(date)]))
		if len(free) == 0 {
			continue
		}
		options = append(options, flow.DateOption(date, len(free)))
	}

	fc.Output[KeyOptions] = options
	return nil
}

func (s *flowService) loadSlotGrid(ctx context.Context, fc *flow.Context) error {
	grid, err := availability.Slots(s.cfg.OpenTime, s.cfg.CloseTime, s.cfg.SlotGranularityMin)
	if err != nil {
		return err
	}
	fc.Process[KeyGrid] = grid
	return nil
}

// buildStartOptions emits the full grid with an availability flag per slot,
// so taken slots render as disabled instead of silently vanishing.
func (s *flowService) buildStartOptions(ctx context.Context, fc *flow.Context) error {
	grid := fc.Process[KeyGrid].([]model.Clock)
	booked, _ := fc.Input[KeyBooked].(map[model.Clock]bool)

	options := make([]flow.Option, 0, len(grid))
	for _, slot := range grid {
		options = append(options, flow.StartTimeOption(slot, !booked[slot]))
	}

	fc.Output[KeyOptions] = options
	return nil
}

func (s *flowService) computeEndTimes(ctx context.Context, fc *flow.Context) error {
	start, ok := fc.Input[KeyStart].(model.Clock)
	if !ok {
		return flow.MissingParamErr(KeyStart)
	}
	booked, _ := fc.Input[KeyBooked].(map[model.Clock]bool)

	ends, err := availability.PossibleEndTimes(
		start,
		s.cfg.CloseTime,
		s.cfg.MaxContiguousBlocks,
		booked,
		s.cfg.SlotGranularityMin,
	)
	if err != nil {
		return err
	}
	fc.Process[KeyEnds] = ends
	return nil
}

func (s *flowService) buildEndOptions(ctx context.Context, fc *flow.Context) error {
	ends := fc.Process[KeyEnds].([]model.Clock)

	options := make([]flow.Option, 0, len(ends))
	for _, end := range ends {
		options = append(options, flow.EndTimeOption(end))
	}

	fc.Output[KeyOptions] = options
	return nil
}
