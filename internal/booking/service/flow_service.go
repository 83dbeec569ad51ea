package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gearbook/internal/availability"
	bookingerrors "gearbook/internal/booking/errors"
	"gearbook/internal/booking/flow"
	"gearbook/internal/booking/repository"
	"gearbook/internal/booking/session"
	"gearbook/pkg/config"
	apperrors "gearbook/pkg/errors"
	"gearbook/pkg/model"
)

// StepResult is what a flow step hands back to the client: either the next
// round of options to pick from, or the finalized reservation.
type StepResult struct {
	NextKind    flow.OptionKind    `json:"next_kind,omitempty"`
	Options     []flow.Option      `json:"options,omitempty"`
	Reservation *model.Reservation `json:"reservation,omitempty"`
	Message     string             `json:"message,omitempty"`
}

type FlowService interface {
	Start(ctx context.Context, userID string) (*StepResult, error)
	Advance(ctx context.Context, userID string, opt flow.Option) (*StepResult, error)
	Abandon(userID string) bool
}

type flowService struct {
	engine    *flow.Engine
	sessions  *session.Store
	repo      repository.ReservationRepository
	inventory InventoryDirectory
	lifecycle LifecycleService
	cfg       *config.Config
}

func NewFlowService(
	sessions *session.Store,
	repo repository.ReservationRepository,
	inventory InventoryDirectory,
	lifecycle LifecycleService,
	cfg *config.Config,
) FlowService {
	s := &flowService{
		sessions:  sessions,
		repo:      repo,
		inventory: inventory,
		lifecycle: lifecycle,
		cfg:       cfg,
	}
	s.engine = flow.NewEngine(
		flow.NewFlow(FlowDateOptions,
			flow.NewStep("list_bookable_dates", s.listBookableDates),
			flow.NewStep("fetch_booked_slots", s.fetchBookedSlots),
			flow.NewStep("build_date_options", s.buildDateOptions),
		),
		flow.NewFlow(FlowStartOptions,
			flow.NewStep("load_slot_grid", s.loadSlotGrid),
			flow.NewStep("build_start_options", s.buildStartOptions),
		),
		flow.NewFlow(FlowEndOptions,
			flow.NewStep("compute_end_times", s.computeEndTimes),
			flow.NewStep("build_end_options", s.buildEndOptions),
		),
	)
	return s
}

// Start opens a fresh booking flow for the user, discarding any flow they
// abandoned midway, and returns the equipment to choose from.
func (s *flowService) Start(ctx context.Context, userID string) (*StepResult, error) {
	equipment, err := s.inventory.List(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to load equipment catalog", err)
	}
	if len(equipment) == 0 {
		return nil, apperrors.NotFound("equipment")
	}

	s.sessions.Delete(userID)
	s.sessions.GetOrCreate(userID)

	options := make([]flow.Option, 0, len(equipment))
	for _, e := range equipment {
		options = append(options, flow.EquipmentOption(e))
	}

	s.cfg.Log.Info("Booking flow started", "user_id", userID, "equipment_count", len(equipment))

	return &StepResult{NextKind: flow.KindEquipment, Options: options}, nil
}

func (s *flowService) Advance(ctx context.Context, userID string, opt flow.Option) (*StepResult, error) {
	switch opt.Kind {
	case flow.KindEquipment:
		return s.advanceEquipment(ctx, userID, opt)
	case flow.KindDate:
		return s.advanceDate(ctx, userID, opt)
	case flow.KindStartTime:
		return s.advanceStart(ctx, userID, opt)
	case flow.KindEndTime:
		return s.advanceEnd(ctx, userID, opt)
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown option kind %q", opt.Kind))
	}
}

func (s *flowService) Abandon(userID string) bool {
	if _, exists := s.sessions.Get(userID); !exists {
		return false
	}
	s.sessions.Delete(userID)
	return true
}

func (s *flowService) advanceEquipment(ctx context.Context, userID string, opt flow.Option) (*StepResult, error) {
	equipmentID := opt.Payload["equipment_id"]
	if equipmentID == "" {
		return nil, apperrors.InvalidInput("equipment_id is required")
	}

	equipment, err := s.inventory.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load equipment", err)
	}

	sess := s.sessions.GetOrCreate(userID)
	if err := sess.ChooseEquipment(*equipment); err != nil {
		return nil, s.mapSessionError(err, userID, equipment.Name)
	}

	fc := flow.NewContext(map[string]any{KeyEquipmentID: equipment.ID})
	if err := s.engine.Run(ctx, FlowDateOptions, fc); err != nil {
		return nil, apperrors.Internal("Failed to compute date options", err)
	}

	return &StepResult{NextKind: flow.KindDate, Options: outputOptions(fc)}, nil
}

func (s *flowService) advanceDate(ctx context.Context, userID string, opt flow.Option) (*StepResult, error) {
	date, err := model.ParseDate(opt.Payload["date"])
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	sess, exists := s.sessions.Get(userID)
	if !exists {
		return nil, apperrors.StaleSession(userID)
	}
	snap := sess.Snapshot()

	bookedByDate, err := s.repo.UnavailableSlots(ctx, snap.EquipmentID, []time.Time{date}, s.cfg.SlotGranularityMin)
	if err != nil {
		return nil, apperrors.Internal("Failed to load booked slots", err)
	}
	booked := clockSet(bookedByDate[model.DateKey(date)])

	if err := sess.ChooseDate(date, booked); err != nil {
		return nil, s.mapSessionError(err, userID, snap.EquipmentName)
	}

	fc := flow.NewContext(map[string]any{KeyBooked: booked})
	if err := s.engine.Run(ctx, FlowStartOptions, fc); err != nil {
		return nil, apperrors.Internal("Failed to compute start time options", err)
	}

	return &StepResult{NextKind: flow.KindStartTime, Options: outputOptions(fc)}, nil
}

func (s *flowService) advanceStart(ctx context.Context, userID string, opt flow.Option) (*StepResult, error) {
	start, err := model.ParseClock(opt.Payload["time"])
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	sess, exists := s.sessions.Get(userID)
	if !exists {
		return nil, apperrors.StaleSession(userID)
	}

	// The payload is client-supplied; accept only starts that were actually
	// offered, so an off-grid time cannot shift the end-time walk off the
	// slot grid.
	grid, err := availability.Slots(s.cfg.OpenTime, s.cfg.CloseTime, s.cfg.SlotGranularityMin)
	if err != nil {
		return nil, apperrors.Internal("Failed to build slot grid", err)
	}
	if !containsClock(availability.FreeSlots(grid, sess.Snapshot().Unavailable), start) {
		return nil, apperrors.Conflict("That start time was not offered, pick one from the list")
	}

	if err := sess.ChooseStart(start); err != nil {
		return nil, s.mapSessionError(err, userID, sess.Snapshot().EquipmentName)
	}

	snap := sess.Snapshot()
	fc := flow.NewContext(map[string]any{
		KeyStart:  snap.StartTime,
		KeyBooked: snap.Unavailable,
	})
	if err := s.engine.Run(ctx, FlowEndOptions, fc); err != nil {
		return nil, apperrors.Internal("Failed to compute end time options", err)
	}

	options := outputOptions(fc)
	if len(options) == 0 {
		return nil, apperrors.Conflict("No valid end time from that start, pick a different start time")
	}

	return &StepResult{NextKind: flow.KindEndTime, Options: options}, nil
}

func (s *flowService) advanceEnd(ctx context.Context, userID string, opt flow.Option) (*StepResult, error) {
	end, err := model.ParseClock(opt.Payload["time"])
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	sess, exists := s.sessions.Get(userID)
	if !exists {
		return nil, apperrors.StaleSession(userID)
	}

	// Recompute the offered set from the session's view of the day. Without
	// this, a hand-crafted payload could book past closing time, straddle a
	// booked slot, or exceed the contiguous-block cap.
	snap := sess.Snapshot()
	offered, err := availability.PossibleEndTimes(
		snap.StartTime,
		s.cfg.CloseTime,
		s.cfg.MaxContiguousBlocks,
		snap.Unavailable,
		s.cfg.SlotGranularityMin,
	)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute end time options", err)
	}
	if !containsClock(offered, end) {
		return nil, apperrors.Conflict("That end time was not offered, pick one from the list")
	}

	if err := sess.ChooseEnd(end); err != nil {
		return nil, s.mapSessionError(err, userID, sess.Snapshot().EquipmentName)
	}

	reservation, err := s.lifecycle.Finalize(ctx, sess)
	if err != nil {
		return nil, err
	}

	message := "Reservation confirmed"
	if reservation.Status == model.StatusPending {
		message = "Reservation submitted for approval"
	}

	return &StepResult{Reservation: reservation, Message: message}, nil
}

func (s *flowService) mapSessionError(err error, userID string, equipmentName string) error {
	switch {
	case errors.Is(err, bookingerrors.ErrStaleSession):
		return apperrors.StaleSession(userID)
	case errors.Is(err, bookingerrors.ErrOutOfOrder):
		return apperrors.Conflict("Selection arrived out of order, continue from your current step")
	case errors.Is(err, bookingerrors.ErrEquipmentUnavailable):
		return apperrors.EquipmentUnavailable(equipmentName)
	case errors.Is(err, bookingerrors.ErrSlotUnavailable):
		return apperrors.Conflict("That time slot was just taken, pick another")
	default:
		return apperrors.Internal("Failed to advance booking flow", err)
	}
}

func outputOptions(fc *flow.Context) []flow.Option {
	options, _ := fc.Output[KeyOptions].([]flow.Option)
	return options
}

func containsClock(slots []model.Clock, c model.Clock) bool {
	for _, slot := range slots {
		if slot == c {
			return true
		}
	}
	return false
}

func clockSet(slots []model.Clock) map[model.Clock]bool {
	set := make(map[model.Clock]bool, len(slots))
	for _, c := range slots {
		set[c] = true
	}
	return set
}
