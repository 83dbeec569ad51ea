package service

import (
	"context"
	"testing"
	"time"

	"gearbook/internal/booking/flow"
	"gearbook/internal/booking/session"
	"gearbook/internal/booking/validator"
	"gearbook/pkg/config"
	apperrors "gearbook/pkg/errors"
	"gearbook/pkg/model"
)

type flowFixture struct {
	svc      FlowService
	sessions *session.Store
	repo     *mockRepo
	notifier *mockNotifier
}

func newFlowFixture(t *testing.T, cfg *config.Config, repo *mockRepo) *flowFixture {
	t.Helper()
	sessions := session.NewStore(time.Minute, cfg.Log)
	t.Cleanup(sessions.Stop)

	notifier := &mockNotifier{}
	lifecycle := NewLifecycleService(repo, validator.NewReservationValidator(cfg.Log), &mockApprovers{}, notifier, sessions, cfg)
	svc := NewFlowService(sessions, repo, &mockInventory{}, lifecycle, cfg)

	return &flowFixture{svc: svc, sessions: sessions, repo: repo, notifier: notifier}
}

func TestStart_ListsEquipmentOptions(t *testing.T) {
	f := newFlowFixture(t, testConfig(t), &mockRepo{})

	result, err := f.svc.Start(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.NextKind != flow.KindEquipment {
		t.Errorf("expected next kind equipment, got %s", result.NextKind)
	}
	if len(result.Options) != 2 {
		t.Fatalf("expected 2 equipment options, got %d", len(result.Options))
	}
	if result.Options[0].Payload["equipment_id"] != "eq-1" {
		t.Errorf("unexpected first option payload: %v", result.Options[0].Payload)
	}
	if _, exists := f.sessions.Get("user-1"); !exists {
		t.Error("Start must open a session")
	}
}

func TestStart_DiscardsAbandonedFlow(t *testing.T) {
	f := newFlowFixture(t, testConfig(t), &mockRepo{})
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, "user-1"); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if _, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindEquipment, Payload: map[string]string{"equipment_id": "eq-1"}}); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	// Restarting puts the user back at equipment selection.
	if _, err := f.svc.Start(ctx, "user-1"); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	sess, _ := f.sessions.Get("user-1")
	if sess.Snapshot().State != session.StateIdle {
		t.Errorf("expected fresh idle session, got %s", sess.Snapshot().State)
	}
}

func TestAdvance_FullWalkProducesApprovedReservation(t *testing.T) {
	cfg := testConfig(t)
	booked, _ := model.ParseClock("10:00")
	repo := &mockRepo{
		unavailableFn: func(ctx context.Context, equipmentID string, dates []time.Time, granularityMin int) (map[string][]model.Clock, error) {
			slots := make(map[string][]model.Clock, len(dates))
			for _, d := range dates {
				slots[model.DateKey(d)] = []model.Clock{booked}
			}
			return slots, nil
		},
	}
	f := newFlowFixture(t, cfg, repo)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dateStep, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindEquipment, Payload: map[string]string{"equipment_id": "eq-1"}})
	if err != nil {
		t.Fatalf("equipment step: %v", err)
	}
	if dateStep.NextKind != flow.KindDate {
		t.Fatalf("expected date options, got %s", dateStep.NextKind)
	}
	if len(dateStep.Options) != cfg.MaxLookaheadDays {
		t.Fatalf("expected %d date options, got %d", cfg.MaxLookaheadDays, len(dateStep.Options))
	}
	// Grid 08:00-21:00 hourly is 13 slots; one is booked on every day.
	if dateStep.Options[0].Payload["free_slots"] != "12" {
		t.Errorf("unexpected free slot count: %v", dateStep.Options[0].Payload)
	}

	startStep, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindDate, Payload: dateStep.Options[0].Payload})
	if err != nil {
		t.Fatalf("date step: %v", err)
	}
	if startStep.NextKind != flow.KindStartTime {
		t.Fatalf("expected start options, got %s", startStep.NextKind)
	}
	if len(startStep.Options) != 13 {
		t.Fatalf("expected 13 start options, got %d", len(startStep.Options))
	}
	for _, o := range startStep.Options {
		wantAvailable := "true"
		if o.Payload["time"] == "10:00" {
			wantAvailable = "false"
		}
		if o.Payload["available"] != wantAvailable {
			t.Errorf("slot %s: expected available=%s, got %s", o.Payload["time"], wantAvailable, o.Payload["available"])
		}
	}

	endStep, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindStartTime, Payload: map[string]string{"time": "09:00"}})
	if err != nil {
		t.Fatalf("start step: %v", err)
	}
	// The 10:00 slot is booked, so the reservation can only end there.
	if len(endStep.Options) != 1 || endStep.Options[0].Payload["time"] != "10:00" {
		t.Fatalf("expected single end option 10:00, got %v", endStep.Options)
	}

	final, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindEndTime, Payload: map[string]string{"time": "10:00"}})
	if err != nil {
		t.Fatalf("end step: %v", err)
	}
	if final.Reservation == nil {
		t.Fatal("expected a finalized reservation")
	}
	if final.Reservation.Status != model.StatusApproved {
		t.Errorf("expected auto-approved reservation, got %s", final.Reservation.Status)
	}
	if got := model.ClockOf(final.Reservation.StartTime).String(); got != "09:00" {
		t.Errorf("expected start 09:00, got %s", got)
	}
	if got := model.DateKey(final.Reservation.StartTime); got != dateStep.Options[0].Payload["date"] {
		t.Errorf("reservation landed on %s, chose %s", got, dateStep.Options[0].Payload["date"])
	}
	if _, exists := f.sessions.Get("user-1"); exists {
		t.Error("session must be destroyed after the flow completes")
	}
}

func TestAdvance_BookedStartSlotRejected(t *testing.T) {
	cfg := testConfig(t)
	booked, _ := model.ParseClock("10:00")
	repo := &mockRepo{
		unavailableFn: func(ctx context.Context, equipmentID string, dates []time.Time, granularityMin int) (map[string][]model.Clock, error) {
			slots := make(map[string][]model.Clock, len(dates))
			for _, d := range dates {
				slots[model.DateKey(d)] = []model.Clock{booked}
			}
			return slots, nil
		},
	}
	f := newFlowFixture(t, cfg, repo)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	dateStep, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindEquipment, Payload: map[string]string{"equipment_id": "eq-1"}})
	if err != nil {
		t.Fatalf("equipment step: %v", err)
	}
	if _, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindDate, Payload: dateStep.Options[0].Payload}); err != nil {
		t.Fatalf("date step: %v", err)
	}

	_, err = f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindStartTime, Payload: map[string]string{"time": "10:00"}})
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestAdvance_OffGridStartTimeRejected(t *testing.T) {
	f := newFlowFixture(t, testConfig(t), &mockRepo{})
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	dateStep, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindEquipment, Payload: map[string]string{"equipment_id": "eq-1"}})
	if err != nil {
		t.Fatalf("equipment step: %v", err)
	}
	if _, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindDate, Payload: dateStep.Options[0].Payload}); err != nil {
		t.Fatalf("date step: %v", err)
	}

	// 09:37 is free per the unavailable set but was never on the hourly grid.
	_, err = f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindStartTime, Payload: map[string]string{"time": "09:37"}})
	assertAppErrorCode(t, err, apperrors.CodeConflict)

	sess, _ := f.sessions.Get("user-1")
	if sess.Snapshot().State != session.StateDateChosen {
		t.Errorf("rejected start must not advance the session, got %s", sess.Snapshot().State)
	}
	if _, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindStartTime, Payload: map[string]string{"time": "09:00"}}); err != nil {
		t.Errorf("on-grid start after rejection: %v", err)
	}
}

func TestAdvance_UnofferedEndTimeRejected(t *testing.T) {
	cfg := testConfig(t)
	booked, _ := model.ParseClock("10:00")
	repo := &mockRepo{
		unavailableFn: func(ctx context.Context, equipmentID string, dates []time.Time, granularityMin int) (map[string][]model.Clock, error) {
			slots := make(map[string][]model.Clock, len(dates))
			for _, d := range dates {
				slots[model.DateKey(d)] = []model.Clock{booked}
			}
			return slots, nil
		},
		createFn: func(ctx context.Context, r *model.Reservation) error {
			t.Errorf("reservation %s-%s must not be persisted for an un-offered end time",
				model.ClockOf(r.StartTime), model.ClockOf(r.EndTime))
			return nil
		},
	}
	f := newFlowFixture(t, cfg, repo)
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	dateStep, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindEquipment, Payload: map[string]string{"equipment_id": "eq-1"}})
	if err != nil {
		t.Fatalf("equipment step: %v", err)
	}
	if _, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindDate, Payload: dateStep.Options[0].Payload}); err != nil {
		t.Fatalf("date step: %v", err)
	}
	if _, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindStartTime, Payload: map[string]string{"time": "09:00"}}); err != nil {
		t.Fatalf("start step: %v", err)
	}

	// From 09:00 with 10:00 booked the only offered end is 10:00; 22:00 runs
	// past the 21:00 close and 11:00 would straddle the booked slot.
	for _, end := range []string{"22:00", "11:00"} {
		_, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindEndTime, Payload: map[string]string{"time": end}})
		assertAppErrorCode(t, err, apperrors.CodeConflict)
	}

	sess, _ := f.sessions.Get("user-1")
	if sess.Snapshot().State != session.StateStartChosen {
		t.Errorf("rejected end must not advance the session, got %s", sess.Snapshot().State)
	}
}

func TestAdvance_EndBeyondMaxBlocksRejected(t *testing.T) {
	f := newFlowFixture(t, testConfig(t), &mockRepo{})
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	dateStep, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindEquipment, Payload: map[string]string{"equipment_id": "eq-1"}})
	if err != nil {
		t.Fatalf("equipment step: %v", err)
	}
	if _, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindDate, Payload: dateStep.Options[0].Payload}); err != nil {
		t.Fatalf("date step: %v", err)
	}
	if _, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindStartTime, Payload: map[string]string{"time": "09:00"}}); err != nil {
		t.Fatalf("start step: %v", err)
	}

	// With nothing booked, two contiguous blocks cap the ends at 11:00.
	_, err = f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindEndTime, Payload: map[string]string{"time": "12:00"}})
	assertAppErrorCode(t, err, apperrors.CodeConflict)

	final, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindEndTime, Payload: map[string]string{"time": "11:00"}})
	if err != nil {
		t.Fatalf("offered end after rejection: %v", err)
	}
	if final.Reservation == nil {
		t.Fatal("expected a finalized reservation for the offered end time")
	}
}

func TestAdvance_MaintenanceEquipmentRejected(t *testing.T) {
	f := newFlowFixture(t, testConfig(t), &mockRepo{})
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	_, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindEquipment, Payload: map[string]string{"equipment_id": "eq-2"}})
	assertAppErrorCode(t, err, apperrors.CodeEquipmentUnavailable)

	// The failed pick keeps the session at equipment selection.
	sess, _ := f.sessions.Get("user-1")
	if sess.Snapshot().State != session.StateIdle {
		t.Errorf("expected idle session, got %s", sess.Snapshot().State)
	}
}

func TestAdvance_WithoutSessionIsStale(t *testing.T) {
	f := newFlowFixture(t, testConfig(t), &mockRepo{})

	_, err := f.svc.Advance(context.Background(), "ghost-user", flow.Option{Kind: flow.KindDate, Payload: map[string]string{"date": "2030-01-07"}})
	assertAppErrorCode(t, err, apperrors.CodeStaleSession)
}

func TestAdvance_OutOfOrderOptionRejected(t *testing.T) {
	f := newFlowFixture(t, testConfig(t), &mockRepo{})
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Jumping straight to a start time without equipment or date.
	_, err := f.svc.Advance(ctx, "user-1", flow.Option{Kind: flow.KindStartTime, Payload: map[string]string{"time": "09:00"}})
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestAdvance_UnknownOptionKindRejected(t *testing.T) {
	f := newFlowFixture(t, testConfig(t), &mockRepo{})

	_, err := f.svc.Advance(context.Background(), "user-1", flow.Option{Kind: "color", Payload: map[string]string{}})
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestAbandon(t *testing.T) {
	f := newFlowFixture(t, testConfig(t), &mockRepo{})

	if f.svc.Abandon("user-1") {
		t.Error("abandoning a missing session must report false")
	}

	if _, err := f.svc.Start(context.Background(), "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !f.svc.Abandon("user-1") {
		t.Error("expected Abandon to report true for a live session")
	}
	if _, exists := f.sessions.Get("user-1"); exists {
		t.Error("session must be gone after Abandon")
	}
}
