package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingerrors "gearbook/internal/booking/errors"
	"gearbook/pkg/config"
	"gearbook/pkg/logger"
	"gearbook/pkg/model"
)

type mockRepo struct {
	createFn      func(ctx context.Context, r *model.Reservation) error
	findByIDFn    func(ctx context.Context, id string) (*model.Reservation, error)
	findAllFn     func(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error)
	countFn       func(ctx context.Context) (int64, error)
	findByUserFn  func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Reservation, error)
	decideFn      func(ctx context.Context, id, status, responsibleID string) (*mongo.UpdateResult, error)
	unavailableFn func(ctx context.Context, equipmentID string, dates []time.Time, granularityMin int) (map[string][]model.Clock, error)
}

func (m *mockRepo) Create(ctx context.Context, r *model.Reservation) error {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	r.ID = "665f1f77bcf86cd799439011"
	return nil
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, bookingerrors.ErrNotFound
}

func (m *mockRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockRepo) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockRepo) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Reservation, error) {
	if m.findByUserFn != nil {
		return m.findByUserFn(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *mockRepo) DecidePending(ctx context.Context, id, status, responsibleID string) (*mongo.UpdateResult, error) {
	if m.decideFn != nil {
		return m.decideFn(ctx, id, status, responsibleID)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockRepo) UnavailableSlots(ctx context.Context, equipmentID string, dates []time.Time, granularityMin int) (map[string][]model.Clock, error) {
	if m.unavailableFn != nil {
		return m.unavailableFn(ctx, equipmentID, dates, granularityMin)
	}
	return map[string][]model.Clock{}, nil
}

type mockInventory struct {
	listFn    func(ctx context.Context) ([]model.Equipment, error)
	getByIDFn func(ctx context.Context, id string) (*model.Equipment, error)
}

func (m *mockInventory) List(ctx context.Context) ([]model.Equipment, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Equipment{
		{ID: "eq-1", Name: "Canon EOS R5", Status: model.EquipmentAvailable},
		{ID: "eq-2", Name: "Manfrotto Tripod", Status: model.EquipmentMaintenance},
	}, nil
}

func (m *mockInventory) GetByID(ctx context.Context, id string) (*model.Equipment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	if id == "eq-2" {
		return &model.Equipment{ID: "eq-2", Name: "Manfrotto Tripod", Status: model.EquipmentMaintenance}, nil
	}
	return &model.Equipment{ID: id, Name: "Canon EOS R5", Status: model.EquipmentAvailable}, nil
}

type mockApprovers struct {
	hasRoleFn func(ctx context.Context, actorID string, roles []string) (bool, error)
}

func (m *mockApprovers) HasApproverRole(ctx context.Context, actorID string, roles []string) (bool, error) {
	if m.hasRoleFn != nil {
		return m.hasRoleFn(ctx, actorID, roles)
	}
	return true, nil
}

type sentEvent struct {
	kind      string
	recipient string
	channel   string
	text      string
}

type mockNotifier struct {
	sent []sentEvent
	err  error
}

func (m *mockNotifier) NotifyUser(ctx context.Context, userID, text string) error {
	m.sent = append(m.sent, sentEvent{kind: "user_notification", recipient: userID, text: text})
	return m.err
}

func (m *mockNotifier) NotifyChannel(ctx context.Context, channel, kind, text, reservationID string) error {
	m.sent = append(m.sent, sentEvent{kind: kind, channel: channel, text: text})
	return m.err
}

func (m *mockNotifier) channelEvents(kind string) []sentEvent {
	var events []sentEvent
	for _, e := range m.sent {
		if e.kind == kind {
			events = append(events, e)
		}
	}
	return events
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	open, _ := model.ParseClock("08:00")
	close, _ := model.ParseClock("21:00")
	return &config.Config{
		OpenTime:            open,
		CloseTime:           close,
		SlotGranularityMin:  60,
		MaxContiguousBlocks: 2,
		MaxLookaheadDays:    3,
		AllowedWeekdays:     []int{1, 2, 3, 4, 5, 6, 7},
		Holidays:            map[string]bool{},
		ApproverRoles:       []string{"equipment-manager"},
		SessionTTL:          time.Minute,
		Log:                 logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Service: "service-test"}),
	}
}
