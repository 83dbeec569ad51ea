// Package session holds the per-user booking flow state machine. A session
// walks equipment -> date -> start -> end -> submitted; every mutation runs
// under the session's own lock so a double-click can never interleave a
// half-applied transition.
package session

import (
	"sync"
	"time"

	bookingerrors "gearbook/internal/booking/errors"
	"gearbook/pkg/model"
)

type State int

const (
	StateIdle State = iota
	StateEquipmentChosen
	StateDateChosen
	StateStartChosen
	StateEndChosen
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEquipmentChosen:
		return "equipment_chosen"
	case StateDateChosen:
		return "date_chosen"
	case StateStartChosen:
		return "start_chosen"
	case StateEndChosen:
		return "end_chosen"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

type Session struct {
	mu sync.Mutex

	userID        string
	state         State
	equipmentID   string
	equipmentName string
	date          time.Time
	startTime     model.Clock
	endTime       model.Clock
	unavailable   map[model.Clock]bool
	reservationID string
	lastActive    time.Time
}

// Snapshot is a consistent read of the session fields, taken under the
// session lock.
type Snapshot struct {
	UserID        string
	State         State
	EquipmentID   string
	EquipmentName string
	Date          time.Time
	StartTime     model.Clock
	EndTime       model.Clock
	Unavailable   map[model.Clock]bool
	ReservationID string
}

func newSession(userID string) *Session {
	return &Session{
		userID:     userID,
		state:      StateIdle,
		lastActive: time.Now(),
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	unavailable := make(map[model.Clock]bool, len(s.unavailable))
	for k, v := range s.unavailable {
		unavailable[k] = v
	}

	return Snapshot{
		UserID:        s.userID,
		State:         s.state,
		EquipmentID:   s.equipmentID,
		EquipmentName: s.equipmentName,
		Date:          s.date,
		StartTime:     s.startTime,
		EndTime:       s.endTime,
		Unavailable:   unavailable,
		ReservationID: s.reservationID,
	}
}

func (s *Session) ChooseEquipment(e model.Equipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return bookingerrors.ErrOutOfOrder
	}
	if !e.Selectable() {
		return bookingerrors.ErrEquipmentUnavailable
	}

	s.equipmentID = e.ID
	s.equipmentName = e.Name
	s.state = StateEquipmentChosen
	s.lastActive = time.Now()
	return nil
}

// ChooseDate records the chosen date together with the unavailable-slot set
// fetched for it, so later steps compute against the same view of the day.
func (s *Session) ChooseDate(date time.Time, unavailable map[model.Clock]bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEquipmentChosen {
		return bookingerrors.ErrOutOfOrder
	}

	s.date = date
	s.unavailable = unavailable
	s.state = StateDateChosen
	s.lastActive = time.Now()
	return nil
}

func (s *Session) ChooseStart(start model.Clock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateDateChosen {
		return bookingerrors.ErrOutOfOrder
	}
	if s.unavailable[start] {
		return bookingerrors.ErrSlotUnavailable
	}

	s.startTime = start
	s.state = StateStartChosen
	s.lastActive = time.Now()
	return nil
}

// ChooseEnd is also accepted from EndChosen so a user whose submit failed
// with a transient persistence error can re-pick and retry without
// restarting the whole flow.
func (s *Session) ChooseEnd(end model.Clock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateStartChosen && s.state != StateEndChosen {
		return bookingerrors.ErrOutOfOrder
	}
	if end <= s.startTime {
		return bookingerrors.ErrOutOfOrder
	}

	s.endTime = end
	s.state = StateEndChosen
	s.lastActive = time.Now()
	return nil
}

func (s *Session) MarkSubmitted(reservationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEndChosen {
		return bookingerrors.ErrOutOfOrder
	}

	s.reservationID = reservationID
	s.state = StateSubmitted
	s.lastActive = time.Now()
	return nil
}

func (s *Session) idleFor(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActive)
}
