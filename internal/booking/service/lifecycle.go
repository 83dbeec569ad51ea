package service

import (
	"context"
	"errors"
	"fmt"

	bookingerrors "gearbook/internal/booking/errors"
	"gearbook/internal/booking/repository"
	"gearbook/internal/booking/session"
	"gearbook/internal/booking/validator"
	"gearbook/pkg/config"
	apperrors "gearbook/pkg/errors"
	"gearbook/pkg/model"
	"gearbook/pkg/notify"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type LifecycleService interface {
	Finalize(ctx context.Context, sess *session.Session) (*model.Reservation, error)
	Decide(ctx context.Context, reservationID string, decision string, approverID string) (*model.Reservation, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error)
	GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Reservation, error)
}

type lifecycleService struct {
	repo      repository.ReservationRepository
	validator *validator.ReservationValidator
	approvers ApproverDirectory
	notifier  notify.Notifier
	sessions  *session.Store
	cfg       *config.Config
}

func NewLifecycleService(
	repo repository.ReservationRepository,
	validator *validator.ReservationValidator,
	approvers ApproverDirectory,
	notifier notify.Notifier,
	sessions *session.Store,
	cfg *config.Config,
) LifecycleService {
	return &lifecycleService{
		repo:      repo,
		validator: validator,
		approvers: approvers,
		notifier:  notifier,
		sessions:  sessions,
		cfg:       cfg,
	}
}

// Finalize turns a completed session into a persisted reservation. If the
// write fails the session is kept so the user can retry the last step
// instead of restarting the whole flow.
func (s *lifecycleService) Finalize(ctx context.Context, sess *session.Session) (*model.Reservation, error) {
	snap := sess.Snapshot()
	if snap.State != session.StateEndChosen {
		return nil, apperrors.Conflict("Reservation is not ready to submit")
	}

	status := model.StatusApproved
	if s.cfg.RequiresApproval() {
		status = model.StatusPending
	}

	reservation := &model.Reservation{
		EquipmentID: snap.EquipmentID,
		UserID:      snap.UserID,
		StartTime:   snap.StartTime.At(snap.Date),
		EndTime:     snap.EndTime.At(snap.Date),
		Status:      status,
	}

	if err := s.validate(reservation); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		s.cfg.Log.Error("Failed to persist reservation",
			"user_id", snap.UserID,
			"equipment_id", snap.EquipmentID,
			"error", err,
		)
		return nil, apperrors.Persistence("Reservation could not be saved, please retry", err)
	}

	if err := sess.MarkSubmitted(reservation.ID); err != nil {
		s.cfg.Log.Warn("Session moved underneath a successful submit", "user_id", snap.UserID, "error", err)
	}
	s.sessions.Delete(snap.UserID)

	s.cfg.Log.Info("Reservation submitted",
		"id", reservation.ID,
		"user_id", reservation.UserID,
		"equipment_id", reservation.EquipmentID,
		"status", reservation.Status,
	)

	s.announceSubmission(ctx, reservation, snap.EquipmentName)

	return reservation, nil
}

func (s *lifecycleService) announceSubmission(ctx context.Context, reservation *model.Reservation, equipmentName string) {
	day := model.DateKey(reservation.StartTime)
	window := fmt.Sprintf("%s-%s", model.ClockOf(reservation.StartTime), model.ClockOf(reservation.EndTime))

	if reservation.Status == model.StatusPending {
		channelText := fmt.Sprintf("%s requested %s on %s (%s)", reservation.UserID, equipmentName, day, window)
		if err := s.notifier.NotifyChannel(ctx, s.cfg.ApprovalChannel, notify.EventApprovalRequest, channelText, reservation.ID); err != nil {
			s.cfg.Log.Warn("Approval request delivery failed", "reservation_id", reservation.ID, "error", err)
		}
		userText := fmt.Sprintf("Your reservation for %s on %s (%s) awaits approval", equipmentName, day, window)
		if err := s.notifier.NotifyUser(ctx, reservation.UserID, userText); err != nil {
			s.cfg.Log.Warn("User notification delivery failed", "reservation_id", reservation.ID, "error", err)
		}
		return
	}

	userText := fmt.Sprintf("Your reservation for %s on %s (%s) is confirmed", equipmentName, day, window)
	if err := s.notifier.NotifyUser(ctx, reservation.UserID, userText); err != nil {
		s.cfg.Log.Warn("User notification delivery failed", "reservation_id", reservation.ID, "error", err)
	}
}

// Decide applies an approver's ruling exactly once. The status flip is a
// conditional update matching on pending, so when two approvers race the
// loser gets a double-decision error instead of silently overwriting.
func (s *lifecycleService) Decide(ctx context.Context, reservationID string, decision string, approverID string) (*model.Reservation, error) {
	var status string
	switch decision {
	case DecisionApprove:
		status = model.StatusApproved
	case DecisionReject:
		status = model.StatusRejected
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown decision %q, expected %s or %s", decision, DecisionApprove, DecisionReject))
	}

	allowed, err := s.approvers.HasApproverRole(ctx, approverID, s.cfg.ApproverRoles)
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve approver roles", err)
	}
	if !allowed {
		return nil, apperrors.Unauthorized("Only approvers may decide reservations")
	}

	reservation, err := s.repo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, translateRepoError(err, reservationID)
	}
	if reservation.Decided() {
		return nil, apperrors.DoubleDecision(reservationID, reservation.Status)
	}

	result, err := s.repo.DecidePending(ctx, reservationID, status, approverID)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput(err.Error())
		}
		return nil, apperrors.Persistence("Decision could not be saved, please retry", err)
	}
	if result.MatchedCount == 0 {
		current, ferr := s.repo.FindByID(ctx, reservationID)
		if ferr != nil {
			return nil, apperrors.DoubleDecision(reservationID, "unknown")
		}
		return nil, apperrors.DoubleDecision(reservationID, current.Status)
	}

	reservation.Status = status
	reservation.ResponsibleID = approverID

	s.cfg.Log.Info("Reservation decided",
		"id", reservation.ID,
		"status", reservation.Status,
		"responsible_id", approverID,
	)

	s.announceDecision(ctx, reservation)

	return reservation, nil
}

func (s *lifecycleService) announceDecision(ctx context.Context, reservation *model.Reservation) {
	verdict := "approved"
	if reservation.Status == model.StatusRejected {
		verdict = "rejected"
	}
	day := model.DateKey(reservation.StartTime)

	userText := fmt.Sprintf("Your reservation for %s was %s", day, verdict)
	if err := s.notifier.NotifyUser(ctx, reservation.UserID, userText); err != nil {
		s.cfg.Log.Warn("User notification delivery failed", "reservation_id", reservation.ID, "error", err)
	}

	if s.cfg.ApprovalChannel != "" {
		channelText := fmt.Sprintf("Reservation %s (%s on %s) was %s by %s",
			reservation.ID, reservation.EquipmentID, day, verdict, reservation.ResponsibleID)
		if err := s.notifier.NotifyChannel(ctx, s.cfg.ApprovalChannel, notify.EventDecisionAnnounce, channelText, reservation.ID); err != nil {
			s.cfg.Log.Warn("Decision announcement delivery failed", "reservation_id", reservation.ID, "error", err)
		}
	}
}

func (s *lifecycleService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, id)
	}
	return reservation, nil
}

func (s *lifecycleService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	reservations, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list reservations", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count reservations", err)
	}
	return reservations, total, nil
}

func (s *lifecycleService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Reservation, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	reservations, err := s.repo.FindByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("Failed to list user reservations", err)
	}
	return reservations, nil
}

func (s *lifecycleService) validate(reservation *model.Reservation) error {
	if err := s.validator.Validate(reservation); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make(map[string]any, len(verrs))
			for _, ve := range verrs {
				details[ve.Field] = ve.Message
			}
			return apperrors.Validation("Reservation validation failed", details)
		}
		return apperrors.Internal("Reservation validation failed", err)
	}
	return nil
}

func translateRepoError(err error, id string) error {
	switch {
	case errors.Is(err, bookingerrors.ErrNotFound):
		return apperrors.NotFoundWithID("reservation", id)
	case errors.Is(err, bookingerrors.ErrInvalidID):
		return apperrors.InvalidInput(err.Error())
	default:
		return apperrors.Internal("Failed to load reservation", err)
	}
}
