package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vkeventsbot/internal/domain"
	"vkeventsbot/internal/domain/entities"
	"vkeventsbot/internal/ports/output"
)

// RegistrationService enforces the two registration invariants: at most one
// registration per (event, user) and the event-wide participant sum never
// exceeding the capacity cap. The capacity read-check-write runs inside an
// event-scoped lock; the uniqueness constraint in the database backs the
// fast-path existence checks.
type RegistrationService struct {
	events     output.EventRepository
	regs       output.RegistrationRepository
	translator output.T
}

func NewRegistrationService(
	events output.EventRepository,
	regs output.RegistrationRepository,
	translator output.T,
) *RegistrationService {
	return &RegistrationService{
		events:     events,
		regs:       regs,
		translator: translator,
	}
}

// Register creates a registration. Rejection order: already registered,
// event missing, capacity exceeded. Business rejections return a localized
// message together with the domain error; storage failures return ("", err)
// and the caller renders a generic failure.
func (s *RegistrationService) Register(ctx context.Context, locale string, eventID, userID int64, count int, teamName string, approximate bool) (string, error) {
	existing, err := s.regs.Find(ctx, eventID, userID)
	if err != nil {
		return "", fmt.Errorf("find registration: %w", err)
	}
	if existing != nil {
		return s.translator.T(locale, "registration.already_registered", nil), domain.ErrAlreadyRegistered
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return s.translator.T(locale, "event.not_found", nil), domain.ErrEventNotFound
		}
		return "", fmt.Errorf("find event: %w", err)
	}

	err = s.regs.WithEventLock(ctx, eventID, func(store output.RegistrationStore) error {
		if event.MaxParticipants > 0 {
			total, err := store.SumParticipants(ctx, eventID)
			if err != nil {
				return fmt.Errorf("sum participants: %w", err)
			}
			if total+count > event.MaxParticipants {
				return &domain.CapacityError{Available: event.MaxParticipants - total}
			}
		}
		return store.Create(ctx, &entities.Registration{
			EventID:           eventID,
			UserID:            userID,
			ParticipantsCount: count,
			TeamName:          teamName,
			Approximate:       approximate,
			RegisteredAt:      time.Now(),
		})
	})
	if err != nil {
		return s.rejectionMessage(locale, err)
	}

	data := map[string]any{"Event": event.Title, "Count": count}
	msg := s.translator.TN(locale, "registration.success", count, data)
	if teamName != "" {
		msg += "\n" + s.translator.T(locale, "registration.team_line", map[string]any{"Team": teamName})
	}
	return msg, nil
}

// ChangeParticipantsCount updates the caller's registration to newCount.
// The capacity check excludes the caller's current contribution: only the
// other registrations plus the new count are measured against the cap.
func (s *RegistrationService) ChangeParticipantsCount(ctx context.Context, locale string, eventID, userID int64, newCount int) (string, error) {
	existing, err := s.regs.Find(ctx, eventID, userID)
	if err != nil {
		return "", fmt.Errorf("find registration: %w", err)
	}
	if existing == nil {
		return s.translator.T(locale, "registration.not_registered", nil), domain.ErrNotRegistered
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return s.translator.T(locale, "event.not_found", nil), domain.ErrEventNotFound
		}
		return "", fmt.Errorf("find event: %w", err)
	}

	err = s.regs.WithEventLock(ctx, eventID, func(store output.RegistrationStore) error {
		current, err := store.Find(ctx, eventID, userID)
		if err != nil {
			return fmt.Errorf("find registration: %w", err)
		}
		if current == nil {
			return domain.ErrNotRegistered
		}
		if event.MaxParticipants > 0 {
			total, err := store.SumParticipants(ctx, eventID)
			if err != nil {
				return fmt.Errorf("sum participants: %w", err)
			}
			others := total - current.ParticipantsCount
			if others+newCount > event.MaxParticipants {
				return &domain.CapacityError{Available: event.MaxParticipants - others}
			}
		}
		return store.UpdateCount(ctx, eventID, userID, newCount)
	})
	if err != nil {
		return s.rejectionMessage(locale, err)
	}

	return s.translator.TN(locale, "registration.count_changed", newCount, map[string]any{"Count": newCount}), nil
}

// Cancel deletes the registration unconditionally. Cancelling an absent
// registration still reads as success to the caller.
func (s *RegistrationService) Cancel(ctx context.Context, locale string, eventID, userID int64) (string, error) {
	if err := s.regs.Delete(ctx, eventID, userID); err != nil {
		return "", fmt.Errorf("delete registration: %w", err)
	}
	return s.translator.T(locale, "registration.cancelled", nil), nil
}

// rejectionMessage maps a business-rule error surfaced from the locked
// section to its user-facing message; anything else is a storage failure.
func (s *RegistrationService) rejectionMessage(locale string, err error) (string, error) {
	var capErr *domain.CapacityError
	switch {
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return s.translator.T(locale, "registration.already_registered", nil), domain.ErrAlreadyRegistered
	case errors.Is(err, domain.ErrNotRegistered):
		return s.translator.T(locale, "registration.not_registered", nil), domain.ErrNotRegistered
	case errors.As(err, &capErr):
		msg := s.translator.T(locale, "registration.capacity_exceeded", map[string]any{"Available": capErr.Available})
		return msg, capErr
	}
	return "", err
}
