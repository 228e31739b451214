// Package user manages the account profile: display fields, timezone, and
// the day-window preference the scheduling queries honor.
package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/slotwise/backend/domain"
	appLogger "github.com/slotwise/backend/pkg/logger"
	"github.com/slotwise/backend/repository"
)

const minutesPerDay = 24 * 60

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{users: users, logger: logger}
}

func (uc *UseCase) Get(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// ProfileUpdate carries the settable profile fields. Nil day-window values
// leave the stored preference untouched; explicit zeros reset it to the
// server default.
type ProfileUpdate struct {
	Email       string
	DisplayName string
	Timezone    string
	DayStartMin *int
	DayEndMin   *int
}

// Update overlays the given fields onto the stored profile and persists the
// result. The day-window preference must be either both zero (server
// default) or a minute range within one day with start before end.
func (uc *UseCase) Update(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrInvalidPayload
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Email != "" {
		user.Email = update.Email
	}
	if update.DisplayName != "" {
		user.DisplayName = update.DisplayName
	}
	if update.Timezone != "" {
		if _, err := time.LoadLocation(update.Timezone); err != nil {
			return nil, domain.ErrInvalidPayload
		}
		user.Timezone = update.Timezone
	}
	if update.DayStartMin != nil {
		user.DayStartMin = *update.DayStartMin
	}
	if update.DayEndMin != nil {
		user.DayEndMin = *update.DayEndMin
	}
	if err := validateWindow(user.DayStartMin, user.DayEndMin); err != nil {
		return nil, err
	}

	if err := uc.users.Upsert(ctx, user); err != nil {
		return nil, err
	}

	uc.log(ctx).Info("profile updated",
		zap.String("user_id", userID),
		zap.Int("day_start_min", user.DayStartMin),
		zap.Int("day_end_min", user.DayEndMin))
	return user, nil
}

func validateWindow(start, end int) error {
	if start == 0 && end == 0 {
		return nil
	}
	if start < 0 || end > minutesPerDay || start >= end {
		return domain.ErrInvalidPayload
	}
	return nil
}

func (uc *UseCase) log(ctx context.Context) *zap.Logger {
	return appLogger.WithRequestID(ctx, uc.logger)
}
