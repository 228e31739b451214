package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/backend/domain"
)

type memUserRepo struct {
	users map[string]domain.User
}

func newMemUserRepo(users ...domain.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[string]domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *memUserRepo) Upsert(_ context.Context, user *domain.User) error {
	r.users[user.ID] = *user
	return nil
}

func intPtr(v int) *int { return &v }

func TestUpdate_SetsDayWindowPreference(t *testing.T) {
	repo := newMemUserRepo(domain.User{ID: "u1", Status: "active"})
	uc := New(repo, nil)

	updated, err := uc.Update(context.Background(), "u1", ProfileUpdate{
		DayStartMin: intPtr(540),
		DayEndMin:   intPtr(1020),
	})
	require.NoError(t, err)
	assert.Equal(t, 540, updated.DayStartMin)
	assert.Equal(t, 1020, updated.DayEndMin)

	stored, err := uc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 540, stored.DayStartMin)
	assert.Equal(t, 1020, stored.DayEndMin)
}

func TestUpdate_RejectsInvalidWindow(t *testing.T) {
	cases := []struct {
		name       string
		start, end int
	}{
		{"inverted", 600, 480},
		{"zero length", 480, 480},
		{"past midnight", 480, 1500},
		{"negative start", -10, 480},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMemUserRepo(domain.User{ID: "u1", Status: "active"})
			uc := New(repo, nil)

			_, err := uc.Update(context.Background(), "u1", ProfileUpdate{
				DayStartMin: intPtr(tc.start),
				DayEndMin:   intPtr(tc.end),
			})
			assert.ErrorIs(t, err, domain.ErrInvalidPayload)

			stored, err := uc.Get(context.Background(), "u1")
			require.NoError(t, err)
			assert.Zero(t, stored.DayStartMin, "rejected update must not persist")
			assert.Zero(t, stored.DayEndMin)
		})
	}
}

func TestUpdate_ZerosResetToServerDefault(t *testing.T) {
	repo := newMemUserRepo(domain.User{ID: "u1", Status: "active", DayStartMin: 540, DayEndMin: 1020})
	uc := New(repo, nil)

	updated, err := uc.Update(context.Background(), "u1", ProfileUpdate{
		DayStartMin: intPtr(0),
		DayEndMin:   intPtr(0),
	})
	require.NoError(t, err)
	assert.Zero(t, updated.DayStartMin)
	assert.Zero(t, updated.DayEndMin)
}

func TestUpdate_AbsentFieldsKeepStoredValues(t *testing.T) {
	repo := newMemUserRepo(domain.User{
		ID:          "u1",
		Email:       "u1@example.com",
		DisplayName: "Morning Person",
		Status:      "active",
		DayStartMin: 420,
		DayEndMin:   960,
	})
	uc := New(repo, nil)

	updated, err := uc.Update(context.Background(), "u1", ProfileUpdate{DisplayName: "Night Owl"})
	require.NoError(t, err)

	assert.Equal(t, "Night Owl", updated.DisplayName)
	assert.Equal(t, "u1@example.com", updated.Email)
	assert.Equal(t, 420, updated.DayStartMin)
	assert.Equal(t, 960, updated.DayEndMin)
	assert.Equal(t, "active", updated.Status)
}

func TestUpdate_RejectsBadTimezone(t *testing.T) {
	repo := newMemUserRepo(domain.User{ID: "u1", Status: "active", Timezone: "UTC"})
	uc := New(repo, nil)

	_, err := uc.Update(context.Background(), "u1", ProfileUpdate{Timezone: "Mars/Olympus"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestUpdate_UnknownUser(t *testing.T) {
	uc := New(newMemUserRepo(), nil)

	_, err := uc.Update(context.Background(), "ghost", ProfileUpdate{DisplayName: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
