package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErr "github.com/xxxsen/greenhabit/internal/pkg/errors"
	"github.com/xxxsen/greenhabit/internal/service"
)

func TestHabitServiceCreateAndListIsolation(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	alice, err := svc.auth.Signup(ctx, "alice@example.com", "secret-pass")
	require.NoError(t, err)
	bob, err := svc.auth.Signup(ctx, "bob@example.com", "secret-pass")
	require.NoError(t, err)

	desc := "  skip the car  "
	habit, err := svc.habits.Create(ctx, alice.ID, service.HabitCreateInput{Name: " Bike to work ", Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "Bike to work", habit.Name)
	require.Equal(t, "skip the car", *habit.Description)
	require.Equal(t, alice.ID, habit.UserID)

	list, err := svc.habits.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, habit.ID, list[0].ID)

	others, err := svc.habits.List(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, others)
}

func TestHabitServiceCreateValidation(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user, err := svc.auth.Signup(ctx, "alice@example.com", "secret-pass")
	require.NoError(t, err)

	_, err = svc.habits.Create(ctx, user.ID, service.HabitCreateInput{Name: "   "})
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = svc.habits.Create(ctx, user.ID, service.HabitCreateInput{Name: strings.Repeat("n", 201)})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	blank := "   "
	habit, err := svc.habits.Create(ctx, user.ID, service.HabitCreateInput{Name: "compost", Description: &blank})
	require.NoError(t, err)
	require.Nil(t, habit.Description)
}

func TestHabitServiceTrackOwnership(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	alice, err := svc.auth.Signup(ctx, "alice@example.com", "secret-pass")
	require.NoError(t, err)
	bob, err := svc.auth.Signup(ctx, "bob@example.com", "secret-pass")
	require.NoError(t, err)
	habit, err := svc.habits.Create(ctx, alice.ID, service.HabitCreateInput{Name: "bike"})
	require.NoError(t, err)

	before := time.Now().Unix()
	entry, err := svc.habits.Track(ctx, alice.ID, service.TrackInput{HabitID: habit.ID})
	require.NoError(t, err)
	require.Equal(t, habit.ID, entry.HabitID)
	require.Equal(t, alice.ID, entry.UserID)
	require.GreaterOrEqual(t, entry.TrackedAt, before)

	second, err := svc.habits.Track(ctx, alice.ID, service.TrackInput{HabitID: habit.ID})
	require.NoError(t, err)
	require.NotEqual(t, entry.ID, second.ID)

	_, err = svc.habits.Track(ctx, bob.ID, service.TrackInput{HabitID: habit.ID})
	require.ErrorIs(t, err, appErr.ErrNotFound)
	_, err = svc.habits.Track(ctx, alice.ID, service.TrackInput{HabitID: "missing"})
	require.ErrorIs(t, err, appErr.ErrNotFound)
	_, err = svc.habits.Track(ctx, alice.ID, service.TrackInput{HabitID: " "})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestHabitServiceTrackBackfill(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user, err := svc.auth.Signup(ctx, "alice@example.com", "secret-pass")
	require.NoError(t, err)
	habit, err := svc.habits.Create(ctx, user.ID, service.HabitCreateInput{Name: "bike"})
	require.NoError(t, err)

	past := time.Now().UTC().AddDate(0, 0, -3)
	entry, err := svc.habits.Track(ctx, user.ID, service.TrackInput{HabitID: habit.ID, Date: past.Format("2006-01-02")})
	require.NoError(t, err)
	y, m, d := past.Date()
	require.Equal(t, time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix(), entry.TrackedAt)

	future := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	_, err = svc.habits.Track(ctx, user.ID, service.TrackInput{HabitID: habit.ID, Date: future})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.habits.Track(ctx, user.ID, service.TrackInput{HabitID: habit.ID, Date: "yesterday"})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}
