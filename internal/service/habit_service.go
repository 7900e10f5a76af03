package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/greenhabit/internal/metrics"
	"github.com/xxxsen/greenhabit/internal/model"
	appErr "github.com/xxxsen/greenhabit/internal/pkg/errors"
	"github.com/xxxsen/greenhabit/internal/pkg/timeutil"
	"github.com/xxxsen/greenhabit/internal/repo"
)

const (
	maxHabitNameLen        = 200
	maxHabitDescriptionLen = 2000
)

type HabitService struct {
	habits  *repo.HabitRepo
	entries *repo.TrackingEntryRepo
	metrics metrics.Recorder
	now     func() time.Time
}

type HabitCreateInput struct {
	Name        string
	Description *string
}

// TrackInput.Date is an optional YYYY-MM-DD (UTC) day to back-fill.
type TrackInput struct {
	HabitID string
	Date    string
}

func NewHabitService(habits *repo.HabitRepo, entries *repo.TrackingEntryRepo, recorder metrics.Recorder) *HabitService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &HabitService{habits: habits, entries: entries, metrics: recorder, now: time.Now}
}

func (s *HabitService) Create(ctx context.Context, userID string, input HabitCreateInput) (*model.Habit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", appErr.ErrInvalid)
	}
	if len([]rune(name)) > maxHabitNameLen {
		return nil, fmt.Errorf("%w: name too long", appErr.ErrInvalid)
	}
	var description *string
	if input.Description != nil {
		value := strings.TrimSpace(*input.Description)
		if len([]rune(value)) > maxHabitDescriptionLen {
			return nil, fmt.Errorf("%w: description too long", appErr.ErrInvalid)
		}
		if value != "" {
			description = &value
		}
	}
	habit := &model.Habit{
		ID:          newID(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Ctime:       s.now().Unix(),
	}
	if err := s.habits.Create(ctx, habit); err != nil {
		return nil, err
	}
	s.metrics.IncHabitCreated()
	return habit, nil
}

func (s *HabitService) List(ctx context.Context, userID string) ([]model.Habit, error) {
	return s.habits.ListByUser(ctx, userID)
}

// Track appends a check-in. Habits that do not exist and habits owned by
// someone else both yield ErrNotFound.
func (s *HabitService) Track(ctx context.Context, userID string, input TrackInput) (*model.TrackingEntry, error) {
	habitID := strings.TrimSpace(input.HabitID)
	if habitID == "" {
		return nil, fmt.Errorf("%w: habit_id required", appErr.ErrInvalid)
	}
	trackedAt, err := resolveTrackedAt(s.now(), strings.TrimSpace(input.Date))
	if err != nil {
		return nil, err
	}
	habit, err := s.habits.GetByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	entry := &model.TrackingEntry{
		ID:        newID(),
		HabitID:   habit.ID,
		UserID:    userID,
		TrackedAt: trackedAt,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	s.metrics.IncCheckIn()
	return entry, nil
}

func resolveTrackedAt(now time.Time, date string) (int64, error) {
	if date == "" {
		return now.Unix(), nil
	}
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return 0, fmt.Errorf("%w: date must be YYYY-MM-DD", appErr.ErrInvalid)
	}
	if timeutil.SameUTCDay(day, now) {
		return now.Unix(), nil
	}
	if day.After(now) {
		return 0, fmt.Errorf("%w: date is in the future", appErr.ErrInvalid)
	}
	return day.Unix(), nil
}
