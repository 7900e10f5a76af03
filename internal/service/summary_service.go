package service

import (
	"context"
	"time"

	"github.com/xxxsen/greenhabit/internal/model"
	"github.com/xxxsen/greenhabit/internal/pkg/timeutil"
	"github.com/xxxsen/greenhabit/internal/repo"
)

const (
	weeklyWindowDays  = 7
	monthlyWindowDays = 30
)

type SummaryService struct {
	entries *repo.TrackingEntryRepo
	now     func() time.Time
}

func NewSummaryService(entries *repo.TrackingEntryRepo) *SummaryService {
	return &SummaryService{entries: entries, now: time.Now}
}

// Summary maps each of the user's habit ids to its check-in counts since
// 00:00 UTC seven and thirty days ago. Windows are whole UTC days so that a
// back-filled day counts exactly like a live check-in on that day. Habits
// without check-ins are reported with zero counts.
func (s *SummaryService) Summary(ctx context.Context, userID string) (map[string]model.HabitSummary, error) {
	now := s.now()
	weekSince := timeutil.DayStartDaysAgo(now, weeklyWindowDays).Unix()
	monthSince := timeutil.DayStartDaysAgo(now, monthlyWindowDays).Unix()
	items, err := s.entries.SummarizeByUser(ctx, userID, weekSince, monthSince)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.HabitSummary, len(items))
	for _, item := range items {
		out[item.HabitID] = item
	}
	return out, nil
}
