package service_test

import (
	"testing"
	"time"

	"github.com/xxxsen/greenhabit/internal/metrics"
	"github.com/xxxsen/greenhabit/internal/repo"
	"github.com/xxxsen/greenhabit/internal/service"
	"github.com/xxxsen/greenhabit/internal/testutil"
)

var testSecret = []byte("test-secret")

type services struct {
	auth    *service.AuthService
	habits  *service.HabitService
	summary *service.SummaryService
	entries *repo.TrackingEntryRepo
}

func setupServices(t *testing.T) (*services, func()) {
	t.Helper()
	conn, cleanup := testutil.OpenTestDB(t)
	users := repo.NewUserRepo(conn)
	habits := repo.NewHabitRepo(conn)
	entries := repo.NewTrackingEntryRepo(conn)
	recorder := metrics.NewNoop()
	return &services{
		auth:    service.NewAuthService(users, testSecret, time.Hour, recorder),
		habits:  service.NewHabitService(habits, entries, recorder),
		summary: service.NewSummaryService(entries),
		entries: entries,
	}, cleanup
}
