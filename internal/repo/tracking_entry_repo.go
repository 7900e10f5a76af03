package repo

import (
	"context"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/greenhabit/internal/db"
	"github.com/xxxsen/greenhabit/internal/model"
	"github.com/xxxsen/greenhabit/internal/pkg/dbutil"
)

const summaryQuery = "SELECT h.id AS habit_id, h.name AS habit_name, " +
	"COALESCE(SUM(CASE WHEN e.tracked_at >= ? THEN 1 ELSE 0 END), 0) AS weekly_count, " +
	"COALESCE(SUM(CASE WHEN e.tracked_at >= ? THEN 1 ELSE 0 END), 0) AS monthly_count " +
	"FROM habits h " +
	"LEFT JOIN tracking_entries e ON e.habit_id = h.id AND e.user_id = h.user_id " +
	"WHERE h.user_id = ? " +
	"GROUP BY h.id, h.name, h.ctime " +
	"ORDER BY h.ctime ASC, h.id ASC"

type TrackingEntryRepo struct {
	db *db.Conn
	x  *sqlx.DB
}

func NewTrackingEntryRepo(conn *db.Conn) *TrackingEntryRepo {
	return &TrackingEntryRepo{db: conn, x: sqlx.NewDb(conn.DB, string(conn.Dialect))}
}

func (r *TrackingEntryRepo) Create(ctx context.Context, entry *model.TrackingEntry) error {
	data := map[string]interface{}{
		"id":         entry.ID,
		"habit_id":   entry.HabitID,
		"user_id":    entry.UserID,
		"tracked_at": entry.TrackedAt,
	}
	sqlStr, args, err := builder.BuildInsert("tracking_entries", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(r.db.Dialect, sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// SummarizeByUser returns one row per habit owned by userID, including habits
// without entries, with entry counts since weekSince and monthSince.
func (r *TrackingEntryRepo) SummarizeByUser(ctx context.Context, userID string, weekSince, monthSince int64) ([]model.HabitSummary, error) {
	sqlStr, args := dbutil.Finalize(r.db.Dialect, summaryQuery, []interface{}{weekSince, monthSince, userID})
	items := make([]model.HabitSummary, 0)
	if err := r.x.SelectContext(ctx, &items, sqlStr, args...); err != nil {
		return nil, err
	}
	return items, nil
}
