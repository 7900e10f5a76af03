package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/greenhabit/internal/db"
	"github.com/xxxsen/greenhabit/internal/model"
	"github.com/xxxsen/greenhabit/internal/pkg/dbutil"
	appErr "github.com/xxxsen/greenhabit/internal/pkg/errors"
)

var habitFields = []string{"id", "user_id", "name", "description", "ctime"}

type HabitRepo struct {
	db *db.Conn
}

func NewHabitRepo(conn *db.Conn) *HabitRepo {
	return &HabitRepo{db: conn}
}

func (r *HabitRepo) Create(ctx context.Context, habit *model.Habit) error {
	data := map[string]interface{}{
		"id":          habit.ID,
		"user_id":     habit.UserID,
		"name":        habit.Name,
		"description": toNullString(habit.Description),
		"ctime":       habit.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("habits", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(r.db.Dialect, sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

// ListByUser returns the user's habits oldest first. ctime has second
// precision, so habits created within the same second keep insert order.
func (r *HabitRepo) ListByUser(ctx context.Context, userID string) ([]model.Habit, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"_orderby": "ctime asc, " + r.db.Dialect.InsertSeq() + " asc",
	}
	sqlStr, args, err := builder.BuildSelect("habits", where, habitFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(r.db.Dialect, sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	habits := make([]model.Habit, 0)
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *habit)
	}
	return habits, rows.Err()
}

// GetByID only matches habits owned by userID; anything else is ErrNotFound.
func (r *HabitRepo) GetByID(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	where := map[string]interface{}{"id": habitID, "user_id": userID}
	sqlStr, args, err := builder.BuildSelect("habits", where, habitFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(r.db.Dialect, sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, appErr.ErrNotFound
	}
	return scanHabit(rows)
}

func scanHabit(rows *sql.Rows) (*model.Habit, error) {
	var habit model.Habit
	var description sql.NullString
	if err := rows.Scan(&habit.ID, &habit.UserID, &habit.Name, &description, &habit.Ctime); err != nil {
		return nil, err
	}
	if description.Valid {
		value := description.String
		habit.Description = &value
	}
	return &habit, nil
}

func toNullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
