package model

type HabitSummary struct {
	HabitID      string `json:"-" db:"habit_id"`
	HabitName    string `json:"habit_name" db:"habit_name"`
	WeeklyCount  int64  `json:"weekly_count" db:"weekly_count"`
	MonthlyCount int64  `json:"monthly_count" db:"monthly_count"`
}
