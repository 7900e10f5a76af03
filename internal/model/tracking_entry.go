package model

// TrackingEntry records that a habit was performed once.
type TrackingEntry struct {
	ID        string `json:"id"`
	HabitID   string `json:"habit_id"`
	UserID    string `json:"user_id"`
	TrackedAt int64  `json:"tracked_at"`
}
