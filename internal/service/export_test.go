package service

import "time"

func (s *HabitService) SetNow(now func() time.Time) {
	s.now = now
}

func (s *SummaryService) SetNow(now func() time.Time) {
	s.now = now
}
