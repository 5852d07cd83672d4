package departures

import "time"

// SetClock replaces the clock used for live gaps and today's date.
func SetClock(s *Service, now func() time.Time) {
	s.now = now
}
