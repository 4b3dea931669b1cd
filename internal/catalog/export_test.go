package catalog

import "time"

// SetClock replaces the store's time source.
func (s *Store) SetClock(now func() time.Time) { s.now = now }
