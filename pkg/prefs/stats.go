package prefs

import "time"

// Stats is a snapshot of store activity and size.
type Stats struct {
	Saves         int64
	Loads         int64
	SaveFailures  int64
	LoadFailures  int64
	TotalSaveTime time.Duration
	TotalLoadTime time.Duration
	AvgSaveTime   time.Duration
	AvgLoadTime   time.Duration

	ActiveProfile     string
	ActiveProfileKeys int
	GlobalKeys        int
	Profiles          int
}

// Stats returns counters accumulated since Open (or the last ResetStats)
// together with current item counts. Counting the active profile's keys
// reads its file, and that read is not itself counted.
func (s *Store) Stats() Stats {
	c := s.stats.Snapshot()
	active := 0
	if rec, _, err := s.records.LoadRecord(s.layout.ProfilePath(s.profiles.Active())); err == nil {
		active = len(rec)
	}

	return Stats{
		Saves:             c.Saves,
		Loads:             c.Loads,
		SaveFailures:      c.SaveFails,
		LoadFailures:      c.LoadFails,
		TotalSaveTime:     c.SaveTime,
		TotalLoadTime:     c.LoadTime,
		AvgSaveTime:       c.AvgSave(),
		AvgLoadTime:       c.AvgLoad(),
		ActiveProfile:     s.profiles.Active(),
		ActiveProfileKeys: active,
		GlobalKeys:        len(s.global),
		Profiles:          s.profiles.Count(),
	}
}

// ResetStats zeroes the save and load counters.
func (s *Store) ResetStats() { s.stats.Reset() }
