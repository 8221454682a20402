// Package telemetry keeps save and load counters for a store.
package telemetry

import (
	"sync"
	"time"
)

// Counters is a point-in-time copy of the recorder state.
type Counters struct {
	Saves     int64
	Loads     int64
	SaveTime  time.Duration
	LoadTime  time.Duration
	LastSave  time.Time
	LastLoad  time.Time
	SaveFails int64
	LoadFails int64
}

// AvgSave returns the mean duration of a save, or zero.
func (c Counters) AvgSave() time.Duration {
	if c.Saves == 0 {
		return 0
	}
	return c.SaveTime / time.Duration(c.Saves)
}

// AvgLoad returns the mean duration of a load, or zero.
func (c Counters) AvgLoad() time.Duration {
	if c.Loads == 0 {
		return 0
	}
	return c.LoadTime / time.Duration(c.Loads)
}

// Recorder accumulates counters. The zero value is ready to use.
type Recorder struct {
	mu  sync.Mutex
	c   Counters
	now func() time.Time
}

// NewRecorder returns a Recorder reading wall time from now (nil means
// time.Now).
func NewRecorder(now func() time.Time) *Recorder {
	return &Recorder{now: now}
}

// Save starts timing a save. Call the returned func with the outcome.
func (r *Recorder) Save() func(err error) {
	start := r.clock()
	return func(err error) {
		d := r.clock().Sub(start)
		r.mu.Lock()
		defer r.mu.Unlock()
		if err != nil {
			r.c.SaveFails++
			return
		}
		r.c.Saves++
		r.c.SaveTime += d
		r.c.LastSave = start
	}
}

// Load starts timing a load. Call the returned func with the outcome.
func (r *Recorder) Load() func(err error) {
	start := r.clock()
	return func(err error) {
		d := r.clock().Sub(start)
		r.mu.Lock()
		defer r.mu.Unlock()
		if err != nil {
			r.c.LoadFails++
			return
		}
		r.c.Loads++
		r.c.LoadTime += d
		r.c.LastLoad = start
	}
}

// Snapshot returns a copy of the counters.
func (r *Recorder) Snapshot() Counters {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.c
}

// Reset zeroes the counters.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.c = Counters{}
	r.mu.Unlock()
}

func (r *Recorder) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}
