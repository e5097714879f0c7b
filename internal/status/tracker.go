package status

import (
	"maps"
	"sync"
	"time"
)

// Tracker keeps the status of every named job in memory. It is safe for
// concurrent use; a nil Tracker ignores updates.
type Tracker struct {
	mu   sync.RWMutex
	jobs map[string]*JobStatus
	now  func() time.Time
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		jobs: make(map[string]*JobStatus),
		now:  time.Now,
	}
}

// Register makes a job visible before its first run
func (t *Tracker) Register(name string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.jobs[name]; !ok {
		t.jobs[name] = &JobStatus{Phase: JobPhasePending}
	}
}

// Begin marks a run as started
func (t *Tracker) Begin(name string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	st := t.get(name)
	st.Phase = JobPhaseRunning
	st.Message = "Run in progress"
	st.LastRun = &now
}

// Finish records the outcome of a run. A nil err resets the attempt count.
func (t *Tracker) Finish(name string, err error) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	st := t.get(name)
	if st.LastRun == nil {
		st.LastRun = &now
	}
	if err != nil {
		st.Phase = JobPhaseFailed
		st.Message = err.Error()
		st.AttemptCount++
		return
	}
	st.Phase = JobPhaseComplete
	st.Message = "Run completed successfully"
	st.LastSuccess = &now
	st.AttemptCount = 0
}

// Get returns a copy of the status of one job
func (t *Tracker) Get(name string) (JobStatus, bool) {
	if t == nil {
		return JobStatus{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	st, ok := t.jobs[name]
	if !ok {
		return JobStatus{}, false
	}
	return *st, true
}

// Snapshot returns a copy of all job statuses
func (t *Tracker) Snapshot() map[string]JobStatus {
	result := make(map[string]JobStatus)
	if t == nil {
		return result
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	for name, st := range maps.All(t.jobs) {
		result[name] = *st
	}
	return result
}

// get must be called with mu held
func (t *Tracker) get(name string) *JobStatus {
	st, ok := t.jobs[name]
	if !ok {
		st = &JobStatus{Phase: JobPhasePending}
		t.jobs[name] = st
	}
	return st
}
