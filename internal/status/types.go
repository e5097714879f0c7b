// Package status tracks the progress of background jobs for the admin API.
package status

import "time"

// JobPhase represents the current phase of a background job
type JobPhase string

const (
	// JobPhasePending means the job has not run yet
	JobPhasePending JobPhase = "Pending"

	// JobPhaseRunning means a run is currently in progress
	JobPhaseRunning JobPhase = "Running"

	// JobPhaseComplete means the last run succeeded
	JobPhaseComplete JobPhase = "Complete"

	// JobPhaseFailed means the last run failed
	JobPhaseFailed JobPhase = "Failed"
)

// JobStatus represents the current state of a background job
type JobStatus struct {
	// Phase represents the current phase
	Phase JobPhase `json:"phase"`

	// Message provides additional information about the last run
	Message string `json:"message,omitempty"`

	// LastRun is the timestamp of the last attempt
	LastRun *time.Time `json:"lastRun,omitempty"`

	// LastSuccess is the timestamp of the last successful run
	LastSuccess *time.Time `json:"lastSuccess,omitempty"`

	// AttemptCount is the number of failed attempts since the last success
	AttemptCount int `json:"attemptCount"`
}
