package sync

// Sync failure reasons
const (
	// ReasonRosterUnavailable means the roster source could not be queried
	ReasonRosterUnavailable = "roster-unavailable"

	// ReasonStoreFailure means reading or writing tracker state failed
	ReasonStoreFailure = "store-failure"

	// ReasonNotifyFailure means transitions were applied but their notifications could not be sent
	ReasonNotifyFailure = "notify-failure"
)

// Error represents a structured sync failure for one tenant
type Error struct {
	Err     error
	Message string
	Reason  string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
