package loans

import "time"

// EventKind identifies what happened to a loan.
type EventKind string

const (
	EventBorrowed  EventKind = "loan_borrowed"
	EventReturned  EventKind = "loan_returned"
	EventReclaimed EventKind = "loan_reclaimed"
	EventOverdue   EventKind = "loan_overdue"
)

// Event carries everything a subscriber needs to build a user-facing message
// without touching the database again.
type Event struct {
	Kind      EventKind
	LoanID    uint
	UserID    uint
	UserEmail string
	BookID    uint
	BookTitle string
	DueAt     time.Time
	Fine      int64
	DaysLate  int
	At        time.Time
}

// Notifier receives loan events after the surrounding transaction commits.
// Implementations must not block the caller for long; queue-backed ones
// should hand the event off and return.
type Notifier interface {
	LoanEvent(event Event)
}
