// Package notify turns loan events into notification rows. The loan service
// only knows the Notifier interface; the wiring decides whether delivery is
// an inline write or a queued task.
package notify

import (
	"log"

	"github.com/alwznx/pustaka/internal/loans"
)

// Store is the subset of the notifications repository that delivery needs.
type Store interface {
	CreateNotification(userID uint, message string) error
}

// DirectNotifier writes the notification in the caller's goroutine. Used in
// tests and in setups that run without a task queue.
type DirectNotifier struct {
	store Store
}

func NewDirectNotifier(store Store) *DirectNotifier {
	return &DirectNotifier{store: store}
}

// LoanEvent delivers the notification immediately. Delivery failures are
// logged and swallowed: a lost notification must never fail the loan
// mutation that already committed.
func (n *DirectNotifier) LoanEvent(event loans.Event) {
	if err := n.store.CreateNotification(event.UserID, MessageFor(event)); err != nil {
		log.Printf("Failed to deliver %s notification to user %d: %v", event.Kind, event.UserID, err)
	}
}
