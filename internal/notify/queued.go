package notify

import (
	"log"

	"github.com/mikestefanello/backlite"

	"github.com/alwznx/pustaka/internal/loans"
	"github.com/alwznx/pustaka/internal/tasks"
)

// Queue is the enqueue side of the task client.
type Queue interface {
	Add(items ...backlite.Task) *backlite.TaskAddOp
}

// QueuedNotifier hands delivery to the task queue so a slow or locked
// notifications table cannot stall the request that triggered the event.
// The message text is rendered at enqueue time.
type QueuedNotifier struct {
	queue Queue
}

func NewQueuedNotifier(queue Queue) *QueuedNotifier {
	return &QueuedNotifier{queue: queue}
}

func (n *QueuedNotifier) LoanEvent(event loans.Event) {
	task := tasks.DeliverNotificationTask{
		UserID:  event.UserID,
		Message: MessageFor(event),
	}
	if _, err := n.queue.Add(task).Save(); err != nil {
		log.Printf("Failed to enqueue %s notification for user %d: %v", event.Kind, event.UserID, err)
	}
}
