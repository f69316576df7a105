// Package interactions records who-did-what-to-whom events for the
// reputation pipeline. Recording happens after the triggering transaction
// commits and is best-effort: a failed or dropped event never rolls back
// or fails the operation that produced it.
package interactions

import (
	"log"
	"sync"

	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/models"
)

// Event describes one interaction to append.
type Event struct {
	UserID     int
	Action     string
	TargetID   int
	TargetType string
	AuthorID   int
}

// Notifier buffers events on a channel and appends them from a single
// background worker.
type Notifier struct {
	db     *gorm.DB
	events chan Event
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

const defaultBuffer = 256

func NewNotifier(db *gorm.DB) *Notifier {
	n := &Notifier{
		db:     db,
		events: make(chan Event, defaultBuffer),
	}
	n.wg.Add(1)
	go n.run()
	return n
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for e := range n.events {
		row := models.Interaction{
			UserID:     e.UserID,
			Action:     e.Action,
			TargetID:   e.TargetID,
			TargetType: e.TargetType,
			AuthorID:   e.AuthorID,
		}
		if err := n.db.Create(&row).Error; err != nil {
			log.Printf("interactions: failed to record %s on %s %d: %v",
				e.Action, e.TargetType, e.TargetID, err)
		}
	}
}

// Record enqueues an event without blocking. When the buffer is full the
// event is dropped; reputation hints are not worth stalling a request.
func (n *Notifier) Record(e Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	select {
	case n.events <- e:
	default:
		log.Printf("interactions: buffer full, dropping %s on %s %d",
			e.Action, e.TargetType, e.TargetID)
	}
}

// Close drains any queued events and stops the worker.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.events)
	n.mu.Unlock()

	n.wg.Wait()
}
