// Package messages provides the read-once queue of user-facing error messages
package messages

import (
	"fmt"
	"sync"

	"github.com/modkeeper/modkeeper/pkg/types"
)

// DefaultCapacity is used when a non-positive capacity is requested
const DefaultCapacity = 64

// Queue is a bounded append/drain buffer. When full, the oldest message is dropped.
type Queue struct {
	mu       sync.Mutex
	capacity int
	items    []string
	dropped  int
}

// NewQueue creates a queue holding at most capacity messages
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{capacity: capacity}
}

// Add appends "<package>: <message>"
func (q *Queue) Add(pkg types.PackageIdentifier, message string) {
	q.push(fmt.Sprintf("%s: %s", pkg, message))
}

// AddError appends the user-facing form of a lifecycle error
func (q *Queue) AddError(err *types.LifecycleError) {
	if err == nil {
		return
	}
	q.push(err.UserMessage())
}

func (q *Queue) push(msg string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == q.capacity {
		q.items = q.items[1:]
		q.dropped++
	}
	q.items = append(q.items, msg)
}

// Drain returns all queued messages in order and empties the queue
func (q *Queue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued messages
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped returns how many messages were evicted because the queue was full
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
