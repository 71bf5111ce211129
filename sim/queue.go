// Implements the WaitQueue, which holds processes waiting for a resource.

package sim

import (
	"fmt"
	"strings"
)

// waiter is a suspended Request: who asked and what to resume.
type waiter struct {
	proc  *Process
	since float64
	next  func()
}

// WaitQueue is a FIFO queue of processes waiting for a resource slot.
type WaitQueue struct {
	queue []waiter
}

// Enqueue adds a waiter to the back of the queue.
func (wq *WaitQueue) Enqueue(w waiter) {
	wq.queue = append(wq.queue, w)
}

// Dequeue removes and returns the head of the queue.
func (wq *WaitQueue) Dequeue() (waiter, bool) {
	if len(wq.queue) == 0 {
		return waiter{}, false
	}
	head := wq.queue[0]
	wq.queue[0] = waiter{}
	wq.queue = wq.queue[1:]
	return head, true
}

// Len returns the number of waiting processes.
func (wq *WaitQueue) Len() int {
	return len(wq.queue)
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, w := range wq.queue {
		sb.WriteString(fmt.Sprint(w.proc))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
