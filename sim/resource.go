// Implements the capacity-limited Resource and its FIFO wait list.
// Grants and releases are driven by the Engine; a Resource is never mutated
// outside the event loop.

package sim

import (
	"fmt"
	"strings"
)

// Resource is a server with fixed capacity and a FIFO wait list of blocked
// processes. A process that finds the resource full is queued and granted in
// arrival order when earlier holders release.
type Resource struct {
	name     string
	capacity int
	held     int
	waiters  []*Proc // FIFO: head is the oldest waiter

	grants   int
	releases int

	// busy-time integral for utilization
	busyArea   float64
	lastChange float64
}

// NewResource creates a resource with the given capacity.
// Capacity is fixed for the lifetime of the resource.
func NewResource(name string, capacity int) (*Resource, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("resource %q: capacity must be >= 1, got %d", name, capacity)
	}
	return &Resource{name: name, capacity: capacity}, nil
}

func (r *Resource) Name() string  { return r.name }
func (r *Resource) Capacity() int { return r.capacity }

// Held returns the number of units currently granted.
func (r *Resource) Held() int { return r.held }

// QueueLen returns the number of processes blocked on the resource.
func (r *Resource) QueueLen() int { return len(r.waiters) }

// Grants returns the total number of grants made so far.
func (r *Resource) Grants() int { return r.grants }

// Releases returns the total number of releases made so far.
func (r *Resource) Releases() int { return r.releases }

// Utilization returns the time-averaged fraction of capacity in use over [0, now].
func (r *Resource) Utilization(now float64) float64 {
	if now <= 0 {
		return 0
	}
	area := r.busyArea + float64(r.held)*(now-r.lastChange)
	return area / (now * float64(r.capacity))
}

func (r *Resource) available() bool {
	return r.held < r.capacity
}

func (r *Resource) account(now float64) {
	r.busyArea += float64(r.held) * (now - r.lastChange)
	r.lastChange = now
}

// acquire takes one unit. Callers must have checked available() or popped a
// waiter after a release; anything else is an engine defect.
func (r *Resource) acquire(now float64) error {
	if r.held >= r.capacity {
		return fmt.Errorf("%w: %s held=%d capacity=%d on grant at t=%.4f", ErrCapacityViolation, r.name, r.held, r.capacity, now)
	}
	r.account(now)
	r.held++
	r.grants++
	return nil
}

func (r *Resource) release(now float64) error {
	if r.held <= 0 {
		return fmt.Errorf("%w: %s held=%d on release at t=%.4f", ErrCapacityViolation, r.name, r.held, now)
	}
	r.account(now)
	r.held--
	r.releases++
	return nil
}

// enqueue appends p to the back of the wait list.
func (r *Resource) enqueue(p *Proc) {
	if p == nil {
		panic("Resource.enqueue: p must not be nil")
	}
	for _, w := range r.waiters {
		if w == p {
			panic(fmt.Sprintf("Resource.enqueue: %s already waiting on %s", p, r.name))
		}
	}
	r.waiters = append(r.waiters, p)
}

// dequeue removes and returns the oldest waiter, or nil if none.
func (r *Resource) dequeue() *Proc {
	if len(r.waiters) == 0 {
		return nil
	}
	head := r.waiters[0]
	r.waiters[0] = nil
	r.waiters = r.waiters[1:]
	return head
}

// remove drops p from the wait list, preserving the order of the others.
func (r *Resource) remove(p *Proc) bool {
	for i, w := range r.waiters {
		if w == p {
			r.waiters = append(r.waiters[:i], r.waiters[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Resource) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(%d/%d) [", r.name, r.held, r.capacity)
	for i, w := range r.waiters {
		sb.WriteString(w.String())
		if i < len(r.waiters)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
