// sim/engine.go
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Stats counts engine activity over the life of one Engine.
type Stats struct {
	Dispatched int // events popped and delivered
	Spawned    int // processes started
	Terminated int // processes that reached Terminated, including failures
	Failed     int // processes terminated by an error or panic
}

// Engine holds the simulation clock, the pending-event queue and the set of
// live processes. It is single-threaded: all process code runs inside
// RunUntil on the caller's goroutine, so the engine is not safe for
// concurrent use.
type Engine struct {
	now     float64
	queue   *EventQueue
	seq     uint64
	nextPID PID
	procs   map[PID]*Proc
	stats   Stats
}

// NewEngine creates an engine with the clock at 0 and no pending events.
func NewEngine() *Engine {
	return &Engine{
		queue: NewEventQueue(),
		procs: make(map[PID]*Proc),
	}
}

// Now returns the current simulation time.
func (e *Engine) Now() float64 { return e.now }

// Pending returns the number of scheduled events not yet dispatched.
func (e *Engine) Pending() int { return e.queue.Len() }

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats { return e.stats }

// Live returns the number of processes that have not terminated.
func (e *Engine) Live() int { return len(e.procs) }

// Spawn registers body as a new process and schedules its first resumption
// at the current time.
func (e *Engine) Spawn(name string, body Process) (*Proc, error) {
	if body == nil {
		panic("Engine.Spawn: body must not be nil")
	}
	e.nextPID++
	p := &Proc{
		engine: e,
		pid:    e.nextPID,
		name:   name,
		body:   body,
		state:  StateRunning,
	}
	if err := e.Schedule(p, e.now, WakeStart); err != nil {
		return nil, err
	}
	e.procs[p.pid] = p
	e.stats.Spawned++
	logrus.Debugf("[t=%10.4f] spawn %s", e.now, p)
	return p, nil
}

// Schedule inserts a resumption of p at time at.
// Scheduling before the current clock is a programming error.
func (e *Engine) Schedule(p *Proc, at float64, wake Wake) error {
	if math.IsNaN(at) || at < e.now {
		return fmt.Errorf("%w: %s at t=%.4f, now t=%.4f", ErrInvalidScheduleTime, p, at, e.now)
	}
	e.seq++
	e.queue.Schedule(&Event{Time: at, Seq: e.seq, Proc: p, Wake: wake})
	return nil
}

// RunUntil dispatches every event with time <= until, in (time, insertion)
// order. On return the clock is until if later events remain pending, or the
// time of the last dispatched event if the queue drained first. Events after
// until are left in the queue and are never run by this call.
//
// On an engine that has not dispatched any event yet, until == Now() is an
// empty window: nothing runs, so a zero-length horizon starts no process.
// Once the clock has started, events pending at exactly Now() are dispatched
// like any other event <= until. until < Now() returns
// ErrInvalidScheduleTime. An engine fault stops the run immediately; the
// clock then holds the time of the failing event.
func (e *Engine) RunUntil(ctx context.Context, until float64) error {
	if math.IsNaN(until) || until < e.now {
		return fmt.Errorf("%w: run until t=%.4f, now t=%.4f", ErrInvalidScheduleTime, until, e.now)
	}
	if until == e.now && e.stats.Dispatched == 0 {
		return nil
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := e.queue.Peek()
		if next == nil {
			logrus.Debugf("[t=%10.4f] event queue drained", e.now)
			return nil
		}
		if next.Time > until {
			e.now = until
			logrus.Debugf("[t=%10.4f] horizon reached, %d events pending", e.now, e.queue.Len())
			return nil
		}
		ev := e.queue.PopNext()
		e.now = ev.Time
		e.stats.Dispatched++
		if err := e.dispatch(ev); err != nil {
			return err
		}
	}
}

// Release hands one unit of r held by p back, granting the oldest waiter.
func (e *Engine) Release(p *Proc, r *Resource) error {
	idx := p.holdingIndex(r)
	if idx < 0 {
		return fmt.Errorf("%w: %s does not hold %s", ErrNotHeld, p, r.Name())
	}
	p.holding = append(p.holding[:idx], p.holding[idx+1:]...)
	if err := r.release(e.now); err != nil {
		return err
	}
	logrus.Debugf("[t=%10.4f] release %s by %s", e.now, r, p)
	if next := r.dequeue(); next != nil {
		return e.grant(next, r)
	}
	return nil
}

func (e *Engine) dispatch(ev *Event) error {
	p := ev.Proc
	if p.state == StateTerminated {
		return nil
	}
	logrus.Debugf("[t=%10.4f] resume %s (%s)", e.now, p, ev.Wake)
	p.state = StateRunning
	wait, err := e.resume(p, ev.Wake)
	if err != nil {
		if isEngineFault(err) {
			return err
		}
		return e.fail(p, err)
	}
	return e.suspend(p, wait)
}

// resume runs one step of the process, turning a panic into an error so the
// process can be torn down like any other abnormal termination.
func (e *Engine) resume(p *Proc, wake Wake) (w Wait, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrProcessPanicked, p, r)
		}
	}()
	return p.body.Resume(p, wake)
}

func (e *Engine) suspend(p *Proc, w Wait) error {
	switch w.Kind {
	case WaitTimeout:
		p.state = StateWaitingOnTimeout
		return e.Schedule(p, e.now+w.Delay, WakeTimeout)
	case WaitAcquire:
		r := w.Resource
		if r == nil {
			return e.fail(p, fmt.Errorf("%s: acquire on nil resource", p))
		}
		p.state = StateWaitingOnResource
		if r.available() {
			return e.grant(p, r)
		}
		p.waitingOn = r
		r.enqueue(p)
		logrus.Debugf("[t=%10.4f] queue %s on %s", e.now, p, r)
		return nil
	case WaitDone:
		return e.terminate(p)
	default:
		return e.fail(p, fmt.Errorf("%s: unknown wait kind %d", p, w.Kind))
	}
}

func (e *Engine) grant(p *Proc, r *Resource) error {
	if err := r.acquire(e.now); err != nil {
		return err
	}
	p.waitingOn = nil
	p.holding = append(p.holding, r)
	logrus.Debugf("[t=%10.4f] grant %s to %s", e.now, r, p)
	return e.Schedule(p, e.now, WakeGranted)
}

// terminate releases everything p still holds and leaves any wait list, so a
// finished or failed process can never starve a resource.
func (e *Engine) terminate(p *Proc) error {
	if p.waitingOn != nil {
		p.waitingOn.remove(p)
		p.waitingOn = nil
	}
	for len(p.holding) > 0 {
		r := p.holding[len(p.holding)-1]
		if err := e.Release(p, r); err != nil {
			return err
		}
	}
	p.state = StateTerminated
	delete(e.procs, p.pid)
	e.stats.Terminated++
	logrus.Debugf("[t=%10.4f] terminate %s", e.now, p)
	return nil
}

func (e *Engine) fail(p *Proc, cause error) error {
	logrus.Warnf("[t=%10.4f] process %s failed: %v", e.now, p, cause)
	e.stats.Failed++
	return e.terminate(p)
}
