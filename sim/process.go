// Defines the Process contract and the wait conditions a process suspends on.
// A process is an explicit state machine: every Resume call runs it up to its
// next suspension point and returns the Wait that must be satisfied before the
// engine resumes it again.

package sim

import "fmt"

// Process is a suspendable unit of execution driven by the Engine.
// Resume is called once per wake-up; it must not block.
type Process interface {
	Resume(p *Proc, wake Wake) (Wait, error)
}

// ProcessFunc adapts a plain function to the Process interface.
type ProcessFunc func(p *Proc, wake Wake) (Wait, error)

// Resume calls f(p, wake).
func (f ProcessFunc) Resume(p *Proc, wake Wake) (Wait, error) {
	return f(p, wake)
}

// ProcessState is the suspension state of a process as seen by the engine.
type ProcessState int

const (
	StateRunning ProcessState = iota
	StateWaitingOnTimeout
	StateWaitingOnResource
	StateTerminated
)

func (s ProcessState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateWaitingOnTimeout:
		return "waiting_on_timeout"
	case StateWaitingOnResource:
		return "waiting_on_resource"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// WaitKind selects the suspension condition carried by a Wait.
type WaitKind int

const (
	WaitTimeout WaitKind = iota
	WaitAcquire
	WaitDone
)

// Wait is the condition a process suspends on.
type Wait struct {
	Kind     WaitKind
	Delay    float64   // WaitTimeout only
	Resource *Resource // WaitAcquire only
}

// Timeout suspends the process for d minutes of simulated time.
func Timeout(d float64) Wait {
	return Wait{Kind: WaitTimeout, Delay: d}
}

// Acquire suspends the process until r grants it one unit of capacity.
func Acquire(r *Resource) Wait {
	return Wait{Kind: WaitAcquire, Resource: r}
}

// Done terminates the process. Any resource it still holds is released.
func Done() Wait {
	return Wait{Kind: WaitDone}
}

// PID identifies a process within one engine.
type PID int

// Proc is the engine's handle on a running process. It is passed to every
// Resume call and is the process's only way to interact with the engine.
type Proc struct {
	engine *Engine
	pid    PID
	name   string
	body   Process
	state  ProcessState

	holding   []*Resource // one entry per granted unit
	waitingOn *Resource
}

func (p *Proc) PID() PID            { return p.pid }
func (p *Proc) Name() string        { return p.name }
func (p *Proc) State() ProcessState { return p.state }

// Now returns the engine's current simulation time.
func (p *Proc) Now() float64 {
	return p.engine.Now()
}

// Spawn starts a child process at the current simulation time.
func (p *Proc) Spawn(name string, body Process) (*Proc, error) {
	return p.engine.Spawn(name, body)
}

// Release hands one unit of r back to the engine.
func (p *Proc) Release(r *Resource) error {
	return p.engine.Release(p, r)
}

// Holds reports whether the process currently holds at least one unit of r.
func (p *Proc) Holds(r *Resource) bool {
	return p.holdingIndex(r) >= 0
}

func (p *Proc) holdingIndex(r *Resource) int {
	for i, h := range p.holding {
		if h == r {
			return i
		}
	}
	return -1
}

func (p *Proc) String() string {
	return fmt.Sprintf("%s#%d", p.name, p.pid)
}
