// Package sim provides the discrete-event simulation engine behind clinic-sim.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - event.go: Event and the (time, insertion) ordered EventQueue
//   - process.go: the Process contract, wait conditions and the Proc handle
//   - engine.go: the clock, Spawn/Schedule, and the RunUntil event loop
//   - resource.go: capacity-limited Resource with a FIFO wait list
//
// # Execution model
//
// Everything runs on one goroutine. A process is an explicit state machine:
// the engine calls Resume, the process runs to its next suspension point and
// returns a Wait (Timeout, Acquire or Done). The engine turns that Wait into
// a future event or a place on a resource's wait list, and resumes the
// process when the condition is satisfied. Equal-time events fire in the
// order they were scheduled, so a run is reproducible for a fixed seed.
//
// Resources granted to a process are tracked by the engine and released when
// the process terminates, whether it returned Done, an error, or panicked.
//
// # Sub-packages
//   - sim/clinic/: patient activities, arrival generators, replications and the experiment driver
//   - sim/results/: CSV result sink and reader, summary statistics, scatter plot
package sim
