// Package engine is the discrete-event simulation kernel for stepsim.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - event.go: Event contract, the built-in SimulationStarted/ProcessUnregistered/SimulationEnded events
//   - process.go: Process contract, NotificationResponse, the internal bootstrap process
//   - queue.go: the (t, seq)-ordered priority queue
//   - engine.go: registration, AddEvent, the step/run loop, the concurrent dispatch matrix
//
// # Architecture
//
// Engine owns the queue, the logical clock, the process registry, and the
// optional result ledger / event history / no-ack cache. Processes are
// independent units of behaviour that react to events via Notify and may
// emit future events through the callback injected at registration; the
// engine never reaches into a process's internal state.
//
// # Concurrency
//
// Within one step, every live process is notified of every event in the
// batch concurrently; across steps, execution is strictly sequential. Two
// events delivered to the same process in the same batch may complete in
// either order — processes that need in-order handling must serialise their
// own Notify, e.g. with Serialize.
package engine
