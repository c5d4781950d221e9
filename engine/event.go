package engine

// Event is an immutable, value-hashable record carrying a logical time and a
// typed payload. Concrete event types are expected to be plain structs
// embedding BaseEvent by value, with comparable payload fields only (no
// slices, maps, or funcs) — two events with an identical field tuple must
// compare equal and hash identically, which for a Go struct value falls out
// for free as long as every field is itself comparable.
//
// Event values must never be mutated after construction; nothing in this
// package enforces that beyond convention, since Go has no frozen-record
// primitive, but no constructor here ever hands back a pointer that a
// receiver could use to mutate shared state.
type Event interface {
	// Timestamp returns t, the step at which the event is scheduled for
	// delivery.
	Timestamp() int64
	// Name returns the concrete variant's declared identifier, used as the
	// event.name the engine keys the no-ack cache and ledger on.
	Name() string
}

// BaseEvent is embedded by every concrete Event to supply Timestamp().
type BaseEvent struct {
	T int64
}

// Timestamp implements Event.
func (e BaseEvent) Timestamp() int64 { return e.T }

// SimulationStarted is emitted once by the internal bootstrap process at
// t=0, before the first step. Exactly one is ever delivered, and it is
// always the first event of a run.
type SimulationStarted struct {
	BaseEvent
}

// Name implements Event.
func (SimulationStarted) Name() string { return "SimulationStarted" }

// ProcessUnregistered removes its own emitter from the registry when
// popped from the queue, before broadcast proceeds for that batch. It is
// still broadcast to every other live process like any other event.
type ProcessUnregistered struct {
	BaseEvent
}

// Name implements Event.
func (ProcessUnregistered) Name() string { return "ProcessUnregistered" }

// SimulationEnded is broadcast once, after the run loop's last successful
// step, to every process still registered. It follows the same dispatch
// rules as any other event (concurrent notify, timeout, result recording)
// but is never itself re-enqueued — Run emits it directly and does not
// wait for a further step to drain it into a batch.
//
// This resolves the Open Question in the kernel's design notes: some
// source paths emit a simulation-end event and some don't; stepsim always
// does, since downstream visualisation and ledger consumers benefit from a
// clean terminal marker.
type SimulationEnded struct {
	BaseEvent
}

// Name implements Event.
func (SimulationEnded) Name() string { return "SimulationEnded" }
