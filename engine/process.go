package engine

import (
	"context"
	"fmt"
)

// NotificationResponse is the three-valued acknowledgement a process
// returns from Notify.
type NotificationResponse int

const (
	// ACK means the event was handled and reacted to.
	ACK NotificationResponse = iota + 1
	// ACKButIgnored means the event was decoded but not applicable (wrong
	// identifier, stale, etc).
	ACKButIgnored
	// NoAck means the event was not recognised at all. The no-ack cache
	// keys off this value.
	NoAck
)

func (r NotificationResponse) String() string {
	switch r {
	case ACK:
		return "ACK"
	case ACKButIgnored:
		return "ACK_BUT_IGNORED"
	case NoAck:
		return "NO_ACK"
	default:
		return fmt.Sprintf("NotificationResponse(%d)", int(r))
	}
}

func (r NotificationResponse) valid() bool {
	return r == ACK || r == ACKButIgnored || r == NoAck
}

// AddEventCallback is injected into a process at registration, scoped to
// that process as the emitter. Process.AddEvent forwards to it.
type AddEventCallback func(ctx context.Context, event Event) error

// Process is the unit of behaviour in a simulation. Concrete processes
// embed BaseProcess for the identity/callback plumbing and implement
// Notify and ProcessName themselves.
type Process interface {
	// Notify reacts to event and returns how it was handled. It may be
	// invoked concurrently with other Notify calls on this same process
	// for other events in the same batch — see the package doc on
	// concurrency — and may call AddEvent to emit future events.
	Notify(ctx context.Context, event Event) (NotificationResponse, error)

	// ProcessName returns the concrete variant's declared identifier.
	ProcessName() string

	// InstanceIdentifier returns this process's stable identity within a
	// running engine. The zero value "" is the "unassigned" sentinel: the
	// engine mints a random one at registration. Override to return a
	// stable string to opt out of random assignment.
	InstanceIdentifier() string

	// SetInstanceIdentifier is called by the engine at registration when
	// InstanceIdentifier() returned the unassigned sentinel.
	SetInstanceIdentifier(id string)

	// SetAddEventCallback is called once by the engine at registration.
	SetAddEventCallback(cb AddEventCallback)

	// String returns the stable textual identity used by the ledger and
	// no-ack cache, e.g. "process: Foo, instance: bar". Implementations
	// should simply return Describe(self).
	String() string
}

// Describe renders a process's stable identity. Every concrete Process's
// String method should delegate to this.
func Describe(p Process) string {
	return fmt.Sprintf("process: %s, instance: %s", p.ProcessName(), p.InstanceIdentifier())
}

// BaseProcess supplies the identity/callback plumbing every concrete
// Process embeds. It does not implement Notify, ProcessName, or String —
// those are the concrete type's responsibility.
type BaseProcess struct {
	instanceID string
	addEvent   AddEventCallback
}

// InstanceIdentifier implements Process. Returns "" (unassigned) until the
// engine mints one at registration, unless overridden by the embedder.
func (p *BaseProcess) InstanceIdentifier() string { return p.instanceID }

// SetInstanceIdentifier implements Process.
func (p *BaseProcess) SetInstanceIdentifier(id string) { p.instanceID = id }

// SetAddEventCallback implements Process.
func (p *BaseProcess) SetAddEventCallback(cb AddEventCallback) { p.addEvent = cb }

// AddEvent is the convenience processes call from within Notify to emit a
// future event. It fails with ErrNotRegistered if the engine has not yet
// injected a callback (i.e. the process was never registered).
func (p *BaseProcess) AddEvent(ctx context.Context, event Event) error {
	if p.addEvent == nil {
		return fmt.Errorf("%w", ErrNotRegistered)
	}
	return p.addEvent(ctx, event)
}

// internalProcess is the scheduler-owned bootstrap process: always
// registered on Run, its sole duty is to be the emitter of
// SimulationStarted. It returns NoAck for everything it is notified of.
type internalProcess struct {
	BaseProcess
}

func newInternalProcess() *internalProcess { return &internalProcess{} }

func (p *internalProcess) ProcessName() string { return "InternalProcess" }

func (p *internalProcess) String() string { return Describe(p) }

func (p *internalProcess) Notify(context.Context, Event) (NotificationResponse, error) {
	return NoAck, nil
}

// PredefinedEventAdder enqueues a fixed list of events on SimulationStarted
// and then unregisters itself, so it carries no overhead for the rest of
// the run.
type PredefinedEventAdder struct {
	BaseProcess
	name   string
	events []Event
}

// NewPredefinedEventAdder builds a PredefinedEventAdder with a stable
// instance identifier (name) and the events it will enqueue once the
// simulation starts.
func NewPredefinedEventAdder(name string, events []Event) *PredefinedEventAdder {
	return &PredefinedEventAdder{name: name, events: events}
}

// ProcessName implements Process.
func (a *PredefinedEventAdder) ProcessName() string { return "PredefinedEventAdder" }

// InstanceIdentifier overrides BaseProcess to return the stable name given
// at construction, opting out of random assignment.
func (a *PredefinedEventAdder) InstanceIdentifier() string { return a.name }

// String implements Process.
func (a *PredefinedEventAdder) String() string { return Describe(a) }

// Notify implements Process.
func (a *PredefinedEventAdder) Notify(ctx context.Context, event Event) (NotificationResponse, error) {
	if started, ok := event.(SimulationStarted); ok {
		for _, e := range a.events {
			if err := a.AddEvent(ctx, e); err != nil {
				return 0, err
			}
		}
		if err := a.AddEvent(ctx, ProcessUnregistered{BaseEvent{T: started.T}}); err != nil {
			return 0, err
		}
		return ACK, nil
	}
	return NoAck, nil
}
