package engine

import "fmt"

// Sentinel errors identifying the taxonomy from the kernel's error design.
// Wrap these with fmt.Errorf("%w: ...") so callers can still errors.Is them.
var (
	// ErrTimeInPast is returned by AddEvent when event.t is before the
	// engine's current clock.
	ErrTimeInPast = fmt.Errorf("event scheduled in the past")

	// ErrDuplicateProcess is returned by RegisterProcess when a process
	// with the same (ProcessName, InstanceIdentifier) is already registered.
	ErrDuplicateProcess = fmt.Errorf("process already registered")

	// ErrNotRegistered is returned by AddEvent on a process (via BaseProcess)
	// whose add-event callback has not yet been injected by the engine.
	ErrNotRegistered = fmt.Errorf("process not registered with an engine")

	// ErrHandlerTimeout is recorded when a Notify call exceeds the
	// configured batch timeout.
	ErrHandlerTimeout = fmt.Errorf("handler notification timed out")

	// ErrHandlerException is recorded when a Notify call returns a non-nil
	// error.
	ErrHandlerException = fmt.Errorf("handler returned an error")

	// ErrBadResponse is recorded when a Notify call returns a
	// NotificationResponse outside {ACK, ACKButIgnored, NoAck}.
	ErrBadResponse = fmt.Errorf("handler returned an invalid notification response")
)

// dispatchError wraps one of the sentinel errors above with the emitter,
// target, and event that produced it, matching the context the kernel's
// error-handling design requires every propagated/logged failure to carry.
type dispatchError struct {
	sentinel error
	event    Event
	emitter  Process
	target   Process
	cause    error
}

func (e *dispatchError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: notifying %s of %s (from %s): %v", e.sentinel, e.target, e.event.Name(), e.emitter, e.cause)
	}
	return fmt.Sprintf("%s: notifying %s of %s (from %s)", e.sentinel, e.target, e.event.Name(), e.emitter)
}

func (e *dispatchError) Unwrap() error { return e.sentinel }
