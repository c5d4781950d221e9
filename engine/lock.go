package engine

import (
	"context"
	"sync"
)

// Serialize wraps a Process so its Notify calls take a mutex, so it handles
// the events delivered to it within the same batch one at a time, at the
// cost of losing the concurrency the engine otherwise offers. The order in
// which waiting calls acquire the mutex is not defined. Use it for
// processes whose internal state cannot tolerate the intra-process races
// documented in the package doc — the same contract as MyLockingProcess in
// the kernel's concurrency tests.
func Serialize(p Process) Process {
	return &serializedProcess{inner: p}
}

type serializedProcess struct {
	inner Process
	mu    sync.Mutex
}

func (s *serializedProcess) Notify(ctx context.Context, event Event) (NotificationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Notify(ctx, event)
}

func (s *serializedProcess) ProcessName() string { return s.inner.ProcessName() }

func (s *serializedProcess) InstanceIdentifier() string { return s.inner.InstanceIdentifier() }

func (s *serializedProcess) SetInstanceIdentifier(id string) { s.inner.SetInstanceIdentifier(id) }

func (s *serializedProcess) SetAddEventCallback(cb AddEventCallback) {
	s.inner.SetAddEventCallback(cb)
}

func (s *serializedProcess) String() string { return s.inner.String() }
