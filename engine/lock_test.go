package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// racyCounter increments a plain int with no internal locking: concurrent
// Notify calls on it race unless the caller serialises them.
type racyCounter struct {
	BaseProcess
	n int
}

func (*racyCounter) ProcessName() string      { return "RacyCounter" }
func (p *racyCounter) String() string         { return Describe(p) }
func (p *racyCounter) Notify(context.Context, Event) (NotificationResponse, error) {
	v := p.n
	time.Sleep(time.Millisecond)
	p.n = v + 1
	return ACK, nil
}

func TestSerializeForcesOneAtATimeHandling(t *testing.T) {
	inner := &racyCounter{}
	wrapped := Serialize(inner)

	const calls = 20
	var wg sync.WaitGroup
	wg.Add(calls)
	for i := 0; i < calls; i++ {
		go func() {
			defer wg.Done()
			_, err := wrapped.Notify(context.Background(), tickEvent{BaseEvent{T: 0}})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, calls, inner.n)
}

func TestSerializeDelegatesIdentity(t *testing.T) {
	inner := &racyCounter{}
	inner.SetInstanceIdentifier("abc")
	wrapped := Serialize(inner)

	require.Equal(t, inner.ProcessName(), wrapped.ProcessName())
	require.Equal(t, "abc", wrapped.InstanceIdentifier())

	wrapped.SetInstanceIdentifier("xyz")
	require.Equal(t, "xyz", inner.InstanceIdentifier())
}
