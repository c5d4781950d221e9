package visual

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stepsim/stepsim/engine"
)

type pingEvent struct{ engine.BaseEvent }

func (pingEvent) Name() string { return "Ping" }

// pinger emits one Ping at t=0 and otherwise ignores everything.
type pinger struct{ engine.BaseProcess }

func (p *pinger) ProcessName() string { return "Pinger" }
func (p *pinger) String() string      { return engine.Describe(p) }
func (p *pinger) Notify(ctx context.Context, event engine.Event) (engine.NotificationResponse, error) {
	if _, ok := event.(engine.SimulationStarted); ok {
		if err := p.AddEvent(ctx, pingEvent{engine.BaseEvent{T: 0}}); err != nil {
			return 0, err
		}
		return engine.ACK, nil
	}
	return engine.NoAck, nil
}

// ponger acknowledges Ping and ignores everything else.
type ponger struct{ engine.BaseProcess }

func (p *ponger) ProcessName() string { return "Ponger" }
func (p *ponger) String() string      { return engine.Describe(p) }
func (p *ponger) Notify(ctx context.Context, event engine.Event) (engine.NotificationResponse, error) {
	if _, ok := event.(pingEvent); ok {
		return engine.ACK, nil
	}
	return engine.NoAck, nil
}

func TestToMermaid(t *testing.T) {
	eng := engine.NewEngine()

	p := &pinger{}
	g := &ponger{}
	require.NoError(t, eng.RegisterProcess(p))
	require.NoError(t, eng.RegisterProcess(g))

	require.NoError(t, eng.Run(context.Background(), nil))

	out := ToMermaid(eng.Ledger, nil)
	require.True(t, strings.HasPrefix(out, "graph LR\n"))
	require.Contains(t, out, "-- Ping --> ")
	require.Contains(t, out, "Ponger - "+g.InstanceIdentifier())
	require.Contains(t, out, "Pinger - "+p.InstanceIdentifier())
}
