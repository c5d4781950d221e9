package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurrentEventRoundTrip(t *testing.T) {
	_, ok := currentEvent(context.Background())
	require.False(t, ok)

	parent := tickEvent{BaseEvent{T: 7}}
	ctx := withCurrentEvent(context.Background(), parent)
	got, ok := currentEvent(ctx)
	require.True(t, ok)
	require.Equal(t, parent, got)
}

func TestCurrentEventScopedPerContext(t *testing.T) {
	outer := withCurrentEvent(context.Background(), tickEvent{BaseEvent{T: 1}})
	inner := withCurrentEvent(outer, tickEvent{BaseEvent{T: 2}})

	got, ok := currentEvent(inner)
	require.True(t, ok)
	require.Equal(t, tickEvent{BaseEvent{T: 2}}, got)

	// The outer context is untouched by the inner derivation.
	got, ok = currentEvent(outer)
	require.True(t, ok)
	require.Equal(t, tickEvent{BaseEvent{T: 1}}, got)
}
