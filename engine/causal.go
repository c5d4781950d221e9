package engine

import "context"

// currentEventKey scopes the "in-flight event" a Notify call is handling,
// for the duration of that call, so AddEvent can read it off to set the
// new event's cause. This replaces the source implementation's call-stack
// inspection with an explicit, scoped handle — the re-architecture this
// kernel's design notes call for.
type currentEventKey struct{}

func withCurrentEvent(ctx context.Context, event Event) context.Context {
	return context.WithValue(ctx, currentEventKey{}, event)
}

func currentEvent(ctx context.Context) (Event, bool) {
	event, ok := ctx.Value(currentEventKey{}).(Event)
	return event, ok
}
