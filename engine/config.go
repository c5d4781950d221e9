package engine

import "time"

// Option configures an Engine at construction. Each names an effect, not a
// keyword — see the kernel's configuration table.
type Option func(*config)

type config struct {
	rngSeed            int64
	maxQueueSize       int
	batchTimeout       time.Duration
	recordResults      bool
	recordEventHistory bool
	useNoAckCache      bool
	trackCausingEvents bool
}

func defaultConfig() config {
	return config{
		rngSeed:            0,
		maxQueueSize:       0,
		batchTimeout:       5 * time.Minute,
		recordResults:      true,
		recordEventHistory: true,
		useNoAckCache:      false,
		trackCausingEvents: false,
	}
}

// WithRNGSeed seeds the engine's RNG, used to mint process instance
// identifiers. Defaults to 0.
func WithRNGSeed(seed int64) Option {
	return func(c *config) { c.rngSeed = seed }
}

// WithMaxQueueSize bounds the event queue; 0 (the default) is unbounded.
func WithMaxQueueSize(n int) Option {
	return func(c *config) { c.maxQueueSize = n }
}

// WithBatchTimeout bounds how long a single Notify call may run within a
// batch; exceeding it fails that call with ErrHandlerTimeout. A
// non-positive duration disables the timeout. Defaults to 5 minutes.
func WithBatchTimeout(d time.Duration) Option {
	return func(c *config) { c.batchTimeout = d }
}

// WithRecordResults toggles the result ledger. Defaults to true.
func WithRecordResults(enabled bool) Option {
	return func(c *config) { c.recordResults = enabled }
}

// WithRecordEventHistory toggles the event history. Defaults to true.
func WithRecordEventHistory(enabled bool) Option {
	return func(c *config) { c.recordEventHistory = enabled }
}

// WithNoAckCache toggles skipping (event name, target) pairs once seen to
// return NoAck. Defaults to false.
func WithNoAckCache(enabled bool) Option {
	return func(c *config) { c.useNoAckCache = enabled }
}

// WithCausalTracking toggles populating cause on every enqueued event with
// the event its emitter was handling. Defaults to false.
func WithCausalTracking(enabled bool) Option {
	return func(c *config) { c.trackCausingEvents = enabled }
}
