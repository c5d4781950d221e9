package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Engine is the scheduler core: it owns the event queue, the logical
// clock, the process registry, and the optional result ledger / event
// history / no-ack cache, and drives the run loop.
type Engine struct {
	clock atomic.Int64

	queue *eventQueue
	rng   *engineRNG

	registryMu sync.Mutex
	registry   []Process

	maxQueueSize       int
	batchTimeout       time.Duration
	trackCausingEvents bool

	Ledger  *ResultLedger
	History *EventHistory

	noAck *noAckCache

	logger *logrus.Logger
}

// NewEngine constructs an Engine with the given options applied over the
// defaults in config.go.
func NewEngine(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		queue:              newEventQueue(),
		rng:                newEngineRNG(cfg.rngSeed),
		maxQueueSize:       cfg.maxQueueSize,
		batchTimeout:       cfg.batchTimeout,
		trackCausingEvents: cfg.trackCausingEvents,
		Ledger:             newResultLedger(cfg.recordResults),
		History:            newEventHistory(cfg.recordEventHistory),
		noAck:              newNoAckCache(cfg.useNoAckCache),
	}
	e.logger = newEngineLogger(e)
	return e
}

// T returns the engine's current logical clock. Read-only from outside;
// the engine may advance it between steps.
func (e *Engine) T() int64 { return e.clock.Load() }

// Random returns the engine's own RNG handle, used to mint process
// instance identifiers. Processes needing randomness of their own should
// use NewProcessRNG instead of sharing this one.
func (e *Engine) Random() *rand.Rand { return e.rng.rng }

// RegisterProcess assigns an instance identifier if the process's
// InstanceIdentifier() is still the unassigned sentinel (""), injects the
// enqueue callback, and appends the process to the registry. Fails with
// ErrDuplicateProcess on a (ProcessName, InstanceIdentifier) collision.
func (e *Engine) RegisterProcess(process Process) error {
	e.registryMu.Lock()
	defer e.registryMu.Unlock()

	if process.InstanceIdentifier() == "" {
		process.SetInstanceIdentifier(e.rng.next128())
	}

	for _, existing := range e.registry {
		if existing.ProcessName() == process.ProcessName() && existing.InstanceIdentifier() == process.InstanceIdentifier() {
			return fmt.Errorf("%w: %s", ErrDuplicateProcess, process)
		}
	}

	process.SetAddEventCallback(func(ctx context.Context, event Event) error {
		return e.AddEvent(ctx, process, event)
	})
	e.registry = append(e.registry, process)
	e.logger.Infof("registered %s", process)
	return nil
}

// UnregisterProcess removes process by identity; subsequent batches will
// not include it.
func (e *Engine) UnregisterProcess(process Process) {
	e.registryMu.Lock()
	defer e.registryMu.Unlock()
	e.unregisterLocked(process)
}

func (e *Engine) unregisterLocked(process Process) {
	out := e.registry[:0]
	for _, p := range e.registry {
		if p != process {
			out = append(out, p)
		}
	}
	e.registry = out
	e.logger.Infof("unregistered %s", process)
}

// AddEvent validates event.T >= engine.T(), captures cause if causal
// tracking is enabled (read off ctx — see causal.go), and enqueues the
// event. source is the emitter recorded for ledger/history purposes.
func (e *Engine) AddEvent(ctx context.Context, source Process, event Event) error {
	now := e.clock.Load()
	if event.Timestamp() < now {
		return fmt.Errorf("%w: t=%d < engine t=%d (from %s)", ErrTimeInPast, event.Timestamp(), now, source)
	}

	var cause Event
	if e.trackCausingEvents {
		if ce, ok := currentEvent(ctx); ok {
			cause = ce
		}
	}

	if !e.queue.schedule(event, source, cause, e.maxQueueSize) {
		return fmt.Errorf("queue at max size %d", e.maxQueueSize)
	}
	e.logger.Debugf("adding %s from %s (caused by %v) to queue", event.Name(), source, cause)
	return nil
}

// Run registers the internal bootstrap process, enqueues SimulationStarted,
// and repeatedly steps until the queue drains or until is reached, then
// broadcasts SimulationEnded to every process still registered.
func (e *Engine) Run(ctx context.Context, until *int64) error {
	bootstrap := newInternalProcess()
	if err := e.RegisterProcess(bootstrap); err != nil {
		return err
	}
	if err := e.AddEvent(ctx, bootstrap, SimulationStarted{}); err != nil {
		return err
	}

	for {
		cont, err := e.Step(ctx, until)
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}

	return e.broadcastSimulationEnded(ctx, bootstrap)
}

// Step executes one batch: pop every event sharing the earliest pending
// time, remove any self-unregistering emitters, dispatch the remainder
// concurrently to every live process (minus no-ack-cached pairs), and
// record results. Returns false when the queue is exhausted or the popped
// batch's time exceeds until.
func (e *Engine) Step(ctx context.Context, until *int64) (bool, error) {
	batch, ok := e.extractBatch()
	if !ok {
		e.logger.Info("ending run as we have exhausted the queue of events")
		return false, nil
	}
	if until != nil && e.clock.Load() > *until {
		e.logger.Infof("ending run as we reached events occurring beyond the end of time (%d)", *until)
		return false, nil
	}

	e.handleUnregisterEvents(batch)

	e.History.append(toHistoryEntries(batch))

	items := e.buildDispatchItems(batch)
	results := e.dispatchBatch(ctx, items)
	if err := e.processResults(items, results); err != nil {
		return false, err
	}
	return true, nil
}

// extractBatch pops every queued entry sharing the earliest pending time,
// advancing the clock to that time, and puts back the first entry whose
// time differs (preserving its seq).
func (e *Engine) extractBatch() ([]*queueEntry, bool) {
	var batch []*queueEntry
	var batchTime int64
	first := true

	for {
		entry, ok := e.queue.popNext()
		if !ok {
			break
		}
		if first {
			batchTime = entry.t
			if batchTime != e.clock.Load() {
				e.logger.Debugf("time moved to %d", batchTime)
			}
			e.clock.Store(batchTime)
			first = false
		} else if entry.t != batchTime {
			e.queue.putBack(entry)
			break
		}
		batch = append(batch, entry)
	}

	if len(batch) == 0 {
		return nil, false
	}
	return batch, true
}

func (e *Engine) handleUnregisterEvents(batch []*queueEntry) {
	for _, entry := range batch {
		if _, ok := entry.event.(ProcessUnregistered); ok {
			e.UnregisterProcess(entry.source)
		}
	}
}

func toHistoryEntries(batch []*queueEntry) []HistoryEntry {
	out := make([]HistoryEntry, len(batch))
	for i, entry := range batch {
		out[i] = HistoryEntry{Event: entry.event, Emitter: entry.source, Cause: entry.cause}
	}
	return out
}

// dispatchItem is one (event, emitter, target, cause) tuple about to be
// notified.
type dispatchItem struct {
	event   Event
	emitter Process
	target  Process
	cause   Event
}

func (e *Engine) registrySnapshot() []Process {
	e.registryMu.Lock()
	defer e.registryMu.Unlock()
	out := make([]Process, len(e.registry))
	copy(out, e.registry)
	return out
}

// buildDispatchItems forms the Cartesian product of the live registry and
// the batch (registry outer, batch inner — the dispatch order result
// processing honours), dropping no-ack-cached pairs.
func (e *Engine) buildDispatchItems(batch []*queueEntry) []dispatchItem {
	var items []dispatchItem
	for _, target := range e.registrySnapshot() {
		for _, entry := range batch {
			if e.noAck.has(entry.event.Name(), target.String()) {
				continue
			}
			items = append(items, dispatchItem{event: entry.event, emitter: entry.source, target: target, cause: entry.cause})
		}
	}
	return items
}

type dispatchResult struct {
	response NotificationResponse
	err      error
}

// dispatchBatch schedules every item's Notify concurrently under a
// per-call timeout and awaits them all, never cancelling peers on a
// failure.
func (e *Engine) dispatchBatch(ctx context.Context, items []dispatchItem) []dispatchResult {
	results := make([]dispatchResult, len(items))
	var wg sync.WaitGroup
	wg.Add(len(items))
	for i, item := range items {
		go func(i int, item dispatchItem) {
			defer wg.Done()
			results[i] = e.notifyWithTimeout(ctx, item)
		}(i, item)
	}
	wg.Wait()
	return results
}

func (e *Engine) notifyWithTimeout(parent context.Context, item dispatchItem) dispatchResult {
	ctx := withCurrentEvent(parent, item.event)
	var cancel context.CancelFunc
	if e.batchTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, e.batchTimeout)
		defer cancel()
	}

	type outcome struct {
		response NotificationResponse
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		response, err := item.target.Notify(ctx, item.event)
		done <- outcome{response: response, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return dispatchResult{err: &dispatchError{sentinel: ErrHandlerException, event: item.event, emitter: item.emitter, target: item.target, cause: out.err}}
		}
		if !out.response.valid() {
			return dispatchResult{err: &dispatchError{sentinel: ErrBadResponse, event: item.event, emitter: item.emitter, target: item.target}}
		}
		return dispatchResult{response: out.response}
	case <-ctx.Done():
		return dispatchResult{err: &dispatchError{sentinel: ErrHandlerTimeout, event: item.event, emitter: item.emitter, target: item.target}}
	}
}

// processResults iterates results in dispatch order, keeping the last
// observed failure (logging any earlier one at error level before it is
// superseded), updating the no-ack cache and ledger for every successful
// result — including those preceding a later failure.
func (e *Engine) processResults(items []dispatchItem, results []dispatchResult) error {
	var lastErr error
	for i, item := range items {
		res := results[i]
		if res.err != nil {
			if lastErr != nil {
				e.logger.WithFields(logrus.Fields{
					"event":   item.event.Name(),
					"emitter": item.emitter,
					"target":  item.target,
				}).Errorf("superseded handler failure: %v", lastErr)
			}
			lastErr = res.err
			continue
		}

		if res.response == NoAck {
			e.noAck.add(item.event.Name(), item.target.String())
		}

		key := LedgerKey{
			Event:           item.event,
			EmitterName:     item.emitter.ProcessName(),
			EmitterInstance: item.emitter.InstanceIdentifier(),
			Cause:           item.cause,
		}
		target := TargetKey{Name: item.target.ProcessName(), Instance: item.target.InstanceIdentifier()}
		e.Ledger.record(key, target, res.response)
	}
	return lastErr
}

// broadcastSimulationEnded notifies every live process of SimulationEnded,
// following the same dispatch rules as an ordinary batch.
func (e *Engine) broadcastSimulationEnded(ctx context.Context, bootstrap Process) error {
	ended := SimulationEnded{BaseEvent{T: e.clock.Load()}}
	e.History.append([]HistoryEntry{{Event: ended, Emitter: bootstrap}})

	var items []dispatchItem
	for _, target := range e.registrySnapshot() {
		if e.noAck.has(ended.Name(), target.String()) {
			continue
		}
		items = append(items, dispatchItem{event: ended, emitter: bootstrap, target: target})
	}
	results := e.dispatchBatch(ctx, items)
	return e.processResults(items, results)
}
