package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultLedgerRecordAndSnapshot(t *testing.T) {
	l := newResultLedger(true)
	key := LedgerKey{Event: tickEvent{BaseEvent{T: 1}}, EmitterName: "E", EmitterInstance: "1"}
	target := TargetKey{Name: "T", Instance: "1"}
	l.record(key, target, ACK)

	snap := l.Snapshot()
	require.Equal(t, ACK, snap[key][target])

	// Mutating the snapshot must not affect the ledger.
	snap[key][target] = NoAck
	require.Equal(t, ACK, l.Snapshot()[key][target])
}

func TestResultLedgerDisabledIsNoOp(t *testing.T) {
	l := newResultLedger(false)
	key := LedgerKey{Event: tickEvent{BaseEvent{T: 1}}, EmitterName: "E", EmitterInstance: "1"}
	l.record(key, TargetKey{Name: "T"}, ACK)
	require.Empty(t, l.Snapshot())
}

func TestEventHistoryAppendAndBatches(t *testing.T) {
	h := newEventHistory(true)
	batch := []HistoryEntry{{Event: tickEvent{BaseEvent{T: 1}}}}
	h.append(batch)
	h.append(batch)

	got := h.Batches()
	require.Len(t, got, 2)

	// Mutating the returned slice must not affect later reads.
	got[0] = nil
	require.Len(t, h.Batches()[0], 1)
}

func TestEventHistoryDisabledRecordsNothing(t *testing.T) {
	h := newEventHistory(false)
	h.append([]HistoryEntry{{Event: tickEvent{BaseEvent{T: 1}}}})
	require.Empty(t, h.Batches())
}

func TestNoAckCacheMonotonicity(t *testing.T) {
	c := newNoAckCache(true)
	require.False(t, c.has("Tick", "target-1"))
	c.add("Tick", "target-1")
	require.True(t, c.has("Tick", "target-1"))
	require.False(t, c.has("Tick", "target-2"))
	require.False(t, c.has("Other", "target-1"))

	// Once entered, never evicted: re-adding or checking again stays true.
	c.add("Tick", "target-1")
	require.True(t, c.has("Tick", "target-1"))
}

func TestNoAckCacheDisabledNeverReportsSeen(t *testing.T) {
	c := newNoAckCache(false)
	c.add("Tick", "target-1")
	require.False(t, c.has("Tick", "target-1"))
}
