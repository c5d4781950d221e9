// Package visual renders a completed run's ResultLedger as a Mermaid
// flowchart, and offers a websocket-backed Process for streaming a run
// live to an external viewer. Nothing in engine/ imports this package.
package visual

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stepsim/stepsim/engine"
)

// edge is one (source, target, event name) triple destined for the
// flowchart, deduplicated the way the kernel's digraph export does:
// the first time a (source, target, event) triple is seen with an
// allowed response, it becomes one edge, regardless of how many times
// it recurs across the run.
type edge struct {
	source string
	target string
	label  string
}

// ToMermaid renders ledger as a Mermaid "graph LR" flowchart: one edge
// per (emitter, target, event name) triple whose recorded response is
// in allowed. Only edges are written; a (process name, instance) pair
// appears only as an endpoint of such an edge, and a process with no
// allowed edge does not appear at all. A nil allowed defaults to
// {ACK}, matching the source's default of only graphing edges the
// recipient actually acted on.
//
// Rendering to a string (rather than building a typed graph structure
// and depending on a graph library) is grounded in the source's own
// approach: it builds a full networkx MultiDiGraph only to immediately
// flatten it into the same textual format this function produces
// directly. No third-party graph library in the example pack offers a
// Mermaid renderer, so this is built directly on strings.Builder.
func ToMermaid(ledger *engine.ResultLedger, allowed map[engine.NotificationResponse]bool) string {
	if allowed == nil {
		allowed = map[engine.NotificationResponse]bool{engine.ACK: true}
	}

	nodes := make(map[string]struct{})
	seen := make(map[edge]struct{})
	var edges []edge

	snapshot := ledger.Snapshot()
	keys := make([]engine.LedgerKey, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Event.Timestamp() < keys[j].Event.Timestamp() })

	for _, key := range keys {
		source := nodeID(key.EmitterName, key.EmitterInstance)
		nodes[source] = struct{}{}
		for target, response := range snapshot[key] {
			targetID := nodeID(target.Name, target.Instance)
			nodes[targetID] = struct{}{}
			if !allowed[response] {
				continue
			}
			e := edge{source: source, target: targetID, label: key.Event.Name()}
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		return edges[i].source+edges[i].target+edges[i].label < edges[j].source+edges[j].target+edges[j].label
	})

	var b strings.Builder
	b.WriteString("graph LR\n")
	for i, e := range edges {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s(%s) -- %s --> %s(%s)", slug(e.source), e.source, e.label, slug(e.target), e.target)
	}
	return b.String()
}

func nodeID(name, instance string) string { return name + " - " + instance }

func slug(node string) string { return strings.ReplaceAll(node, " ", "") }
