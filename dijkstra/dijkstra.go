// Package dijkstra implements the textbook heap-based Dijkstra solver (the
// spec's "Classic" solver): a min-heap over per-vertex distance, decrease-key
// by reinsertion with lazy stale-entry skipping on extract. Grounded in
// core/amm.go's bestPath, which already runs a container/heap priority
// queue over log-space cost to the same effect for a single constant-product
// family; this package generalizes that loop to the full multi-pool-kind,
// multi-chain graph and adds the explicit hop cap and amount-tracking the
// spec requires (spec §4.4).
package dijkstra

import (
	"container/heap"
	"errors"
	"math"

	"github.com/synnergy-network/dexrouting/cost"
	"github.com/synnergy-network/dexrouting/graph"
	"github.com/synnergy-network/dexrouting/internal/solvecore"
)

// Sentinel routing errors (spec §7).
var (
	ErrSourceNotFound = errors.New("dijkstra: source vertex not found")
	ErrTargetNotFound = errors.New("dijkstra: target vertex not found")
	ErrNoRoute        = errors.New("dijkstra: no route found")
)

// DefaultMaxHops is the spec's default hop budget.
const DefaultMaxHops = 4

// Options configures a Solve call.
type Options struct {
	MaxHops int
	Cost    cost.Options
}

// DefaultOptions returns the spec's nominal solver configuration.
func DefaultOptions() Options {
	return Options{MaxHops: DefaultMaxHops, Cost: cost.DefaultOptions()}
}

func maxHops(o Options) int {
	if o.MaxHops <= 0 {
		return DefaultMaxHops
	}
	return o.MaxHops
}

// heapItem is one entry in the priority queue. seq breaks ties
// deterministically in favor of the entry discovered first, matching the
// spec's "path discovered first wins" rule (spec §4.4).
type heapItem struct {
	key  graph.TokenKey
	dist float64
	seq  uint64
}

type priorityQueue []*heapItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)   { *pq = append(*pq, x.(*heapItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// Solve runs Classic Dijkstra from source to target over g, returning the
// route that maximizes estimated_output for inputAmount, or ErrNoRoute if
// target is unreachable within opts.MaxHops.
func Solve(g *graph.Graph, source, target graph.TokenKey, inputAmount float64, opts Options) (*graph.RouteResult, error) {
	if !g.Contains(source) {
		return nil, ErrSourceNotFound
	}
	if !g.Contains(target) {
		return nil, ErrTargetNotFound
	}

	st := solvecore.NewState(g, maxHops(opts), opts.Cost)
	st.Init(source, inputAmount)

	pq := &priorityQueue{{key: source, dist: 0, seq: 0}}
	heap.Init(pq)
	var seq uint64 = 1

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*heapItem)
		u := item.key

		if item.dist != st.DistOf(u) {
			continue // stale entry
		}
		if u == target {
			break
		}
		if st.Done[u] {
			continue
		}
		if st.HopCount[u] >= maxHops(opts) {
			continue
		}
		st.Done[u] = true

		for _, e := range g.Neighbors(u) {
			improved, ok := st.Relax(u, e, math.Inf(1))
			if ok && improved {
				heap.Push(pq, &heapItem{key: e.Target, dist: st.DistOf(e.Target), seq: seq})
				seq++
			}
		}
	}

	if d := st.DistOf(target); math.IsInf(d, 1) {
		return nil, ErrNoRoute
	}
	return st.BuildResult(source, target, inputAmount), nil
}
