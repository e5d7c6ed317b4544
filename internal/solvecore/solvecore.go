// Package solvecore holds the relaxation primitives shared by the Classic
// Dijkstra and BMSSP solvers: per-vertex distance/amount/hop-count state and
// a single Relax operation neither algorithm duplicates. It is internal
// because the shared state is an implementation detail of the two solvers,
// not a public contract — callers only ever see a *graph.RouteResult.
package solvecore

import (
	"math"

	"github.com/synnergy-network/dexrouting/cost"
	"github.com/synnergy-network/dexrouting/graph"
)

// State is the per-query solver state: the graph being searched plus the
// distance/amount/hop-count/predecessor maps built up during relaxation. A
// State is owned by a single solver call and discarded when it returns,
// matching the resource policy in spec §5 (no solver-level shared mutable
// state after graph construction).
type State struct {
	Graph    *graph.Graph
	Dist     map[graph.TokenKey]float64
	Amount   map[graph.TokenKey]float64
	HopCount map[graph.TokenKey]int
	Prev     map[graph.TokenKey]graph.TokenKey
	PrevEdge map[graph.TokenKey]graph.Edge
	Done     map[graph.TokenKey]bool

	MaxHops  int
	CostOpts cost.Options
}

// NewState returns an empty solver state over g.
func NewState(g *graph.Graph, maxHops int, costOpts cost.Options) *State {
	return &State{
		Graph:    g,
		Dist:     make(map[graph.TokenKey]float64),
		Amount:   make(map[graph.TokenKey]float64),
		HopCount: make(map[graph.TokenKey]int),
		Prev:     make(map[graph.TokenKey]graph.TokenKey),
		PrevEdge: make(map[graph.TokenKey]graph.Edge),
		Done:     make(map[graph.TokenKey]bool),
		MaxHops:  maxHops,
		CostOpts: costOpts,
	}
}

// Init seeds the source vertex with zero distance, the given input amount,
// and hop count zero.
func (s *State) Init(source graph.TokenKey, inputAmount float64) {
	s.Dist[source] = 0
	s.Amount[source] = inputAmount
	s.HopCount[source] = 0
}

// DistOf returns the best known distance to v, or +Inf if v has not been
// reached.
func (s *State) DistOf(v graph.TokenKey) float64 {
	if d, ok := s.Dist[v]; ok {
		return d
	}
	return math.Inf(1)
}

// PrevOf returns the predecessor of v in the shortest-path tree discovered
// so far, if any.
func (s *State) PrevOf(v graph.TokenKey) (graph.TokenKey, bool) {
	p, ok := s.Prev[v]
	return p, ok
}

// Relax attempts to relax the edge u -> e.Target, given the amount currently
// carried at u. It respects the global hop cap and an optional distance
// bound (pass +Inf for an unbounded relaxation). improved reports whether
// e.Target's distance strictly decreased as a result; ok reports whether the
// edge was priceable at all (a false ok means the edge is unusable or the
// hop cap was exceeded, and no state was changed).
func (s *State) Relax(u graph.TokenKey, e graph.Edge, bound float64) (improved bool, ok bool) {
	v := e.Target
	if s.Done[v] {
		return false, true
	}
	hop := s.HopCount[u] + 1
	if hop > s.MaxHops {
		return false, false
	}
	w, out, err := cost.Edge(s.Amount[u], e, s.CostOpts)
	if err != nil {
		return false, false
	}
	nd := s.DistOf(u) + w
	if nd < s.DistOf(v) && nd < bound {
		s.Dist[v] = nd
		s.Amount[v] = out
		s.HopCount[v] = hop
		s.Prev[v] = u
		s.PrevEdge[v] = e
		return true, true
	}
	return false, true
}

// BuildResult reconstructs the RouteResult for target by walking Prev back
// to source. It is identical for both solvers (spec §4.4/§4.5).
func (s *State) BuildResult(source, target graph.TokenKey, inputAmount float64) *graph.RouteResult {
	if source == target {
		return &graph.RouteResult{
			Path:            []graph.TokenKey{source},
			TotalWeight:     0,
			EstimatedOutput: inputAmount,
		}
	}

	path := []graph.TokenKey{target}
	var steps []graph.Step
	cur := target
	for cur != source {
		p, ok := s.Prev[cur]
		if !ok {
			break
		}
		e := s.PrevEdge[cur]
		steps = append([]graph.Step{{
			From:         p,
			To:           cur,
			Edge:         e,
			InputAmount:  s.Amount[p],
			OutputAmount: s.Amount[cur],
			Weight:       s.DistOf(cur) - s.DistOf(p),
		}}, steps...)
		path = append([]graph.TokenKey{p}, path...)
		cur = p
	}
	return &graph.RouteResult{
		Path:            path,
		Steps:           steps,
		TotalWeight:     s.DistOf(target),
		EstimatedOutput: s.Amount[target],
	}
}
