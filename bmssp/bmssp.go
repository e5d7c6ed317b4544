// Package bmssp implements the bounded multi-source shortest path solver
// (PSB-Dijkstra): a recursive pivot-reduction SSSP that breaks the sort
// barrier by working in bounded waves over a reduced pivot set rather than a
// single global heap. No teacher or pack file implements pivot-reduction
// SSSP; this package follows dijkstra's idiom (free functions over a
// *graph.Graph, no first-class solver type) and reuses the shared
// relaxation primitives in internal/solvecore so the two solvers can never
// disagree on what "relax an edge" means.
package bmssp

import (
	"errors"
	"math"

	"github.com/synnergy-network/dexrouting/cost"
	"github.com/synnergy-network/dexrouting/graph"
	"github.com/synnergy-network/dexrouting/internal/solvecore"
)

// Sentinel routing errors, matching package dijkstra's taxonomy.
var (
	ErrSourceNotFound = errors.New("bmssp: source vertex not found")
	ErrTargetNotFound = errors.New("bmssp: target vertex not found")
	ErrNoRoute        = errors.New("bmssp: no route found")
)

// DefaultMaxHops is the spec's default hop budget, shared with dijkstra.
const DefaultMaxHops = 4

// Options configures a Solve call.
type Options struct {
	MaxHops int
	Cost    cost.Options
}

// DefaultOptions returns the nominal solver configuration.
func DefaultOptions() Options {
	return Options{MaxHops: DefaultMaxHops, Cost: cost.DefaultOptions()}
}

func maxHops(o Options) int {
	if o.MaxHops <= 0 {
		return DefaultMaxHops
	}
	return o.MaxHops
}

// params holds the k/t/L constants derived once from |V| for a single
// top-level BMSSP call (spec §4.5 "Parameters").
type params struct {
	k, t, L int
}

func paramsFor(n int) params {
	if n < 2 {
		n = 2
	}
	logN := math.Log2(float64(n))
	k := int(math.Floor(math.Pow(logN, 1.0/3.0)))
	if k < 2 {
		k = 2
	}
	t := int(math.Floor(math.Pow(logN, 2.0/3.0)))
	if t < 2 {
		t = 2
	}
	L := int(math.Ceil(logN / float64(t)))
	if L < 1 {
		L = 1
	}
	return params{k: k, t: t, L: L}
}

// pow2 computes 2^exp, capped well below overflow: the only use of this
// value is as a loop-size bound, so saturating is harmless and avoids
// undefined shift behavior for pathological k/t/level combinations.
func pow2(exp int) int {
	if exp <= 0 {
		return 1
	}
	if exp >= 30 {
		return math.MaxInt32
	}
	return 1 << uint(exp)
}

// Solve runs BMSSP from source to target over g, returning the route that
// maximizes estimated_output for inputAmount, or ErrNoRoute if target is
// unreachable within opts.MaxHops. Small graphs degenerate k, t to 2 (spec
// §4.5's "small n" note); callers wanting the asymptotic win only below
// that regime should route small graphs (n < ~50) through package dijkstra
// instead — bmssp.Solve itself always runs the full procedure.
func Solve(g *graph.Graph, source, target graph.TokenKey, inputAmount float64, opts Options) (*graph.RouteResult, error) {
	if !g.Contains(source) {
		return nil, ErrSourceNotFound
	}
	if !g.Contains(target) {
		return nil, ErrTargetNotFound
	}

	st := solvecore.NewState(g, maxHops(opts), opts.Cost)
	st.Init(source, inputAmount)

	p := paramsFor(g.VertexCount())
	solve(p.L, math.Inf(1), []graph.TokenKey{source}, st, p, target)

	if d := st.DistOf(target); math.IsInf(d, 1) {
		return nil, ErrNoRoute
	}
	return st.BuildResult(source, target, inputAmount), nil
}

// relaxFrom relaxes every outgoing edge of u against the shared state,
// unbounded (spec's post-recursion and base-case relaxation rule).
func relaxFrom(st *solvecore.State, u graph.TokenKey) {
	for _, e := range st.Graph.Neighbors(u) {
		st.Relax(u, e, math.Inf(1))
	}
}

// findPivots implements spec §4.5's FindPivots(B, S): k bounded relaxation
// rounds from S, followed by pivot extraction from the predecessor forest
// induced on the reached set W. Returns the pivot subset of S and the full
// reached set W, both in deterministic discovery order.
func findPivots(B float64, S []graph.TokenKey, st *solvecore.State, k int) (pivots, W []graph.TokenKey) {
	inW := make(map[graph.TokenKey]bool, len(S))
	W = append(W, S...)
	for _, s := range S {
		inW[s] = true
	}

	frontier := append([]graph.TokenKey{}, S...)
	for round := 0; round < k && len(frontier) > 0; round++ {
		var next []graph.TokenKey
		for _, u := range frontier {
			for _, e := range st.Graph.Neighbors(u) {
				improved, ok := st.Relax(u, e, B)
				if !ok || !improved {
					continue
				}
				v := e.Target
				if !inW[v] {
					inW[v] = true
					W = append(W, v)
				}
				next = append(next, v)
			}
		}
		if len(W) > k*len(S) {
			return append([]graph.TokenKey{}, S...), W
		}
		frontier = next
	}

	// Build the predecessor forest restricted to W and measure each root's
	// subtree size.
	children := make(map[graph.TokenKey][]graph.TokenKey)
	for _, v := range W {
		if inW[v] {
			if p, ok := st.PrevOf(v); ok && inW[p] && p != v {
				children[p] = append(children[p], v)
			}
		}
	}

	var subtreeSize func(graph.TokenKey, map[graph.TokenKey]bool) int
	subtreeSize = func(root graph.TokenKey, visiting map[graph.TokenKey]bool) int {
		if visiting[root] {
			return 1 // guard against any cyclic prev chain; weights are non-negative so this should not occur
		}
		visiting[root] = true
		size := 1
		for _, c := range children[root] {
			size += subtreeSize(c, visiting)
		}
		return size
	}

	for _, s := range S {
		if subtreeSize(s, map[graph.TokenKey]bool{}) >= k {
			pivots = append(pivots, s)
		}
	}
	return pivots, W
}

// solve implements spec §4.5's BMSSP(level, B, S) and returns (B_i, U).
func solve(level int, B float64, S []graph.TokenKey, st *solvecore.State, p params, target graph.TokenKey) (float64, []graph.TokenKey) {
	if level == 0 || len(S) == 0 {
		var U []graph.TokenKey
		for _, s := range S {
			if st.Done[s] || !(st.DistOf(s) < B) {
				continue
			}
			st.Done[s] = true
			U = append(U, s)
			relaxFrom(st, s)
		}
		return B, U
	}

	P, W := findPivots(B, S, st, p.k)
	for _, v := range W {
		if st.DistOf(v) < B {
			st.Done[v] = true
		}
	}

	U := append([]graph.TokenKey{}, W...)
	inU := make(map[graph.TokenKey]bool, len(U))
	for _, v := range U {
		inU[v] = true
	}

	Bi := B
	i := 0
	limit := p.k * pow2(level*p.t)
	capI := pow2(p.t)
	subsetSize := pow2((level - 1) * p.t)

	for len(U) < limit && len(P) > 0 && i < capI {
		n := subsetSize
		if n > len(P) {
			n = len(P)
		}
		Si := P[:n]
		P = P[n:]

		Bp, Ui := solve(level-1, Bi, Si, st, p, target)
		for _, v := range Ui {
			if !inU[v] {
				inU[v] = true
				U = append(U, v)
			}
			relaxFrom(st, v)
		}
		if Bp < Bi {
			Bi = Bp
		}
		i++
		if st.DistOf(target) < Bi {
			break
		}
	}
	return Bi, U
}
