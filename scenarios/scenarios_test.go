// Package scenarios reproduces the six end-to-end routing scenarios and the
// cross-cutting properties (P5, P9) that exercise more than one
// core package at once, mirroring how tests/amm_test.go in the teacher repo
// sits outside any single package to exercise the system as a whole.
package scenarios

import (
	"math"
	"testing"

	"github.com/synnergy-network/dexrouting/amm"
	"github.com/synnergy-network/dexrouting/bmssp"
	"github.com/synnergy-network/dexrouting/dijkstra"
	"github.com/synnergy-network/dexrouting/graph"
)

func tk(sym, chain string) graph.TokenKey {
	return graph.TokenKey{Symbol: graph.Symbol(sym), Chain: graph.Chain(chain)}
}

// Scenario 1 — single-chain direct swap.
func TestScenario1DirectSwap(t *testing.T) {
	b := graph.NewBuilder()
	a, bb := tk("A", "eth"), tk("B", "eth")
	_ = b.AddVertex(a, graph.TokenAttrs{})
	_ = b.AddVertex(bb, graph.TokenAttrs{})
	_ = b.AddEdge(a, graph.Edge{Kind: graph.Swap, Target: bb, NominalRate: 0.5, HasNominalRate: true})
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for i, solve := range solvers() {
		res, err := solve(g, a, bb, 1)
		if err != nil {
			t.Fatalf("solver %d: %v", i, err)
		}
		if len(res.Path) != 2 || res.Path[0] != a || res.Path[1] != bb {
			t.Fatalf("path = %v, want [A,B]", res.Path)
		}
		if math.Abs(res.EstimatedOutput-0.5) > 1e-9 {
			t.Fatalf("output = %v, want 0.5", res.EstimatedOutput)
		}
		if want := -math.Log(0.5); math.Abs(res.TotalWeight-want) > 1e-9 {
			t.Fatalf("weight = %v, want %v", res.TotalWeight, want)
		}
		if len(res.Steps) != 1 {
			t.Fatalf("steps = %d, want 1", len(res.Steps))
		}
	}
}

// Scenario 2 — two-hop nominal.
func TestScenario2TwoHop(t *testing.T) {
	b := graph.NewBuilder()
	a, bb, c := tk("A", "eth"), tk("B", "eth"), tk("C", "eth")
	_ = b.AddVertex(a, graph.TokenAttrs{})
	_ = b.AddVertex(bb, graph.TokenAttrs{})
	_ = b.AddVertex(c, graph.TokenAttrs{})
	_ = b.AddEdge(a, graph.Edge{Kind: graph.Swap, Target: bb, NominalRate: 0.5, HasNominalRate: true})
	_ = b.AddEdge(bb, graph.Edge{Kind: graph.Swap, Target: c, NominalRate: 0.4, HasNominalRate: true})
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for i, solve := range solvers() {
		res, err := solve(g, a, c, 1)
		if err != nil {
			t.Fatalf("solver %d: %v", i, err)
		}
		if len(res.Path) != 3 {
			t.Fatalf("path = %v, want [A,B,C]", res.Path)
		}
		if math.Abs(res.EstimatedOutput-0.20) > 1e-9 {
			t.Fatalf("output = %v, want 0.20", res.EstimatedOutput)
		}
		if want := -math.Log(0.20); math.Abs(res.TotalWeight-want) > 1e-9 {
			t.Fatalf("weight = %v, want %v", res.TotalWeight, want)
		}
	}
}

// Scenario 3 — bridge-only.
func TestScenario3BridgeOnly(t *testing.T) {
	b := graph.NewBuilder()
	eth, poly := tk("USDC", "eth"), tk("USDC", "poly")
	_ = b.AddVertex(eth, graph.TokenAttrs{})
	_ = b.AddVertex(poly, graph.TokenAttrs{})
	_ = b.AddEdge(eth, graph.Edge{Kind: graph.Bridge, Target: poly, BridgeFeeFraction: 0.001, TimeDelaySeconds: 120})
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for i, solve := range solvers() {
		res, err := solve(g, eth, poly, 1000)
		if err != nil {
			t.Fatalf("solver %d: %v", i, err)
		}
		if len(res.Steps) != 1 || res.Steps[0].Edge.Kind != graph.Bridge {
			t.Fatalf("expected exactly one bridge step, got %+v", res.Steps)
		}
		if math.Abs(res.EstimatedOutput-999.0) > 1e-6 {
			t.Fatalf("output = %v, want 999.0", res.EstimatedOutput)
		}
	}
}

// Scenario 4 — prefers direct swap over bridge+swap.
func TestScenario4PrefersDirectRoute(t *testing.T) {
	b := graph.NewBuilder()
	a, viaEth, c := tk("A", "eth"), tk("A", "poly"), tk("C", "poly")
	_ = b.AddVertex(a, graph.TokenAttrs{})
	_ = b.AddVertex(viaEth, graph.TokenAttrs{})
	_ = b.AddVertex(c, graph.TokenAttrs{})
	_ = b.AddEdge(a, graph.Edge{Kind: graph.Swap, Target: c, NominalRate: 0.49, HasNominalRate: true})
	_ = b.AddEdge(a, graph.Edge{Kind: graph.Bridge, Target: viaEth, BridgeFeeFraction: 0.02})
	_ = b.AddEdge(viaEth, graph.Edge{Kind: graph.Swap, Target: c, NominalRate: 0.4898, HasNominalRate: true})
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for i, solve := range solvers() {
		res, err := solve(g, a, c, 1)
		if err != nil {
			t.Fatalf("solver %d: %v", i, err)
		}
		if len(res.Steps) != 1 {
			t.Fatalf("expected the direct route, got %d steps", len(res.Steps))
		}
		if math.Abs(res.EstimatedOutput-0.49) > 1e-9 {
			t.Fatalf("output = %v, want 0.49", res.EstimatedOutput)
		}
	}
}

// Scenario 5 — max-hops enforcement.
func TestScenario5MaxHops(t *testing.T) {
	b := graph.NewBuilder()
	keys := make([]graph.TokenKey, 6)
	for i := range keys {
		keys[i] = tk(string(rune('A'+i)), "eth")
		_ = b.AddVertex(keys[i], graph.TokenAttrs{})
	}
	for i := 0; i < 5; i++ {
		_ = b.AddEdge(keys[i], graph.Edge{Kind: graph.Swap, Target: keys[i+1], NominalRate: 0.99, HasNominalRate: true})
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	src, dst := keys[0], keys[5]

	if _, err := dijkstra.Solve(g, src, dst, 1, dijkstra.Options{MaxHops: 3}); err != dijkstra.ErrNoRoute {
		t.Fatalf("classic: err = %v, want ErrNoRoute at max_hops=3", err)
	}
	if _, err := bmssp.Solve(g, src, dst, 1, bmssp.Options{MaxHops: 3}); err != bmssp.ErrNoRoute {
		t.Fatalf("bmssp: err = %v, want ErrNoRoute at max_hops=3", err)
	}

	res, err := dijkstra.Solve(g, src, dst, 1, dijkstra.Options{MaxHops: 5})
	if err != nil {
		t.Fatalf("classic at max_hops=5: %v", err)
	}
	if math.Abs(res.EstimatedOutput-0.9509900499) > 1e-6 {
		t.Fatalf("output = %v, want ~0.9509900499", res.EstimatedOutput)
	}
	if len(res.Steps) > 5 {
		t.Fatalf("P5 violated: %d steps exceeds max_hops", len(res.Steps))
	}

	bres, err := bmssp.Solve(g, src, dst, 1, bmssp.Options{MaxHops: 5})
	if err != nil {
		t.Fatalf("bmssp at max_hops=5: %v", err)
	}
	if math.Abs(bres.EstimatedOutput-0.9509900499) > 1e-6 {
		t.Fatalf("bmssp output = %v, want ~0.9509900499", bres.EstimatedOutput)
	}
}

// Scenario 6 — constant-product slippage.
func TestScenario6ConstantProductSlippage(t *testing.T) {
	res, err := amm.ConstantProduct(100, 1000, 1000, 0.003, amm.DefaultOptions())
	if err != nil {
		t.Fatalf("ConstantProduct: %v", err)
	}
	if math.Abs(res.Output-90.66) > 1e-2 {
		t.Fatalf("output = %v, want ~90.66", res.Output)
	}
	if math.Abs(res.EffectiveRate-0.9066) > 1e-2 {
		t.Fatalf("effective_rate = %v, want ~0.9066", res.EffectiveRate)
	}
	if math.Abs(res.PriceImpact-0.091) > 1e-2 {
		t.Fatalf("price_impact = %v, want ~0.091", res.PriceImpact)
	}
}

type solveFn func(g *graph.Graph, source, target graph.TokenKey, amount float64) (*graph.RouteResult, error)

func solvers() []solveFn {
	return []solveFn{
		func(g *graph.Graph, s, t graph.TokenKey, amt float64) (*graph.RouteResult, error) {
			return dijkstra.Solve(g, s, t, amt, dijkstra.DefaultOptions())
		},
		func(g *graph.Graph, s, t graph.TokenKey, amt float64) (*graph.RouteResult, error) {
			return bmssp.Solve(g, s, t, amt, bmssp.DefaultOptions())
		},
	}
}

// P9 — builder invariants.
func TestP9BuilderInvariants(t *testing.T) {
	b := graph.NewBuilder()
	a := tk("A", "eth")
	if err := b.AddVertex(a, graph.TokenAttrs{}); err != nil {
		t.Fatalf("AddVertex: %v", err)
	}
	if err := b.AddVertex(a, graph.TokenAttrs{}); err != graph.ErrDuplicateVertex {
		t.Fatalf("err = %v, want ErrDuplicateVertex", err)
	}
	if err := b.AddEdge(a, graph.Edge{Kind: graph.Swap, Target: a, NominalRate: 0.5, HasNominalRate: true}); err != graph.ErrSelfLoop {
		t.Fatalf("err = %v, want ErrSelfLoop", err)
	}
	missing := tk("Z", "eth")
	if err := b.AddEdge(a, graph.Edge{Kind: graph.Swap, Target: missing, NominalRate: 0.5, HasNominalRate: true}); err != nil {
		t.Fatalf("AddEdge to not-yet-declared vertex should defer validation to Build: %v", err)
	}
	if _, err := b.Build(); err != graph.ErrDanglingEdge {
		t.Fatalf("Build err = %v, want ErrDanglingEdge", err)
	}
}
