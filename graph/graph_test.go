package graph

import "testing"

func tk(sym, chain string) TokenKey {
	return TokenKey{Symbol: Symbol(sym), Chain: Chain(chain)}
}

func TestTokenKeyString(t *testing.T) {
	k := tk("USDC", "ethereum")
	if got, want := k.String(), "USDC.ethereum"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestBuilderRejectsDuplicateVertex(t *testing.T) {
	b := NewBuilder()
	a := tk("A", "eth")
	if err := b.AddVertex(a, TokenAttrs{}); err != nil {
		t.Fatalf("first AddVertex: %v", err)
	}
	if err := b.AddVertex(a, TokenAttrs{}); err != ErrDuplicateVertex {
		t.Fatalf("second AddVertex err = %v, want ErrDuplicateVertex", err)
	}
}

func TestBuilderRejectsSelfLoop(t *testing.T) {
	b := NewBuilder()
	a := tk("A", "eth")
	_ = b.AddVertex(a, TokenAttrs{})
	err := b.AddEdge(a, Edge{Kind: Swap, Target: a, NominalRate: 0.5, HasNominalRate: true})
	if err != ErrSelfLoop {
		t.Fatalf("AddEdge err = %v, want ErrSelfLoop", err)
	}
}

func TestBuilderRejectsDanglingEdge(t *testing.T) {
	b := NewBuilder()
	a := tk("A", "eth")
	c := tk("C", "eth")
	_ = b.AddVertex(a, TokenAttrs{})
	if err := b.AddEdge(a, Edge{Kind: Swap, Target: c, NominalRate: 0.5, HasNominalRate: true}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, err := b.Build(); err != ErrDanglingEdge {
		t.Fatalf("Build err = %v, want ErrDanglingEdge", err)
	}
}

func TestBuilderRejectsInvalidPool(t *testing.T) {
	b := NewBuilder()
	a, c := tk("A", "eth"), tk("C", "eth")
	_ = b.AddVertex(a, TokenAttrs{})
	_ = b.AddVertex(c, TokenAttrs{})
	err := b.AddEdge(a, Edge{Kind: Swap, Target: c, Pool: &LiquidityPool{
		ReserveBase: 0, ReserveQuote: 100, FeeFraction: 0.003, Kind: ConstantProduct,
	}})
	if err != ErrInvalidPool {
		t.Fatalf("AddEdge err = %v, want ErrInvalidPool", err)
	}
}

func TestBuilderRejectsBridgeWithPool(t *testing.T) {
	b := NewBuilder()
	a, c := tk("USDC", "eth"), tk("USDC", "poly")
	_ = b.AddVertex(a, TokenAttrs{})
	_ = b.AddVertex(c, TokenAttrs{})
	err := b.AddEdge(a, Edge{Kind: Bridge, Target: c, Pool: &LiquidityPool{ReserveBase: 1, ReserveQuote: 1, Kind: ConstantProduct}})
	if err != ErrInvalidBridge {
		t.Fatalf("AddEdge err = %v, want ErrInvalidBridge", err)
	}
}

func TestBuildSucceedsAndNeighborsInOrder(t *testing.T) {
	b := NewBuilder()
	a, c, d := tk("A", "eth"), tk("C", "eth"), tk("D", "eth")
	for _, v := range []TokenKey{a, c, d} {
		_ = b.AddVertex(v, TokenAttrs{})
	}
	_ = b.AddEdge(a, Edge{Kind: Swap, Target: c, NominalRate: 0.5, HasNominalRate: true})
	_ = b.AddEdge(a, Edge{Kind: Swap, Target: d, NominalRate: 0.4, HasNominalRate: true})

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.VertexCount() != 3 {
		t.Fatalf("VertexCount = %d, want 3", g.VertexCount())
	}
	if g.EdgeCount() != 2 {
		t.Fatalf("EdgeCount = %d, want 2", g.EdgeCount())
	}
	neighbors := g.Neighbors(a)
	if len(neighbors) != 2 || neighbors[0].Target != c || neighbors[1].Target != d {
		t.Fatalf("Neighbors(a) = %+v, want [C, D] in insertion order", neighbors)
	}
	if !g.Contains(a) || g.Contains(tk("Z", "eth")) {
		t.Fatalf("Contains mismatch")
	}
}
