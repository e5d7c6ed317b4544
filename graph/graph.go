// Package graph implements the multi-chain weighted token graph that backs
// the routing core: vertices are (symbol, chain) pairs, edges are either
// same-chain swaps backed by a liquidity pool or cross-chain bridges.
//
// A Graph is built once through a Builder and then treated as read-only by
// every solver; nothing in this package mutates a Graph after Build.
package graph

import (
	"errors"
	"fmt"
)

// Chain identifies the blockchain a token lives on, e.g. "ethereum".
type Chain string

// Symbol identifies a token by ticker, e.g. "USDC".
type Symbol string

// TokenKey is a graph vertex: a token on a specific chain. Two keys are
// equal iff both Symbol and Chain match exactly; no case-folding is applied.
type TokenKey struct {
	Symbol Symbol
	Chain  Chain
}

// String renders the canonical "SYMBOL.chain" form, e.g. "USDC.ethereum".
func (k TokenKey) String() string {
	return fmt.Sprintf("%s.%s", k.Symbol, k.Chain)
}

// TokenAttrs holds optional, advisory metadata about a vertex. None of these
// fields affect solver or validator behavior; they exist for callers
// building a human-facing view of a route.
type TokenAttrs struct {
	ContractAddress string
	Decimals        int
	USDPrice        float64
	HasUSDPrice     bool
}

// PoolKind selects which AMM closed-form prices a swap edge's pool.
type PoolKind int

const (
	ConstantProduct PoolKind = iota
	StableSwap
	Concentrated
)

func (k PoolKind) String() string {
	switch k {
	case ConstantProduct:
		return "constant_product"
	case StableSwap:
		return "stable_swap"
	case Concentrated:
		return "concentrated_liquidity"
	default:
		return "unknown"
	}
}

// LiquidityPool describes the AMM state backing a single directed swap edge.
// ReserveBase is always the reserve of the edge's source token along that
// direction; ReserveQuote is the reserve of the edge's target token. A pool
// shared by the two directions of a pair is represented as two LiquidityPool
// values with reserves swapped, one on each directed edge.
type LiquidityPool struct {
	ReserveBase  float64
	ReserveQuote float64
	LiquidityUSD float64
	FeeFraction  float64
	Kind         PoolKind
	Volume24h    float64
	HasVolume24h bool
}

// EdgeKind distinguishes same-chain swaps from cross-chain bridges.
type EdgeKind int

const (
	Swap EdgeKind = iota
	Bridge
)

// Edge is a directed connection from one vertex (implicit, the adjacency
// map key) to Target. Swap edges carry a Pool and/or a NominalRate fallback;
// bridge edges carry BridgeFeeFraction and TimeDelaySeconds instead.
type Edge struct {
	Kind   EdgeKind
	Target TokenKey

	// Swap-only fields.
	Pool           *LiquidityPool
	NominalRate    float64
	HasNominalRate bool
	DEX            string // advisory venue label, used by the validator's diversification score

	// Bridge-only fields.
	BridgeFeeFraction float64
	TimeDelaySeconds  float64

	// Shared fields.
	GasCost     float64 // native-unit gas cost of executing this hop
	ExecTimeSec float64 // estimated wall-clock execution time
}

// Step is one traversed edge in a RouteResult.
type Step struct {
	From, To     TokenKey
	Edge         Edge
	InputAmount  float64
	OutputAmount float64
	Weight       float64
}

// RouteResult is the output of a solver: an ordered path of vertices, the
// steps between them, the additive total weight, and the final output.
type RouteResult struct {
	Path            []TokenKey
	Steps           []Step
	TotalWeight     float64
	EstimatedOutput float64
}

// Sentinel construction errors. All are fatal for the Builder; none reach a
// solver, which only ever sees a Graph that already satisfies these
// invariants.
var (
	ErrDuplicateVertex = errors.New("graph: duplicate vertex")
	ErrSelfLoop        = errors.New("graph: self-loop edge")
	ErrDanglingEdge    = errors.New("graph: edge target not in graph")
	ErrInvalidPool     = errors.New("graph: invalid liquidity pool")
	ErrInvalidBridge   = errors.New("graph: invalid bridge edge")
	ErrUnknownEdgeKind = errors.New("graph: unknown edge kind")
)

// Graph is an immutable adjacency mapping from vertex to its outgoing edges,
// in insertion order. Construct one with NewBuilder.
type Graph struct {
	vertices  map[TokenKey]TokenAttrs
	adjacency map[TokenKey][]Edge
	edgeCount int
}

// Contains reports whether key is a vertex of the graph.
func (g *Graph) Contains(key TokenKey) bool {
	_, ok := g.vertices[key]
	return ok
}

// Attrs returns the stored attributes for key, if any.
func (g *Graph) Attrs(key TokenKey) (TokenAttrs, bool) {
	a, ok := g.vertices[key]
	return a, ok
}

// Neighbors returns the outgoing edges of key in insertion order. The
// returned slice must not be mutated by callers.
func (g *Graph) Neighbors(key TokenKey) []Edge {
	return g.adjacency[key]
}

// VertexCount returns the number of vertices in the graph.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return g.edgeCount }

// Vertices returns every vertex key. Order is unspecified.
func (g *Graph) Vertices() []TokenKey {
	out := make([]TokenKey, 0, len(g.vertices))
	for k := range g.vertices {
		out = append(out, k)
	}
	return out
}
