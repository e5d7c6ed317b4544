// Package graphio (de)serializes Graph and RouteResult values to the wire
// shapes fixed by spec §6, using encoding/json with the same struct-tag
// style as core/cross_chain_bridge.go's BridgeTransfer. This is the one
// package that knows about the external JSON surface; graph, amm, cost, and
// the solvers never import it.
package graphio

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/synnergy-network/dexrouting/graph"
)

// ErrInvalidKey is returned when a vertex key string cannot be parsed into
// a TokenKey ("SYMBOL.chain").
var ErrInvalidKey = errors.New("graphio: invalid vertex key")

// ErrUnknownKind is returned when an edge object's "kind" field is neither
// "swap" nor "bridge".
var ErrUnknownKind = errors.New("graphio: unknown edge kind")

type wireLiquidity struct {
	ReserveBase  float64  `json:"reserve_base"`
	ReserveQuote float64  `json:"reserve_quote"`
	LiquidityUSD float64  `json:"liquidity_usd"`
	FeePercent   float64  `json:"fee_percent"`
	PoolType     string   `json:"pool_type"`
	Volume24h    *float64 `json:"volume_24h,omitempty"`
}

type wireEdge struct {
	Kind        string         `json:"kind"`
	Target      string         `json:"target"`
	Rate        *float64       `json:"rate,omitempty"`
	Gas         float64        `json:"gas"`
	BridgeFee   *float64       `json:"bridge_fee,omitempty"`
	TimeDelay   *float64       `json:"time_delay,omitempty"`
	Liquidity   *wireLiquidity `json:"liquidity,omitempty"`
	DEX         string         `json:"dex,omitempty"`
	ExecTimeSec float64        `json:"exec_time_sec,omitempty"`
}

type wireStep struct {
	From         string   `json:"from"`
	To           string   `json:"to"`
	Kind         string   `json:"kind"`
	Weight       float64  `json:"weight"`
	InputAmount  float64  `json:"input_amount"`
	OutputAmount float64  `json:"output_amount"`
	Edge         wireEdge `json:"edge"`
}

type wireRoute struct {
	Path            []string   `json:"path"`
	TotalWeight     float64    `json:"total_weight"`
	EstimatedOutput float64    `json:"estimated_output"`
	Steps           []wireStep `json:"steps"`
}

func parseTokenKey(s string) (graph.TokenKey, error) {
	sym, chain, found := strings.Cut(s, ".")
	if !found || sym == "" || chain == "" {
		return graph.TokenKey{}, ErrInvalidKey
	}
	return graph.TokenKey{Symbol: graph.Symbol(sym), Chain: graph.Chain(chain)}, nil
}

func parsePoolKind(s string) graph.PoolKind {
	switch s {
	case "stable_swap":
		return graph.StableSwap
	case "concentrated_liquidity":
		return graph.Concentrated
	default:
		return graph.ConstantProduct
	}
}

func edgeKindString(k graph.EdgeKind) string {
	if k == graph.Bridge {
		return "bridge"
	}
	return "swap"
}

func fromEdge(e graph.Edge) wireEdge {
	we := wireEdge{
		Kind:        edgeKindString(e.Kind),
		Target:      e.Target.String(),
		Gas:         e.GasCost,
		DEX:         e.DEX,
		ExecTimeSec: e.ExecTimeSec,
	}
	if e.HasNominalRate {
		r := e.NominalRate
		we.Rate = &r
	}
	if e.Kind == graph.Bridge {
		bf := e.BridgeFeeFraction
		we.BridgeFee = &bf
		td := e.TimeDelaySeconds
		we.TimeDelay = &td
	}
	if e.Pool != nil {
		wl := &wireLiquidity{
			ReserveBase:  e.Pool.ReserveBase,
			ReserveQuote: e.Pool.ReserveQuote,
			LiquidityUSD: e.Pool.LiquidityUSD,
			FeePercent:   e.Pool.FeeFraction,
			PoolType:     e.Pool.Kind.String(),
		}
		if e.Pool.HasVolume24h {
			v := e.Pool.Volume24h
			wl.Volume24h = &v
		}
		we.Liquidity = wl
	}
	return we
}

func (we wireEdge) toEdge() (graph.Edge, error) {
	var e graph.Edge
	switch we.Kind {
	case "swap":
		e.Kind = graph.Swap
	case "bridge":
		e.Kind = graph.Bridge
	default:
		return graph.Edge{}, ErrUnknownKind
	}
	target, err := parseTokenKey(we.Target)
	if err != nil {
		return graph.Edge{}, err
	}
	e.Target = target
	e.GasCost = we.Gas
	e.DEX = we.DEX
	e.ExecTimeSec = we.ExecTimeSec
	if we.Rate != nil {
		e.NominalRate = *we.Rate
		e.HasNominalRate = true
	}
	if we.BridgeFee != nil {
		e.BridgeFeeFraction = *we.BridgeFee
	}
	if we.TimeDelay != nil {
		e.TimeDelaySeconds = *we.TimeDelay
	}
	if we.Liquidity != nil {
		pool := &graph.LiquidityPool{
			ReserveBase:  we.Liquidity.ReserveBase,
			ReserveQuote: we.Liquidity.ReserveQuote,
			LiquidityUSD: we.Liquidity.LiquidityUSD,
			FeeFraction:  we.Liquidity.FeePercent,
			Kind:         parsePoolKind(we.Liquidity.PoolType),
		}
		if we.Liquidity.Volume24h != nil {
			pool.Volume24h = *we.Liquidity.Volume24h
			pool.HasVolume24h = true
		}
		e.Pool = pool
	}
	return e, nil
}

// EncodeGraph renders g as the §6 wire object: vertex key -> edge array.
func EncodeGraph(g *graph.Graph) ([]byte, error) {
	wire := make(map[string][]wireEdge, g.VertexCount())
	for _, v := range g.Vertices() {
		edges := g.Neighbors(v)
		we := make([]wireEdge, len(edges))
		for i, e := range edges {
			we[i] = fromEdge(e)
		}
		wire[v.String()] = we
	}
	return json.Marshal(wire)
}

// DecodeGraph parses the §6 wire object into a built, validated Graph. Any
// invariant violation (duplicate vertex, dangling edge, invalid pool or
// bridge) surfaces as the corresponding graph.Err* sentinel.
func DecodeGraph(data []byte) (*graph.Graph, error) {
	var wire map[string][]wireEdge
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}

	b := graph.NewBuilder()
	for k := range wire {
		key, err := parseTokenKey(k)
		if err != nil {
			return nil, err
		}
		if err := b.AddVertex(key, graph.TokenAttrs{}); err != nil {
			return nil, err
		}
	}
	for k, edges := range wire {
		from, err := parseTokenKey(k)
		if err != nil {
			return nil, err
		}
		for _, we := range edges {
			e, err := we.toEdge()
			if err != nil {
				return nil, err
			}
			if err := b.AddEdge(from, e); err != nil {
				return nil, err
			}
		}
	}
	return b.Build()
}

// EncodeRouteResult renders r as the §6 wire object.
func EncodeRouteResult(r *graph.RouteResult) ([]byte, error) {
	wr := wireRoute{
		TotalWeight:     r.TotalWeight,
		EstimatedOutput: r.EstimatedOutput,
	}
	wr.Path = make([]string, len(r.Path))
	for i, k := range r.Path {
		wr.Path[i] = k.String()
	}
	wr.Steps = make([]wireStep, len(r.Steps))
	for i, s := range r.Steps {
		wr.Steps[i] = wireStep{
			From:         s.From.String(),
			To:           s.To.String(),
			Kind:         edgeKindString(s.Edge.Kind),
			Weight:       s.Weight,
			InputAmount:  s.InputAmount,
			OutputAmount: s.OutputAmount,
			Edge:         fromEdge(s.Edge),
		}
	}
	return json.Marshal(wr)
}

// DecodeRouteResult parses the §6 wire object into a RouteResult.
func DecodeRouteResult(data []byte) (*graph.RouteResult, error) {
	var wr wireRoute
	if err := json.Unmarshal(data, &wr); err != nil {
		return nil, err
	}

	r := &graph.RouteResult{
		TotalWeight:     wr.TotalWeight,
		EstimatedOutput: wr.EstimatedOutput,
	}
	r.Path = make([]graph.TokenKey, len(wr.Path))
	for i, s := range wr.Path {
		k, err := parseTokenKey(s)
		if err != nil {
			return nil, err
		}
		r.Path[i] = k
	}
	r.Steps = make([]graph.Step, len(wr.Steps))
	for i, ws := range wr.Steps {
		from, err := parseTokenKey(ws.From)
		if err != nil {
			return nil, err
		}
		to, err := parseTokenKey(ws.To)
		if err != nil {
			return nil, err
		}
		e, err := ws.Edge.toEdge()
		if err != nil {
			return nil, err
		}
		r.Steps[i] = graph.Step{
			From:         from,
			To:           to,
			Edge:         e,
			InputAmount:  ws.InputAmount,
			OutputAmount: ws.OutputAmount,
			Weight:       ws.Weight,
		}
	}
	return r, nil
}
