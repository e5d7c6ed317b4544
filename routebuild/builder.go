// Package routebuild is the external-collaborator glue named in spec §9
// ("graph construction is an external concern"): it drives a price feed, a
// pool source, and a bridge descriptor source (the three consumed contracts
// from spec §6) through graph.Builder to produce a *graph.Graph, logging
// progress the way the teacher logs state-changing operations.
//
// Grounded in core/liquidity_pools.go's logrus usage for pool operations,
// and in core/cross_chain.go's RegisterBridge, which stamps every bridge
// record with a uuid.New() ID before persisting it — adapted here to stamp
// each ingested bridge route with a correlation ID for log tracing, since
// routebuild never persists anything itself.
package routebuild

import (
	log "github.com/sirupsen/logrus"

	"go.uber.org/zap"

	"github.com/google/uuid"

	"github.com/synnergy-network/dexrouting/graph"
)

// PriceFeed is the spec §6 "Price feed" contract. It is consulted only by
// the builder, never by a solver.
type PriceFeed interface {
	Price(symbol graph.Symbol) (usd float64, ok bool)
}

// PoolSource is the spec §6 "Pool source" contract.
type PoolSource interface {
	Pool(chain graph.Chain, base, quote graph.Symbol) (*graph.LiquidityPool, bool)
}

// BridgeRoute is one descriptor returned by a BridgeSource, matching the
// spec §6 bridge descriptor source tuple.
type BridgeRoute struct {
	FromChain    graph.Chain
	ToChain      graph.Chain
	FeeFraction  float64
	DelaySeconds float64
	GasCost      float64
}

// BridgeSource is the spec §6 "Bridge descriptor source" contract.
type BridgeSource interface {
	BridgeRoutes(symbol graph.Symbol) []BridgeRoute
}

// TokenSpec names one (symbol, chain) vertex the builder should populate,
// plus the chain-local counterparties it should try to pair as swap edges.
type TokenSpec struct {
	Key   graph.TokenKey
	Pairs []graph.Symbol
}

// Builder assembles a *graph.Graph from external collaborators. It owns no
// state beyond its three collaborators and a logger; each Build call starts
// a fresh graph.Builder.
type Builder struct {
	Prices  PriceFeed
	Pools   PoolSource
	Bridges BridgeSource
	Log     *log.Logger
}

// NewBuilder returns a Builder wired to the given collaborators, logging
// through a dedicated logrus.Logger (matching the teacher's package-level
// `log` usage, but instance-scoped so concurrent builds don't share state).
func NewBuilder(prices PriceFeed, pools PoolSource, bridges BridgeSource) *Builder {
	return &Builder{Prices: prices, Pools: pools, Bridges: bridges, Log: log.New()}
}

// Build constructs a Graph from specs: one vertex per spec.Key, one swap
// edge per (spec, pair) combination resolvable through Pools, and one
// bridge edge per route resolvable through Bridges. Duplicate vertices and
// edges that graph.Builder rejects are logged and skipped; an edge whose
// target has no vertex surfaces as graph.ErrDanglingEdge from the final
// graph.Builder.Build.
func (b *Builder) Build(specs []TokenSpec) (*graph.Graph, error) {
	gb := graph.NewBuilder()
	sugar := zap.L().Sugar()

	for _, spec := range specs {
		attrs := graph.TokenAttrs{}
		if price, ok := b.Prices.Price(spec.Key.Symbol); ok {
			attrs.USDPrice = price
			attrs.HasUSDPrice = true
		}
		if err := gb.AddVertex(spec.Key, attrs); err != nil {
			b.Log.WithFields(log.Fields{"vertex": spec.Key.String()}).Warnf("skip duplicate vertex: %v", err)
			continue
		}
	}

	for _, spec := range specs {
		for _, quote := range spec.Pairs {
			pool, ok := b.Pools.Pool(spec.Key.Chain, spec.Key.Symbol, quote)
			if !ok {
				continue
			}
			target := graph.TokenKey{Symbol: quote, Chain: spec.Key.Chain}
			edge := graph.Edge{Kind: graph.Swap, Target: target, Pool: pool}
			if err := gb.AddEdge(spec.Key, edge); err != nil {
				b.Log.WithFields(log.Fields{
					"from": spec.Key.String(), "to": target.String(),
				}).Warnf("skip invalid swap edge: %v", err)
				continue
			}
			b.Log.WithFields(log.Fields{
				"from": spec.Key.String(), "to": target.String(), "kind": "swap",
			}).Debug("added swap edge")
		}

		for _, route := range b.Bridges.BridgeRoutes(spec.Key.Symbol) {
			if route.FromChain != spec.Key.Chain {
				continue
			}
			correlationID := uuid.New().String()
			target := graph.TokenKey{Symbol: spec.Key.Symbol, Chain: route.ToChain}
			edge := graph.Edge{
				Kind:              graph.Bridge,
				Target:            target,
				BridgeFeeFraction: route.FeeFraction,
				TimeDelaySeconds:  route.DelaySeconds,
				GasCost:           route.GasCost,
			}
			if err := gb.AddEdge(spec.Key, edge); err != nil {
				sugar.Warnw("skip invalid bridge edge", "correlation_id", correlationID, "from", spec.Key.String(), "to", target.String(), "err", err)
				continue
			}
			sugar.Infow("ingested bridge route", "correlation_id", correlationID, "from", spec.Key.String(), "to", target.String())
		}
	}

	return gb.Build()
}
