// Package cost implements the edge cost function: mapping a (carried
// amount, edge) pair to a non-negative, strictly additive log-space weight
// plus the realized output amount. It is the one place that dispatches
// between the three AMM families and the bridge fee model, grounded in
// core/amm.go's bestPath, which already computes
// `cost := n.cost - math.Log(e.price)` for its single constant-product
// family — this package generalizes that single line into the full formula
// the routing spec requires (gas normalization, bridge time penalty,
// nominal-rate fallback, unusable-edge sentinel).
package cost

import (
	"errors"
	"math"

	"github.com/synnergy-network/dexrouting/amm"
	"github.com/synnergy-network/dexrouting/graph"
)

// ErrUnusableEdge is returned when an edge can be priced by neither its AMM
// pool nor a nominal fallback rate. The caller-visible weight for such an
// edge is +Inf, guaranteeing a solver never relaxes into it.
var ErrUnusableEdge = errors.New("cost: edge has no usable rate")

// DefaultGasNormalizer places gas cost on the same order of magnitude as
// log-rate contributions (spec §4.2, §6).
const DefaultGasNormalizer = 1e9

// DefaultBridgeTimeCoefficient converts bridge latency (seconds) into
// log-rate units (spec §4.2, §6).
const DefaultBridgeTimeCoefficient = 1e-5

// Options configures the edge cost function and is threaded down into the
// AMM kernel.
type Options struct {
	GasNormalizer         float64
	BridgeTimeCoefficient float64
	AMM                   amm.Options
}

// DefaultOptions returns the spec's nominal cost configuration.
func DefaultOptions() Options {
	return Options{
		GasNormalizer:         DefaultGasNormalizer,
		BridgeTimeCoefficient: DefaultBridgeTimeCoefficient,
		AMM:                   amm.DefaultOptions(),
	}
}

func gasNormalizer(opts Options) float64 {
	if opts.GasNormalizer <= 0 {
		return DefaultGasNormalizer
	}
	return opts.GasNormalizer
}

func bridgeTimeCoefficient(opts Options) float64 {
	if opts.BridgeTimeCoefficient < 0 {
		return DefaultBridgeTimeCoefficient
	}
	return opts.BridgeTimeCoefficient
}

// Edge computes the weight and realized output for traversing e while
// carrying `amount` of the edge's source token. The weight is always
// finite and non-negative for a usable edge (P1); an unusable edge reports
// +Inf alongside ErrUnusableEdge so callers can treat it uniformly as
// "never relax into this."
func Edge(amount float64, e graph.Edge, opts Options) (weight float64, output float64, err error) {
	switch e.Kind {
	case graph.Swap:
		return swapEdge(amount, e, opts)
	case graph.Bridge:
		return bridgeEdgeWeight(e, opts), amount * (1 - e.BridgeFeeFraction), nil
	default:
		return math.Inf(1), 0, ErrUnusableEdge
	}
}

func swapEdge(amount float64, e graph.Edge, opts Options) (float64, float64, error) {
	if e.Pool != nil {
		res, ammErr := priceSwap(amount, e.Pool, opts.AMM)
		if ammErr == nil {
			w := -math.Log(res.EffectiveRate) + e.GasCost/gasNormalizer(opts)
			return w, res.Output, nil
		}
	}
	if e.HasNominalRate && e.NominalRate > 0 {
		w := -math.Log(e.NominalRate) + e.GasCost/gasNormalizer(opts)
		return w, amount * e.NominalRate, nil
	}
	return math.Inf(1), 0, ErrUnusableEdge
}

func bridgeEdgeWeight(e graph.Edge, opts Options) float64 {
	return -math.Log(1-e.BridgeFeeFraction) +
		e.TimeDelaySeconds*bridgeTimeCoefficient(opts) +
		e.GasCost/gasNormalizer(opts)
}

func priceSwap(amount float64, p *graph.LiquidityPool, opts amm.Options) (amm.Result, error) {
	switch p.Kind {
	case graph.StableSwap:
		return amm.StableSwap(amount, p.ReserveBase, p.ReserveQuote, p.FeeFraction, opts)
	case graph.Concentrated:
		return amm.Concentrated(amount, p.ReserveBase, p.ReserveQuote, p.FeeFraction, opts)
	default:
		return amm.ConstantProduct(amount, p.ReserveBase, p.ReserveQuote, p.FeeFraction, opts)
	}
}
