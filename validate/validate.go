// Package validate re-derives a RouteResult's per-step AMM/bridge math
// independently of whatever a solver cached, and scores the result against
// caller-supplied limits. Grounded in core/liquidity_views.go's PoolView
// (a read-only snapshot rebuilt from live state rather than trusted cached
// fields) and core/amm.go's Quote (re-run AMM math rather than trust a
// cached output) — the same "never trust the cache" posture, applied here
// to an entire route instead of a single pool.
package validate

import (
	"math"

	"github.com/synnergy-network/dexrouting/amm"
	"github.com/synnergy-network/dexrouting/graph"
)

// Severity classifies a Failure's impact.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// Failure codes, one per per-step check in spec §4.6.
const (
	CodePoolUnavailable       = "pool_unavailable"
	CodeInsufficientLiquidity = "insufficient_liquidity"
	CodeExcessiveSlippage     = "excessive_slippage"
	CodeGasTooHigh            = "gas_too_high"
	CodeLongDelay             = "long_delay"
)

// Failure is a structured, unrecoverable-or-recoverable routing-quality
// problem found at a specific step. Failures are never errors: the
// validator reports them, it never returns a Go error for a bad route.
type Failure struct {
	Step        int
	Code        string
	Message     string
	Severity    Severity
	Recoverable bool
}

// Warning is a below-threshold heads-up that does not affect is_valid.
type Warning struct {
	Step    int
	Code    string
	Message string
}

// QualityMetrics holds the seven weighted sub-scores from spec §4.6, each
// in [0, 1] unless noted.
type QualityMetrics struct {
	OutputEfficiency     float64
	GasEfficiency        float64
	PriceImpactScore     float64
	LiquidityScore       float64
	DiversificationScore float64
	RiskScore            float64
	TimeScore            float64
}

// weights, reproduced exactly from spec §4.6 so overall_score is
// deterministic across implementations.
const (
	weightOutputEfficiency     = 0.35
	weightGasEfficiency        = 0.15
	weightPriceImpactScore     = 0.25
	weightLiquidityScore       = 0.10
	weightDiversificationScore = 0.05
	weightRiskScore            = 0.05
	weightTimeScore            = 0.05
)

// Limits are the caller's acceptance thresholds.
type Limits struct {
	MaxSlippage float64 // fraction, e.g. 0.03 for 3%
	MaxGasUSD   float64
	MaxTimeMS   float64
}

// Result is the validator's full report.
type Result struct {
	IsValid      bool
	OverallScore float64
	Failures     []Failure
	Warnings     []Warning
	Metrics      QualityMetrics
}

// Route re-derives route's per-step execution against opts and scores it
// against limits. inputAmount must match the amount the route was solved
// for; nativePriceUSD converts each step's native-unit gas cost to USD.
func Route(route *graph.RouteResult, inputAmount, nativePriceUSD float64, limits Limits, opts amm.Options) *Result {
	res := &Result{}

	var (
		runningAmount  = inputAmount
		theoretical    = inputAmount
		totalGasUSD    float64
		totalTimeMS    float64
		totalSlippage  float64
		poolDepthSum   float64
		poolDepthCount int
		bridgeCount    int
		dexSeen        = map[string]bool{}
	)

	for i, step := range route.Steps {
		e := step.Edge
		gasUSD := e.GasCost * nativePriceUSD
		totalGasUSD += gasUSD

		switch e.Kind {
		case graph.Swap:
			if e.Pool == nil && !e.HasNominalRate {
				res.Failures = append(res.Failures, Failure{
					Step: i, Code: CodePoolUnavailable,
					Message:     "swap edge has no pool and no nominal rate",
					Severity:    SeverityCritical,
					Recoverable: false,
				})
				runningAmount = 0
				continue
			}

			if e.Pool != nil {
				poolDepthSum += e.Pool.LiquidityUSD
				poolDepthCount++

				fraction := runningAmount / e.Pool.ReserveBase
				switch {
				case fraction > 0.30:
					res.Failures = append(res.Failures, Failure{
						Step: i, Code: CodeInsufficientLiquidity,
						Message:     "trade consumes more than 30% of pool reserve",
						Severity:    SeverityCritical,
						Recoverable: false,
					})
				case fraction > 0.10:
					res.Warnings = append(res.Warnings, Warning{
						Step: i, Code: CodeInsufficientLiquidity,
						Message: "trade consumes more than 10% of pool reserve",
					})
				}

				out, impact, priced := priceSwap(runningAmount, e.Pool, opts)
				if !priced && e.HasNominalRate {
					out, impact = runningAmount*e.NominalRate, 0
				}
				theoretical *= spotRate(e.Pool)
				totalSlippage += impact

				if impact > limits.MaxSlippage {
					res.Failures = append(res.Failures, Failure{
						Step: i, Code: CodeExcessiveSlippage,
						Message:     "price impact exceeds max_slippage",
						Severity:    SeverityHigh,
						Recoverable: true,
					})
				} else if limits.MaxSlippage > 0 && impact >= 0.5*limits.MaxSlippage {
					res.Warnings = append(res.Warnings, Warning{
						Step: i, Code: CodeExcessiveSlippage,
						Message: "price impact at or above half of max_slippage",
					})
				}
				runningAmount = out
			} else {
				theoretical *= e.NominalRate
				runningAmount *= e.NominalRate
			}

			if e.DEX != "" {
				dexSeen[e.DEX] = true
			}

		case graph.Bridge:
			bridgeCount++
			runningAmount *= 1 - e.BridgeFeeFraction
			theoretical *= 1
			totalTimeMS += e.TimeDelaySeconds * 1000
		}

		totalTimeMS += e.ExecTimeSec * 1000

		if gasUSD > limits.MaxGasUSD {
			res.Failures = append(res.Failures, Failure{
				Step: i, Code: CodeGasTooHigh,
				Message:     "per-step gas in USD exceeds max_gas_usd",
				Severity:    SeverityMedium,
				Recoverable: true,
			})
		} else if limits.MaxGasUSD > 0 && gasUSD >= 0.5*limits.MaxGasUSD {
			res.Warnings = append(res.Warnings, Warning{
				Step: i, Code: CodeGasTooHigh,
				Message: "per-step gas at or above half of max_gas_usd",
			})
		}
	}

	if limits.MaxTimeMS > 0 && totalTimeMS > limits.MaxTimeMS {
		res.Warnings = append(res.Warnings, Warning{
			Code:    CodeLongDelay,
			Message: "sum of per-step execution times exceeds max_time_ms",
		})
	}

	avgPoolDepth := 0.0
	if poolDepthCount > 0 {
		avgPoolDepth = poolDepthSum / float64(poolDepthCount)
	}

	m := QualityMetrics{}
	if theoretical > 0 {
		m.OutputEfficiency = clamp01(runningAmount / theoretical)
	}
	if totalGasUSD > 0 {
		m.GasEfficiency = math.Min(100, runningAmount/totalGasUSD) / 100
	} else {
		m.GasEfficiency = 1
	}
	m.PriceImpactScore = math.Max(0, 1-totalSlippage)
	m.LiquidityScore = math.Min(1, math.Log10(avgPoolDepth+1)/6)
	m.DiversificationScore = math.Min(1, float64(len(dexSeen))/3)
	m.RiskScore = math.Max(0, 1-(float64(bridgeCount)*0.2+(1-m.LiquidityScore)*0.3))
	m.TimeScore = math.Max(0, 1-totalTimeMS/600_000)
	res.Metrics = m

	overall := 100 * (weightOutputEfficiency*m.OutputEfficiency +
		weightGasEfficiency*m.GasEfficiency +
		weightPriceImpactScore*m.PriceImpactScore +
		weightLiquidityScore*m.LiquidityScore +
		weightDiversificationScore*m.DiversificationScore +
		weightRiskScore*m.RiskScore +
		weightTimeScore*m.TimeScore)
	res.OverallScore = math.Round(overall*10) / 10

	res.IsValid = true
	for _, f := range res.Failures {
		if f.Severity == SeverityCritical {
			res.IsValid = false
			break
		}
	}
	return res
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// spotRate returns a pool's ideal, zero-slippage exchange rate, used to
// compute the theoretical (no-impact) output a route's output_efficiency
// is measured against.
func spotRate(p *graph.LiquidityPool) float64 {
	if p.ReserveBase <= 0 {
		return 0
	}
	return p.ReserveQuote / p.ReserveBase
}

// priceSwap re-prices a swap edge through the same AMM family dispatch the
// solver's cost package uses, independently of any cached step output.
func priceSwap(amount float64, p *graph.LiquidityPool, opts amm.Options) (output, priceImpact float64, ok bool) {
	var res amm.Result
	var err error
	switch p.Kind {
	case graph.StableSwap:
		res, err = amm.StableSwap(amount, p.ReserveBase, p.ReserveQuote, p.FeeFraction, opts)
	case graph.Concentrated:
		res, err = amm.Concentrated(amount, p.ReserveBase, p.ReserveQuote, p.FeeFraction, opts)
	default:
		res, err = amm.ConstantProduct(amount, p.ReserveBase, p.ReserveQuote, p.FeeFraction, opts)
	}
	if err != nil {
		return 0, 0, false
	}
	return res.Output, res.PriceImpact, true
}
