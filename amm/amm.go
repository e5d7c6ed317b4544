// Package amm implements the three AMM pricing families the routing core
// supports: constant-product, stable-swap, and concentrated-liquidity. Every
// function here is pure: no I/O, no allocation beyond the returned Result,
// and no shared state — grounded in core/liquidity_pools.go's constant-
// product Swap and core/amm.go's float64 Quote math, generalized to the
// three closed forms the routing spec requires and promoted to named
// sentinel errors.
package amm

import (
	"errors"
	"math"
)

// Sentinel AMM errors. All are recovered locally by the edge-cost function,
// which falls back to a nominal rate or marks the edge unusable; none of
// these propagate to a solver.
var (
	ErrTradeTooLarge      = errors.New("amm: trade too large relative to reserves")
	ErrNonPositiveReserve = errors.New("amm: non-positive reserve")
	ErrNonPositiveInput   = errors.New("amm: non-positive input amount")
)

// Options parameterizes the three pricing families. All fields have
// conservative defaults (DefaultOptions) and are normally threaded through
// from the caller-supplied build options (spec §6).
type Options struct {
	// MaxTradeFraction bounds dx against the input-side reserve; trades at
	// or above this fraction fail with ErrTradeTooLarge. Default 0.90.
	MaxTradeFraction float64
	// StableA is the stable-swap amplification coefficient. Default 100.
	StableA float64
	// ActiveRangeFraction is the concentrated-liquidity active-range
	// fraction applied to both reserves before pricing. Default 0.30.
	ActiveRangeFraction float64
}

// DefaultOptions returns the spec's nominal AMM configuration.
func DefaultOptions() Options {
	return Options{
		MaxTradeFraction:    0.90,
		StableA:             100,
		ActiveRangeFraction: 0.30,
	}
}

// Result is the outcome of pricing a trade against a pool.
type Result struct {
	Output        float64
	EffectiveRate float64
	PriceImpact   float64
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

func checkInputs(dx, x, y float64) error {
	if x <= 0 || y <= 0 {
		return ErrNonPositiveReserve
	}
	if dx <= 0 {
		return ErrNonPositiveInput
	}
	return nil
}

func maxFraction(opts Options) float64 {
	if opts.MaxTradeFraction <= 0 {
		return 0.90
	}
	return opts.MaxTradeFraction
}

// constantProductOut returns the raw constant-product output for dx against
// reserves x (input side) and y (output side) at fee fraction f. Callers
// have already validated reserves/input/trade-size.
func constantProductOut(dx, x, y, f float64) float64 {
	dxAfterFee := dx * (1 - f)
	return (y * dxAfterFee) / (x + dxAfterFee)
}

// ConstantProduct prices a trade against a Uniswap-V2-style x*y=k pool.
func ConstantProduct(dx, x, y, fee float64, opts Options) (Result, error) {
	if err := checkInputs(dx, x, y); err != nil {
		return Result{}, err
	}
	if dx >= maxFraction(opts)*x {
		return Result{}, ErrTradeTooLarge
	}
	out := constantProductOut(dx, x, y, fee)
	effRate := out / dx
	spotAdjusted := dx * (y / x) * (1 - fee)
	impact := clamp01(1 - out/spotAdjusted)
	return Result{Output: out, EffectiveRate: effRate, PriceImpact: impact}, nil
}

// StableSwap prices a trade against a Curve-style stablecoin-optimized pool,
// blending a constant-sum output with a constant-product output by a weight
// that favors the constant-sum side as the amplification coefficient grows
// and the reserves stay balanced.
func StableSwap(dx, x, y, fee float64, opts Options) (Result, error) {
	if err := checkInputs(dx, x, y); err != nil {
		return Result{}, err
	}
	if dx >= maxFraction(opts)*x {
		return Result{}, ErrTradeTooLarge
	}
	a := opts.StableA
	if a <= 0 {
		a = 100
	}
	minXY, maxXY := x, y
	if minXY > maxXY {
		minXY, maxXY = maxXY, minXY
	}
	w := math.Min(1, a/200) * (minXY / maxXY)

	constantSumOut := dx * (1 - fee)
	cpOut := constantProductOut(dx, x, y, fee)
	out := w*constantSumOut + (1-w)*cpOut

	effRate := out / dx
	spotAdjusted := dx * (y / x) * (1 - fee)
	impact := clamp01(1 - out/spotAdjusted)
	return Result{Output: out, EffectiveRate: effRate, PriceImpact: impact}, nil
}

// Concentrated prices a trade against a Uniswap-V3-style pool by applying
// the constant-product formula to reserves scaled by the active-range
// fraction, approximating the effect of liquidity concentrated around the
// current price.
func Concentrated(dx, x, y, fee float64, opts Options) (Result, error) {
	if err := checkInputs(dx, x, y); err != nil {
		return Result{}, err
	}
	frac := opts.ActiveRangeFraction
	if frac <= 0 {
		frac = 0.30
	}
	effX, effY := x*frac, y*frac
	if dx >= maxFraction(opts)*effX {
		return Result{}, ErrTradeTooLarge
	}
	out := constantProductOut(dx, effX, effY, fee)
	effRate := out / dx
	spotAdjusted := dx * (y / x) * (1 - fee)
	impact := clamp01(1 - out/spotAdjusted)
	return Result{Output: out, EffectiveRate: effRate, PriceImpact: impact}, nil
}
