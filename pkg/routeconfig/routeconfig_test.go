package routeconfig

import "testing"

func TestDefaultsMatchSpec(t *testing.T) {
	d := Defaults()
	if d.GasNormalizer != 1e9 {
		t.Fatalf("GasNormalizer = %v, want 1e9", d.GasNormalizer)
	}
	if d.BridgeTimeCoefficient != 1e-5 {
		t.Fatalf("BridgeTimeCoefficient = %v, want 1e-5", d.BridgeTimeCoefficient)
	}
	if d.DefaultMaxHops != 4 {
		t.Fatalf("DefaultMaxHops = %v, want 4", d.DefaultMaxHops)
	}
	if d.AMM.ActiveRangeFraction != 0.30 {
		t.Fatalf("ActiveRangeFraction = %v, want 0.30", d.AMM.ActiveRangeFraction)
	}
	if d.AMM.DefaultStableA != 100 {
		t.Fatalf("DefaultStableA = %v, want 100", d.AMM.DefaultStableA)
	}
	if d.AMM.MaxTradeFraction != 0.90 {
		t.Fatalf("MaxTradeFraction = %v, want 0.90", d.AMM.MaxTradeFraction)
	}
}

func TestLoadWithoutConfigFileReturnsDefaults(t *testing.T) {
	opts, err := Load("nonexistent-route-config", t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts != Defaults() {
		t.Fatalf("Load without a config file should return Defaults(), got %+v", opts)
	}
}

func TestToOptionsConversions(t *testing.T) {
	opts := Defaults()
	ammOpts := opts.ToAMMOptions()
	if ammOpts.StableA != opts.AMM.DefaultStableA {
		t.Fatalf("ToAMMOptions.StableA = %v, want %v", ammOpts.StableA, opts.AMM.DefaultStableA)
	}
	costOpts := opts.ToCostOptions()
	if costOpts.GasNormalizer != opts.GasNormalizer {
		t.Fatalf("ToCostOptions.GasNormalizer = %v, want %v", costOpts.GasNormalizer, opts.GasNormalizer)
	}
}
