// Package routeconfig loads the routing core's build options — the handful
// of tunables named in spec §6 ("Configuration") — the way pkg/config loads
// a node's Config: Viper reads a named config file plus environment
// overrides into a typed struct via mapstructure tags.
package routeconfig

import (
	"github.com/spf13/viper"

	"github.com/synnergy-network/dexrouting/amm"
	"github.com/synnergy-network/dexrouting/cost"
	"github.com/synnergy-network/dexrouting/pkg/utils"
)

// AMMOptions mirrors amm.Options with mapstructure tags for the "amm.*"
// config keys in spec §6.
type AMMOptions struct {
	ActiveRangeFraction float64 `mapstructure:"active_range_fraction"`
	DefaultStableA      float64 `mapstructure:"default_stable_a"`
	MaxTradeFraction    float64 `mapstructure:"max_trade_fraction"`
}

// BuildOptions is the full set of recognized build-time options from spec
// §6: gas_normalizer, bridge_time_coefficient, default_max_hops, and the
// nested amm.* group.
type BuildOptions struct {
	GasNormalizer         float64    `mapstructure:"gas_normalizer"`
	BridgeTimeCoefficient float64    `mapstructure:"bridge_time_coefficient"`
	DefaultMaxHops        int        `mapstructure:"default_max_hops"`
	AMM                   AMMOptions `mapstructure:"amm"`
}

// Defaults returns the spec's nominal build options.
func Defaults() BuildOptions {
	d := amm.DefaultOptions()
	c := cost.DefaultOptions()
	return BuildOptions{
		GasNormalizer:         c.GasNormalizer,
		BridgeTimeCoefficient: c.BridgeTimeCoefficient,
		DefaultMaxHops:        4,
		AMM: AMMOptions{
			ActiveRangeFraction: d.ActiveRangeFraction,
			DefaultStableA:      d.StableA,
			MaxTradeFraction:    d.MaxTradeFraction,
		},
	}
}

// Load reads a named config file (default "route") from the given search
// paths plus environment overrides (prefix ROUTE_), and merges it over
// Defaults(). Missing config files are not an error: Defaults() alone is a
// complete, valid configuration.
func Load(configName string, searchPaths ...string) (BuildOptions, error) {
	opts := Defaults()

	v := viper.New()
	v.SetConfigName(configNameOrDefault(configName))
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("ROUTE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return opts, utils.Wrap(err, "load route config")
		}
	}
	if err := v.Unmarshal(&opts); err != nil {
		return opts, utils.Wrap(err, "unmarshal route config")
	}
	return opts, nil
}

func configNameOrDefault(name string) string {
	if name == "" {
		return "route"
	}
	return name
}

// ToAMMOptions converts the nested AMM config into amm.Options.
func (o BuildOptions) ToAMMOptions() amm.Options {
	return amm.Options{
		MaxTradeFraction:    o.AMM.MaxTradeFraction,
		StableA:             o.AMM.DefaultStableA,
		ActiveRangeFraction: o.AMM.ActiveRangeFraction,
	}
}

// ToCostOptions converts BuildOptions into cost.Options.
func (o BuildOptions) ToCostOptions() cost.Options {
	return cost.Options{
		GasNormalizer:         o.GasNormalizer,
		BridgeTimeCoefficient: o.BridgeTimeCoefficient,
		AMM:                   o.ToAMMOptions(),
	}
}
