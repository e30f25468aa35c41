package main

import (
	"fmt"
	"strings"

	"github.com/pbanos/sapling/feature"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	continuousThresholdKey = "continuous-threshold"
	minGainKey             = "min-gain"
	redisAddrKey           = "redis-addr"
	redisKeyPrefixKey      = "redis-key-prefix"
	undefinedValueKey      = "undefined-value"

	envPrefix = "SAPLING"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(continuousThresholdKey, feature.DefaultDistinctValueThreshold)
	v.SetDefault(minGainKey, 0.0)
	v.SetDefault(redisAddrKey, "localhost:6379")
	v.SetDefault(redisKeyPrefixKey, "sapling")
	v.SetDefault(undefinedValueKey, "?")
	v.SetEnvPrefix(envPrefix)
	// SAPLING_MIN_GAIN for min-gain
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

/*
setup reads the config file, if one was given, and binds the given keys to
the flags with the same name on cmd, so that flags set on the command line
take precedence over environment variables, which take precedence over the
config file.
*/
func (rcc *rootCmdConfig) setup(cmd *cobra.Command, keys ...string) error {
	if rcc.configFile != "" {
		rcc.v.SetConfigFile(rcc.configFile)
		if err := rcc.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %v", rcc.configFile, err)
		}
		rcc.Logf("Using config file %s", rcc.v.ConfigFileUsed())
	}
	for _, k := range keys {
		f := cmd.Flags().Lookup(k)
		if f == nil {
			continue
		}
		if err := rcc.v.BindPFlag(k, f); err != nil {
			return fmt.Errorf("binding flag %s: %v", k, err)
		}
	}
	return validateConfig(rcc.v)
}

// addModelFlags adds the flags tuning how trees are grown and stored
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().Int(continuousThresholdKey, feature.DefaultDistinctValueThreshold, "continuous features are split by threshold only if they have more distinct values than this")
	cmd.Flags().Float64(minGainKey, 0.0, "information gain in bits that a split must exceed to be added to the tree")
	addRedisFlags(cmd)
}

// addRedisFlags adds the flags locating the Redis model store
func addRedisFlags(cmd *cobra.Command) {
	cmd.Flags().String(redisAddrKey, "localhost:6379", "address of the Redis server holding redis:NAME models")
	cmd.Flags().String(redisKeyPrefixKey, "sapling", "prefix of the Redis keys models are stored under")
}

func validateConfig(v *viper.Viper) error {
	if v.GetInt(continuousThresholdKey) < 0 {
		return fmt.Errorf("%s must not be negative", continuousThresholdKey)
	}
	if v.GetFloat64(minGainKey) < 0 {
		return fmt.Errorf("%s must not be negative", minGainKey)
	}
	if v.GetString(undefinedValueKey) == "" {
		return fmt.Errorf("%s must not be empty", undefinedValueKey)
	}
	return nil
}
