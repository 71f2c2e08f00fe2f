/*

This file contains the sim-mode genesis settings: the demo accounts funded at
boot and the strategies registered before the first request is served.

*/

package config

import (
	"errors"
	"strings"

	sdkmath "cosmossdk.io/math"
)

var (
	// GenesisAccounts are funded with GenesisFunding of the vault asset at boot.
	GenesisAccounts []string
	// GenesisFunding is the per-account funding amount in base units.
	GenesisFunding sdkmath.Int
	// GenesisStrategies are registered in order at boot.
	GenesisStrategies []string
	// GenesisDefaultStrategy, when non-empty, names the boot-time default
	// strategy. It must appear in GenesisStrategies.
	GenesisDefaultStrategy string
)

// LoadGenesisConfig loads the sim-mode genesis settings from environment
// variables. GENESIS_ACCOUNTS and GENESIS_FUNDING are required; the strategy
// settings are optional.
func LoadGenesisConfig() error {
	accounts, err := getEnv("GENESIS_ACCOUNTS")
	if err != nil {
		return err
	}
	GenesisAccounts = splitList(accounts)
	if len(GenesisAccounts) == 0 {
		return errors.New("GENESIS_ACCOUNTS must name at least one account")
	}

	funding, err := getEnv("GENESIS_FUNDING")
	if err != nil {
		return err
	}
	amount, ok := sdkmath.NewIntFromString(funding)
	if !ok || amount.IsNegative() {
		return errors.New("GENESIS_FUNDING must be a non-negative integer, got: " + funding)
	}
	GenesisFunding = amount

	GenesisStrategies = splitList(getEnvOptional("GENESIS_STRATEGIES", ""))

	GenesisDefaultStrategy = strings.TrimSpace(getEnvOptional("GENESIS_DEFAULT_STRATEGY", ""))
	if GenesisDefaultStrategy != "" {
		found := false
		for _, name := range GenesisStrategies {
			if name == GenesisDefaultStrategy {
				found = true
				break
			}
		}
		if !found {
			return errors.New("GENESIS_DEFAULT_STRATEGY must be listed in GENESIS_STRATEGIES")
		}
	}

	return nil
}

// splitList parses a comma-separated env value, dropping empty entries.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
