package config

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"
)

// AppConfig holds all application configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// VaultName is the display name of the vault this MVM instance hosts.
	VaultName string

	// VaultAccount is the bank account holding the vault's uninvested custody.
	VaultAccount string
	// AdminAccount is the single administrator identity for privileged operations.
	AdminAccount string

	// AssetDenom is the denom the vault pools.
	AssetDenom string
	// ShareDenom is the denom the vault issues ownership shares in.
	ShareDenom string
)

// LoadConfig loads configuration from environment variables and sets the global config vars.
// All environment variables are required and must be set.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	VaultName, err = getEnv("VAULT_NAME")
	if err != nil {
		return err
	}

	VaultAccount, err = getEnv("VAULT_ACCOUNT")
	if err != nil {
		return err
	}

	AdminAccount, err = getEnv("VAULT_ADMIN")
	if err != nil {
		return err
	}

	AssetDenom, err = getEnv("VAULT_ASSET_DENOM")
	if err != nil {
		return err
	}

	ShareDenom, err = getEnv("VAULT_SHARE_DENOM")
	if err != nil {
		return err
	}

	log.Debug().
		Str("VaultName", VaultName).
		Str("AdminAccount", AdminAccount).
		Str("AssetDenom", AssetDenom).
		Str("ShareDenom", ShareDenom).
		Msg("Configuration loaded successfully.")

	return nil
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

// getEnvOptional retrieves a string environment variable with a fallback default.
func getEnvOptional(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
