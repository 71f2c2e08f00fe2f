package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/meridianlabs/mvm/internal/config"
	"github.com/meridianlabs/mvm/internal/ledger"
	"github.com/meridianlabs/mvm/internal/logger"
	"github.com/meridianlabs/mvm/internal/monitor"
	"github.com/meridianlabs/mvm/internal/state"
	"github.com/meridianlabs/mvm/internal/strategies"
	"github.com/meridianlabs/mvm/internal/vault"
	"github.com/meridianlabs/mvm/internal/web"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	MONITOR_INTERVAL = 10 * time.Minute
)

// main is the entry point for the MVM system.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	// Load configuration from environment variables
	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("MVM Core Logic Starting...")

	// Initialize Database Connection (operation journal and snapshots)
	dbCfg := state.DBConfig{
		Host: os.Getenv("DB_HOST"), Port: mustAtoi(os.Getenv("DB_PORT"), 5432),
		User: os.Getenv("DB_USER"), Password: os.Getenv("DB_PASSWORD"),
		DBName: os.Getenv("DB_NAME"), SSLMode: os.Getenv("DB_SSLMODE"),
	}
	if err := state.InitDB(dbCfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer state.CloseDB()
	if err := state.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	// --- 2. Ledger and Vault Initialization (with Safety Switch) ---
	mvmMode := os.Getenv("MVM_MODE")
	if mvmMode != "sim" {
		log.Fatal().Msg("MVM_MODE is not set to 'sim'. Halting: only the simulated ledger backend is available. Set MVM_MODE=sim to run.")
	}

	if err := config.LoadGenesisConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load genesis configuration")
	}

	bank := ledger.NewBank()
	for _, account := range config.GenesisAccounts {
		if err := bank.Mint(account, sdk.NewCoin(config.AssetDenom, config.GenesisFunding)); err != nil {
			log.Fatal().Err(err).Str("account", account).Msg("Failed to fund genesis account")
		}
	}
	log.Info().
		Int("accounts", len(config.GenesisAccounts)).
		Str("funding", config.GenesisFunding.String()).
		Msg("Genesis accounts funded")

	vaultInstance, err := vault.NewVault(vault.Config{
		Name:       config.VaultName,
		Account:    config.VaultAccount,
		Admin:      config.AdminAccount,
		AssetDenom: config.AssetDenom,
		ShareDenom: config.ShareDenom,
		Assets:     bank,
		Shares:     bank,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create vault")
	}

	directory := strategies.NewDirectory()
	for _, name := range config.GenesisStrategies {
		sim, err := strategies.NewSimStrategy(
			name, "strategy:"+name, config.VaultAccount, config.AssetDenom, bank)
		if err != nil {
			log.Fatal().Err(err).Str("strategy", name).Msg("Failed to create genesis strategy")
		}
		if err := vaultInstance.AddStrategy(config.AdminAccount, sim); err != nil {
			log.Fatal().Err(err).Str("strategy", name).Msg("Failed to register genesis strategy")
		}
		if err := directory.Register(sim); err != nil {
			log.Fatal().Err(err).Str("strategy", name).Msg("Failed to index genesis strategy")
		}
	}
	if config.GenesisDefaultStrategy != "" {
		sim, ok := directory.Lookup(config.GenesisDefaultStrategy)
		if !ok {
			log.Fatal().Str("strategy", config.GenesisDefaultStrategy).Msg("Genesis default strategy missing from directory")
		}
		if err := vaultInstance.UpdateDefaultStrategy(config.AdminAccount, sim); err != nil {
			log.Fatal().Err(err).Msg("Failed to set genesis default strategy")
		}
	}
	log.Info().
		Str("vault", config.VaultName).
		Int("strategies", vaultInstance.StrategyCount()).
		Msg("Vault initialized")

	// --- 3. Start Web Server ---
	webPort := os.Getenv("WEB_PORT")
	if webPort == "" {
		webPort = "8080"
	}

	webServer, err := web.NewWebServer(web.Config{
		Port:      webPort,
		Vault:     vaultInstance,
		Bank:      bank,
		Directory: directory,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create web server")
	}
	go func() {
		log.Info().Str("port", webPort).Str("url", "http://localhost:"+webPort).Msg("Starting MVM web dashboard")
		if err := webServer.Start(); err != nil {
			log.Error().Err(err).Msg("Web server failed to start")
		}
	}()

	// --- 4. Start Monitor Loop ---
	monitorInstance, err := monitor.NewMonitor(monitor.Config{Vault: vaultInstance})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create monitor")
	}

	interval := MONITOR_INTERVAL
	if raw := os.Getenv("MONITOR_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			log.Warn().Str("value", raw).Msg("Invalid MONITOR_INTERVAL, using default")
		} else {
			interval = parsed
		}
	}

	log.Info().Str("interval", interval.String()).Msg("Starting monitor loop")

	// Create context for graceful shutdown
	ctx := context.Background()

	// Start the monitor loop (this will run indefinitely)
	monitorInstance.RunLoop(ctx, interval)
}

// Helper to convert string to int with a default value
func mustAtoi(s string, defaultValue int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}
