package vault

import (
	"errors"
	"fmt"
	"sync"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"

	"github.com/meridianlabs/mvm/internal/logger"
	"github.com/meridianlabs/mvm/internal/types"
	"github.com/meridianlabs/mvm/internal/utils"
)

// Error definitions for zero-tolerance error handling
var (
	ErrNotAuthorized         = errors.New("caller is not the vault administrator")
	ErrNilStrategy           = errors.New("strategy is nil")
	ErrAlreadyRegistered     = errors.New("strategy is already registered")
	ErrNotRegistered         = errors.New("strategy is not registered")
	ErrTargetNotRegistered   = errors.New("rebalance target is not registered")
	ErrInvalidAsset          = errors.New("strategy asset does not match vault asset")
	ErrZeroShares            = errors.New("deposit would mint zero shares")
	ErrLengthMismatch        = errors.New("targets and amounts must have equal length")
	ErrInsufficientFunds     = errors.New("requested amounts exceed available funds")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity to source withdrawal")
	ErrInvalidAmount         = errors.New("amount is invalid")
	ErrEmptyAccount          = errors.New("account identifier is empty")
	ErrInvalidConfig         = errors.New("vault configuration is invalid")
)

// Vault pools a single asset denom from many depositors, issues proportional
// ownership shares against it, and spreads the pooled funds across registered
// yield strategies. All operations run inside one exclusive critical section,
// so internal accounting is never observable in a half-updated state.
type Vault struct {
	mu sync.Mutex

	name       string
	account    string // bank account holding uninvested custody
	admin      string
	assetDenom string
	shareDenom string

	assets AssetSource
	shares ShareIssuer

	// strategies preserves registration order; registered gives O(1) membership.
	strategies      []Strategy
	registered      map[Strategy]struct{}
	defaultStrategy Strategy

	// idle tracks custody not delegated to any strategy. It is authoritative:
	// the engine never re-derives it from the bank.
	idle sdkmath.Int

	logger zerolog.Logger
}

// Config holds the dependencies and identity for creating a new Vault.
type Config struct {
	Name       string
	Account    string
	Admin      string
	AssetDenom string
	ShareDenom string
	Assets     AssetSource
	Shares     ShareIssuer
}

// NewVault creates a vault engine with comprehensive validation.
func NewVault(cfg Config) (*Vault, error) {
	if err := validateVaultConfig(cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	v := &Vault{
		name:       cfg.Name,
		account:    cfg.Account,
		admin:      cfg.Admin,
		assetDenom: cfg.AssetDenom,
		shareDenom: cfg.ShareDenom,
		assets:     cfg.Assets,
		shares:     cfg.Shares,
		strategies: make([]Strategy, 0),
		registered: make(map[Strategy]struct{}),
		idle:       sdkmath.ZeroInt(),
		logger:     logger.GetForComponent("vault_engine").With().Str("vault", cfg.Name).Logger(),
	}

	v.logger.Info().
		Str("account", v.account).
		Str("admin", v.admin).
		Str("assetDenom", v.assetDenom).
		Str("shareDenom", v.shareDenom).
		Msg("Vault engine created")

	return v, nil
}

// validateVaultConfig validates the vault configuration.
func validateVaultConfig(cfg Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("vault name cannot be empty")
	}
	if cfg.Account == "" {
		return fmt.Errorf("vault account cannot be empty")
	}
	if cfg.Admin == "" {
		return fmt.Errorf("administrator account cannot be empty")
	}
	if err := sdk.ValidateDenom(cfg.AssetDenom); err != nil {
		return fmt.Errorf("asset denom: %w", err)
	}
	if err := sdk.ValidateDenom(cfg.ShareDenom); err != nil {
		return fmt.Errorf("share denom: %w", err)
	}
	if cfg.AssetDenom == cfg.ShareDenom {
		return fmt.Errorf("asset and share denoms must differ")
	}
	if cfg.Assets == nil {
		return fmt.Errorf("asset source cannot be nil")
	}
	if cfg.Shares == nil {
		return fmt.Errorf("share issuer cannot be nil")
	}
	return nil
}

// Name returns the vault's display name.
func (v *Vault) Name() string { return v.name }

// Account returns the bank account holding the vault's custody.
func (v *Vault) Account() string { return v.account }

// Admin returns the administrator account.
func (v *Vault) Admin() string { return v.admin }

// AssetDenom returns the denom the vault pools.
func (v *Vault) AssetDenom() string { return v.assetDenom }

// ShareDenom returns the denom the vault issues ownership in.
func (v *Vault) ShareDenom() string { return v.shareDenom }

// TotalManagedValue returns the idle balance plus every registered strategy's
// reported balance. Yield and losses inside strategies show up here first.
func (v *Vault) TotalManagedValue() sdkmath.Int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalManagedValueLocked()
}

// IdleBalance returns custody currently not delegated to any strategy.
func (v *Vault) IdleBalance() sdkmath.Int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.idle
}

// ShareSupply returns the outstanding share supply.
func (v *Vault) ShareSupply() sdkmath.Int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.shares.Supply(v.shareDenom)
}

// SharePrice returns the current value of one share in asset units. With no
// shares outstanding the bootstrap price is one.
func (v *Vault) SharePrice() sdkmath.LegacyDec {
	v.mu.Lock()
	defer v.mu.Unlock()

	supply := v.shares.Supply(v.shareDenom)
	if supply.IsZero() {
		return sdkmath.LegacyOneDec()
	}
	return sdkmath.LegacyNewDecFromInt(v.totalManagedValueLocked()).
		Quo(sdkmath.LegacyNewDecFromInt(supply))
}

// IsStrategy reports whether the given strategy is registered.
func (v *Vault) IsStrategy(s Strategy) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.registered[s]
	return ok
}

// StrategyCount returns the number of registered strategies.
func (v *Vault) StrategyCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.strategies)
}

// Strategies returns the registered strategies in registration order.
func (v *Vault) Strategies() []Strategy {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Strategy, len(v.strategies))
	copy(out, v.strategies)
	return out
}

// DefaultStrategy returns the strategy new deposits are routed to, if any.
func (v *Vault) DefaultStrategy() (Strategy, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.defaultStrategy, v.defaultStrategy != nil
}

// ConvertToShares previews the shares a deposit of amount would mint at the
// current share price.
func (v *Vault) ConvertToShares(amount sdkmath.Int) (sdkmath.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	shares, err := utils.AssetsToShares(amount, v.shares.Supply(v.shareDenom), v.totalManagedValueLocked())
	if err != nil {
		return sdkmath.ZeroInt(), errors.Join(ErrInvalidAmount, err)
	}
	return shares, nil
}

// ConvertToAssets previews the assets a redemption of shares would pay out at
// the current share price.
func (v *Vault) ConvertToAssets(shares sdkmath.Int) (sdkmath.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	assets, err := utils.SharesToAssets(shares, v.shares.Supply(v.shareDenom), v.totalManagedValueLocked())
	if err != nil {
		return sdkmath.ZeroInt(), errors.Join(ErrInvalidAmount, err)
	}
	return assets, nil
}

// Snapshot captures the vault's full accounting state at one instant.
func (v *Vault) Snapshot() types.VaultSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	supply := v.shares.Supply(v.shareDenom)
	total := v.totalManagedValueLocked()

	price := sdkmath.LegacyOneDec()
	if !supply.IsZero() {
		price = sdkmath.LegacyNewDecFromInt(total).Quo(sdkmath.LegacyNewDecFromInt(supply))
	}

	balances := make([]types.StrategyBalance, len(v.strategies))
	for i, s := range v.strategies {
		balances[i] = types.StrategyBalance{
			Name:      strategyLabel(s, i),
			Balance:   s.Balance().String(),
			IsDefault: s == v.defaultStrategy,
		}
	}

	defaultName := ""
	if v.defaultStrategy != nil {
		defaultName = strategyLabel(v.defaultStrategy, indexOf(v.strategies, v.defaultStrategy))
	}

	return types.VaultSnapshot{
		Timestamp:         time.Now().UTC(),
		VaultName:         v.name,
		AssetDenom:        v.assetDenom,
		ShareDenom:        v.shareDenom,
		TotalManagedValue: total.String(),
		IdleBalance:       v.idle.String(),
		ShareSupply:       supply.String(),
		SharePrice:        price.String(),
		DefaultStrategy:   defaultName,
		Strategies:        balances,
	}
}

// totalManagedValueLocked sums idle custody and strategy balances. Callers
// must hold the vault lock.
func (v *Vault) totalManagedValueLocked() sdkmath.Int {
	total := v.idle
	for _, s := range v.strategies {
		total = total.Add(s.Balance())
	}
	return total
}

// assetCoin wraps an amount in the vault's asset denom.
func (v *Vault) assetCoin(amount sdkmath.Int) sdk.Coin {
	return sdk.NewCoin(v.assetDenom, amount)
}

// shareCoin wraps an amount in the vault's share denom.
func (v *Vault) shareCoin(amount sdkmath.Int) sdk.Coin {
	return sdk.NewCoin(v.shareDenom, amount)
}

// validateAmount rejects nil or negative operation amounts.
func validateAmount(amount sdkmath.Int) error {
	if amount.IsNil() {
		return errors.Join(ErrInvalidAmount, utils.ErrAmountNil)
	}
	if amount.IsNegative() {
		return errors.Join(ErrInvalidAmount, fmt.Errorf("%s is negative", amount.String()))
	}
	return nil
}

// validateOperationAccount rejects empty account identifiers on operations.
func validateOperationAccount(role, account string) error {
	if account == "" {
		return errors.Join(ErrEmptyAccount, fmt.Errorf("%s account is required", role))
	}
	return nil
}

// strategyLabel resolves a display name for a strategy, falling back to its
// registration position.
func strategyLabel(s Strategy, index int) string {
	if named, ok := s.(NamedStrategy); ok {
		return named.Name()
	}
	return fmt.Sprintf("strategy-%d", index)
}

// indexOf returns the position of a strategy in the registration order, -1 if
// absent.
func indexOf(strategies []Strategy, target Strategy) int {
	for i, s := range strategies {
		if s == target {
			return i
		}
	}
	return -1
}
