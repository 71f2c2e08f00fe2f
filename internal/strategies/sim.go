/*
This file contains the simulated yield strategy adapter. It custodies its
allocation in its own bank account and settles deposits and withdrawals
against the vault's custody account. Yield and losses are injected by minting
or burning in place, which the vault observes through Balance.
*/

package strategies

import (
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"

	"github.com/meridianlabs/mvm/internal/ledger"
	"github.com/meridianlabs/mvm/internal/logger"
	"github.com/meridianlabs/mvm/internal/vault"
)

// Error definitions for zero-tolerance error handling
var (
	ErrInvalidConfig = errors.New("strategy configuration is invalid")
	ErrAmountInvalid = errors.New("amount is invalid")
)

var _ vault.NamedStrategy = (*SimStrategy)(nil)

// SimStrategy is an in-process strategy backed by the bank ledger.
type SimStrategy struct {
	name    string
	account string
	vault   string
	denom   string
	bank    *ledger.Bank
	logger  zerolog.Logger
}

// NewSimStrategy creates a simulated strategy settling against the given vault
// custody account.
func NewSimStrategy(name, account, vaultAccount, denom string, bank *ledger.Bank) (*SimStrategy, error) {
	if name == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("name cannot be empty"))
	}
	if account == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("account cannot be empty"))
	}
	if vaultAccount == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("vault account cannot be empty"))
	}
	if err := sdk.ValidateDenom(denom); err != nil {
		return nil, errors.Join(ErrInvalidConfig, fmt.Errorf("denom: %w", err))
	}
	if bank == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("bank cannot be nil"))
	}

	return &SimStrategy{
		name:    name,
		account: account,
		vault:   vaultAccount,
		denom:   denom,
		bank:    bank,
		logger:  logger.GetForComponent("sim_strategy").With().Str("strategy", name).Logger(),
	}, nil
}

// Name returns the strategy's display name.
func (s *SimStrategy) Name() string { return s.name }

// Asset returns the denom the strategy accepts and reports in.
func (s *SimStrategy) Asset() string { return s.denom }

// Account returns the bank account custodying the strategy's funds.
func (s *SimStrategy) Account() string { return s.account }

// Balance reports the strategy's holdings, including injected yield or losses.
func (s *SimStrategy) Balance() sdkmath.Int {
	return s.bank.BalanceOf(s.account, s.denom)
}

// Deposit pulls amount from the vault's custody into the strategy's account.
func (s *SimStrategy) Deposit(amount sdkmath.Int) error {
	if err := validateStrategyAmount(amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	if err := s.bank.Transfer(s.vault, s.account, sdk.NewCoin(s.denom, amount)); err != nil {
		return fmt.Errorf("strategy %s accepting deposit: %w", s.name, err)
	}
	s.logger.Debug().Str("amount", amount.String()).Msg("Accepted deposit")
	return nil
}

// Withdraw pushes amount from the strategy's account back to the vault's
// custody.
func (s *SimStrategy) Withdraw(amount sdkmath.Int) error {
	if err := validateStrategyAmount(amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	if err := s.bank.Transfer(s.account, s.vault, sdk.NewCoin(s.denom, amount)); err != nil {
		return fmt.Errorf("strategy %s returning funds: %w", s.name, err)
	}
	s.logger.Debug().Str("amount", amount.String()).Msg("Returned funds")
	return nil
}

// AccrueYield mints amount into the strategy's account, emulating external
// yield. The vault sees the gain on its next Balance read.
func (s *SimStrategy) AccrueYield(amount sdkmath.Int) error {
	if err := validateStrategyAmount(amount); err != nil {
		return err
	}
	if err := s.bank.Mint(s.account, sdk.NewCoin(s.denom, amount)); err != nil {
		return fmt.Errorf("strategy %s accruing yield: %w", s.name, err)
	}
	s.logger.Info().Str("amount", amount.String()).Msg("Yield accrued")
	return nil
}

// ApplyLoss burns amount from the strategy's account, emulating an external
// loss. Fails if the loss exceeds the strategy's holdings.
func (s *SimStrategy) ApplyLoss(amount sdkmath.Int) error {
	if err := validateStrategyAmount(amount); err != nil {
		return err
	}
	if err := s.bank.Burn(s.account, sdk.NewCoin(s.denom, amount)); err != nil {
		return fmt.Errorf("strategy %s applying loss: %w", s.name, err)
	}
	s.logger.Info().Str("amount", amount.String()).Msg("Loss applied")
	return nil
}

func validateStrategyAmount(amount sdkmath.Int) error {
	if amount.IsNil() {
		return errors.Join(ErrAmountInvalid, errors.New("amount is nil"))
	}
	if amount.IsNegative() {
		return errors.Join(ErrAmountInvalid, fmt.Errorf("%s is negative", amount.String()))
	}
	return nil
}
