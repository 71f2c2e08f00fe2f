/*
This file contains the in-memory bank ledger backing the vault. It tracks coin
balances per account and total supply per denom, and is the single mint/burn
authority for vault shares. Simulated strategies also settle through it.
*/

package ledger

import (
	"errors"
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/meridianlabs/mvm/internal/logger"
)

// Error definitions for zero-tolerance error handling
var (
	ErrAccountEmpty        = errors.New("account identifier is empty")
	ErrInvalidCoin         = errors.New("coin is invalid")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

var bankLogger = logger.GetForComponent("bank_ledger")

// Bank is a thread-safe in-memory ledger of coin balances and denom supplies.
type Bank struct {
	mu       sync.RWMutex
	balances map[string]sdk.Coins
	supplies map[string]sdkmath.Int
}

// NewBank creates an empty ledger.
func NewBank() *Bank {
	return &Bank{
		balances: make(map[string]sdk.Coins),
		supplies: make(map[string]sdkmath.Int),
	}
}

// Mint credits newly created coins to an account and grows the denom supply.
func (b *Bank) Mint(to string, coin sdk.Coin) error {
	if err := validateAccount(to); err != nil {
		return err
	}
	if err := validateCoin(coin); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.balances[to] = b.balances[to].Add(coin)
	b.supplies[coin.Denom] = b.supplyLocked(coin.Denom).Add(coin.Amount)

	bankLogger.Debug().Str("to", to).Str("coin", coin.String()).Msg("Minted coins")
	return nil
}

// Burn destroys coins held by an account and shrinks the denom supply.
func (b *Bank) Burn(from string, coin sdk.Coin) error {
	if err := validateAccount(from); err != nil {
		return err
	}
	if err := validateCoin(coin); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	remaining, negative := b.balances[from].SafeSub(coin)
	if negative {
		return errors.Join(ErrInsufficientBalance,
			fmt.Errorf("account %s holds %s%s, cannot burn %s",
				from, b.balances[from].AmountOf(coin.Denom).String(), coin.Denom, coin.String()))
	}
	b.balances[from] = remaining
	b.supplies[coin.Denom] = b.supplyLocked(coin.Denom).Sub(coin.Amount)

	bankLogger.Debug().Str("from", from).Str("coin", coin.String()).Msg("Burned coins")
	return nil
}

// Transfer moves coins between accounts. The supply is unchanged.
func (b *Bank) Transfer(from, to string, coin sdk.Coin) error {
	if err := validateAccount(from); err != nil {
		return err
	}
	if err := validateAccount(to); err != nil {
		return err
	}
	if err := validateCoin(coin); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	remaining, negative := b.balances[from].SafeSub(coin)
	if negative {
		return errors.Join(ErrInsufficientBalance,
			fmt.Errorf("account %s holds %s%s, cannot send %s",
				from, b.balances[from].AmountOf(coin.Denom).String(), coin.Denom, coin.String()))
	}
	b.balances[from] = remaining
	b.balances[to] = b.balances[to].Add(coin)

	bankLogger.Debug().Str("from", from).Str("to", to).Str("coin", coin.String()).Msg("Transferred coins")
	return nil
}

// BalanceOf returns the amount of a denom held by an account, zero if none.
func (b *Bank) BalanceOf(account, denom string) sdkmath.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balances[account].AmountOf(denom)
}

// Balances returns a copy of all coins held by an account.
func (b *Bank) Balances(account string) sdk.Coins {
	b.mu.RLock()
	defer b.mu.RUnlock()
	coins := b.balances[account]
	out := make(sdk.Coins, len(coins))
	copy(out, coins)
	return out
}

// Supply returns the total minted amount of a denom across all accounts.
func (b *Bank) Supply(denom string) sdkmath.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.supplyLocked(denom)
}

// supplyLocked reads the supply map under an already-held lock.
func (b *Bank) supplyLocked(denom string) sdkmath.Int {
	if supply, ok := b.supplies[denom]; ok {
		return supply
	}
	return sdkmath.ZeroInt()
}

func validateAccount(account string) error {
	if account == "" {
		return ErrAccountEmpty
	}
	return nil
}

func validateCoin(coin sdk.Coin) error {
	if coin.Amount.IsNil() {
		return errors.Join(ErrInvalidCoin, errors.New("amount is nil"))
	}
	if err := coin.Validate(); err != nil {
		return errors.Join(ErrInvalidCoin, err)
	}
	return nil
}
