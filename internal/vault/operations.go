package vault

import (
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/meridianlabs/mvm/internal/utils"
)

// Deposit pulls amount of the asset from caller, routes it into the default
// strategy when one is set (idle otherwise), and mints the proportional share
// amount to receiver. Shares are minted only after the funds are placed, so
// the share price observed at any external call boundary is the pre-deposit
// price.
func (v *Vault) Deposit(caller string, amount sdkmath.Int, receiver string) (sdkmath.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := validateOperationAccount("caller", caller); err != nil {
		return sdkmath.ZeroInt(), err
	}
	if err := validateOperationAccount("receiver", receiver); err != nil {
		return sdkmath.ZeroInt(), err
	}
	if err := validateAmount(amount); err != nil {
		return sdkmath.ZeroInt(), err
	}

	supply := v.shares.Supply(v.shareDenom)
	totalValue := v.totalManagedValueLocked()

	minted, err := utils.AssetsToShares(amount, supply, totalValue)
	if err != nil {
		return sdkmath.ZeroInt(), errors.Join(ErrInvalidAmount, err)
	}
	if !minted.IsPositive() {
		return sdkmath.ZeroInt(), errors.Join(ErrZeroShares,
			fmt.Errorf("%s%s converts to zero shares at supply %s and value %s",
				amount.String(), v.assetDenom, supply.String(), totalValue.String()))
	}

	if err := v.assets.Transfer(caller, v.account, v.assetCoin(amount)); err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("pulling deposit from %s: %w", caller, err)
	}

	routed := "idle"
	if v.defaultStrategy != nil {
		if err := v.defaultStrategy.Deposit(amount); err != nil {
			// Return the pulled funds before surfacing the adapter failure.
			if refundErr := v.assets.Transfer(v.account, caller, v.assetCoin(amount)); refundErr != nil {
				v.logger.Error().Err(refundErr).Str("caller", caller).Msg("Failed to refund aborted deposit")
				return sdkmath.ZeroInt(), errors.Join(err, refundErr)
			}
			return sdkmath.ZeroInt(), fmt.Errorf("routing deposit to default strategy: %w", err)
		}
		routed = "default_strategy"
	} else {
		v.idle = v.idle.Add(amount)
	}

	if err := v.shares.Mint(receiver, v.shareCoin(minted)); err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("minting shares to %s: %w", receiver, err)
	}

	v.logger.Info().
		Str("caller", caller).
		Str("receiver", receiver).
		Str("amount", amount.String()).
		Str("sharesMinted", minted.String()).
		Str("routedTo", routed).
		Msg("Deposit completed")

	return minted, nil
}

// Withdraw pays out an exact asset amount to receiver, charging owner the share
// count that covers it, rounded up so the vault never pays more value than it
// retires. Shares are burned before any funds move; on a sourcing failure the
// burned shares are restored and already-recalled funds remain idle.
func (v *Vault) Withdraw(amount sdkmath.Int, receiver, owner string) (sdkmath.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := validateOperationAccount("receiver", receiver); err != nil {
		return sdkmath.ZeroInt(), err
	}
	if err := validateOperationAccount("owner", owner); err != nil {
		return sdkmath.ZeroInt(), err
	}
	if err := validateAmount(amount); err != nil {
		return sdkmath.ZeroInt(), err
	}

	supply := v.shares.Supply(v.shareDenom)
	totalValue := v.totalManagedValueLocked()

	sharesToBurn, err := utils.AssetsToSharesCeil(amount, supply, totalValue)
	if err != nil {
		if errors.Is(err, utils.ErrZeroTotalValue) {
			return sdkmath.ZeroInt(), errors.Join(ErrInsufficientLiquidity, err)
		}
		return sdkmath.ZeroInt(), errors.Join(ErrInvalidAmount, err)
	}

	if err := v.shares.Burn(owner, v.shareCoin(sharesToBurn)); err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("burning shares of %s: %w", owner, err)
	}

	if err := v.payOutLocked(amount, receiver); err != nil {
		if mintErr := v.shares.Mint(owner, v.shareCoin(sharesToBurn)); mintErr != nil {
			v.logger.Error().Err(mintErr).Str("owner", owner).Msg("Failed to restore shares after aborted withdrawal")
			return sdkmath.ZeroInt(), errors.Join(err, mintErr)
		}
		return sdkmath.ZeroInt(), err
	}

	v.logger.Info().
		Str("owner", owner).
		Str("receiver", receiver).
		Str("amount", amount.String()).
		Str("sharesBurned", sharesToBurn.String()).
		Msg("Withdrawal completed")

	return sharesToBurn, nil
}

// Redeem retires an exact share count from owner and pays receiver the assets
// they are worth at the current share price, rounded down. A redemption always
// clears at the prevailing valuation, even when losses have driven it to zero.
func (v *Vault) Redeem(shares sdkmath.Int, receiver, owner string) (sdkmath.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := validateOperationAccount("receiver", receiver); err != nil {
		return sdkmath.ZeroInt(), err
	}
	if err := validateOperationAccount("owner", owner); err != nil {
		return sdkmath.ZeroInt(), err
	}
	if err := validateAmount(shares); err != nil {
		return sdkmath.ZeroInt(), err
	}

	supply := v.shares.Supply(v.shareDenom)
	totalValue := v.totalManagedValueLocked()

	payout, err := utils.SharesToAssets(shares, supply, totalValue)
	if err != nil {
		return sdkmath.ZeroInt(), errors.Join(ErrInvalidAmount, err)
	}

	if err := v.shares.Burn(owner, v.shareCoin(shares)); err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("burning shares of %s: %w", owner, err)
	}

	if payout.IsPositive() {
		if err := v.payOutLocked(payout, receiver); err != nil {
			if mintErr := v.shares.Mint(owner, v.shareCoin(shares)); mintErr != nil {
				v.logger.Error().Err(mintErr).Str("owner", owner).Msg("Failed to restore shares after aborted redemption")
				return sdkmath.ZeroInt(), errors.Join(err, mintErr)
			}
			return sdkmath.ZeroInt(), err
		}
	}

	v.logger.Info().
		Str("owner", owner).
		Str("receiver", receiver).
		Str("sharesBurned", shares.String()).
		Str("payout", payout.String()).
		Msg("Redemption completed")

	return payout, nil
}

// payOutLocked sources amount into idle custody and transfers it to receiver.
// Callers must hold the vault lock and are responsible for compensating
// already-burned shares when it fails.
func (v *Vault) payOutLocked(amount sdkmath.Int, receiver string) error {
	if err := v.sourceLiquidityLocked(amount); err != nil {
		return err
	}
	if err := v.assets.Transfer(v.account, receiver, v.assetCoin(amount)); err != nil {
		return errors.Join(ErrInsufficientLiquidity, fmt.Errorf("paying out to %s: %w", receiver, err))
	}
	v.idle = v.idle.Sub(amount)
	return nil
}

// sourceLiquidityLocked ensures at least amount sits in idle custody, draining
// strategies in reverse registration order. Zero-balance strategies are
// skipped and draining stops as soon as the requirement is met. Funds recalled
// before a failure stay idle; total managed value is unchanged either way.
func (v *Vault) sourceLiquidityLocked(amount sdkmath.Int) error {
	need := amount.Sub(sdkmath.MinInt(amount, v.idle))

	for i := len(v.strategies) - 1; i >= 0 && need.IsPositive(); i-- {
		s := v.strategies[i]
		balance := s.Balance()
		if !balance.IsPositive() {
			continue
		}

		recall := sdkmath.MinInt(need, balance)
		if err := s.Withdraw(recall); err != nil {
			return fmt.Errorf("recalling %s%s from %s: %w",
				recall.String(), v.assetDenom, strategyLabel(s, i), err)
		}
		v.idle = v.idle.Add(recall)
		need = need.Sub(recall)
	}

	if need.IsPositive() {
		return errors.Join(ErrInsufficientLiquidity,
			fmt.Errorf("short %s%s after draining all strategies", need.String(), v.assetDenom))
	}
	return nil
}
