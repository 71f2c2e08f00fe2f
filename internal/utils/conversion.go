/*
This file contains the pure conversion math between asset amounts and vault
shares. All functions operate on SDK Int values and use integer floor division
so results never overstate a claim against the vault.
*/

package utils

import (
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// Error definitions for zero-tolerance error handling
var (
	ErrAmountNil      = errors.New("amount is nil")
	ErrAmountNegative = errors.New("amount is negative")
	ErrZeroTotalValue = errors.New("total managed value is zero")
)

// AssetsToShares converts an asset amount into the share amount it is worth at
// the current share price. The first issuance prices shares one-to-one with
// assets; afterwards the result is floor(assets * totalShares / totalValue).
// A positive supply backed by zero value yields zero shares.
func AssetsToShares(assets, totalShares, totalValue sdkmath.Int) (sdkmath.Int, error) {
	if err := validateConversionInputs(assets, totalShares, totalValue); err != nil {
		return sdkmath.ZeroInt(), err
	}
	if totalShares.IsZero() {
		return assets, nil
	}
	if totalValue.IsZero() {
		return sdkmath.ZeroInt(), nil
	}
	return assets.Mul(totalShares).Quo(totalValue), nil
}

// SharesToAssets converts a share amount into the asset amount it can claim,
// floor(shares * totalValue / totalShares). With no shares outstanding the
// conversion is one-to-one, mirroring AssetsToShares.
func SharesToAssets(shares, totalShares, totalValue sdkmath.Int) (sdkmath.Int, error) {
	if err := validateConversionInputs(shares, totalShares, totalValue); err != nil {
		return sdkmath.ZeroInt(), err
	}
	if totalShares.IsZero() {
		return shares, nil
	}
	return shares.Mul(totalValue).Quo(totalShares), nil
}

// AssetsToSharesCeil converts an asset amount into shares rounding up, so the
// shares charged for an exact-amount withdrawal are never worth less than the
// assets paid out. Fails if supply is positive but the vault holds no value,
// since no share count can cover a positive amount at a zero price.
func AssetsToSharesCeil(assets, totalShares, totalValue sdkmath.Int) (sdkmath.Int, error) {
	if err := validateConversionInputs(assets, totalShares, totalValue); err != nil {
		return sdkmath.ZeroInt(), err
	}
	if assets.IsZero() {
		return sdkmath.ZeroInt(), nil
	}
	if totalShares.IsZero() {
		return assets, nil
	}
	if totalValue.IsZero() {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: cannot price %s assets", ErrZeroTotalValue, assets.String())
	}
	numerator := assets.Mul(totalShares)
	return numerator.Add(totalValue.Sub(sdkmath.OneInt())).Quo(totalValue), nil
}

// validateConversionInputs rejects nil or negative values before any math runs.
func validateConversionInputs(values ...sdkmath.Int) error {
	for _, v := range values {
		if v.IsNil() {
			return ErrAmountNil
		}
		if v.IsNegative() {
			return fmt.Errorf("%w: %s", ErrAmountNegative, v.String())
		}
	}
	return nil
}
