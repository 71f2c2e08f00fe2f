package utils

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetsToShares(t *testing.T) {
	tests := []struct {
		name        string
		assets      int64
		totalShares int64
		totalValue  int64
		expected    int64
	}{
		{name: "bootstrap mints one to one", assets: 250, totalShares: 0, totalValue: 0, expected: 250},
		{name: "bootstrap ignores stale value", assets: 100, totalShares: 0, totalValue: 999, expected: 100},
		{name: "proportional at parity", assets: 100, totalShares: 200, totalValue: 200, expected: 100},
		{name: "appreciated shares mint fewer", assets: 100, totalShares: 100, totalValue: 200, expected: 50},
		{name: "floor discards remainder", assets: 10, totalShares: 3, totalValue: 7, expected: 4},
		{name: "sub share deposit mints zero", assets: 1, totalShares: 10, totalValue: 100, expected: 0},
		{name: "worthless vault mints zero", assets: 50, totalShares: 10, totalValue: 0, expected: 0},
		{name: "zero assets mint zero", assets: 0, totalShares: 100, totalValue: 100, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := AssetsToShares(
				sdkmath.NewInt(tt.assets), sdkmath.NewInt(tt.totalShares), sdkmath.NewInt(tt.totalValue))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, shares.Int64())
		})
	}
}

func TestSharesToAssets(t *testing.T) {
	tests := []struct {
		name        string
		shares      int64
		totalShares int64
		totalValue  int64
		expected    int64
	}{
		{name: "bootstrap is one to one", shares: 42, totalShares: 0, totalValue: 0, expected: 42},
		{name: "parity pays face value", shares: 50, totalShares: 100, totalValue: 100, expected: 50},
		{name: "appreciated shares pay more", shares: 50, totalShares: 100, totalValue: 200, expected: 100},
		{name: "floor discards remainder", shares: 1, totalShares: 3, totalValue: 100, expected: 33},
		{name: "worthless vault pays zero", shares: 50, totalShares: 100, totalValue: 0, expected: 0},
		{name: "full redemption pays everything", shares: 100, totalShares: 100, totalValue: 333, expected: 333},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assets, err := SharesToAssets(
				sdkmath.NewInt(tt.shares), sdkmath.NewInt(tt.totalShares), sdkmath.NewInt(tt.totalValue))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, assets.Int64())
		})
	}
}

func TestAssetsToSharesCeil(t *testing.T) {
	tests := []struct {
		name        string
		assets      int64
		totalShares int64
		totalValue  int64
		expected    int64
	}{
		{name: "exact division needs no rounding", assets: 100, totalShares: 200, totalValue: 400, expected: 50},
		{name: "remainder rounds up", assets: 31, totalShares: 100, totalValue: 200, expected: 16},
		{name: "one base unit still costs a share", assets: 1, totalShares: 10, totalValue: 100, expected: 1},
		{name: "bootstrap charges face value", assets: 77, totalShares: 0, totalValue: 0, expected: 77},
		{name: "zero amount costs nothing", assets: 0, totalShares: 100, totalValue: 50, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := AssetsToSharesCeil(
				sdkmath.NewInt(tt.assets), sdkmath.NewInt(tt.totalShares), sdkmath.NewInt(tt.totalValue))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, shares.Int64())
		})
	}
}

func TestAssetsToSharesCeilZeroValue(t *testing.T) {
	_, err := AssetsToSharesCeil(sdkmath.NewInt(10), sdkmath.NewInt(100), sdkmath.ZeroInt())
	assert.ErrorIs(t, err, ErrZeroTotalValue)
}

// The ceiling conversion must never charge fewer shares than the paid-out
// amount is worth, or a withdraw-redeposit cycle would mint free shares.
func TestCeilChargeCoversPayout(t *testing.T) {
	cases := []struct{ assets, totalShares, totalValue int64 }{
		{1, 3, 7},
		{13, 7, 29},
		{100, 333, 1000},
		{999, 1000, 999},
		{7, 1000000, 3},
	}

	for _, c := range cases {
		charged, err := AssetsToSharesCeil(
			sdkmath.NewInt(c.assets), sdkmath.NewInt(c.totalShares), sdkmath.NewInt(c.totalValue))
		require.NoError(t, err)

		worth, err := SharesToAssets(
			charged, sdkmath.NewInt(c.totalShares), sdkmath.NewInt(c.totalValue))
		require.NoError(t, err)

		assert.True(t, worth.GTE(sdkmath.NewInt(c.assets)),
			"charging %s shares for %d assets at S=%d V=%d only covers %s",
			charged, c.assets, c.totalShares, c.totalValue, worth)
	}
}

func TestConversionInputGuards(t *testing.T) {
	valid := sdkmath.NewInt(10)
	negative := sdkmath.NewInt(-1)
	var unset sdkmath.Int

	t.Run("nil input", func(t *testing.T) {
		_, err := AssetsToShares(unset, valid, valid)
		assert.ErrorIs(t, err, ErrAmountNil)

		_, err = SharesToAssets(valid, unset, valid)
		assert.ErrorIs(t, err, ErrAmountNil)

		_, err = AssetsToSharesCeil(valid, valid, unset)
		assert.ErrorIs(t, err, ErrAmountNil)
	})

	t.Run("negative input", func(t *testing.T) {
		_, err := AssetsToShares(negative, valid, valid)
		assert.ErrorIs(t, err, ErrAmountNegative)

		_, err = SharesToAssets(negative, valid, valid)
		assert.ErrorIs(t, err, ErrAmountNegative)

		_, err = AssetsToSharesCeil(valid, negative, valid)
		assert.ErrorIs(t, err, ErrAmountNegative)
	})
}
