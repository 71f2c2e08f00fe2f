package vault

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Strategy defines the interface the vault requires from a yield adapter.
// The vault never inspects how an adapter puts funds to work; it only moves
// amounts across this boundary and reads the reported balance.
type Strategy interface {
	// Asset returns the denom the strategy accepts and reports in.
	// It must match the vault's asset denom to be registered.
	Asset() string

	// Balance returns the strategy's current holdings in asset units,
	// including any yield accrued or losses realized since the last call.
	Balance() sdkmath.Int

	// Deposit moves amount from the vault's custody into the strategy.
	Deposit(amount sdkmath.Int) error

	// Withdraw moves amount from the strategy back into the vault's custody.
	Withdraw(amount sdkmath.Int) error
}

// NamedStrategy is implemented by adapters that carry a human-readable name.
// The service layer uses it for display and addressing; the vault core never
// depends on it.
type NamedStrategy interface {
	Strategy
	Name() string
}

// AssetSource is the slice of the bank ledger the vault uses for asset custody.
type AssetSource interface {
	// Transfer moves a coin between accounts, failing on insufficient balance.
	Transfer(from, to string, coin sdk.Coin) error

	// BalanceOf returns the amount of a denom held by an account.
	BalanceOf(account, denom string) sdkmath.Int
}

// ShareIssuer is the slice of the bank ledger the vault uses to issue and
// retire ownership shares.
type ShareIssuer interface {
	// Mint credits newly issued shares to an account.
	Mint(to string, coin sdk.Coin) error

	// Burn retires shares held by an account, failing if it holds too few.
	Burn(from string, coin sdk.Coin) error

	// Supply returns the outstanding supply of a denom.
	Supply(denom string) sdkmath.Int
}
