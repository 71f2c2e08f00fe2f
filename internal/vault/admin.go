package vault

import (
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// AddStrategy registers a new strategy at the end of the drain order. Only the
// administrator may call it; the strategy must be non-nil, unregistered, and
// report the vault's asset denom.
func (v *Vault) AddStrategy(caller string, s Strategy) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.requireAdminLocked(caller); err != nil {
		return err
	}
	if s == nil {
		return ErrNilStrategy
	}
	if _, ok := v.registered[s]; ok {
		return ErrAlreadyRegistered
	}
	if s.Asset() != v.assetDenom {
		return errors.Join(ErrInvalidAsset,
			fmt.Errorf("strategy reports %q, vault pools %q", s.Asset(), v.assetDenom))
	}

	v.strategies = append(v.strategies, s)
	v.registered[s] = struct{}{}

	v.logger.Info().
		Str("strategy", strategyLabel(s, len(v.strategies)-1)).
		Int("registered", len(v.strategies)).
		Msg("Strategy registered")

	return nil
}

// RemoveStrategy recalls a strategy's full balance into idle custody and then
// deregisters it. If the recall fails the registration is left untouched.
// Removing the default strategy clears the default.
func (v *Vault) RemoveStrategy(caller string, s Strategy) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.requireAdminLocked(caller); err != nil {
		return err
	}
	idx := indexOf(v.strategies, s)
	if idx < 0 {
		return ErrNotRegistered
	}

	balance := s.Balance()
	if balance.IsPositive() {
		if err := s.Withdraw(balance); err != nil {
			return fmt.Errorf("recalling %s%s before removal: %w", balance.String(), v.assetDenom, err)
		}
		v.idle = v.idle.Add(balance)
	}

	v.strategies = append(v.strategies[:idx], v.strategies[idx+1:]...)
	delete(v.registered, s)
	if v.defaultStrategy == s {
		v.defaultStrategy = nil
	}

	v.logger.Info().
		Str("strategy", strategyLabel(s, idx)).
		Str("recalled", balance.String()).
		Int("registered", len(v.strategies)).
		Msg("Strategy removed")

	return nil
}

// UpdateDefaultStrategy changes where fresh deposits are routed. Passing nil
// clears the default so deposits stay idle; a non-nil default must already be
// registered.
func (v *Vault) UpdateDefaultStrategy(caller string, s Strategy) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.requireAdminLocked(caller); err != nil {
		return err
	}

	if s == nil {
		v.defaultStrategy = nil
		v.logger.Info().Msg("Default strategy cleared; deposits will stay idle")
		return nil
	}

	if _, ok := v.registered[s]; !ok {
		return ErrNotRegistered
	}
	v.defaultStrategy = s

	v.logger.Info().
		Str("strategy", strategyLabel(s, indexOf(v.strategies, s))).
		Msg("Default strategy updated")

	return nil
}

// Rebalance recalls every strategy's balance into idle custody, then deals the
// requested amounts back out pairwise. The whole request is validated before
// any funds move; amounts not dealt out remain idle. Total managed value is
// identical before and after.
func (v *Vault) Rebalance(caller string, targets []Strategy, amounts []sdkmath.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.requireAdminLocked(caller); err != nil {
		return err
	}
	if len(targets) != len(amounts) {
		return errors.Join(ErrLengthMismatch,
			fmt.Errorf("%d targets against %d amounts", len(targets), len(amounts)))
	}
	for i, target := range targets {
		if _, ok := v.registered[target]; !ok {
			return errors.Join(ErrTargetNotRegistered, fmt.Errorf("target at index %d", i))
		}
		if err := validateAmount(amounts[i]); err != nil {
			return fmt.Errorf("amount at index %d: %w", i, err)
		}
	}

	// Full recall. Every strategy is emptied so the redistribution starts from
	// a single pot regardless of where funds sat before.
	recalled := sdkmath.ZeroInt()
	for i, s := range v.strategies {
		balance := s.Balance()
		if !balance.IsPositive() {
			continue
		}
		if err := s.Withdraw(balance); err != nil {
			return fmt.Errorf("recalling %s%s from %s: %w",
				balance.String(), v.assetDenom, strategyLabel(s, i), err)
		}
		v.idle = v.idle.Add(balance)
		recalled = recalled.Add(balance)
	}

	requested := sdkmath.ZeroInt()
	for _, amount := range amounts {
		requested = requested.Add(amount)
	}
	if requested.GT(v.idle) {
		return errors.Join(ErrInsufficientFunds,
			fmt.Errorf("requested %s%s against %s%s idle after recall",
				requested.String(), v.assetDenom, v.idle.String(), v.assetDenom))
	}

	// Redistribute in request order. Idle is debited before each placement so
	// accounting is final at the adapter call boundary.
	for i, target := range targets {
		amount := amounts[i]
		if !amount.IsPositive() {
			continue
		}
		v.idle = v.idle.Sub(amount)
		if err := target.Deposit(amount); err != nil {
			v.idle = v.idle.Add(amount)
			return fmt.Errorf("placing %s%s into %s: %w",
				amount.String(), v.assetDenom, strategyLabel(target, indexOf(v.strategies, target)), err)
		}
	}

	v.logger.Info().
		Str("recalled", recalled.String()).
		Str("redistributed", requested.String()).
		Str("idleRemainder", v.idle.String()).
		Int("targets", len(targets)).
		Msg("Rebalance completed")

	return nil
}

// requireAdminLocked enforces the single-administrator gate. It runs before
// any other validation on privileged operations.
func (v *Vault) requireAdminLocked(caller string) error {
	if caller != v.admin {
		return errors.Join(ErrNotAuthorized, fmt.Errorf("caller %q", caller))
	}
	return nil
}
