package service

import (
	"launchpad_go/internal/domain"
)

// CostModel computes the required funding for a launch. It is a pure
// function of the identifier kind and the first-purchase flag: every input
// is a fixed protocol constant, all arithmetic is checked yocto integers.
type CostModel struct {
	table domain.CostTable
}

// NewCostModel wraps a parsed cost table.
func NewCostModel(table domain.CostTable) CostModel {
	return CostModel{table: table}
}

// Table exposes the underlying constants for the compiler and the
// storage-allowance check.
func (m CostModel) Table() domain.CostTable {
	return m.table
}

// RequiredDeposit returns the protocol cost of one launch: the exchange
// registration deposit, the pool-storage deposit, the orchestrator's own
// storage allowance, and one asset-registration deposit per account that
// must be pre-registered against the new asset (the exchange always; the
// requester too when a first purchase is requested). The scarce kind adds
// the premium on top.
func (m CostModel) RequiredDeposit(kind domain.IDKind, firstPurchase bool) (domain.Amount, error) {
	cost, err := m.table.ExchangeStorageDeposit.Add(m.table.PoolStorageDeposit)
	if err != nil {
		return domain.ZeroAmount, err
	}
	cost, err = cost.Add(m.table.OwnStorageAllowance)
	if err != nil {
		return domain.ZeroAmount, err
	}
	cost, err = cost.Add(m.table.AssetStorageDeposit)
	if err != nil {
		return domain.ZeroAmount, err
	}
	if firstPurchase {
		cost, err = cost.Add(m.table.AssetStorageDeposit)
		if err != nil {
			return domain.ZeroAmount, err
		}
	}
	if kind == domain.IDScarce {
		cost, err = cost.Add(m.table.ScarcePremium)
		if err != nil {
			return domain.ZeroAmount, err
		}
	}
	return cost, nil
}
