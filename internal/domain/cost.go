package domain

// CostTable is the fixed protocol cost schedule, parsed once from
// configuration. Quantities are protocol constants, never user-supplied.
type CostTable struct {
	// ExchangeStorageDeposit is the exchange's registration deposit.
	ExchangeStorageDeposit Amount
	// PoolStorageDeposit pre-funds the orchestrator's standing balance with
	// the exchange for pool-creation fees.
	PoolStorageDeposit Amount
	// AssetStorageDeposit is owed per account pre-registered against the
	// new asset's own bookkeeping.
	AssetStorageDeposit Amount
	// OwnStorageAllowance covers the orchestrator's incidental durable
	// storage growth for one launch record.
	OwnStorageAllowance Amount
	// ScarcePremium is the additional fixed cost of a scarce identifier.
	ScarcePremium Amount
	// PhantomLiquidity seeds the exchange's bootstrap pricing curve without
	// real counter-asset deposits.
	PhantomLiquidity Amount
}

// storageByteCost is the durable-storage price per byte in yocto (10^19).
var storageByteCost = Amount{Lo: 10_000_000_000_000_000_000}

// StorageAllowanceBytes converts the own-storage allowance into the byte
// budget one launch record may consume.
func (t CostTable) StorageAllowanceBytes() int {
	allowance := t.OwnStorageAllowance.Big()
	return int(allowance.Div(allowance, storageByteCost.Big()).Int64())
}
