// Package workflow compiles a validated launch into the fixed sequence of
// dependent remote operations executed against the ledger and the exchange.
// Operations are produced once per launch and never mutated after
// compilation; argument encodings are frozen here and must stay byte-exact
// with the downstream services' accepted wire formats.
package workflow

import (
	"launchpad_go/internal/domain"
)

// OpKind tags one variant of the closed workflow-operation set.
type OpKind uint8

const (
	// OpProvisionAsset creates the asset account, installs its issuing
	// logic and initializes it.
	OpProvisionAsset OpKind = iota
	// OpRegisterWithExchange registers the asset as a tradable instrument.
	OpRegisterWithExchange
	// OpDepositExchangeStorage pays an exchange-side storage or standing
	// balance deposit.
	OpDepositExchangeStorage
	// OpFundExchangeCustody pre-registers accounts against the new asset
	// and moves the minted supply into the exchange's custody.
	OpFundExchangeCustody
	// OpCreatePool instructs the exchange to create the trading pool.
	OpCreatePool
	// OpSwap performs the optional immediate first purchase.
	OpSwap
	// OpWithdraw returns the purchased balance to the requester.
	OpWithdraw
)

var opKindNames = map[OpKind]string{
	OpProvisionAsset:         "provision-asset",
	OpRegisterWithExchange:   "register-with-exchange",
	OpDepositExchangeStorage: "deposit-exchange-storage",
	OpFundExchangeCustody:    "fund-exchange-custody",
	OpCreatePool:             "create-pool",
	OpSwap:                   "swap",
	OpWithdraw:               "withdraw",
}

func (k OpKind) String() string {
	return opKindNames[k]
}

// Operation is one compiled step of the call chain: target service, method
// selector, frozen serialized arguments, attached value and compute budget.
type Operation struct {
	Kind    OpKind
	Target  string
	Method  string
	Args    []byte
	Deposit domain.Amount
	GasTgas uint64
}

// Call is one ledger-level function-call action attached to a stage's
// outbound transaction.
type Call struct {
	Method  string
	Args    []byte
	Deposit domain.Amount
	GasTgas uint64
}

// Provision carries the account-creation parameters of the first stage:
// the issuing contract's code hash and the leftover deposit transferred to
// the new account.
type Provision struct {
	CodeHash string
	Funding  domain.Amount
}

// Stage is one outbound call of the chain. Within a stage the calls are
// attached to a single transaction and are not independently retryable;
// stages execute strictly in compiled order.
type Stage struct {
	Name     string
	Receiver string
	// Provision is set only on the first stage.
	Provision *Provision
	// Ops are the workflow operations this stage carries, in order.
	Ops []Operation
	// Calls are the frozen outbound actions. For batched stages a single
	// call encloses every operation.
	Calls []Call
}

// Workflow is the compiled, ordered stage chain for one launch.
type Workflow struct {
	AssetID string
	Stages  []Stage
}

// Stage names, in compiled order.
const (
	StageProvision  = "provision"
	StagePrepare    = "exchange-prep"
	StageCustody    = "custody-transfer"
	StageCreatePool = "pool-create"
)
