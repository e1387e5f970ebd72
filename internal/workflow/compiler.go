package workflow

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"launchpad_go/internal/domain"
)

// Compute budgets per call, in Tgas.
const (
	gasInit     = 30
	gasPrep     = 10
	gasTransfer = 40
	gasBatch    = 120
)

// ftMetadataSpec is the initialization schema tag the issuing contract
// expects.
const ftMetadataSpec = "ft-1.0.0"

// Compiler builds the ordered stage chain for one launch. It never reorders
// or deduplicates operations.
type Compiler struct {
	Namespace     string
	TokenCodeHash string
	ExchangeID    string
	PairID        string
	Costs         domain.CostTable
}

// NewCompiler wires a compiler for the configured exchange and namespace.
func NewCompiler(namespace, codeHash, exchangeID, pairID string, costs domain.CostTable) *Compiler {
	return &Compiler{
		Namespace:     namespace,
		TokenCodeHash: codeHash,
		ExchangeID:    exchangeID,
		PairID:        pairID,
		Costs:         costs,
	}
}

type ftMetadata struct {
	Spec          string  `json:"spec"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Icon          *string `json:"icon"`
	Reference     *string `json:"reference"`
	ReferenceHash *string `json:"reference_hash"`
	Decimals      uint8   `json:"decimals"`
}

type initArgs struct {
	OwnerID     string        `json:"owner_id"`
	TotalSupply domain.Amount `json:"total_supply"`
	Metadata    ftMetadata    `json:"metadata"`
}

type registerAssetsArgs struct {
	AssetIDs []string             `json:"asset_ids"`
	For      *registerAssetsScope `json:"for,omitempty"`
}

type registerAssetsScope struct {
	Dex string `json:"Dex"`
}

type storageDepositArgs struct {
	AccountID        string `json:"account_id"`
	RegistrationOnly bool   `json:"registration_only"`
}

type ftTransferCallArgs struct {
	ReceiverID string        `json:"receiver_id"`
	Amount     domain.Amount `json:"amount"`
	Memo       *string       `json:"memo"`
	Msg        string        `json:"msg"`
}

// Batched instruction records, one JSON object per operation, tagged by
// variant name per the exchange's schema.
type dexCallRecord struct {
	DexID          string                   `json:"dex_id"`
	Method         string                   `json:"method"`
	Args           string                   `json:"args"` // base64 of the opaque binary payload
	AttachedAssets map[string]domain.Amount `json:"attached_assets"`
}

type swapSimpleRecord struct {
	DexID string `json:"dex_id"`
	Args  string `json:"args"` // base64 of the opaque binary payload
}

type withdrawRecord struct {
	AssetID string         `json:"asset_id"`
	Amount  *domain.Amount `json:"amount"` // null withdraws the full balance
	To      string         `json:"to"`
}

type batchRecord struct {
	DexCall    *dexCallRecord    `json:"DexCall,omitempty"`
	SwapSimple *swapSimpleRecord `json:"SwapSimple,omitempty"`
	Withdraw   *withdrawRecord   `json:"Withdraw,omitempty"`
}

type executeOperationsArgs struct {
	Operations []batchRecord `json:"operations"`
}

// Compile builds the fixed four-stage chain: provision, exchange
// preparation, custody transfer, pool creation. funding is the leftover
// deposit moved onto the new asset account at creation.
func (c *Compiler) Compile(assetID string, req *domain.LaunchRequest, funding domain.Amount) (*Workflow, error) {
	provision, err := c.provisionStage(assetID, req, funding)
	if err != nil {
		return nil, err
	}
	prepare, err := c.prepareStage(assetID)
	if err != nil {
		return nil, err
	}
	custody, err := c.custodyStage(assetID, req)
	if err != nil {
		return nil, err
	}
	pool, err := c.poolStage(assetID, req)
	if err != nil {
		return nil, err
	}

	return &Workflow{
		AssetID: assetID,
		Stages:  []Stage{*provision, *prepare, *custody, *pool},
	}, nil
}

func (c *Compiler) provisionStage(assetID string, req *domain.LaunchRequest, funding domain.Amount) (*Stage, error) {
	var icon *string
	if req.Icon != "" {
		icon = &req.Icon
	}
	args, err := json.Marshal(initArgs{
		OwnerID:     c.Namespace,
		TotalSupply: req.TotalSupply,
		Metadata: ftMetadata{
			Spec:     ftMetadataSpec,
			Name:     req.Name,
			Symbol:   req.Symbol,
			Icon:     icon,
			Decimals: req.Decimals,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode init args: %w", err)
	}

	op := Operation{
		Kind:    OpProvisionAsset,
		Target:  assetID,
		Method:  "new",
		Args:    args,
		GasTgas: gasInit,
	}
	return &Stage{
		Name:      StageProvision,
		Receiver:  assetID,
		Provision: &Provision{CodeHash: c.TokenCodeHash, Funding: funding},
		Ops:       []Operation{op},
		Calls:     []Call{{Method: op.Method, Args: op.Args, Deposit: op.Deposit, GasTgas: op.GasTgas}},
	}, nil
}

func (c *Compiler) prepareStage(assetID string) (*Stage, error) {
	asset := FungibleAsset(assetID)

	genericArgs, err := json.Marshal(registerAssetsArgs{AssetIDs: []string{asset.String()}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode register args: %w", err)
	}
	scopedArgs, err := json.Marshal(registerAssetsArgs{
		AssetIDs: []string{asset.String()},
		For:      &registerAssetsScope{Dex: c.PairID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode scoped register args: %w", err)
	}

	ops := []Operation{
		{
			Kind:    OpDepositExchangeStorage,
			Target:  c.ExchangeID,
			Method:  "storage_deposit",
			Args:    []byte("{}"),
			Deposit: c.Costs.ExchangeStorageDeposit,
			GasTgas: gasPrep,
		},
		{
			Kind:    OpRegisterWithExchange,
			Target:  c.ExchangeID,
			Method:  "register_assets",
			Args:    genericArgs,
			Deposit: domain.OneYocto,
			GasTgas: gasPrep,
		},
		{
			Kind:    OpRegisterWithExchange,
			Target:  c.ExchangeID,
			Method:  "register_assets",
			Args:    scopedArgs,
			Deposit: domain.OneYocto,
			GasTgas: gasPrep,
		},
		{
			Kind:    OpDepositExchangeStorage,
			Target:  c.ExchangeID,
			Method:  "deposit_near",
			Args:    []byte("{}"),
			Deposit: c.Costs.PoolStorageDeposit,
			GasTgas: gasPrep,
		},
	}
	return &Stage{
		Name:     StagePrepare,
		Receiver: c.ExchangeID,
		Ops:      ops,
		Calls:    opCalls(ops),
	}, nil
}

func (c *Compiler) custodyStage(assetID string, req *domain.LaunchRequest) (*Stage, error) {
	registrants := []string{c.ExchangeID}
	if req.HasFirstPurchase() {
		// The requester's account must also be pre-registered before the
		// withdrawal of the first purchase can land.
		registrants = append(registrants, req.Requester)
	}

	var ops []Operation
	for _, account := range registrants {
		args, err := json.Marshal(storageDepositArgs{AccountID: account, RegistrationOnly: true})
		if err != nil {
			return nil, fmt.Errorf("failed to encode storage deposit args: %w", err)
		}
		ops = append(ops, Operation{
			Kind:    OpFundExchangeCustody,
			Target:  assetID,
			Method:  "storage_deposit",
			Args:    args,
			Deposit: c.Costs.AssetStorageDeposit,
			GasTgas: gasPrep,
		})
	}

	// Empty msg means: deposit only, no custom behavior requested.
	transferArgs, err := json.Marshal(ftTransferCallArgs{
		ReceiverID: c.ExchangeID,
		Amount:     req.TotalSupply,
		Msg:        "",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer args: %w", err)
	}
	ops = append(ops, Operation{
		Kind:    OpFundExchangeCustody,
		Target:  assetID,
		Method:  "ft_transfer_call",
		Args:    transferArgs,
		Deposit: domain.OneYocto,
		GasTgas: gasTransfer,
	})

	return &Stage{
		Name:     StageCustody,
		Receiver: assetID,
		Ops:      ops,
		Calls:    opCalls(ops),
	}, nil
}

func (c *Compiler) poolStage(assetID string, req *domain.LaunchRequest) (*Stage, error) {
	asset := FungibleAsset(assetID)

	poolArgs := encodeCreatePoolArgs(NativeAsset, asset, req.Fees, c.Costs.PhantomLiquidity)
	ops := []Operation{{
		Kind:    OpCreatePool,
		Target:  c.ExchangeID,
		Method:  "create_pool",
		Args:    poolArgs,
		GasTgas: gasBatch,
	}}
	records := []batchRecord{{
		DexCall: &dexCallRecord{
			DexID:  c.PairID,
			Method: "create_pool",
			Args:   base64.StdEncoding.EncodeToString(poolArgs),
			AttachedAssets: map[string]domain.Amount{
				NativeAsset.String(): c.Costs.PoolStorageDeposit,
				asset.String():       req.TotalSupply,
			},
		},
	}}

	attached := domain.OneYocto
	if req.HasFirstPurchase() {
		swapArgs := encodeSwapArgs(NativeAsset, asset, req.FirstPurchase)
		ops = append(ops, Operation{
			Kind:   OpSwap,
			Target: c.ExchangeID,
			Method: "swap",
			Args:   swapArgs,
		})
		records = append(records, batchRecord{
			SwapSimple: &swapSimpleRecord{
				DexID: c.PairID,
				Args:  base64.StdEncoding.EncodeToString(swapArgs),
			},
		})

		withdrawArgs, err := json.Marshal(withdrawRecord{AssetID: asset.String(), To: req.Requester})
		if err != nil {
			return nil, fmt.Errorf("failed to encode withdraw args: %w", err)
		}
		ops = append(ops, Operation{
			Kind:   OpWithdraw,
			Target: c.ExchangeID,
			Method: "withdraw",
			Args:   withdrawArgs,
		})
		records = append(records, batchRecord{
			Withdraw: &withdrawRecord{AssetID: asset.String(), To: req.Requester},
		})

		attached = req.FirstPurchase
	}

	batchArgs, err := json.Marshal(executeOperationsArgs{Operations: records})
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch args: %w", err)
	}

	return &Stage{
		Name:     StageCreatePool,
		Receiver: c.ExchangeID,
		Ops:      ops,
		Calls: []Call{{
			Method:  "execute_operations",
			Args:    batchArgs,
			Deposit: attached,
			GasTgas: gasBatch,
		}},
	}, nil
}

func opCalls(ops []Operation) []Call {
	calls := make([]Call, len(ops))
	for i, op := range ops {
		calls[i] = Call{Method: op.Method, Args: op.Args, Deposit: op.Deposit, GasTgas: op.GasTgas}
	}
	return calls
}
