package workflow

import (
	"encoding/json"
	"strings"
	"testing"

	"launchpad_go/internal/domain"
)

func testCosts(t *testing.T) domain.CostTable {
	t.Helper()
	mustUnits := func(s string) domain.Amount {
		a, err := domain.AmountFromUnits(s)
		if err != nil {
			t.Fatalf("bad test amount %q: %v", s, err)
		}
		return a
	}
	return domain.CostTable{
		ExchangeStorageDeposit: mustUnits("0.005"),
		PoolStorageDeposit:     mustUnits("0.01"),
		AssetStorageDeposit:    mustUnits("0.00125"),
		OwnStorageAllowance:    mustUnits("0.01"),
		ScarcePremium:          mustUnits("1"),
		PhantomLiquidity:       mustUnits("300"),
	}
}

func testCompiler(t *testing.T) *Compiler {
	return NewCompiler(
		"launchpad.near",
		"8D1NEU2NC2hKhdtCkHyyAz2KVmVXRazm9ZQMC27D97jF",
		"dex.intear.near",
		"slimedragon.near/xyk",
		testCosts(t),
	)
}

func standardRequest() *domain.LaunchRequest {
	return &domain.LaunchRequest{
		Name:        "Test Token",
		Symbol:      "ABC",
		Decimals:    18,
		TotalSupply: domain.NewAmount(1_000_000),
		Requester:   "alice.near",
	}
}

func TestCompileStandardLaunch(t *testing.T) {
	c := testCompiler(t)
	funding := domain.NewAmount(12345)

	wf, err := c.Compile("abc-1.launchpad.near", standardRequest(), funding)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if len(wf.Stages) != 4 {
		t.Fatalf("expected 4 stages, got %d", len(wf.Stages))
	}
	wantNames := []string{StageProvision, StagePrepare, StageCustody, StageCreatePool}
	for i, want := range wantNames {
		if wf.Stages[i].Name != want {
			t.Errorf("stage %d: expected %s, got %s", i, want, wf.Stages[i].Name)
		}
	}

	t.Run("provision", func(t *testing.T) {
		s := wf.Stages[0]
		if s.Receiver != "abc-1.launchpad.near" {
			t.Errorf("receiver: %s", s.Receiver)
		}
		if s.Provision == nil {
			t.Fatal("provision stage must carry account-creation parameters")
		}
		if s.Provision.Funding.Cmp(funding) != 0 {
			t.Errorf("funding: %s", s.Provision.Funding.String())
		}

		var init initArgs
		if err := json.Unmarshal(s.Calls[0].Args, &init); err != nil {
			t.Fatalf("init args not JSON: %v", err)
		}
		if init.OwnerID != "launchpad.near" {
			t.Errorf("owner: %s", init.OwnerID)
		}
		if init.Metadata.Spec != ftMetadataSpec || init.Metadata.Symbol != "ABC" {
			t.Errorf("metadata: %+v", init.Metadata)
		}
		if init.Metadata.Icon != nil || init.Metadata.Reference != nil {
			t.Error("absent icon and reference must encode as null")
		}
	})

	t.Run("exchange prep", func(t *testing.T) {
		s := wf.Stages[1]
		if s.Receiver != "dex.intear.near" {
			t.Errorf("receiver: %s", s.Receiver)
		}
		if len(s.Ops) != 4 || len(s.Calls) != 4 {
			t.Fatalf("expected 4 prep operations, got %d ops / %d calls", len(s.Ops), len(s.Calls))
		}
		wantMethods := []string{"storage_deposit", "register_assets", "register_assets", "deposit_near"}
		for i, want := range wantMethods {
			if s.Calls[i].Method != want {
				t.Errorf("call %d: expected %s, got %s", i, want, s.Calls[i].Method)
			}
		}
		if !strings.Contains(string(s.Calls[2].Args), `"Dex":"slimedragon.near/xyk"`) {
			t.Errorf("scoped registration args: %s", s.Calls[2].Args)
		}
	})

	t.Run("custody transfer without first purchase", func(t *testing.T) {
		s := wf.Stages[2]
		if len(s.Ops) != 2 {
			t.Fatalf("expected pre-registration + transfer, got %d ops", len(s.Ops))
		}
		if s.Calls[0].Method != "storage_deposit" || s.Calls[1].Method != "ft_transfer_call" {
			t.Errorf("methods: %s, %s", s.Calls[0].Method, s.Calls[1].Method)
		}
		var transfer ftTransferCallArgs
		if err := json.Unmarshal(s.Calls[1].Args, &transfer); err != nil {
			t.Fatalf("transfer args not JSON: %v", err)
		}
		if transfer.ReceiverID != "dex.intear.near" || transfer.Msg != "" {
			t.Errorf("transfer: %+v", transfer)
		}
		if transfer.Amount.Cmp(domain.NewAmount(1_000_000)) != 0 {
			t.Errorf("full supply must move to custody, got %s", transfer.Amount.String())
		}
	})

	t.Run("pool creation without swap", func(t *testing.T) {
		s := wf.Stages[3]
		if len(s.Ops) != 1 {
			t.Fatalf("expected only create-pool, got %d ops", len(s.Ops))
		}
		if s.Ops[0].Kind != OpCreatePool {
			t.Errorf("kind: %s", s.Ops[0].Kind)
		}
		if len(s.Calls) != 1 || s.Calls[0].Method != "execute_operations" {
			t.Fatalf("pool stage must be one batched instruction")
		}
		if s.Calls[0].Deposit.Cmp(domain.OneYocto) != 0 {
			t.Errorf("attached value: %s", s.Calls[0].Deposit.String())
		}

		var batch executeOperationsArgs
		if err := json.Unmarshal(s.Calls[0].Args, &batch); err != nil {
			t.Fatalf("batch args not JSON: %v", err)
		}
		if len(batch.Operations) != 1 || batch.Operations[0].DexCall == nil {
			t.Fatalf("expected a single DexCall record: %+v", batch.Operations)
		}
		dc := batch.Operations[0].DexCall
		if dc.Method != "create_pool" || dc.DexID != "slimedragon.near/xyk" {
			t.Errorf("record: %+v", dc)
		}
		if len(dc.AttachedAssets) != 2 {
			t.Errorf("attached assets: %v", dc.AttachedAssets)
		}
		if dc.AttachedAssets["nep141:abc-1.launchpad.near"].Cmp(domain.NewAmount(1_000_000)) != 0 {
			t.Error("pool must receive the full supply")
		}
	})
}

func TestCompileFirstPurchase(t *testing.T) {
	c := testCompiler(t)
	req := standardRequest()
	req.Symbol = "xyz"
	req.Kind = domain.IDScarce
	buy, _ := domain.AmountFromUnits("0.5")
	req.FirstPurchase = buy

	wf, err := c.Compile("xyz.launchpad.near", req, domain.ZeroAmount)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	t.Run("requester pre-registered", func(t *testing.T) {
		s := wf.Stages[2]
		if len(s.Ops) != 3 {
			t.Fatalf("expected 2 pre-registrations + transfer, got %d ops", len(s.Ops))
		}
		var dep storageDepositArgs
		if err := json.Unmarshal(s.Calls[1].Args, &dep); err != nil {
			t.Fatalf("storage deposit args not JSON: %v", err)
		}
		if dep.AccountID != "alice.near" || !dep.RegistrationOnly {
			t.Errorf("second pre-registration: %+v", dep)
		}
	})

	t.Run("pool stage carries swap and withdraw", func(t *testing.T) {
		s := wf.Stages[3]
		if len(s.Ops) != 3 {
			t.Fatalf("expected create-pool, swap, withdraw; got %d ops", len(s.Ops))
		}
		wantKinds := []OpKind{OpCreatePool, OpSwap, OpWithdraw}
		for i, want := range wantKinds {
			if s.Ops[i].Kind != want {
				t.Errorf("op %d: expected %s, got %s", i, want, s.Ops[i].Kind)
			}
		}

		if s.Calls[0].Deposit.Cmp(buy) != 0 {
			t.Errorf("attached value must equal the first purchase, got %s", s.Calls[0].Deposit.String())
		}

		var batch executeOperationsArgs
		if err := json.Unmarshal(s.Calls[0].Args, &batch); err != nil {
			t.Fatalf("batch args not JSON: %v", err)
		}
		if len(batch.Operations) != 3 {
			t.Fatalf("expected 3 batch records, got %d", len(batch.Operations))
		}
		if batch.Operations[1].SwapSimple == nil {
			t.Error("second record must be the swap")
		}
		w := batch.Operations[2].Withdraw
		if w == nil {
			t.Fatal("third record must be the withdrawal")
		}
		if w.To != "alice.near" {
			t.Errorf("withdrawal recipient must be the requester, got %s", w.To)
		}
		if w.Amount != nil {
			t.Error("withdrawal must take the full balance (null amount)")
		}
	})
}

func TestCompileOrderIsStable(t *testing.T) {
	c := testCompiler(t)
	req := standardRequest()

	a, err := c.Compile("abc-1.launchpad.near", req, domain.NewAmount(1))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	b, err := c.Compile("abc-1.launchpad.near", req, domain.NewAmount(1))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	for i := range a.Stages {
		if len(a.Stages[i].Calls) != len(b.Stages[i].Calls) {
			t.Fatalf("stage %d call count differs", i)
		}
		for j := range a.Stages[i].Calls {
			if string(a.Stages[i].Calls[j].Args) != string(b.Stages[i].Calls[j].Args) {
				t.Errorf("stage %d call %d encoding not deterministic", i, j)
			}
		}
	}
}
