package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"launchpad_go/internal/domain"
	"launchpad_go/internal/engine"
	"launchpad_go/internal/infra"
	"launchpad_go/internal/infra/storage"
	"launchpad_go/internal/workflow"
)

// LaunchService is the orchestrator's public entry point. Launch walks
// Validating, Accounting, Allocating, Persisting and Dispatching and
// returns the allocated identifier synchronously; the compiled workflow
// executes afterwards, out of band, with no result observable to the
// caller. A single mutex serializes inbound requests, so no two launches
// interleave their state mutations.
type LaunchService struct {
	mu       sync.Mutex
	store    *storage.Store
	alloc    *Allocator
	costs    CostModel
	compiler *workflow.Compiler
	inbox    chan<- engine.Job

	controller string
	logger     *slog.Logger
}

// NewLaunchService wires the orchestrator.
func NewLaunchService(store *storage.Store, alloc *Allocator, costs CostModel, compiler *workflow.Compiler, inbox chan<- engine.Job, controller string) *LaunchService {
	return &LaunchService{
		store:      store,
		alloc:      alloc,
		costs:      costs,
		compiler:   compiler,
		inbox:      inbox,
		controller: controller,
		logger:     slog.Default().With("module", "launch_service"),
	}
}

// Launch accepts one launch request with its attached funding and returns
// the allocated identifier. Every failure is detected before dispatch and
// leaves zero persistent side effects.
func (s *LaunchService) Launch(req *domain.LaunchRequest, attached domain.Amount) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.launch(req, attached)
	if err != nil {
		infra.GlobalMetrics.RecordLaunchRejected()
		return "", err
	}
	infra.GlobalMetrics.RecordLaunchAccepted()
	return id, nil
}

func (s *LaunchService) launch(req *domain.LaunchRequest, attached domain.Amount) (string, error) {
	// Validating: metadata constraints first, before any other step.
	if err := req.Validate(); err != nil {
		return "", err
	}
	icon, err := infra.NormalizeIcon(req.Icon)
	if err != nil {
		return "", err
	}

	// Accounting: compute the required deposit; nothing has been written.
	cost, err := s.costs.RequiredDeposit(req.Kind, req.HasFirstPurchase())
	if err != nil {
		return "", err
	}
	required, err := cost.Add(req.FirstPurchase)
	if err != nil {
		return "", err
	}
	if attached.Cmp(required) < 0 {
		return "", fmt.Errorf("%w: attach at least %s, got %s", domain.ErrInsufficientFunds, required.String(), attached.String())
	}
	// Leftover deposit funds the new asset account at creation.
	funding, err := attached.Sub(required)
	if err != nil {
		return "", err
	}

	// Allocating and Persisting run as one transaction: the identifier
	// reservation, the counter write, the storage-allowance check and the
	// fee accrual commit together or not at all.
	var id string
	var wf *workflow.Workflow
	err = s.store.Transact(func(tx *storage.Store) error {
		now := time.Now()
		allocated, err := s.alloc.Allocate(tx, req, now)
		if err != nil {
			return err
		}
		id = allocated

		rec, err := tx.GetLaunch(id)
		if err != nil {
			return err
		}
		if allowance := s.costs.Table().StorageAllowanceBytes(); rec.StorageSize() > allowance {
			return fmt.Errorf("%w: record needs %d bytes, allowance is %d",
				domain.ErrInsufficientStorageDeposit, rec.StorageSize(), allowance)
		}

		if req.Kind == domain.IDScarce {
			if err := tx.AccrueFees(s.costs.Table().ScarcePremium); err != nil {
				return err
			}
		}

		// Compile inside the transaction so an encoding failure rolls the
		// whole launch back instead of leaving a record with no workflow.
		// The request itself stays untouched; only the compiled copy
		// carries the normalized icon.
		compileReq := *req
		compileReq.Icon = icon
		compiled, err := s.compiler.Compile(id, &compileReq, funding)
		if err != nil {
			return err
		}
		wf = compiled
		return nil
	})
	if err != nil {
		return "", err
	}

	// Dispatching: hand the chain to the dispatcher and return without
	// waiting. Post-dispatch failures are permanent partial states.
	infra.GlobalMetrics.AddPendingWorkflows(1)
	s.inbox <- engine.LaunchJob{Workflow: wf}

	s.logger.Info("Launch accepted",
		slog.String("asset", id),
		slog.String("kind", req.Kind.String()),
		slog.String("supply", req.TotalSupply.String()))
	return id, nil
}

// PreviewID derives the identifier a launch of symbol+kind would receive,
// with the same availability check, mutating nothing.
func (s *LaunchService) PreviewID(symbol string, kind domain.IDKind) (string, error) {
	return s.alloc.Preview(symbol, kind)
}

// GetLaunchData returns the persisted metadata for a launched identifier,
// nil if unknown.
func (s *LaunchService) GetLaunchData(accountID string) (*domain.LaunchRecord, error) {
	return s.store.GetLaunch(accountID)
}

// StandardCost returns the deposit required for a standard-kind launch
// without a first purchase.
func (s *LaunchService) StandardCost() (domain.Amount, error) {
	return s.costs.RequiredDeposit(domain.IDStandard, false)
}

// ScarceCost returns the deposit required for a scarce-kind launch without
// a first purchase.
func (s *LaunchService) ScarceCost() (domain.Amount, error) {
	return s.costs.RequiredDeposit(domain.IDScarce, false)
}

// FeesEarned returns the accrued protocol revenue.
func (s *LaunchService) FeesEarned() (domain.Amount, error) {
	return s.store.FeeBalance()
}

// WithdrawFees atomically drains the accrued balance and schedules a single
// transfer of it to the recipient. Only the controller identity may call
// this.
func (s *LaunchService) WithdrawFees(caller, recipient string) (domain.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != s.controller {
		return domain.ZeroAmount, fmt.Errorf("%w: withdraw_fees is restricted to %s", domain.ErrUnauthorized, s.controller)
	}

	drained, err := s.store.DrainFees()
	if err != nil {
		return domain.ZeroAmount, err
	}
	if drained.IsZero() {
		return domain.ZeroAmount, nil
	}

	infra.GlobalMetrics.RecordFeesWithdrawn()
	s.inbox <- engine.TransferJob{Recipient: recipient, Yocto: drained.String()}

	s.logger.Info("Fees withdrawn", slog.String("recipient", recipient), slog.String("amount", drained.String()))
	return drained, nil
}
