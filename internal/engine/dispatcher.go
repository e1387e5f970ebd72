package engine

import (
	"context"
	"log/slog"

	"launchpad_go/internal/infra"
	"launchpad_go/internal/workflow"
)

// LedgerSubmitter is the outbound boundary the dispatcher drives.
type LedgerSubmitter interface {
	// Submit sends one stage as a single transaction. A nil return means
	// the transaction was accepted for execution, nothing more.
	Submit(ctx context.Context, stage workflow.Stage) error
	// Transfer schedules a bare value transfer.
	Transfer(ctx context.Context, recipient, yocto string) error
}

// Job is one unit of asynchronous work handed to the dispatcher.
type Job interface {
	jobKind() string
}

// LaunchJob carries a compiled workflow.
type LaunchJob struct {
	Workflow *workflow.Workflow
}

func (LaunchJob) jobKind() string { return "launch" }

// TransferJob carries a single value transfer (fee withdrawal).
type TransferJob struct {
	Recipient string
	Yocto     string
}

func (TransferJob) jobKind() string { return "transfer" }

// Dispatcher executes compiled workflows strictly sequentially on a single
// goroutine. Each stage is submitted only after the previous stage's
// outbound call has returned (accepted or failed); nothing is retried,
// rolled back or reported to the original caller. Partial completion is a
// permanent, observable end state.
type Dispatcher struct {
	inbox  chan Job
	ledger LedgerSubmitter
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher with a buffered inbox.
func NewDispatcher(inboxSize int, ledger LedgerSubmitter) *Dispatcher {
	return &Dispatcher{
		inbox:  make(chan Job, inboxSize),
		ledger: ledger,
		logger: slog.Default().With("module", "dispatcher"),
	}
}

// Inbox returns the job channel. The orchestrator sends here and returns to
// its caller without waiting.
func (d *Dispatcher) Inbox() chan<- Job {
	return d.inbox
}

// Run starts the main dispatch loop. This MUST be run in a single goroutine.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("Dispatcher started")
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Dispatcher stopping...")
			return
		case job := <-d.inbox:
			d.process(ctx, job)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, job Job) {
	switch j := job.(type) {
	case LaunchJob:
		infra.GlobalMetrics.AddPendingWorkflows(-1)
		d.runWorkflow(ctx, j.Workflow)
	case TransferJob:
		if err := d.ledger.Transfer(ctx, j.Recipient, j.Yocto); err != nil {
			infra.GlobalMetrics.RecordStageError()
			d.logger.Error("Fee transfer failed", slog.String("recipient", j.Recipient), slog.Any("error", err))
		}
	default:
		d.logger.Warn("Unknown job kind", slog.String("kind", job.jobKind()))
	}
}

// runWorkflow walks the stage chain in compiled order. A failed stage is
// logged and counted; later stages still run, since each downstream service
// reports its own outcome and the chain carries no compensation logic.
func (d *Dispatcher) runWorkflow(ctx context.Context, wf *workflow.Workflow) {
	for _, stage := range wf.Stages {
		if ctx.Err() != nil {
			d.logger.Warn("Dispatch interrupted by shutdown",
				slog.String("asset", wf.AssetID), slog.String("stage", stage.Name))
			return
		}
		if err := d.ledger.Submit(ctx, stage); err != nil {
			infra.GlobalMetrics.RecordStageError()
			d.logger.Error("Stage submission failed",
				slog.String("asset", wf.AssetID),
				slog.String("stage", stage.Name),
				slog.Any("error", err))
			continue
		}
		infra.GlobalMetrics.RecordStageDispatched()
	}
	d.logger.Info("Workflow dispatched", slog.String("asset", wf.AssetID), slog.Int("stages", len(wf.Stages)))
}
