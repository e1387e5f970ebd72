package app

import (
	"log/slog"

	"launchpad_go/internal/domain"
	"launchpad_go/internal/engine"
	"launchpad_go/internal/infra"
	"launchpad_go/internal/infra/dexmon"
	"launchpad_go/internal/infra/nearledger"
	"launchpad_go/internal/infra/storage"
	"launchpad_go/internal/service"
	"launchpad_go/internal/workflow"
)

const dispatcherInboxSize = 256

// Bootstrap orchestrates the service startup sequence and owns the wired
// component graph.
type Bootstrap struct {
	Config     *infra.Config
	Storage    *storage.Store
	Ledger     *nearledger.Client
	Dispatcher *engine.Dispatcher
	Service    *service.LaunchService
	Monitor    domain.EventMonitor
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration and wires every component. Nothing is
// started yet; main owns the goroutines and their context.
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("🚀 Bootstrapping Launchpad...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (DB)
	store, err := storage.NewStore(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 4. Cost table and workflow compiler
	costs, err := cfg.ParseCosts()
	if err != nil {
		return err
	}
	compiler := workflow.NewCompiler(
		cfg.Ledger.Namespace,
		cfg.Ledger.TokenCodeHash,
		cfg.Exchange.ContractID,
		cfg.Exchange.PairID,
		costs,
	)

	// 5. Ledger client and dispatcher
	b.Ledger = nearledger.NewClient(cfg)
	b.Dispatcher = engine.NewDispatcher(dispatcherInboxSize, b.Ledger)

	// 6. Launch service
	alloc := service.NewAllocator(store, cfg.Ledger.Namespace)
	b.Service = service.NewLaunchService(
		store,
		alloc,
		service.NewCostModel(costs),
		compiler,
		b.Dispatcher.Inbox(),
		cfg.Ledger.Controller,
	)
	slog.Info("✅ Launch service ready", slog.String("namespace", cfg.Ledger.Namespace))

	// 7. Exchange event monitor (optional)
	if cfg.Exchange.EventWSURL != "" {
		b.Monitor = dexmon.NewWorker(cfg.Exchange.EventWSURL, cfg.Exchange.ContractID)
	}

	return nil
}
