package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"launchpad_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store persists the orchestrator's contract state: per-symbol sequence
// counters, the launch registry (which doubles as the scarce-identifier
// reservation set) and the accrued fee ledger.
type Store struct {
	db *gorm.DB
}

// NewStore opens (or creates) the SQLite database at path and migrates the
// schema. An empty path falls back to a per-user data directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
		path = filepath.Join(configDir, "Launchpad", "data", "launchpad.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return open(db)
}

func open(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&domain.LaunchRecord{}, &domain.SymbolCounter{}, &domain.FeeLedger{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// Transact runs fn against a transaction-bound Store. Everything fn writes
// commits together or not at all; this is what makes the allocator's
// check-and-reserve a single inseparable step.
func (s *Store) Transact(fn func(tx *Store) error) error {
	return s.db.Transaction(func(txdb *gorm.DB) error {
		return fn(&Store{db: txdb})
	})
}

// ======================================================================================
// Symbol counters
// ======================================================================================

// LastSequence returns the last issued sequence for a symbol, zero if the
// symbol has never been launched.
func (s *Store) LastSequence(symbol string) (uint64, error) {
	var counter domain.SymbolCounter
	err := s.db.First(&counter, "symbol = ?", symbol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return counter.LastSeq, err
}

// BumpSequence advances the per-symbol counter and returns the new value.
// The counter only ever increases; callers must run this inside Transact so
// the write lands together with the launch record.
func (s *Store) BumpSequence(symbol string) (uint64, error) {
	last, err := s.LastSequence(symbol)
	if err != nil {
		return 0, err
	}
	next := last + 1
	counter := domain.SymbolCounter{Symbol: symbol, LastSeq: next, UpdatedAt: time.Now()}
	if err := s.db.Save(&counter).Error; err != nil {
		return 0, err
	}
	return next, nil
}

// ======================================================================================
// Launch registry
// ======================================================================================

// HasLaunch reports whether an identifier has already been allocated.
func (s *Store) HasLaunch(accountID string) (bool, error) {
	var count int64
	err := s.db.Model(&domain.LaunchRecord{}).Where("account_id = ?", accountID).Count(&count).Error
	return count > 0, err
}

// InsertLaunch records a new launch. Create fails on a duplicate primary
// key, so an identifier can never be double-reserved.
func (s *Store) InsertLaunch(rec *domain.LaunchRecord) error {
	return s.db.Create(rec).Error
}

// GetLaunch retrieves launch metadata by identifier, nil if absent.
func (s *Store) GetLaunch(accountID string) (*domain.LaunchRecord, error) {
	var rec domain.LaunchRecord
	err := s.db.First(&rec, "account_id = ?", accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ======================================================================================
// Fee ledger
// ======================================================================================

const feeLedgerRow = 1

func (s *Store) feeLedger() (*domain.FeeLedger, error) {
	var ledger domain.FeeLedger
	err := s.db.First(&ledger, "id = ?", feeLedgerRow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.FeeLedger{ID: feeLedgerRow, BalanceYocto: "0"}, nil
	}
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

// FeeBalance returns the accrued protocol revenue.
func (s *Store) FeeBalance() (domain.Amount, error) {
	ledger, err := s.feeLedger()
	if err != nil {
		return domain.ZeroAmount, err
	}
	return ledger.Balance()
}

// AccrueFees adds delta to the ledger with checked arithmetic. Overflow is
// a fatal contract error and is surfaced, never wrapped.
func (s *Store) AccrueFees(delta domain.Amount) error {
	ledger, err := s.feeLedger()
	if err != nil {
		return err
	}
	balance, err := ledger.Balance()
	if err != nil {
		return err
	}
	sum, err := balance.Add(delta)
	if err != nil {
		return err
	}
	ledger.BalanceYocto = sum.String()
	ledger.UpdatedAt = time.Now()
	return s.db.Save(ledger).Error
}

// DrainFees atomically reads the accrued balance and zeroes it, returning
// what was drained.
func (s *Store) DrainFees() (domain.Amount, error) {
	var drained domain.Amount
	err := s.Transact(func(tx *Store) error {
		ledger, err := tx.feeLedger()
		if err != nil {
			return err
		}
		balance, err := ledger.Balance()
		if err != nil {
			return err
		}
		drained = balance
		ledger.BalanceYocto = "0"
		ledger.UpdatedAt = time.Now()
		return tx.db.Save(ledger).Error
	})
	if err != nil {
		return domain.ZeroAmount, err
	}
	return drained, nil
}
