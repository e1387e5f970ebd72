package domain

import (
	"time"
)

// LaunchRecord is the persisted metadata for one launched identifier. For
// scarce launches its presence doubles as the reservation: membership is
// checked before allocation and inserted in the same transaction.
type LaunchRecord struct {
	AccountID   string    `gorm:"primaryKey" json:"account_id"`
	Symbol      string    `gorm:"index" json:"symbol"`
	Scarce      bool      `json:"scarce"`
	Requester   string    `json:"requester"`
	Telegram    string    `json:"telegram,omitempty"`
	X           string    `json:"x,omitempty"`
	Website     string    `json:"website,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// recordOverhead approximates the fixed per-record key/index cost charged by
// the durable store, on top of the variable field bytes.
const recordOverhead = 40

// StorageSize is the durable-growth estimate for this record, compared
// against the fixed storage allowance collected at launch. User-supplied
// fields are the only unbounded inputs, so they dominate the sum.
func (r *LaunchRecord) StorageSize() int {
	return recordOverhead +
		len(r.AccountID)*2 + // keyed by account id, plus the symbol index
		len(r.Symbol) +
		len(r.Requester) +
		len(r.Telegram) +
		len(r.X) +
		len(r.Website) +
		len(r.Description)
}

// Data reassembles the supplementary metadata view of the record.
func (r *LaunchRecord) Data() LaunchData {
	return LaunchData{
		Telegram:    r.Telegram,
		X:           r.X,
		Website:     r.Website,
		Description: r.Description,
	}
}

// SymbolCounter is the per-symbol monotonic sequence for standard-kind
// identifiers. LastSeq never decreases and persists indefinitely.
type SymbolCounter struct {
	Symbol    string    `gorm:"primaryKey" json:"symbol"`
	LastSeq   uint64    `json:"last_seq"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeeLedger is the single accruing balance of protocol revenue. Exactly one
// row exists; the balance is stored as a base-10 yocto string so the full
// 128-bit range round-trips losslessly.
type FeeLedger struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BalanceYocto string    `json:"balance_yocto"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Balance parses the stored yocto string.
func (l *FeeLedger) Balance() (Amount, error) {
	if l.BalanceYocto == "" {
		return ZeroAmount, nil
	}
	return AmountFromYocto(l.BalanceYocto)
}
