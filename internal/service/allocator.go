package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"launchpad_go/internal/domain"
	"launchpad_go/internal/infra/storage"
)

// sequenceSeparator delimits the per-symbol sequence suffix of standard
// identifiers. Scarce symbols must not contain it, so collision between the
// two kinds is structurally impossible.
const sequenceSeparator = "-"

// Ledger addressing limits for a full account identifier.
const (
	minAccountIDLength = 2
	maxAccountIDLength = 64
)

// Allocator derives and reserves globally-unique asset identifiers scoped
// under the orchestrator's own namespace. Once allocated, an identifier is
// never reused or freed.
type Allocator struct {
	store     *storage.Store
	namespace string
}

// NewAllocator creates an allocator rooted at the given namespace account.
func NewAllocator(store *storage.Store, namespace string) *Allocator {
	return &Allocator{store: store, namespace: namespace}
}

// Preview performs the same derivation and availability check as Allocate
// without mutating any state, so callers can discover the identifier before
// committing funds.
func (a *Allocator) Preview(symbol string, kind domain.IDKind) (string, error) {
	symbolLower := strings.ToLower(symbol)

	if kind == domain.IDScarce {
		id, err := a.derive(symbolLower, kind, 0)
		if err != nil {
			return "", err
		}
		taken, err := a.store.HasLaunch(id)
		if err != nil {
			return "", err
		}
		if taken {
			return "", fmt.Errorf("%w: %s", domain.ErrIdentifierTaken, id)
		}
		return id, nil
	}

	last, err := a.store.LastSequence(symbolLower)
	if err != nil {
		return "", err
	}
	return a.derive(symbolLower, kind, last+1)
}

// Allocate derives the identifier and inserts its launch record in one
// inseparable step. It must run inside the orchestrator's transaction:
// rollback undoes the reservation and the counter write together.
func (a *Allocator) Allocate(tx *storage.Store, req *domain.LaunchRequest, now time.Time) (string, error) {
	symbolLower := strings.ToLower(req.Symbol)

	var id string
	if req.Kind == domain.IDScarce {
		derived, err := a.derive(symbolLower, req.Kind, 0)
		if err != nil {
			return "", err
		}
		taken, err := tx.HasLaunch(derived)
		if err != nil {
			return "", err
		}
		if taken {
			return "", fmt.Errorf("%w: %s", domain.ErrIdentifierTaken, derived)
		}
		id = derived
	} else {
		seq, err := tx.BumpSequence(symbolLower)
		if err != nil {
			return "", err
		}
		derived, err := a.derive(symbolLower, req.Kind, seq)
		if err != nil {
			return "", err
		}
		id = derived
	}

	rec := &domain.LaunchRecord{
		AccountID:   id,
		Symbol:      symbolLower,
		Scarce:      req.Kind == domain.IDScarce,
		Requester:   req.Requester,
		Telegram:    req.Data.Telegram,
		X:           req.Data.X,
		Website:     req.Data.Website,
		Description: req.Data.Description,
		CreatedAt:   now,
	}
	if err := tx.InsertLaunch(rec); err != nil {
		if req.Kind == domain.IDScarce {
			// Lost the race between check and insert; the unique key keeps
			// the registry consistent either way.
			return "", fmt.Errorf("%w: %s", domain.ErrIdentifierTaken, id)
		}
		// A standard-kind duplicate cannot happen while the counter is
		// persisted correctly.
		return "", fmt.Errorf("invariant violation: duplicate standard identifier %s: %w", id, err)
	}
	return id, nil
}

// derive builds and validates the full identifier for one kind. seq is
// ignored for the scarce kind.
func (a *Allocator) derive(symbolLower string, kind domain.IDKind, seq uint64) (string, error) {
	if kind == domain.IDScarce && strings.Contains(symbolLower, sequenceSeparator) {
		return "", &domain.IdentifierError{ID: symbolLower, Reason: "scarce symbol must not contain the reserved separator " + sequenceSeparator}
	}

	local := symbolLower
	if kind == domain.IDStandard {
		local = symbolLower + sequenceSeparator + strconv.FormatUint(seq, 10)
	}
	id := local + "." + a.namespace
	if err := validateAccountID(id); err != nil {
		return "", err
	}
	return id, nil
}

// validateAccountID enforces the ledger's addressing rules: 2-64 lowercase
// alphanumeric characters with single -_. separators between segments.
func validateAccountID(id string) error {
	if len(id) < minAccountIDLength || len(id) > maxAccountIDLength {
		return &domain.IdentifierError{ID: id, Reason: fmt.Sprintf("length must be %d-%d characters", minAccountIDLength, maxAccountIDLength)}
	}
	prevSeparator := true // a leading separator is as invalid as a double one
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			prevSeparator = false
		case c == '-' || c == '_' || c == '.':
			if prevSeparator {
				return &domain.IdentifierError{ID: id, Reason: "separators must be surrounded by alphanumerics"}
			}
			prevSeparator = true
		default:
			return &domain.IdentifierError{ID: id, Reason: fmt.Sprintf("invalid character %q", c)}
		}
	}
	if prevSeparator {
		return &domain.IdentifierError{ID: id, Reason: "must not end with a separator"}
	}
	return nil
}
