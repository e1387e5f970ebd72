package domain

import (
	"errors"
	"fmt"
	"strings"
)

// IDKind selects the identifier namespace a launch claims.
type IDKind uint8

const (
	// IDStandard is the cheap auto-incrementing namespace: "<symbol>-N".
	IDStandard IDKind = iota
	// IDScarce is the premium one-per-symbol namespace: "<symbol>".
	IDScarce
)

func (k IDKind) String() string {
	if k == IDScarce {
		return "scarce"
	}
	return "standard"
}

// Metadata length limits for supplementary launch fields.
const (
	maxLinkLength        = 100
	maxDescriptionLength = 500
)

// LaunchData carries the optional supplementary metadata persisted with each
// launched identifier. It is immutable once accepted.
type LaunchData struct {
	Telegram    string `json:"telegram,omitempty"`
	X           string `json:"x,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
}

// Validate enforces length and format constraints before any other launch
// step runs. A violation aborts the launch with zero side effects.
func (d *LaunchData) Validate() error {
	links := []struct {
		field, value string
	}{
		{"telegram", d.Telegram},
		{"x", d.X},
		{"website", d.Website},
	}
	for _, l := range links {
		if len(l.value) > maxLinkLength {
			return &MetadataError{Field: l.field, Err: fmt.Errorf("must be at most %d characters", maxLinkLength)}
		}
		if l.value != "" && strings.ContainsAny(l.value, " \t\n") {
			return &MetadataError{Field: l.field, Err: errors.New("must not contain whitespace")}
		}
	}
	if len(d.Description) > maxDescriptionLength {
		return &MetadataError{Field: "description", Err: fmt.Errorf("must be at most %d characters", maxDescriptionLength)}
	}
	return nil
}

// FeeReceiver is where a trading-pool fee share is routed: a named account
// or the pool itself. The schedule is passed through to the exchange
// opaquely; this system never interprets the economics.
type FeeReceiver struct {
	// Account receives the share when non-empty; otherwise the share goes
	// to the pool.
	Account string `json:"account,omitempty"`
}

// Pool reports whether the receiver is the pool itself.
func (r FeeReceiver) Pool() bool {
	return r.Account == ""
}

// FeeAmountKind tags the fee amount variant.
type FeeAmountKind uint8

const (
	FeeFixed FeeAmountKind = iota
	FeeScheduled
	FeeDynamic
)

// FeeCheckpoint is one (timestamp, basis points) point on a scheduled curve.
type FeeCheckpoint struct {
	Timestamp uint64 `json:"ts"`
	Bps       uint32 `json:"bps"`
}

// FeeAmount is the charged share for one receiver: fixed basis points, a
// scheduled curve, or a dynamic range.
type FeeAmount struct {
	Kind  FeeAmountKind `json:"kind"`
	Fixed uint32        `json:"fixed,omitempty"`
	Start FeeCheckpoint `json:"start,omitempty"`
	End   FeeCheckpoint `json:"end,omitempty"`
	Min   uint32        `json:"min,omitempty"`
	Max   uint32        `json:"max,omitempty"`
}

// FeeEntry pairs a receiver with its amount. Order matters and is preserved
// through compilation.
type FeeEntry struct {
	Receiver FeeReceiver `json:"receiver"`
	Amount   FeeAmount   `json:"amount"`
}

// LaunchRequest is the full set of caller parameters for one launch. It
// exists only for the duration of one invocation; invalid combinations are
// rejected before any state mutation.
type LaunchRequest struct {
	Name          string
	Symbol        string
	Icon          string // optional, data URL or raw base64 image
	Decimals      uint8
	TotalSupply   Amount
	Kind          IDKind
	Fees          []FeeEntry // optional ordered fee-receiver schedule
	Data          LaunchData
	FirstPurchase Amount // optional immediate buy, zero when absent
	Requester     string // account of the caller, withdrawal target for a first purchase
}

// HasFirstPurchase reports whether an immediate first buy was requested.
func (r *LaunchRequest) HasFirstPurchase() bool {
	return !r.FirstPurchase.IsZero()
}

// Validate checks the request shape. Identifier derivation rules are the
// allocator's concern; this covers everything else.
func (r *LaunchRequest) Validate() error {
	if r.Name == "" {
		return &MetadataError{Field: "name", Err: errors.New("must not be empty")}
	}
	if r.Symbol == "" {
		return &MetadataError{Field: "symbol", Err: errors.New("must not be empty")}
	}
	if r.Requester == "" {
		return &MetadataError{Field: "requester", Err: errors.New("must not be empty")}
	}
	if r.TotalSupply.IsZero() {
		return &MetadataError{Field: "total_supply", Err: errors.New("must be positive")}
	}
	return r.Data.Validate()
}
