package domain

import "errors"

// Launch failures are all detected synchronously, before any workflow stage
// is dispatched, and leave no persistent state behind. Callers can match the
// sentinels below with errors.Is.
var (
	// ErrInvalidMetadata is returned when supplementary launch metadata
	// violates length or format constraints.
	ErrInvalidMetadata = errors.New("invalid launch metadata")

	// ErrInvalidIdentifier is returned when the derived asset identifier
	// violates the ledger's addressing rules or contains the reserved
	// sequence separator.
	ErrInvalidIdentifier = errors.New("invalid asset identifier")

	// ErrIdentifierTaken is returned when a scarce identifier has already
	// been reserved by an earlier launch.
	ErrIdentifierTaken = errors.New("identifier already taken")

	// ErrInsufficientFunds is returned when the attached value is below the
	// computed launch cost.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientStorageDeposit is returned when persisting the launch
	// record would grow durable storage beyond the fixed allowance.
	ErrInsufficientStorageDeposit = errors.New("insufficient storage deposit")

	// ErrArithmeticOverflow is returned when cost or ledger accumulation
	// would overflow 128 bits. It is fatal for the call; nothing is wrapped.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")

	// ErrUnauthorized is returned when a privileged operation is attempted
	// by anyone but the controller identity.
	ErrUnauthorized = errors.New("unauthorized")
)

// MetadataError reports which supplementary field failed validation.
type MetadataError struct {
	Field string
	Err   error
}

func (e *MetadataError) Error() string {
	return "metadata field [" + e.Field + "]: " + e.Err.Error()
}

func (e *MetadataError) Unwrap() error {
	return ErrInvalidMetadata
}

// IdentifierError reports why a derived identifier was rejected.
type IdentifierError struct {
	ID     string
	Reason string
}

func (e *IdentifierError) Error() string {
	return "identifier " + e.ID + ": " + e.Reason
}

func (e *IdentifierError) Unwrap() error {
	return ErrInvalidIdentifier
}
