package domain

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/shopspring/decimal"
)

// Amount is an unsigned 128-bit quantity of the ledger's smallest indivisible
// unit (yocto). All launch accounting runs on this type; there is no floating
// point anywhere in the money path. Arithmetic is checked: operations that
// would wrap return ErrArithmeticOverflow instead.
type Amount struct {
	Hi uint64
	Lo uint64
}

// yoctoPerUnit is 10^24: one whole native token in yocto.
var yoctoPerUnit = decimal.New(1, 24)

// ZeroAmount is the additive identity.
var ZeroAmount = Amount{}

// OneYocto is the minimum non-zero attached value required by write calls.
var OneYocto = Amount{Lo: 1}

// NewAmount builds an Amount from a plain uint64 of yocto.
func NewAmount(yocto uint64) Amount {
	return Amount{Lo: yocto}
}

// AmountFromUnits parses a human-unit quantity (e.g. "0.005") into yocto.
// Parsing goes through decimal so the conversion is exact; fractions finer
// than one yocto are rejected.
func AmountFromUnits(units string) (Amount, error) {
	d, err := decimal.NewFromString(units)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", units, err)
	}
	if d.IsNegative() {
		return Amount{}, fmt.Errorf("invalid amount %q: negative", units)
	}
	yocto := d.Mul(yoctoPerUnit)
	if !yocto.IsInteger() {
		return Amount{}, fmt.Errorf("invalid amount %q: finer than one yocto", units)
	}
	return AmountFromBig(yocto.BigInt())
}

// AmountFromYocto parses a base-10 yocto string, the wire form used for
// 128-bit amounts in call payloads.
func AmountFromYocto(yocto string) (Amount, error) {
	i, ok := new(big.Int).SetString(yocto, 10)
	if !ok {
		return Amount{}, fmt.Errorf("invalid yocto amount %q", yocto)
	}
	return AmountFromBig(i)
}

// AmountFromBig converts a big.Int, rejecting negatives and values that do
// not fit in 128 bits.
func AmountFromBig(i *big.Int) (Amount, error) {
	if i.Sign() < 0 {
		return Amount{}, fmt.Errorf("invalid amount %s: negative", i)
	}
	if i.BitLen() > 128 {
		return Amount{}, ErrArithmeticOverflow
	}
	var a Amount
	a.Lo = i.Uint64()
	a.Hi = new(big.Int).Rsh(i, 64).Uint64()
	return a, nil
}

// Big returns the amount as a big.Int.
func (a Amount) Big() *big.Int {
	i := new(big.Int).SetUint64(a.Hi)
	i.Lsh(i, 64)
	return i.Or(i, new(big.Int).SetUint64(a.Lo))
}

// String renders the amount as a base-10 yocto integer, the form expected by
// call payloads and the persistent ledger row.
func (a Amount) String() string {
	return a.Big().String()
}

// Units renders the amount in whole native units for logs and operators.
func (a Amount) Units() string {
	return decimal.NewFromBigInt(a.Big(), 0).Div(yoctoPerUnit).String()
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.Hi == 0 && a.Lo == 0
}

// Cmp returns -1, 0 or +1 comparing a against b.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.Hi < b.Hi:
		return -1
	case a.Hi > b.Hi:
		return 1
	case a.Lo < b.Lo:
		return -1
	case a.Lo > b.Lo:
		return 1
	}
	return 0
}

// Add returns a+b or ErrArithmeticOverflow if the sum does not fit 128 bits.
func (a Amount) Add(b Amount) (Amount, error) {
	lo, carry := bits.Add64(a.Lo, b.Lo, 0)
	hi, carry := bits.Add64(a.Hi, b.Hi, carry)
	if carry != 0 {
		return Amount{}, ErrArithmeticOverflow
	}
	return Amount{Hi: hi, Lo: lo}, nil
}

// Sub returns a-b or an error if b exceeds a. Underflow of the deposit
// ledger or a funding balance is always a caller bug or insufficient funds,
// never wrapped silently.
func (a Amount) Sub(b Amount) (Amount, error) {
	lo, borrow := bits.Sub64(a.Lo, b.Lo, 0)
	hi, borrow := bits.Sub64(a.Hi, b.Hi, borrow)
	if borrow != 0 {
		return Amount{}, ErrInsufficientFunds
	}
	return Amount{Hi: hi, Lo: lo}, nil
}

// AppendBorsh appends the 16-byte little-endian borsh form of a u128.
func (a Amount) AppendBorsh(dst []byte) []byte {
	for i := 0; i < 8; i++ {
		dst = append(dst, byte(a.Lo>>(8*i)))
	}
	for i := 0; i < 8; i++ {
		dst = append(dst, byte(a.Hi>>(8*i)))
	}
	return dst
}

// MarshalJSON renders the amount as a JSON string of yocto, the accepted
// wire form for 128-bit values.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts the string form produced by MarshalJSON.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid amount literal %s", data)
	}
	parsed, err := AmountFromYocto(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
