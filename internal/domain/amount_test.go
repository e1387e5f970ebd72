package domain

import (
	"errors"
	"testing"
)

func TestAmountFromUnits(t *testing.T) {
	t.Run("whole unit", func(t *testing.T) {
		a, err := AmountFromUnits("1")
		if err != nil {
			t.Fatalf("AmountFromUnits failed: %v", err)
		}
		if a.String() != "1000000000000000000000000" {
			t.Errorf("expected 10^24 yocto, got %s", a.String())
		}
	})

	t.Run("fractional unit", func(t *testing.T) {
		a, err := AmountFromUnits("0.00125")
		if err != nil {
			t.Fatalf("AmountFromUnits failed: %v", err)
		}
		if a.String() != "1250000000000000000000" {
			t.Errorf("expected 1.25*10^21 yocto, got %s", a.String())
		}
	})

	t.Run("negative rejected", func(t *testing.T) {
		if _, err := AmountFromUnits("-1"); err == nil {
			t.Error("expected error for negative amount")
		}
	})

	t.Run("sub-yocto rejected", func(t *testing.T) {
		if _, err := AmountFromUnits("0.0000000000000000000000001"); err == nil {
			t.Error("expected error for sub-yocto fraction")
		}
	})
}

func TestAmountAdd(t *testing.T) {
	t.Run("carry across words", func(t *testing.T) {
		a := Amount{Lo: ^uint64(0)}
		sum, err := a.Add(OneYocto)
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if sum.Hi != 1 || sum.Lo != 0 {
			t.Errorf("expected {1,0}, got {%d,%d}", sum.Hi, sum.Lo)
		}
	})

	t.Run("overflow detected", func(t *testing.T) {
		a := Amount{Hi: ^uint64(0), Lo: ^uint64(0)}
		if _, err := a.Add(OneYocto); !errors.Is(err, ErrArithmeticOverflow) {
			t.Errorf("expected ErrArithmeticOverflow, got %v", err)
		}
	})
}

func TestAmountSub(t *testing.T) {
	t.Run("borrow across words", func(t *testing.T) {
		a := Amount{Hi: 1, Lo: 0}
		diff, err := a.Sub(OneYocto)
		if err != nil {
			t.Fatalf("Sub failed: %v", err)
		}
		if diff.Hi != 0 || diff.Lo != ^uint64(0) {
			t.Errorf("unexpected borrow result {%d,%d}", diff.Hi, diff.Lo)
		}
	})

	t.Run("underflow detected", func(t *testing.T) {
		if _, err := ZeroAmount.Sub(OneYocto); !errors.Is(err, ErrInsufficientFunds) {
			t.Errorf("expected ErrInsufficientFunds, got %v", err)
		}
	})
}

func TestAmountRoundTrip(t *testing.T) {
	const yocto = "340282366920938463463374607431768211455" // 2^128-1
	a, err := AmountFromYocto(yocto)
	if err != nil {
		t.Fatalf("AmountFromYocto failed: %v", err)
	}
	if a.String() != yocto {
		t.Errorf("round trip mismatch: %s", a.String())
	}
	if _, err := AmountFromYocto("340282366920938463463374607431768211456"); !errors.Is(err, ErrArithmeticOverflow) {
		t.Errorf("expected ErrArithmeticOverflow for 2^128, got %v", err)
	}
}

func TestAmountBorsh(t *testing.T) {
	a := Amount{Hi: 0x0102030405060708, Lo: 0x090a0b0c0d0e0f10}
	got := a.AppendBorsh(nil)
	want := []byte{
		0x10, 0x0f, 0x0e, 0x0d, 0x0c, 0x0b, 0x0a, 0x09,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	}
	if len(got) != len(want) {
		t.Fatalf("expected 16 bytes, got %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: expected %#x, got %#x", i, want[i], got[i])
		}
	}
}

func TestAmountJSON(t *testing.T) {
	a := NewAmount(42)
	b, err := a.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(b) != `"42"` {
		t.Errorf(`expected "42", got %s`, b)
	}

	var back Amount
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}
	if back.Cmp(a) != 0 {
		t.Errorf("round trip mismatch: %s", back.String())
	}
}
