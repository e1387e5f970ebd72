package workflow

import (
	"launchpad_go/internal/domain"
)

// Borsh primitives. Little-endian fixed-width integers, u32-length-prefixed
// strings and vectors, one tag byte per enum variant, 0/1 tag for options.
// The pool-creation and swap payloads must match the exchange's decoder
// byte for byte, so everything here is written out explicitly.

func appendBorshU32(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendBorshU64(dst []byte, v uint64) []byte {
	for i := 0; i < 8; i++ {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}

func appendBorshString(dst []byte, s string) []byte {
	dst = appendBorshU32(dst, uint32(len(s)))
	return append(dst, s...)
}

// Enum tags of the exchange's pool-type variant set. The launch bootstrap
// category carries the phantom-liquidity constant.
const (
	poolTypePrivateLatest = iota
	poolTypePublicLatest
	poolTypeLaunchLatest
	poolTypeLaunchV1
	poolTypePrivateV1
	poolTypePublicV1
	poolTypePrivateV2
	poolTypePublicV2
)

// Fee configuration enum tags.
const (
	feeConfigV1 = iota
	feeConfigV2
)

// Fee receiver enum tags.
const (
	feeReceiverAccount = iota
	feeReceiverPool
)

// Scheduled fee curve enum tags.
const feeCurveLinear = 0

func appendBorshFeeEntry(dst []byte, e domain.FeeEntry) []byte {
	if e.Receiver.Pool() {
		dst = append(dst, feeReceiverPool)
	} else {
		dst = append(dst, feeReceiverAccount)
		dst = appendBorshString(dst, e.Receiver.Account)
	}

	switch e.Amount.Kind {
	case domain.FeeFixed:
		dst = append(dst, byte(domain.FeeFixed))
		dst = appendBorshU32(dst, e.Amount.Fixed)
	case domain.FeeScheduled:
		dst = append(dst, byte(domain.FeeScheduled))
		dst = appendBorshU64(dst, e.Amount.Start.Timestamp)
		dst = appendBorshU32(dst, e.Amount.Start.Bps)
		dst = appendBorshU64(dst, e.Amount.End.Timestamp)
		dst = appendBorshU32(dst, e.Amount.End.Bps)
		dst = append(dst, feeCurveLinear)
	case domain.FeeDynamic:
		dst = append(dst, byte(domain.FeeDynamic))
		dst = appendBorshU32(dst, e.Amount.Min)
		dst = appendBorshU32(dst, e.Amount.Max)
	}
	return dst
}

// encodeCreatePoolArgs freezes the opaque binary payload of the exchange's
// create_pool method: the asset pair, the caller-supplied fee schedule
// (empty by default) and the launch-bootstrap pool category with its
// phantom-liquidity constant.
func encodeCreatePoolArgs(assetIn, assetOut AssetID, fees []domain.FeeEntry, phantomLiquidity domain.Amount) []byte {
	var dst []byte
	dst = assetIn.appendBorsh(dst)
	dst = assetOut.appendBorsh(dst)

	dst = append(dst, feeConfigV2)
	dst = appendBorshU32(dst, uint32(len(fees)))
	for _, e := range fees {
		dst = appendBorshFeeEntry(dst, e)
	}

	dst = append(dst, poolTypeLaunchV1)
	dst = phantomLiquidity.AppendBorsh(dst)
	return dst
}

// encodeSwapArgs freezes the binary payload of an exact-input swap: the
// asset pair, the input amount and no minimum-output constraint.
func encodeSwapArgs(assetIn, assetOut AssetID, amountIn domain.Amount) []byte {
	var dst []byte
	dst = assetIn.appendBorsh(dst)
	dst = assetOut.appendBorsh(dst)
	dst = amountIn.AppendBorsh(dst)
	dst = append(dst, 0) // min_amount_out: None
	return dst
}
