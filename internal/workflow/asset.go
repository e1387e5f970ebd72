package workflow

// AssetKind tags the exchange's asset-identifier variants. The order of the
// constants fixes the borsh enum tags and must not change.
type AssetKind uint8

const (
	AssetNative AssetKind = iota
	AssetFungible
	AssetMulti
	AssetNonFungible
)

// AssetID identifies an asset in the exchange's wire format. The native
// asset serializes as a bare literal; everything else as
// "<kind>:<account>[:<sub-id>]".
type AssetID struct {
	Kind    AssetKind
	Account string
	SubID   string
}

// NativeAsset is the network's native asset.
var NativeAsset = AssetID{Kind: AssetNative}

// FungibleAsset identifies the fungible token issued by account.
func FungibleAsset(account string) AssetID {
	return AssetID{Kind: AssetFungible, Account: account}
}

// String renders the human-readable wire form.
func (a AssetID) String() string {
	switch a.Kind {
	case AssetNative:
		return "near"
	case AssetFungible:
		return "nep141:" + a.Account
	case AssetMulti:
		return "nep245:" + a.Account + ":" + a.SubID
	case AssetNonFungible:
		return "nep171:" + a.Account + ":" + a.SubID
	}
	return ""
}

// appendBorsh appends the binary enum form: one tag byte followed by the
// variant payload.
func (a AssetID) appendBorsh(dst []byte) []byte {
	dst = append(dst, byte(a.Kind))
	switch a.Kind {
	case AssetNative:
		// no payload
	case AssetFungible:
		dst = appendBorshString(dst, a.Account)
	case AssetMulti, AssetNonFungible:
		dst = appendBorshString(dst, a.Account)
		dst = appendBorshString(dst, a.SubID)
	}
	return dst
}
