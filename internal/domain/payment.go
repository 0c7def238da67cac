package domain

type PaymentKind string

const (
	PaymentKindNative   PaymentKind = "NATIVE"
	PaymentKindFungible PaymentKind = "FUNGIBLE"
)

// PaymentToken is a tagged variant so the engine never branches on a sentinel
// address: either the native currency, or a fungible token contract.
type PaymentToken struct {
	Kind  PaymentKind `json:"kind"`
	Token Address     `json:"token,omitempty"`
}

func NativeToken() PaymentToken {
	return PaymentToken{Kind: PaymentKindNative}
}

func FungibleToken(token Address) PaymentToken {
	return PaymentToken{Kind: PaymentKindFungible, Token: token}
}

func (t PaymentToken) IsNative() bool {
	return t.Kind == PaymentKindNative
}

func (t PaymentToken) String() string {
	if t.IsNative() {
		return "native"
	}
	return string(t.Token)
}
