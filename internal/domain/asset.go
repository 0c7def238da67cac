package domain

import "fmt"

// Address is an already-resolved account identity (wallet-style hex string).
// Authentication happens upstream; the engine only ever sees addresses.
type Address string

const ZeroAddress Address = ""

// AssetID identifies a single NFT: the collection contract plus the token id.
// Listings, rentals and usage grants are all keyed by it.
type AssetID struct {
	Contract Address `json:"contract"`
	TokenID  int64   `json:"token_id"`
}

func (a AssetID) String() string {
	return fmt.Sprintf("%s/%d", a.Contract, a.TokenID)
}

func (a AssetID) IsZero() bool {
	return a.Contract == ZeroAddress
}
