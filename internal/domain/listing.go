package domain

import "time"

// Listing is an owner's offer to rent out an asset. Exactly one listing per
// asset; re-listing overwrites. A listing is not actively purged when the
// owner loses custody — staleness is checked lazily at rent time.
type Listing struct {
	Asset          AssetID      `json:"asset"`
	Owner          Address      `json:"owner"`
	PricePerHour   int64        `json:"price_per_hour"` // smallest payment unit
	PaymentToken   PaymentToken `json:"payment_token"`
	RequireDeposit bool         `json:"require_deposit"`
	DepositBps     uint16       `json:"deposit_bps"`
	DepositCapBps  uint16       `json:"deposit_cap_bps"`
	CreatedOn      time.Time    `json:"created_on"`
	UpdatedOn      time.Time    `json:"updated_on"`
}
