package domain

import "time"

const SecondsPerHour int64 = 3600

// Rental records an executed rental for an asset. Price and deposit are
// snapshots computed at creation time; the usage-rights half of the record
// dies when Expiry passes (checked lazily by the rights registry), the
// deposit half dies when the escrow ledger settles it.
type Rental struct {
	Asset          AssetID      `json:"asset"`
	Renter         Address      `json:"renter"`
	Owner          Address      `json:"owner"`
	StartTime      int64        `json:"start_time"` // unix seconds
	Hours          int64        `json:"hours"`
	Expiry         int64        `json:"expiry"` // StartTime + Hours*SecondsPerHour
	PaymentToken   PaymentToken `json:"payment_token"`
	RentAmount     int64        `json:"rent_amount"`
	DepositAmount  int64        `json:"deposit_amount"`
	DepositSettled bool         `json:"deposit_settled"`
	CreatedOn      time.Time    `json:"created_on"`
	UpdatedOn      time.Time    `json:"updated_on"`
}

// Expired reports whether the usage period has lapsed. The boundary is
// inclusive: a rental counts as expired at exactly Expiry.
func (r *Rental) Expired(now int64) bool {
	return now >= r.Expiry
}
