package domain

// Events are observational: they feed off-engine listeners (listings viewer,
// notification fan-out) and never participate in engine state.

type Event interface {
	// Kind is the event type name used as the topic/attribute discriminator.
	Kind() string
	// Key is the partition key; events for one asset stay ordered.
	Key() string
}

type Listed struct {
	Asset          AssetID      `json:"asset"`
	Owner          Address      `json:"owner"`
	PaymentToken   PaymentToken `json:"payment_token"`
	PricePerHour   int64        `json:"price_per_hour"`
	RequireDeposit bool         `json:"require_deposit"`
}

func (e Listed) Kind() string { return "marketplace.listed" }
func (e Listed) Key() string  { return e.Asset.String() }

type Rented struct {
	Asset  AssetID `json:"asset"`
	Renter Address `json:"renter"`
	Expiry int64   `json:"expiry"`
}

func (e Rented) Kind() string { return "marketplace.rented" }
func (e Rented) Key() string  { return e.Asset.String() }

type DepositRefunded struct {
	Asset  AssetID `json:"asset"`
	Renter Address `json:"renter"`
	Amount int64   `json:"amount"`
}

func (e DepositRefunded) Kind() string { return "marketplace.deposit_refunded" }
func (e DepositRefunded) Key() string  { return e.Asset.String() }

// UsageGranted is emitted by the rights registry whenever a grant is written.
type UsageGranted struct {
	Asset  AssetID `json:"asset"`
	Holder Address `json:"holder"`
	Until  int64   `json:"until"`
}

func (e UsageGranted) Kind() string { return "registry.usage_granted" }
func (e UsageGranted) Key() string  { return e.Asset.String() }
