package registry

import (
	"context"
	"sync"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
	"github.com/ishant212/NFT-AirBnB/internal/events"
	"github.com/ishant212/NFT-AirBnB/internal/logger"
)

type grant struct {
	holder domain.Address
	until  int64
}

// Rights owns the per-asset "current holder + expiry" state. Expiry is lazy:
// a grant simply stops answering once its timestamp passes, there is no
// background revocation of any kind.
type Rights struct {
	mu     sync.RWMutex
	grants map[domain.AssetID]grant
	pub    events.Publisher
}

func NewRights(pub events.Publisher) *Rights {
	return &Rights{
		grants: make(map[domain.AssetID]grant),
		pub:    pub,
	}
}

// Grant sets the holder and expiry for an asset, unconditionally overwriting
// any prior grant: a new rental always supersedes.
func (r *Rights) Grant(ctx context.Context, asset domain.AssetID, holder domain.Address, until int64) {
	r.mu.Lock()
	r.grants[asset] = grant{holder: holder, until: until}
	r.mu.Unlock()

	if err := r.pub.Publish(ctx, domain.UsageGranted{Asset: asset, Holder: holder, Until: until}); err != nil {
		logger.Error("Failed to publish usage grant event", "asset", asset.String(), "error", err)
	}
}

// Restore reinstates a grant without emitting an event. Used at boot to
// rebuild in-memory grants from persisted rentals.
func (r *Rights) Restore(asset domain.AssetID, holder domain.Address, until int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants[asset] = grant{holder: holder, until: until}
}

// HolderOf returns the current holder if the grant is still live at now.
// Querying has no side effect; expired grants are left in place and simply
// stop being reported.
func (r *Rights) HolderOf(asset domain.AssetID, now int64) (domain.Address, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.grants[asset]
	if !ok || now >= g.until {
		return domain.ZeroAddress, false
	}
	return g.holder, true
}
