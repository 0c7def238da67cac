package asset

import (
	"sync"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
)

type approvalKey struct {
	contract domain.Address
	owner    domain.Address
	operator domain.Address
}

// Custody mirrors NFT ownership and operator approvals. The marketplace
// treats it as an oracle: it validates that a lister holds or is approved for
// an asset, and re-checks lazily at rent time so stale listings die on their
// own. It never takes custody of assets itself.
type Custody struct {
	mu        sync.RWMutex
	owners    map[domain.AssetID]domain.Address
	approvals map[approvalKey]bool
}

func NewCustody() *Custody {
	return &Custody{
		owners:    make(map[domain.AssetID]domain.Address),
		approvals: make(map[approvalKey]bool),
	}
}

// Mint registers a newly created token under an owner.
func (c *Custody) Mint(asset domain.AssetID, owner domain.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.owners[asset] = owner
}

// Transfer moves ownership. Existing operator approvals belong to the old
// owner and do not carry over.
func (c *Custody) Transfer(asset domain.AssetID, to domain.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.owners[asset] = to
}

// OwnerOf returns the current owner, reporting false for unknown assets.
func (c *Custody) OwnerOf(asset domain.AssetID) (domain.Address, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	owner, ok := c.owners[asset]
	return owner, ok
}

// SetApprovalForAll grants or revokes an operator for every token an owner
// holds in one contract.
func (c *Custody) SetApprovalForAll(contract, owner, operator domain.Address, approved bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := approvalKey{contract: contract, owner: owner, operator: operator}
	if approved {
		c.approvals[key] = true
	} else {
		delete(c.approvals, key)
	}
}

// IsApprovedOrOwner reports whether who currently owns the asset or holds an
// operator approval from the current owner.
func (c *Custody) IsApprovedOrOwner(asset domain.AssetID, who domain.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	owner, ok := c.owners[asset]
	if !ok {
		return false
	}
	if owner == who {
		return true
	}
	return c.approvals[approvalKey{contract: asset.Contract, owner: owner, operator: who}]
}
