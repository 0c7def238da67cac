package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
	"github.com/ishant212/NFT-AirBnB/internal/events"
)

func TestRights_GrantAndHolderOf(t *testing.T) {
	rec := events.NewRecorder()
	rights := NewRights(rec)
	ctx := context.Background()
	asset := domain.AssetID{Contract: "0xnft", TokenID: 1}

	t.Run("Live grant reports holder", func(t *testing.T) {
		rights.Grant(ctx, asset, "0xrenter", 1000)

		holder, ok := rights.HolderOf(asset, 500)
		assert.True(t, ok)
		assert.Equal(t, domain.Address("0xrenter"), holder)
	})

	t.Run("Expiry boundary is exclusive of the holder", func(t *testing.T) {
		_, ok := rights.HolderOf(asset, 999)
		assert.True(t, ok)
		_, ok = rights.HolderOf(asset, 1000)
		assert.False(t, ok)
		_, ok = rights.HolderOf(asset, 1001)
		assert.False(t, ok)
	})

	t.Run("New grant overwrites prior holder", func(t *testing.T) {
		rights.Grant(ctx, asset, "0xother", 2000)

		holder, ok := rights.HolderOf(asset, 1500)
		assert.True(t, ok)
		assert.Equal(t, domain.Address("0xother"), holder)
	})

	t.Run("Grant publishes event", func(t *testing.T) {
		granted := rec.OfKind("registry.usage_granted")
		assert.Len(t, granted, 2)
	})

	t.Run("Unknown asset has no holder", func(t *testing.T) {
		_, ok := rights.HolderOf(domain.AssetID{Contract: "0xnft", TokenID: 99}, 0)
		assert.False(t, ok)
	})
}

func TestRights_Restore(t *testing.T) {
	rec := events.NewRecorder()
	rights := NewRights(rec)
	asset := domain.AssetID{Contract: "0xnft", TokenID: 7}

	rights.Restore(asset, "0xrenter", 5000)

	holder, ok := rights.HolderOf(asset, 100)
	assert.True(t, ok)
	assert.Equal(t, domain.Address("0xrenter"), holder)
	assert.Empty(t, rec.Events()) // restore is silent
}
