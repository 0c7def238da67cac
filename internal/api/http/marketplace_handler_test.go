package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishant212/NFT-AirBnB/internal/asset"
	"github.com/ishant212/NFT-AirBnB/internal/domain"
	"github.com/ishant212/NFT-AirBnB/internal/escrow"
	"github.com/ishant212/NFT-AirBnB/internal/events"
	"github.com/ishant212/NFT-AirBnB/internal/payment"
	"github.com/ishant212/NFT-AirBnB/internal/registry"
	"github.com/ishant212/NFT-AirBnB/internal/repository/memory"
	"github.com/ishant212/NFT-AirBnB/internal/security"
	"github.com/ishant212/NFT-AirBnB/internal/service"
)

func newTestServer(t *testing.T) (*httptest.Server, *payment.Bank, security.TokenManager) {
	t.Helper()
	store := memory.NewStore()
	bank := payment.NewBank()
	custody := asset.NewCustody()
	rec := events.NewRecorder()
	tokens := security.NewTokenManager("test-secret-key-for-jwt-0123456789ab", 60)

	svc := service.NewMarketplaceService(
		store.Listings,
		store.Rentals,
		custody,
		registry.NewRights(rec),
		escrow.NewLedger(store.Rentals),
		payment.NewBankAdapter(bank, payment.EscrowAccount),
		rec,
		service.FeeConfig{FeeBps: 500, FeeRecipient: "0xfees"},
		func() time.Time { return time.Unix(1_000_000, 0) },
	)

	handler := NewMarketplaceHandler(svc, bank, custody, tokens, payment.EscrowAccount)
	srv := httptest.NewServer(NewRouter(handler, tokens))
	t.Cleanup(srv.Close)
	return srv, bank, tokens
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestAPI_RentFlow(t *testing.T) {
	srv, bank, tokens := newTestServer(t)

	ownerToken, err := tokens.GenerateAccessToken("0xowner")
	require.NoError(t, err)
	renterToken, err := tokens.GenerateAccessToken("0xrenter")
	require.NoError(t, err)

	// Owner mints and lists the asset.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/assets/mint", ownerToken, map[string]any{
		"contract": "0xnft", "token_id": 1,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/listings", ownerToken, map[string]any{
		"contract": "0xnft", "token_id": 1, "price_per_hour": 1000,
		"require_deposit": true, "deposit_bps": 5000, "deposit_cap_bps": 20000,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Renter pays rent 2000 + deposit 1000.
	require.NoError(t, bank.Mint(domain.NativeToken(), "0xrenter", 3000))
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/rentals", renterToken, map[string]any{
		"contract": "0xnft", "token_id": 1, "hours": 2, "attached_value": 3000,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var rental domain.Rental
	decodeBody(t, resp, &rental)
	assert.Equal(t, int64(2000), rental.RentAmount)
	assert.Equal(t, int64(1000), rental.DepositAmount)

	// Holder is publicly visible.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/assets/0xnft/1/holder", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var holder struct {
		Holder string `json:"holder"`
		Active bool   `json:"active"`
	}
	decodeBody(t, resp, &holder)
	assert.True(t, holder.Active)
	assert.Equal(t, "0xrenter", holder.Holder)

	// Refund before expiry is a conflict.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/rentals/0xnft/1/deposit/refund", renterToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_ErrorMapping(t *testing.T) {
	srv, _, tokens := newTestServer(t)
	renterToken, err := tokens.GenerateAccessToken("0xrenter")
	require.NoError(t, err)

	t.Run("Unlisted asset is 404", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/listings/0xnft/42", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Listing someone else's asset is 403", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/listings", renterToken, map[string]any{
			"contract": "0xnft", "token_id": 42, "price_per_hour": 1000,
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Missing bearer token is 401", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/listings", "", map[string]any{
			"contract": "0xnft", "token_id": 42, "price_per_hour": 1000,
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Malformed body is 400", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/listings", bytes.NewBufferString("{"))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+renterToken)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Validation failure is 422", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/listings", renterToken, map[string]any{
			"token_id": 42, "price_per_hour": 1000, // contract missing
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestAPI_IssueToken(t *testing.T) {
	srv, _, tokens := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/token", "", map[string]any{"address": "0xowner"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, resp, &body)

	claims, err := tokens.ValidateToken(body.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "0xowner", claims.Address)
}
