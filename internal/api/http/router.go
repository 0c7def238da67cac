package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ishant212/NFT-AirBnB/internal/security"
)

// NewRouter wires the marketplace endpoints. Reads are public; anything that
// acts as a caller goes through the auth middleware.
func NewRouter(h *MarketplaceHandler, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware, LoggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public reads and token issuance
	api.HandleFunc("/auth/token", h.HandleIssueToken).Methods(http.MethodPost)
	api.HandleFunc("/listings", h.HandleListListings).Methods(http.MethodGet)
	api.HandleFunc("/listings/{contract}/{tokenId}", h.HandleGetListing).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{contract}/{tokenId}", h.HandleGetRental).Methods(http.MethodGet)
	api.HandleFunc("/assets/{contract}/{tokenId}/holder", h.HandleGetHolder).Methods(http.MethodGet)

	// Authenticated operations
	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(tokens))
	authed.HandleFunc("/listings", h.HandleList).Methods(http.MethodPost)
	authed.HandleFunc("/rentals", h.HandleRent).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{contract}/{tokenId}/deposit/refund", h.HandleRefundDeposit).Methods(http.MethodPost)
	authed.HandleFunc("/bank/approve", h.HandleApprove).Methods(http.MethodPost)
	authed.HandleFunc("/bank/balance", h.HandleBalance).Methods(http.MethodGet)
	authed.HandleFunc("/assets/mint", h.HandleMintAsset).Methods(http.MethodPost)
	authed.HandleFunc("/assets/approve-operator", h.HandleApproveOperator).Methods(http.MethodPost)

	return r
}
