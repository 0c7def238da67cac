package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/ishant212/NFT-AirBnB/internal/asset"
	"github.com/ishant212/NFT-AirBnB/internal/domain"
	"github.com/ishant212/NFT-AirBnB/internal/payment"
	"github.com/ishant212/NFT-AirBnB/internal/security"
	"github.com/ishant212/NFT-AirBnB/internal/service"
)

// MarketplaceHandler is the HTTP face of the rental engine. It only parses,
// validates and maps: every invariant lives in the service layer.
type MarketplaceHandler struct {
	svc      service.MarketplaceService
	bank     *payment.Bank
	custody  *asset.Custody
	tokens   security.TokenManager
	escrow   domain.Address
	validate *validator.Validate
}

func NewMarketplaceHandler(svc service.MarketplaceService, bank *payment.Bank, custody *asset.Custody, tokens security.TokenManager, escrow domain.Address) *MarketplaceHandler {
	return &MarketplaceHandler{
		svc:      svc,
		bank:     bank,
		custody:  custody,
		tokens:   tokens,
		escrow:   escrow,
		validate: validator.New(),
	}
}

func (h *MarketplaceHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return false
	}
	return true
}

func (h *MarketplaceHandler) caller(w http.ResponseWriter, r *http.Request) (domain.Address, bool) {
	addr, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "caller identity missing")
	}
	return addr, ok
}

func assetFromVars(r *http.Request) (domain.AssetID, error) {
	vars := mux.Vars(r)
	tokenID, err := strconv.ParseInt(vars["tokenId"], 10, 64)
	if err != nil {
		return domain.AssetID{}, err
	}
	return domain.AssetID{Contract: domain.Address(vars["contract"]), TokenID: tokenID}, nil
}

func paymentTokenFrom(kind, tokenAddr string) domain.PaymentToken {
	if kind == string(domain.PaymentKindFungible) {
		return domain.FungibleToken(domain.Address(tokenAddr))
	}
	return domain.NativeToken()
}

type listRequest struct {
	Contract       string `json:"contract" validate:"required"`
	TokenID        int64  `json:"token_id" validate:"gte=0"`
	PricePerHour   int64  `json:"price_per_hour" validate:"gte=0"`
	PaymentKind    string `json:"payment_kind" validate:"omitempty,oneof=NATIVE FUNGIBLE"`
	PaymentToken   string `json:"payment_token" validate:"required_if=PaymentKind FUNGIBLE"`
	RequireDeposit bool   `json:"require_deposit"`
	DepositBps     uint16 `json:"deposit_bps"`
	DepositCapBps  uint16 `json:"deposit_cap_bps"`
}

// HandleList creates or overwrites a listing for the caller's asset.
func (h *MarketplaceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req listRequest
	if !h.decode(w, r, &req) {
		return
	}

	listing, err := h.svc.List(r.Context(), caller,
		domain.AssetID{Contract: domain.Address(req.Contract), TokenID: req.TokenID},
		req.PricePerHour,
		paymentTokenFrom(req.PaymentKind, req.PaymentToken),
		req.RequireDeposit, req.DepositBps, req.DepositCapBps)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

func (h *MarketplaceHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	a, err := assetFromVars(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid token id")
		return
	}
	listing, err := h.svc.GetListing(r.Context(), a)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *MarketplaceHandler) HandleListListings(w http.ResponseWriter, r *http.Request) {
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 50)
	listings, total, err := h.svc.ListListings(r.Context(), page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": listings, "total": total})
}

type rentRequest struct {
	Contract      string `json:"contract" validate:"required"`
	TokenID       int64  `json:"token_id" validate:"gte=0"`
	Hours         int64  `json:"hours" validate:"gte=0"`
	AttachedValue int64  `json:"attached_value" validate:"gte=0"`
}

// HandleRent executes a rental. For native listings attached_value is the
// accompanying payment and must equal rent+deposit exactly; for fungible
// listings the pull is authorized by a prior allowance.
func (h *MarketplaceHandler) HandleRent(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req rentRequest
	if !h.decode(w, r, &req) {
		return
	}

	rental, err := h.svc.Rent(r.Context(), caller,
		domain.AssetID{Contract: domain.Address(req.Contract), TokenID: req.TokenID},
		req.Hours, req.AttachedValue)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *MarketplaceHandler) HandleGetRental(w http.ResponseWriter, r *http.Request) {
	a, err := assetFromVars(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid token id")
		return
	}
	rental, err := h.svc.GetRental(r.Context(), a)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

// HandleRefundDeposit is deliberately unprivileged: anyone may trigger the
// refund, the deposit always goes to the rental's renter.
func (h *MarketplaceHandler) HandleRefundDeposit(w http.ResponseWriter, r *http.Request) {
	a, err := assetFromVars(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid token id")
		return
	}
	rental, err := h.svc.RefundDeposit(r.Context(), a)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *MarketplaceHandler) HandleGetHolder(w http.ResponseWriter, r *http.Request) {
	a, err := assetFromVars(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid token id")
		return
	}
	holder, held := h.svc.HolderOf(r.Context(), a)
	writeJSON(w, http.StatusOK, map[string]any{"holder": holder, "active": held})
}

type approveRequest struct {
	PaymentKind  string `json:"payment_kind" validate:"omitempty,oneof=NATIVE FUNGIBLE"`
	PaymentToken string `json:"payment_token" validate:"required_if=PaymentKind FUNGIBLE"`
	Amount       int64  `json:"amount" validate:"gte=0"`
}

// HandleApprove authorizes the marketplace escrow account to pull the
// caller's funds, mirroring a token approval.
func (h *MarketplaceHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req approveRequest
	if !h.decode(w, r, &req) {
		return
	}
	token := paymentTokenFrom(req.PaymentKind, req.PaymentToken)
	h.bank.Approve(token, caller, h.escrow, req.Amount)
	writeJSON(w, http.StatusOK, map[string]any{
		"owner":     caller,
		"spender":   h.escrow,
		"token":     token,
		"allowance": h.bank.Allowance(token, caller, h.escrow),
	})
}

func (h *MarketplaceHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	token := paymentTokenFrom(r.URL.Query().Get("payment_kind"), r.URL.Query().Get("payment_token"))
	writeJSON(w, http.StatusOK, map[string]any{
		"account": caller,
		"token":   token,
		"balance": h.bank.BalanceOf(token, caller),
	})
}

type mintAssetRequest struct {
	Contract string `json:"contract" validate:"required"`
	TokenID  int64  `json:"token_id" validate:"gte=0"`
}

// HandleMintAsset registers a token under the caller in the custody mirror.
func (h *MarketplaceHandler) HandleMintAsset(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req mintAssetRequest
	if !h.decode(w, r, &req) {
		return
	}
	a := domain.AssetID{Contract: domain.Address(req.Contract), TokenID: req.TokenID}
	if _, exists := h.custody.OwnerOf(a); exists {
		writeError(w, http.StatusConflict, "CONFLICT", "asset already minted")
		return
	}
	h.custody.Mint(a, caller)
	writeJSON(w, http.StatusCreated, map[string]any{"asset": a, "owner": caller})
}

type approveOperatorRequest struct {
	Contract string `json:"contract" validate:"required"`
	Operator string `json:"operator" validate:"required"`
	Approved bool   `json:"approved"`
}

func (h *MarketplaceHandler) HandleApproveOperator(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req approveOperatorRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.custody.SetApprovalForAll(domain.Address(req.Contract), caller, domain.Address(req.Operator), req.Approved)
	writeJSON(w, http.StatusOK, map[string]any{"owner": caller, "operator": req.Operator, "approved": req.Approved})
}

type tokenRequest struct {
	Address string `json:"address" validate:"required"`
}

// HandleIssueToken exchanges a verified address for an access token. Wallet
// signature verification happens at the gateway in front of this service;
// here the address is taken as already resolved.
func (h *MarketplaceHandler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !h.decode(w, r, &req) {
		return
	}
	token, err := h.tokens.GenerateAccessToken(req.Address)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"access_token": token})
}

func queryInt32(r *http.Request, key string, fallback int32) int32 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return fallback
	}
	return int32(v)
}
