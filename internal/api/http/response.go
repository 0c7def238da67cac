package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeDomainError maps each engine error kind to a distinct status and
// machine-readable code so callers can render a precise message.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "NOT_AUTHORIZED", err.Error())
	case errors.Is(err, domain.ErrNotListed):
		writeError(w, http.StatusNotFound, "NOT_LISTED", err.Error())
	case errors.Is(err, domain.ErrNoActiveRental):
		writeError(w, http.StatusNotFound, "NO_ACTIVE_RENTAL", err.Error())
	case errors.Is(err, domain.ErrAlreadyRented):
		writeError(w, http.StatusConflict, "ALREADY_RENTED", err.Error())
	case errors.Is(err, domain.ErrAlreadySettled):
		writeError(w, http.StatusConflict, "ALREADY_SETTLED", err.Error())
	case errors.Is(err, domain.ErrNotExpired):
		writeError(w, http.StatusConflict, "NOT_EXPIRED", err.Error())
	case errors.Is(err, domain.ErrZeroDuration):
		writeError(w, http.StatusBadRequest, "ZERO_DURATION", err.Error())
	case errors.Is(err, domain.ErrInvalidDeposit):
		writeError(w, http.StatusBadRequest, "INVALID_DEPOSIT", err.Error())
	case errors.Is(err, domain.ErrValueMismatch):
		writeError(w, http.StatusBadRequest, "VALUE_MISMATCH", err.Error())
	case errors.Is(err, domain.ErrOverflow):
		writeError(w, http.StatusBadRequest, "OVERFLOW", err.Error())
	case errors.Is(err, domain.ErrTransferFailed):
		writeError(w, http.StatusPaymentRequired, "TRANSFER_FAILED", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
