package httpserver

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/mselser95/parimutuel-engine/pkg/types"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps engine errors to HTTP status codes. Validation failures
// are 400, authorization failures 403, missing records 404, and
// operations rejected because of the market's current state 409.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, types.ErrMarketNotFound),
		errors.Is(err, types.ErrPositionNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidAmount),
		errors.Is(err, types.ErrInvalidDeadline),
		errors.Is(err, types.ErrInvalidOutcome),
		errors.Is(err, types.ErrWrongAsset),
		errors.Is(err, types.ErrWrongMarket),
		errors.Is(err, types.ErrOverflow):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrBettingClosed),
		errors.Is(err, types.ErrTooEarly),
		errors.Is(err, types.ErrAlreadyResolved),
		errors.Is(err, types.ErrMarketResolved),
		errors.Is(err, types.ErrNotResolved),
		errors.Is(err, types.ErrAlreadyClaimed),
		errors.Is(err, types.ErrCannotSwitchSide),
		errors.Is(err, types.ErrBetExceedsLimit),
		errors.Is(err, types.ErrNoPayout),
		errors.Is(err, types.ErrNoFees):
		return http.StatusConflict
	case errors.Is(err, types.ErrInsufficientBalance),
		errors.Is(err, types.ErrTransferFailed):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request-failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}

	h.writeErrorMessage(w, status, err.Error())
}

func (h *handler) writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(errorResponse{Error: msg}); err != nil {
		h.logger.Error("error-response-encode-failed", zap.Error(err))
	}
}
