package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mselser95/parimutuel-engine/internal/engine"
	"github.com/mselser95/parimutuel-engine/pkg/cache"
	"github.com/mselser95/parimutuel-engine/pkg/types"
	"go.uber.org/zap"
)

const callerHeader = "X-Caller-Identity"

type handler struct {
	engine *engine.Engine
	cache  *cache.MarketCache
	logger *zap.Logger
}

func newHandler(eng *engine.Engine, marketCache *cache.MarketCache, logger *zap.Logger) *handler {
	return &handler{
		engine: eng,
		cache:  marketCache,
		logger: logger,
	}
}

type createMarketRequest struct {
	AssetKind     string    `json:"asset_kind"`
	AssetDecimals uint8     `json:"asset_decimals"`
	Deadline      time.Time `json:"deadline"`
}

type updateDeadlineRequest struct {
	Deadline time.Time `json:"deadline"`
}

type placeBetRequest struct {
	AssetKind string        `json:"asset_kind"`
	Outcome   types.Outcome `json:"outcome"`
	Amount    uint64        `json:"amount"`
}

type resolveRequest struct {
	Outcome types.Outcome `json:"outcome"`
}

type payoutResponse struct {
	Amount uint64 `json:"amount"`
}

func (h *handler) createMarket(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req createMarketRequest
	if !h.decode(w, r, &req) {
		return
	}

	market, err := h.engine.CreateMarket(r.Context(), caller, req.AssetKind, req.AssetDecimals, req.Deadline)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, market)
}

func (h *handler) updateDeadline(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	marketID, ok := h.marketID(w, r)
	if !ok {
		return
	}

	var req updateDeadlineRequest
	if !h.decode(w, r, &req) {
		return
	}

	market, err := h.engine.UpdateDeadline(r.Context(), caller, marketID, req.Deadline)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.invalidate(marketID)
	h.writeJSON(w, http.StatusOK, market)
}

func (h *handler) placeBet(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	marketID, ok := h.marketID(w, r)
	if !ok {
		return
	}

	var req placeBetRequest
	if !h.decode(w, r, &req) {
		return
	}

	position, err := h.engine.PlaceBet(r.Context(), caller, marketID, req.AssetKind, req.Outcome, req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.invalidate(marketID)
	h.writeJSON(w, http.StatusOK, position)
}

func (h *handler) resolveMarket(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	marketID, ok := h.marketID(w, r)
	if !ok {
		return
	}

	var req resolveRequest
	if !h.decode(w, r, &req) {
		return
	}

	market, err := h.engine.Resolve(r.Context(), caller, marketID, req.Outcome)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.invalidate(marketID)
	h.writeJSON(w, http.StatusOK, market)
}

func (h *handler) claim(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	marketID, ok := h.marketID(w, r)
	if !ok {
		return
	}

	amount, err := h.engine.Claim(r.Context(), caller, marketID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, payoutResponse{Amount: amount})
}

func (h *handler) sweepFees(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	marketID, ok := h.marketID(w, r)
	if !ok {
		return
	}

	amount, err := h.engine.SweepFees(r.Context(), caller, marketID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.invalidate(marketID)
	h.writeJSON(w, http.StatusOK, payoutResponse{Amount: amount})
}

func (h *handler) listMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := h.engine.ListMarkets(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, markets)
}

func (h *handler) getMarket(w http.ResponseWriter, r *http.Request) {
	marketID, ok := h.marketID(w, r)
	if !ok {
		return
	}

	if h.cache != nil {
		if market, found := h.cache.Get(marketID); found {
			h.writeJSON(w, http.StatusOK, market)
			return
		}
	}

	market, err := h.engine.GetMarket(r.Context(), marketID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if h.cache != nil {
		h.cache.Put(market)
	}

	h.writeJSON(w, http.StatusOK, market)
}

func (h *handler) getPosition(w http.ResponseWriter, r *http.Request) {
	marketID, ok := h.marketID(w, r)
	if !ok {
		return
	}

	owner, err := types.ParseIdentity(chi.URLParam(r, "owner"))
	if err != nil {
		h.writeErrorMessage(w, http.StatusBadRequest, "invalid owner identity")
		return
	}

	position, err := h.engine.GetPosition(r.Context(), marketID, owner)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, position)
}

func (h *handler) caller(w http.ResponseWriter, r *http.Request) (types.Identity, bool) {
	raw := r.Header.Get(callerHeader)
	if raw == "" {
		h.writeErrorMessage(w, http.StatusUnauthorized, "missing caller identity header")
		return types.Identity{}, false
	}

	caller, err := types.ParseIdentity(raw)
	if err != nil {
		h.writeErrorMessage(w, http.StatusUnauthorized, "invalid caller identity header")
		return types.Identity{}, false
	}

	return caller, true
}

func (h *handler) marketID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "marketID"))
	if err != nil {
		h.writeErrorMessage(w, http.StatusBadRequest, "invalid market id")
		return uuid.Nil, false
	}

	return id, true
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	return true
}

func (h *handler) invalidate(marketID uuid.UUID) {
	if h.cache != nil {
		h.cache.Invalidate(marketID)
	}
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("response-encode-failed", zap.Error(err))
	}
}
