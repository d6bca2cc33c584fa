package httpserver

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mselser95/parimutuel-engine/internal/engine"
	"github.com/mselser95/parimutuel-engine/internal/guard"
	"github.com/mselser95/parimutuel-engine/internal/storage"
	"github.com/mselser95/parimutuel-engine/internal/transfer"
	"github.com/mselser95/parimutuel-engine/pkg/healthprobe"
	"github.com/mselser95/parimutuel-engine/pkg/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testAuthority = mustIdentity("0x00000000000000000000000000000000000000AA")
	testBettor    = mustIdentity("0x00000000000000000000000000000000000000BB")
)

func mustIdentity(s string) types.Identity {
	id, err := types.ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

type testServer struct {
	srv  *Server
	bank *transfer.MemoryBank
	now  time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zap.NewNop()
	bank := transfer.NewMemoryBank(logger)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	eng := engine.New(engine.Config{
		Store:  storage.NewMemoryStore(),
		Bank:   bank,
		Guard:  guard.New(testAuthority),
		Clock:  func() time.Time { return now },
		Logger: logger,
	})

	hc := healthprobe.New()
	hc.SetReady(true)

	srv := New(&Config{
		Port:          "0",
		Logger:        logger,
		HealthChecker: hc,
		Engine:        eng,
		Funder:        bank,
		Authority:     testAuthority,
	})

	return &testServer{srv: srv, bank: bank, now: now}
}

func (ts *testServer) do(t *testing.T, method, path, caller string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if caller != "" {
		req.Header.Set(callerHeader, caller)
	}

	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) createMarket(t *testing.T, deadline time.Time) types.Market {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/api/markets", testAuthority.Hex(), createMarketRequest{
		AssetKind:     "usd-token",
		AssetDecimals: 6,
		Deadline:      deadline,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var market types.Market
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &market))
	return market
}

func TestCreateMarketEndpoint(t *testing.T) {
	ts := newTestServer(t)

	market := ts.createMarket(t, ts.now.Add(time.Hour))
	require.Equal(t, "usd-token", market.AssetKind)
	require.Equal(t, uint8(6), market.AssetDecimals)
	require.False(t, market.Resolved)
}

func TestCreateMarketRequiresCallerHeader(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/markets", "", createMarketRequest{
		AssetKind:     "usd-token",
		AssetDecimals: 6,
		Deadline:      ts.now.Add(time.Hour),
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateMarketRejectsNonAuthority(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/markets", testBettor.Hex(), createMarketRequest{
		AssetKind:     "usd-token",
		AssetDecimals: 6,
		Deadline:      ts.now.Add(time.Hour),
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPlaceBetEndpoint(t *testing.T) {
	ts := newTestServer(t)
	market := ts.createMarket(t, ts.now.Add(time.Hour))
	require.NoError(t, ts.bank.Deposit(testBettor, 1_000))

	rec := ts.do(t, http.MethodPost, "/api/markets/"+market.ID.String()+"/bets", testBettor.Hex(), placeBetRequest{
		AssetKind: "usd-token",
		Outcome:   types.OutcomeYes,
		Amount:    1_000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var position types.Position
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &position))
	require.Equal(t, uint64(970), position.Amount)
	require.Equal(t, types.OutcomeYes, position.Outcome)
}

func TestPlaceBetRejectsZeroAmount(t *testing.T) {
	ts := newTestServer(t)
	market := ts.createMarket(t, ts.now.Add(time.Hour))

	rec := ts.do(t, http.MethodPost, "/api/markets/"+market.ID.String()+"/bets", testBettor.Hex(), placeBetRequest{
		AssetKind: "usd-token",
		Outcome:   types.OutcomeYes,
		Amount:    0,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveAndClaimEndpoints(t *testing.T) {
	ts := newTestServer(t)
	market := ts.createMarket(t, ts.now.Add(-time.Minute))

	// Born-closed market with empty pools resolves to void.
	rec := ts.do(t, http.MethodPost, "/api/markets/"+market.ID.String()+"/resolve", testAuthority.Hex(), resolveRequest{
		Outcome: types.OutcomeYes,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resolved types.Market
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resolved))
	require.True(t, resolved.Resolved)
	require.Equal(t, types.OutcomeVoid, resolved.WinningOutcome)

	// No position, so the claim has nothing to pay out.
	rec = ts.do(t, http.MethodPost, "/api/markets/"+market.ID.String()+"/claim", testBettor.Hex(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolveBeforeDeadlineConflicts(t *testing.T) {
	ts := newTestServer(t)
	market := ts.createMarket(t, ts.now.Add(time.Hour))

	rec := ts.do(t, http.MethodPost, "/api/markets/"+market.ID.String()+"/resolve", testAuthority.Hex(), resolveRequest{
		Outcome: types.OutcomeYes,
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetMarketEndpoint(t *testing.T) {
	ts := newTestServer(t)
	market := ts.createMarket(t, ts.now.Add(time.Hour))

	rec := ts.do(t, http.MethodGet, "/api/markets/"+market.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got types.Market
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, market.ID, got.ID)
}

func TestGetMarketNotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/markets/5f0c9e9e-0000-4000-8000-000000000000", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMarketRejectsMalformedID(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/markets/not-a-uuid", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListMarketsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.createMarket(t, ts.now.Add(time.Hour))
	ts.createMarket(t, ts.now.Add(2*time.Hour))

	rec := ts.do(t, http.MethodGet, "/api/markets", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var markets []types.Market
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &markets))
	require.Len(t, markets, 2)
}

func TestGetPositionEndpoint(t *testing.T) {
	ts := newTestServer(t)
	market := ts.createMarket(t, ts.now.Add(time.Hour))
	require.NoError(t, ts.bank.Deposit(testBettor, 500))

	rec := ts.do(t, http.MethodPost, "/api/markets/"+market.ID.String()+"/bets", testBettor.Hex(), placeBetRequest{
		AssetKind: "usd-token",
		Outcome:   types.OutcomeNo,
		Amount:    500,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/markets/"+market.ID.String()+"/positions/"+testBettor.Hex(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var position types.Position
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &position))
	require.Equal(t, testBettor, position.Owner)
	require.Equal(t, uint64(485), position.Amount)
}

// The whole standalone flow over HTTP alone: the authority funds a
// bettor through the faucet, then the bettor places a bet.
func TestDepositEndpointFundsABet(t *testing.T) {
	ts := newTestServer(t)
	market := ts.createMarket(t, ts.now.Add(time.Hour))

	rec := ts.do(t, http.MethodPost, "/api/accounts/"+testBettor.Hex()+"/deposit", testAuthority.Hex(), depositRequest{
		Amount: 1_000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var funded balanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &funded))
	require.Equal(t, uint64(1_000), funded.Balance)

	rec = ts.do(t, http.MethodPost, "/api/markets/"+market.ID.String()+"/bets", testBettor.Hex(), placeBetRequest{
		AssetKind: "usd-token",
		Outcome:   types.OutcomeYes,
		Amount:    1_000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/accounts/"+testBettor.Hex()+"/balance", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var drained balanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &drained))
	require.Equal(t, uint64(0), drained.Balance)
}

func TestDepositRejectsNonAuthority(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/accounts/"+testBettor.Hex()+"/deposit", testBettor.Hex(), depositRequest{
		Amount: 1_000,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, uint64(0), ts.bank.Balance(testBettor))
}

func TestDepositRejectsZeroAmount(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/accounts/"+testBettor.Hex()+"/deposit", testAuthority.Hex(), depositRequest{
		Amount: 0,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFaucetRoutesAbsentWithoutFunder(t *testing.T) {
	ts := newTestServer(t)
	ts.srv = New(&Config{
		Port:          "0",
		Logger:        zap.NewNop(),
		HealthChecker: healthprobe.New(),
		Engine:        nil,
		Funder:        nil,
		Authority:     testAuthority,
	})

	rec := ts.do(t, http.MethodPost, "/api/accounts/"+testBettor.Hex()+"/deposit", testAuthority.Hex(), depositRequest{
		Amount: 1_000,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
