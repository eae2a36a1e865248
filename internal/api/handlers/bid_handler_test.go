package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-engine/internal/domain"
	"auction-engine/internal/services"
	"auction-engine/pkg/logger"
)

func newHandlerEngine(t *testing.T) *services.Engine {
	t.Helper()

	budgets := services.NewBudgetRegistry()
	require.NoError(t, budgets.Register(&domain.Team{ID: "team-a", Name: "Team A", TotalBudget: 1000000}))
	require.NoError(t, budgets.Register(&domain.Team{ID: "team-b", Name: "Team B", TotalBudget: 1000000}))

	settings := domain.AuctionSettings{
		BidWindow:      30 * time.Second,
		MinIncrement:   1000,
		StartingBudget: 1000000,
		MaxTeams:       10,
	}
	engine := services.NewEngine(settings, budgets,
		services.NewEventBus(logger.NewNop()),
		services.NewStaticIncrementPolicy(1000), logger.NewNop())

	_, err := engine.AddLot(&domain.Lot{ID: "lot-1", Name: "First", BasePrice: 100000})
	require.NoError(t, err)
	return engine
}

func doJSON(e *echo.Echo, handler echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		e.HTTPErrorHandler(err, e.NewContext(req, rec))
	}
	return rec
}

func TestSubmitBidReturnsCreatedBid(t *testing.T) {
	engine := newHandlerEngine(t)
	require.NoError(t, engine.Start())
	handler := NewBidHandler(engine, logger.NewNop())
	e := echo.New()

	rec := doJSON(e, handler.Submit, http.MethodPost, "/api/v1/bids",
		`{"team_id":"team-a","lot_id":"lot-1","amount":100000}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var bid domain.Bid
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bid))
	assert.Equal(t, "team-a", bid.TeamID)
	assert.Equal(t, int64(100000), bid.Amount)
	assert.Equal(t, uint64(1), bid.Sequence)
}

func TestSubmitBidRejectionsMapToUnprocessable(t *testing.T) {
	engine := newHandlerEngine(t)
	handler := NewBidHandler(engine, logger.NewNop())
	e := echo.New()

	// Before the auction starts.
	rec := doJSON(e, handler.Submit, http.MethodPost, "/api/v1/bids",
		`{"team_id":"team-a","lot_id":"lot-1","amount":100000}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_accepting_bids"`)

	require.NoError(t, engine.Start())

	rec = doJSON(e, handler.Submit, http.MethodPost, "/api/v1/bids",
		`{"team_id":"team-a","lot_id":"lot-1","amount":50}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bid_too_low"`)

	rec = doJSON(e, handler.Submit, http.MethodPost, "/api/v1/bids",
		`{"team_id":"team-a","lot_id":"lot-99","amount":100000}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stale_lot"`)
}

func TestSubmitBidValidatesRequestBody(t *testing.T) {
	engine := newHandlerEngine(t)
	handler := NewBidHandler(engine, logger.NewNop())
	e := echo.New()

	rec := doJSON(e, handler.Submit, http.MethodPost, "/api/v1/bids",
		`{"team_id":"","lot_id":"lot-1","amount":100000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, handler.Submit, http.MethodPost, "/api/v1/bids",
		`{"team_id":"team-a","lot_id":"lot-1","amount":-5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartConflictOnDoubleStart(t *testing.T) {
	engine := newHandlerEngine(t)
	handler := NewAuctionHandler(engine, nil, logger.NewNop())
	e := echo.New()

	rec := doJSON(e, handler.Start, http.MethodPost, "/api/v1/auction/start", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, handler.Start, http.MethodPost, "/api/v1/auction/start", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"invalid_transition"`)
}

func TestSnapshotReflectsEngineState(t *testing.T) {
	engine := newHandlerEngine(t)
	require.NoError(t, engine.Start())
	_, err := engine.SubmitBid("team-a", "lot-1", 120000)
	require.NoError(t, err)

	handler := NewAuctionHandler(engine, nil, logger.NewNop())
	e := echo.New()

	rec := doJSON(e, handler.Snapshot, http.MethodGet, "/api/v1/auction/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, "in-progress", snapshot.Status)
	require.NotNil(t, snapshot.CurrentLot)
	assert.Equal(t, "lot-1", snapshot.CurrentLot.ID)
	require.NotNil(t, snapshot.HighestBid)
	assert.Equal(t, int64(120000), snapshot.HighestBid.Amount)
}

func TestExtendRequiresValidDuration(t *testing.T) {
	engine := newHandlerEngine(t)
	require.NoError(t, engine.Start())
	handler := NewAuctionHandler(engine, nil, logger.NewNop())
	e := echo.New()

	rec := doJSON(e, handler.Extend, http.MethodPost, "/api/v1/auction/extend", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, handler.Extend, http.MethodPost, "/api/v1/auction/extend?seconds=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, handler.Extend, http.MethodPost, "/api/v1/auction/extend?seconds=15", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
