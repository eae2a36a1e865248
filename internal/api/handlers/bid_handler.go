package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"auction-engine/internal/services"
	"auction-engine/pkg/logger"
)

type BidHandler struct {
	engine *services.Engine
	log    logger.Logger
}

func NewBidHandler(engine *services.Engine, log logger.Logger) *BidHandler {
	return &BidHandler{
		engine: engine,
		log:    log,
	}
}

type SubmitBidRequest struct {
	TeamID string `json:"team_id"`
	LotID  string `json:"lot_id"`
	Amount int64  `json:"amount"`
}

func (h *BidHandler) Submit(c echo.Context) error {
	var req SubmitBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if req.TeamID == "" || req.LotID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "team_id and lot_id required"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Amount must be positive"})
	}

	bid, err := h.engine.SubmitBid(req.TeamID, req.LotID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, bid)
}

func (h *BidHandler) History(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.BidHistory(c.Param("lotId")))
}
