package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"auction-engine/internal/domain"
	"auction-engine/internal/services"
	"auction-engine/pkg/logger"
)

type LotHandler struct {
	engine *services.Engine
	repo   domain.LotRepository
	log    logger.Logger
}

func NewLotHandler(engine *services.Engine, repo domain.LotRepository, log logger.Logger) *LotHandler {
	return &LotHandler{
		engine: engine,
		repo:   repo,
		log:    log,
	}
}

type LotRequest struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Country   string `json:"country"`
	Age       int    `json:"age"`
	BasePrice int64  `json:"base_price"`
}

func (h *LotHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.Lots())
}

func (h *LotHandler) Create(c echo.Context) error {
	var req LotRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Lot name required"})
	}
	if req.BasePrice < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Base price must not be negative"})
	}

	lot, err := h.engine.AddLot(&domain.Lot{
		Name:      req.Name,
		Role:      req.Role,
		Country:   req.Country,
		Age:       req.Age,
		BasePrice: req.BasePrice,
	})
	if err != nil {
		return respondError(c, err)
	}

	if err := h.repo.CreateLot(c.Request().Context(), lot); err != nil {
		h.log.Error("Failed to persist lot", "lot_id", lot.ID, "error", err)
	}

	return c.JSON(http.StatusCreated, lot)
}

func (h *LotHandler) Update(c echo.Context) error {
	lotID := c.Param("id")

	var req LotRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	lot := &domain.Lot{
		ID:        lotID,
		Name:      req.Name,
		Role:      req.Role,
		Country:   req.Country,
		Age:       req.Age,
		BasePrice: req.BasePrice,
	}

	if err := h.engine.UpdateLot(lot); err != nil {
		return respondError(c, err)
	}

	if err := h.repo.UpdateLot(c.Request().Context(), lot); err != nil {
		h.log.Error("Failed to persist lot update", "lot_id", lotID, "error", err)
	}

	return c.JSON(http.StatusOK, lot)
}

func (h *LotHandler) Delete(c echo.Context) error {
	lotID := c.Param("id")

	if err := h.engine.RemoveLot(lotID); err != nil {
		return respondError(c, err)
	}

	if err := h.repo.DeleteLot(c.Request().Context(), lotID); err != nil {
		h.log.Error("Failed to delete lot", "lot_id", lotID, "error", err)
	}

	return c.NoContent(http.StatusNoContent)
}
