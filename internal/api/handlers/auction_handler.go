package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"auction-engine/internal/services"
	"auction-engine/pkg/logger"
)

type AuctionHandler struct {
	engine    *services.Engine
	scheduler *services.CronAuctionScheduler
	log       logger.Logger
}

func NewAuctionHandler(engine *services.Engine, scheduler *services.CronAuctionScheduler,
	log logger.Logger) *AuctionHandler {
	return &AuctionHandler{
		engine:    engine,
		scheduler: scheduler,
		log:       log,
	}
}

func (h *AuctionHandler) Start(c echo.Context) error {
	if err := h.engine.Start(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.engine.Snapshot())
}

func (h *AuctionHandler) Pause(c echo.Context) error {
	if err := h.engine.Pause(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.engine.Snapshot())
}

func (h *AuctionHandler) Resume(c echo.Context) error {
	if err := h.engine.Resume(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.engine.Snapshot())
}

func (h *AuctionHandler) Skip(c echo.Context) error {
	if err := h.engine.SkipToNext(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.engine.Snapshot())
}

func (h *AuctionHandler) Reset(c echo.Context) error {
	if err := h.engine.Reset(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.engine.Snapshot())
}

func (h *AuctionHandler) Extend(c echo.Context) error {
	secondsStr := c.QueryParam("seconds")
	if secondsStr == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Extension duration required"})
	}

	seconds, err := strconv.Atoi(secondsStr)
	if err != nil || seconds <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid extension duration"})
	}

	if err := h.engine.ExtendTimer(seconds); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.engine.Snapshot())
}

type ScheduleRequest struct {
	StartTime time.Time `json:"start_time"`
}

func (h *AuctionHandler) Schedule(c echo.Context) error {
	var req ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if req.StartTime.Before(time.Now()) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Start time must be in the future"})
	}

	if err := h.scheduler.ScheduleStart(c.Request().Context(), req.StartTime); err != nil {
		h.log.Error("Failed to schedule auction start", "error", err)
		return respondError(c, err)
	}

	h.log.Info("Auction start scheduled", "start_time", req.StartTime)
	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"scheduled":  true,
		"start_time": req.StartTime,
	})
}

func (h *AuctionHandler) Snapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.Snapshot())
}

func (h *AuctionHandler) History(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.History())
}
