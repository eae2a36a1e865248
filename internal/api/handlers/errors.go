package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"auction-engine/internal/domain"
)

// respondError maps engine errors onto HTTP statuses: state machine misuse
// is a conflict, bid rejections are unprocessable with a stable reason
// code, anything unexpected is a 500.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, errorBody("invalid_transition", err))
	case errors.Is(err, domain.ErrNotAcceptingBids):
		return c.JSON(http.StatusUnprocessableEntity, errorBody("not_accepting_bids", err))
	case errors.Is(err, domain.ErrStaleLot):
		return c.JSON(http.StatusUnprocessableEntity, errorBody("stale_lot", err))
	case errors.Is(err, domain.ErrBidTooLow):
		return c.JSON(http.StatusUnprocessableEntity, errorBody("bid_too_low", err))
	case errors.Is(err, domain.ErrInsufficientBudget):
		return c.JSON(http.StatusUnprocessableEntity, errorBody("insufficient_budget", err))
	case errors.Is(err, domain.ErrUnknownTeam), errors.Is(err, domain.ErrUnknownLot):
		return c.JSON(http.StatusNotFound, errorBody("not_found", err))
	case errors.Is(err, domain.ErrTeamExists):
		return c.JSON(http.StatusConflict, errorBody("team_exists", err))
	default:
		return c.JSON(http.StatusInternalServerError, errorBody("internal_error", err))
	}
}

func errorBody(reason string, err error) map[string]string {
	return map[string]string{
		"reason": reason,
		"error":  err.Error(),
	}
}
