package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"auction-engine/internal/domain"
	"auction-engine/internal/services"
	"auction-engine/pkg/logger"
	"auction-engine/pkg/utils"
)

type TeamHandler struct {
	budgets  *services.BudgetRegistry
	repo     domain.TeamRepository
	settings domain.AuctionSettings
	log      logger.Logger
}

func NewTeamHandler(budgets *services.BudgetRegistry, repo domain.TeamRepository,
	settings domain.AuctionSettings, log logger.Logger) *TeamHandler {
	return &TeamHandler{
		budgets:  budgets,
		repo:     repo,
		settings: settings,
		log:      log,
	}
}

type RegisterTeamRequest struct {
	TeamID string `json:"team_id"`
	Name   string `json:"name"`
	Budget int64  `json:"budget"`
}

// Register hands a team's identity and budget to the engine. The budget is
// authoritative from this point on; a zero budget falls back to the
// configured starting budget.
func (h *TeamHandler) Register(c echo.Context) error {
	var req RegisterTeamRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Team name required"})
	}
	if req.Budget < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Budget must not be negative"})
	}

	if h.settings.MaxTeams > 0 && h.budgets.Count() >= h.settings.MaxTeams {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Team limit reached"})
	}

	team := &domain.Team{
		ID:          req.TeamID,
		Name:        req.Name,
		TotalBudget: req.Budget,
	}
	if team.ID == "" {
		team.ID = utils.GenerateID("team")
	}
	if team.TotalBudget == 0 {
		team.TotalBudget = h.settings.StartingBudget
	}

	if err := h.budgets.Register(team); err != nil {
		return respondError(c, err)
	}

	if err := h.repo.CreateTeam(c.Request().Context(), team); err != nil {
		h.log.Error("Failed to persist team", "team_id", team.ID, "error", err)
	}

	h.log.Info("Team registered", "team_id", team.ID, "budget", team.TotalBudget)
	return c.JSON(http.StatusCreated, team)
}

func (h *TeamHandler) Get(c echo.Context) error {
	team, err := h.budgets.Team(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.budgets.Teams())
}
