package services

import (
	"fmt"
	"sync"

	"auction-engine/internal/domain"
)

// BudgetRegistry holds the authoritative remaining budget per team.
// Reads are served to handlers concurrently; Commit is called by the
// engine only.
type BudgetRegistry struct {
	mu    sync.RWMutex
	teams map[string]*domain.Team
}

func NewBudgetRegistry() *BudgetRegistry {
	return &BudgetRegistry{
		teams: make(map[string]*domain.Team),
	}
}

// Register hands a team's identity and budget to the registry. Budgets are
// authoritative once registered.
func (r *BudgetRegistry) Register(team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.teams[team.ID]; exists {
		return fmt.Errorf("%w: %s", domain.ErrTeamExists, team.ID)
	}

	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *BudgetRegistry) Team(teamID string) (*domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.teams[teamID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTeam, teamID)
	}
	copied := *team
	return &copied, nil
}

func (r *BudgetRegistry) Teams() []*domain.Team {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Team, 0, len(r.teams))
	for _, team := range r.teams {
		copied := *team
		out = append(out, &copied)
	}
	return out
}

func (r *BudgetRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.teams)
}

func (r *BudgetRegistry) Remaining(teamID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.teams[teamID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnknownTeam, teamID)
	}
	return team.RemainingBudget(), nil
}

// ReserveCheck reports whether a team could afford the amount. Read-only;
// a bid reserves nothing, only the winning bid debits.
func (r *BudgetRegistry) ReserveCheck(teamID string, amount int64) (bool, error) {
	remaining, err := r.Remaining(teamID)
	if err != nil {
		return false, err
	}
	return amount <= remaining, nil
}

// Commit debits a team's budget on a lot win. Fails with ErrBudgetExceeded
// if the debit would drive the remaining budget negative; given bid-time
// validation that path is unreachable and the engine treats it as an
// invariant violation.
func (r *BudgetRegistry) Commit(teamID string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, ok := r.teams[teamID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownTeam, teamID)
	}

	if team.RemainingBudget() < amount {
		return fmt.Errorf("%w: team %s remaining %d, debit %d",
			domain.ErrBudgetExceeded, teamID, team.RemainingBudget(), amount)
	}

	team.CommittedSpend += amount
	return nil
}

// ReleaseAll zeroes committed spend for every team. Used only by the
// administrative auction reset, which also clears the resolution history.
func (r *BudgetRegistry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, team := range r.teams {
		team.CommittedSpend = 0
	}
}
