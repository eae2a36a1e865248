package mysql

import (
	"context"
	"database/sql"
	"time"

	"auction-engine/internal/domain"
)

type MySQLTeamRepository struct {
	db *sql.DB
}

func NewMySQLTeamRepository(db *sql.DB) *MySQLTeamRepository {
	return &MySQLTeamRepository{db: db}
}

func (r *MySQLTeamRepository) ListTeams(ctx context.Context) ([]*domain.Team, error) {
	query := `SELECT id, name, total_budget FROM teams ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []*domain.Team
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.TotalBudget); err != nil {
			return nil, err
		}
		teams = append(teams, &team)
	}

	return teams, rows.Err()
}

func (r *MySQLTeamRepository) CreateTeam(ctx context.Context, team *domain.Team) error {
	query := `INSERT INTO teams (id, name, total_budget, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		team.ID, team.Name, team.TotalBudget, time.Now())
	return err
}
