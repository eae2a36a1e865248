package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"auction-engine/internal/domain"
)

type MySQLLotRepository struct {
	db *sql.DB
}

func NewMySQLLotRepository(db *sql.DB) *MySQLLotRepository {
	return &MySQLLotRepository{db: db}
}

func (r *MySQLLotRepository) ListLots(ctx context.Context) ([]*domain.Lot, error) {
	query := `
        SELECT id, name, role, country, age, base_price, created_at, updated_at
        FROM lots ORDER BY created_at ASC
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []*domain.Lot
	for rows.Next() {
		var lot domain.Lot
		err := rows.Scan(&lot.ID, &lot.Name, &lot.Role, &lot.Country,
			&lot.Age, &lot.BasePrice, &lot.CreatedAt, &lot.UpdatedAt)
		if err != nil {
			return nil, err
		}
		lots = append(lots, &lot)
	}

	return lots, rows.Err()
}

func (r *MySQLLotRepository) CreateLot(ctx context.Context, lot *domain.Lot) error {
	query := `
        INSERT INTO lots (id, name, role, country, age, base_price, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		lot.ID, lot.Name, lot.Role, lot.Country, lot.Age,
		lot.BasePrice, lot.CreatedAt, lot.UpdatedAt)
	return err
}

func (r *MySQLLotRepository) UpdateLot(ctx context.Context, lot *domain.Lot) error {
	query := `
        UPDATE lots SET name = ?, role = ?, country = ?, age = ?,
            base_price = ?, updated_at = ?
        WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query,
		lot.Name, lot.Role, lot.Country, lot.Age,
		lot.BasePrice, time.Now(), lot.ID)
	return err
}

func (r *MySQLLotRepository) DeleteLot(ctx context.Context, lotID string) error {
	query := `DELETE FROM lots WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, lotID)
	return err
}
