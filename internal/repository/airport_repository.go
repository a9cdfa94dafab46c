package repository

import (
	"context"
	"fmt"

	"github.com/iliyamo/flight-inventory/internal/model"
)

// AirportRepo reads the airports reference table.
type AirportRepo struct{ q querier }

func (r *AirportRepo) GetAirport(ctx context.Context, id uint64) (*model.Airport, error) {
	var a model.Airport
	err := r.q.QueryRowContext(ctx,
		`SELECT id, code, name, city FROM airports WHERE id = ?`, id).
		Scan(&a.ID, &a.Code, &a.Name, &a.City)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("airport %d", id))
	}
	return &a, nil
}

func (r *AirportRepo) ListAirports(ctx context.Context) ([]model.Airport, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, code, name, city FROM airports ORDER BY id`)
	if err != nil {
		return nil, translate(err, "list airports")
	}
	defer rows.Close()

	out := []model.Airport{}
	for rows.Next() {
		var a model.Airport
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.City); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
