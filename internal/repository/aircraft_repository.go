package repository

import (
	"context"
	"fmt"

	"github.com/iliyamo/flight-inventory/internal/model"
)

// AircraftRepo reads and writes the aircraft table.
type AircraftRepo struct{ q querier }

const aircraftColumns = `id, owner_id, code, model, total_seats, last_updated`

func scanAircraft(row interface{ Scan(...any) error }, a *model.Aircraft) error {
	return row.Scan(&a.ID, &a.OwnerID, &a.Code, &a.Model, &a.TotalSeats, &a.LastUpdated)
}

// CreateAircraft inserts a and sets its ID.
func (r *AircraftRepo) CreateAircraft(ctx context.Context, a *model.Aircraft) error {
	const q = `INSERT INTO aircraft (owner_id, code, model, total_seats, last_updated)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, q, a.OwnerID, a.Code, a.Model, a.TotalSeats, a.LastUpdated)
	if err != nil {
		return translate(err, "insert aircraft")
	}
	if a.ID, err = lastID(res); err != nil {
		return err
	}
	return nil
}

func (r *AircraftRepo) GetAircraft(ctx context.Context, id uint64) (*model.Aircraft, error) {
	var a model.Aircraft
	err := scanAircraft(r.q.QueryRowContext(ctx,
		`SELECT `+aircraftColumns+` FROM aircraft WHERE id = ?`, id), &a)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("aircraft %d", id))
	}
	return &a, nil
}

func (r *AircraftRepo) FindAircraftByCode(ctx context.Context, code string) (*model.Aircraft, error) {
	var a model.Aircraft
	err := scanAircraft(r.q.QueryRowContext(ctx,
		`SELECT `+aircraftColumns+` FROM aircraft WHERE code = ? LIMIT 1`, code), &a)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("aircraft code %q", code))
	}
	return &a, nil
}

// ListAircraftByOwner returns the owner's aircraft ordered by id.
func (r *AircraftRepo) ListAircraftByOwner(ctx context.Context, ownerID uint64) ([]model.Aircraft, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+aircraftColumns+` FROM aircraft WHERE owner_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, translate(err, "list aircraft")
	}
	defer rows.Close()

	out := []model.Aircraft{}
	for rows.Next() {
		var a model.Aircraft
		if err := scanAircraft(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AircraftRepo) UpdateAircraft(ctx context.Context, a *model.Aircraft) error {
	const q = `UPDATE aircraft SET code = ?, model = ?, total_seats = ?, last_updated = ? WHERE id = ?`
	res, err := r.q.ExecContext(ctx, q, a.Code, a.Model, a.TotalSeats, a.LastUpdated, a.ID)
	if err != nil {
		return translate(err, fmt.Sprintf("update aircraft %d", a.ID))
	}
	return mustAffect(res, fmt.Sprintf("aircraft %d", a.ID))
}

func (r *AircraftRepo) DeleteAircraft(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM aircraft WHERE id = ?`, id)
	if err != nil {
		return translate(err, fmt.Sprintf("delete aircraft %d", id))
	}
	return mustAffect(res, fmt.Sprintf("aircraft %d", id))
}
