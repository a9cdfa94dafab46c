package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/flight-inventory/internal/model"
)

// FlightRepo reads and writes the flights table.
type FlightRepo struct{ q querier }

const flightColumns = `id, aircraft_id, origin_airport_id, dest_airport_id,
	scheduled_departure, scheduled_arrival, actual_departure, actual_arrival,
	avail_business, avail_economy, business_price, economy_price, revenue`

func scanFlight(row interface{ Scan(...any) error }, f *model.Flight) error {
	return row.Scan(
		&f.ID, &f.AircraftID, &f.OriginAirportID, &f.DestAirportID,
		&f.ScheduledDeparture, &f.ScheduledArrival, &f.ActualDeparture, &f.ActualArrival,
		&f.AvailBusiness, &f.AvailEconomy, &f.BusinessPrice, &f.EconomyPrice, &f.Revenue,
	)
}

// CreateFlight inserts f and sets its ID.
func (r *FlightRepo) CreateFlight(ctx context.Context, f *model.Flight) error {
	const q = `INSERT INTO flights (aircraft_id, origin_airport_id, dest_airport_id,
	               scheduled_departure, scheduled_arrival, actual_departure, actual_arrival,
	               avail_business, avail_economy, business_price, economy_price, revenue)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, q,
		f.AircraftID, f.OriginAirportID, f.DestAirportID,
		f.ScheduledDeparture, f.ScheduledArrival, f.ActualDeparture, f.ActualArrival,
		f.AvailBusiness, f.AvailEconomy, f.BusinessPrice, f.EconomyPrice, f.Revenue)
	if err != nil {
		return translate(err, "insert flight")
	}
	f.ID, err = lastID(res)
	return err
}

func (r *FlightRepo) GetFlight(ctx context.Context, id uint64) (*model.Flight, error) {
	return r.getFlight(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = ?`, id)
}

// GetFlightForUpdate reads a flight and row-locks it until the
// surrounding transaction ends.  Outside a transaction the lock is
// released immediately.
func (r *FlightRepo) GetFlightForUpdate(ctx context.Context, id uint64) (*model.Flight, error) {
	return r.getFlight(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = ? FOR UPDATE`, id)
}

func (r *FlightRepo) getFlight(ctx context.Context, q string, id uint64) (*model.Flight, error) {
	var f model.Flight
	if err := scanFlight(r.q.QueryRowContext(ctx, q, id), &f); err != nil {
		return nil, translate(err, fmt.Sprintf("flight %d", id))
	}
	return &f, nil
}

// ListFlightsByAircraft returns the flights of an aircraft ordered by id.
func (r *FlightRepo) ListFlightsByAircraft(ctx context.Context, aircraftID uint64) ([]model.Flight, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE aircraft_id = ? ORDER BY id`, aircraftID)
	if err != nil {
		return nil, translate(err, "list flights")
	}
	defer rows.Close()

	out := []model.Flight{}
	for rows.Next() {
		var f model.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// UpdateFlight writes every mutable column of f.
func (r *FlightRepo) UpdateFlight(ctx context.Context, f *model.Flight) error {
	const q = `UPDATE flights
	           SET actual_departure = ?, actual_arrival = ?,
	               avail_business = ?, avail_economy = ?,
	               business_price = ?, economy_price = ?, revenue = ?
	           WHERE id = ?`
	res, err := r.q.ExecContext(ctx, q,
		f.ActualDeparture, f.ActualArrival,
		f.AvailBusiness, f.AvailEconomy,
		f.BusinessPrice, f.EconomyPrice, f.Revenue, f.ID)
	if err != nil {
		return translate(err, fmt.Sprintf("update flight %d", f.ID))
	}
	return mustAffect(res, fmt.Sprintf("flight %d", f.ID))
}

func (r *FlightRepo) DeleteFlight(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, id)
	if err != nil {
		return translate(err, fmt.Sprintf("delete flight %d", id))
	}
	return mustAffect(res, fmt.Sprintf("flight %d", id))
}

// ListFlightStats returns one row per flight whose actual departure
// falls in year (UTC), restricted to ownerID's aircraft unless ownerID
// is zero.
func (r *FlightRepo) ListFlightStats(ctx context.Context, year int, ownerID uint64) ([]model.FlightStat, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	const q = `SELECT f.id, a.owner_id, COALESCE(ap.code, ''), f.actual_departure, f.revenue,
	                  a.total_seats, f.avail_business, f.avail_economy
	           FROM flights f
	           JOIN aircraft a ON a.id = f.aircraft_id
	           LEFT JOIN airports ap ON ap.id = f.dest_airport_id
	           WHERE f.actual_departure >= ? AND f.actual_departure < ?
	             AND (? = 0 OR a.owner_id = ?)
	           ORDER BY f.id`
	rows, err := r.q.QueryContext(ctx, q, from, to, ownerID, ownerID)
	if err != nil {
		return nil, translate(err, "list flight stats")
	}
	defer rows.Close()

	var out []model.FlightStat
	for rows.Next() {
		var s model.FlightStat
		if err := rows.Scan(&s.FlightID, &s.OwnerID, &s.DestAirportCode, &s.ActualDeparture, &s.Revenue,
			&s.TotalSeats, &s.AvailBusiness, &s.AvailEconomy); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
