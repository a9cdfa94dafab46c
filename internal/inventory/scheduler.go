package inventory

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/iliyamo/flight-inventory/internal/model"
)

// deadlineLead is how long before departure bookings stop being cancellable.
const deadlineLead = 24 * time.Hour

func cancellationDeadline(departure time.Time) time.Time {
	return departure.Add(-deadlineLead)
}

// ApplyScheduleChange records new actual times for a flight of the given
// aircraft and marks every non-cancelled booking on it as delayed with a
// deadline 24h before the new departure.  Each affected user's change
// counter goes up by one.  Affected users are emailed after the change
// is committed; the returned flight does not wait on that.
func (s *Service) ApplyScheduleChange(ctx context.Context, flightID, aircraftID uint64, departure, arrival time.Time) (_ *model.Flight, err error) {
	ctx, span := s.startSpan(ctx, "inventory.ApplyScheduleChange",
		idAttr("flight.id", flightID), idAttr("aircraft.id", aircraftID),
		attribute.String("flight.departure", departure.UTC().Format(time.RFC3339)))
	defer func() { endSpan(span, err) }()

	if departure.IsZero() || arrival.IsZero() {
		return nil, fmt.Errorf("%w: departure and arrival are required", ErrValidation)
	}
	if !arrival.After(departure) {
		return nil, fmt.Errorf("%w: arrival must be after departure", ErrValidation)
	}

	unlock := s.locks.lock(flightID)
	defer unlock()

	var (
		updated  model.Flight
		affected []uint64
		delayed  int64
	)
	deadline := cancellationDeadline(departure.UTC())
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		f, err := tx.GetFlightForUpdate(ctx, flightID)
		if err != nil {
			return err
		}
		if f.AircraftID != aircraftID {
			return fmt.Errorf("flight %d of aircraft %d: %w", flightID, aircraftID, ErrNotFound)
		}
		f.ActualDeparture = departure.UTC()
		f.ActualArrival = arrival.UTC()
		if err := tx.UpdateFlight(ctx, f); err != nil {
			return fmt.Errorf("update flight: %w", err)
		}

		bookings, err := tx.ListBookingsByFlight(ctx, flightID)
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}
		live := bookings[:0]
		for _, b := range bookings {
			if b.Status != model.BookingCancelled {
				live = append(live, b)
			}
		}
		if delayed, err = tx.DelayBookings(ctx, flightID, deadline); err != nil {
			return fmt.Errorf("delay bookings: %w", err)
		}
		affected = uniqueUserIDs(live)
		if err := tx.IncrementBookingsChanged(ctx, affected); err != nil {
			return fmt.Errorf("bump user change counters: %w", err)
		}
		updated = *f
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("flight rescheduled",
		zap.Uint64("flight_id", flightID),
		zap.Time("departure", updated.ActualDeparture),
		zap.Time("arrival", updated.ActualArrival),
		zap.Int64("bookings_delayed", delayed),
		zap.Int("users_affected", len(affected)))

	s.notifyScheduleChange(ctx, updated, affected)
	return &updated, nil
}
