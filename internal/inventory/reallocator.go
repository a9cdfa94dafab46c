package inventory

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/iliyamo/flight-inventory/internal/model"
)

// businessShare is the fraction of a capacity change given to business class.
const businessShare = 0.25

// splitDelta splits |delta| into business and economy shares.
func splitDelta(delta int) (business, economy int) {
	n := delta
	if n < 0 {
		n = -n
	}
	business = int(float64(n) * businessShare)
	return business, n - business
}

// ReallocateCapacity propagates a change of delta seats on an aircraft
// to every flight it flies.  Growth adds available seats; shrinkage
// removes only currently available seats and absorbs any shortfall.
// Each flight is its own unit of work: a failure stops the walk and
// leaves already processed flights changed.
func (s *Service) ReallocateCapacity(ctx context.Context, aircraftID uint64, delta int) (err error) {
	ctx, span := s.startSpan(ctx, "inventory.ReallocateCapacity",
		idAttr("aircraft.id", aircraftID), attribute.Int("seats.delta", delta))
	defer func() { endSpan(span, err) }()

	if delta == 0 {
		return nil
	}
	var flights []model.Flight
	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		flights, err = tx.ListFlightsByAircraft(ctx, aircraftID)
		return err
	})
	if err != nil {
		return fmt.Errorf("list flights of aircraft %d: %w", aircraftID, err)
	}

	business, economy := splitDelta(delta)
	for _, f := range flights {
		if err := s.reallocateFlight(ctx, f.ID, delta > 0, business, economy); err != nil {
			s.log.Error("capacity reallocation stopped",
				zap.Uint64("aircraft_id", aircraftID),
				zap.Uint64("flight_id", f.ID),
				zap.Int("delta", delta),
				zap.Error(err))
			return fmt.Errorf("reallocate flight %d: %w", f.ID, err)
		}
	}
	s.log.Info("capacity reallocated",
		zap.Uint64("aircraft_id", aircraftID),
		zap.Int("delta", delta),
		zap.Int("flights", len(flights)))
	return nil
}

func (s *Service) reallocateFlight(ctx context.Context, flightID uint64, grow bool, business, economy int) error {
	unlock := s.locks.lock(flightID)
	defer unlock()

	return s.store.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		f, err := tx.GetFlightForUpdate(ctx, flightID)
		if err != nil {
			return err
		}
		if grow {
			if err := createSeats(ctx, tx, f.ID, business, economy); err != nil {
				return err
			}
			f.AvailBusiness += business
			f.AvailEconomy += economy
			return tx.UpdateFlight(ctx, f)
		}

		removedB, err := removeAvailable(ctx, tx, f.ID, model.ClassBusiness, business)
		if err != nil {
			return err
		}
		removedE, err := removeAvailable(ctx, tx, f.ID, model.ClassEconomy, economy)
		if err != nil {
			return err
		}
		f.AvailBusiness -= removedB
		f.AvailEconomy -= removedE
		return tx.UpdateFlight(ctx, f)
	})
}

// removeAvailable deletes up to want available seats of class, lowest
// ids first, and reports how many were removed.
func removeAvailable(ctx context.Context, tx Tx, flightID uint64, class model.SeatClass, want int) (int, error) {
	if want <= 0 {
		return 0, nil
	}
	seats, err := tx.ListAvailableSeats(ctx, flightID, class, want)
	if err != nil {
		return 0, fmt.Errorf("list available %s seats: %w", class, err)
	}
	if len(seats) == 0 {
		return 0, nil
	}
	ids := make([]uint64, len(seats))
	for i, st := range seats {
		ids[i] = st.ID
	}
	if err := tx.DeleteSeats(ctx, ids); err != nil {
		return 0, fmt.Errorf("delete %s seats: %w", class, err)
	}
	return len(ids), nil
}
