package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/flight-inventory/internal/model"
)

// AircraftInput carries the owner-editable fields of an aircraft.
type AircraftInput struct {
	Code       string
	Model      string
	TotalSeats int
}

func (in AircraftInput) validate() error {
	if strings.TrimSpace(in.Code) == "" {
		return fmt.Errorf("%w: aircraft code is required", ErrValidation)
	}
	if in.TotalSeats < 0 {
		return fmt.Errorf("%w: total seats must not be negative", ErrValidation)
	}
	return nil
}

// AddAircraft registers a new aircraft for owner.  Codes are unique
// across the fleet.
func (s *Service) AddAircraft(ctx context.Context, ownerID uint64, in AircraftInput) (_ *model.Aircraft, err error) {
	ctx, span := s.startSpan(ctx, "inventory.AddAircraft", idAttr("owner.id", ownerID))
	defer func() { endSpan(span, err) }()

	if err := in.validate(); err != nil {
		return nil, err
	}
	a := model.Aircraft{
		OwnerID:     ownerID,
		Code:        strings.TrimSpace(in.Code),
		Model:       strings.TrimSpace(in.Model),
		TotalSeats:  in.TotalSeats,
		LastUpdated: s.clock.Now(),
	}
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.FindAircraftByCode(ctx, a.Code); err == nil {
			return fmt.Errorf("%w: aircraft code %q already exists", ErrConflict, a.Code)
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		return tx.CreateAircraft(ctx, &a)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("aircraft added", zap.Uint64("aircraft_id", a.ID), zap.Uint64("owner_id", ownerID), zap.String("code", a.Code))
	return &a, nil
}

// ListAircraft returns owner's aircraft ordered by id.
func (s *Service) ListAircraft(ctx context.Context, ownerID uint64) (out []model.Aircraft, err error) {
	ctx, span := s.startSpan(ctx, "inventory.ListAircraft", idAttr("owner.id", ownerID))
	defer func() { endSpan(span, err) }()

	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		out, err = tx.ListAircraftByOwner(ctx, ownerID)
		return err
	})
	return out, err
}

// GetAircraft returns one of owner's aircraft.
func (s *Service) GetAircraft(ctx context.Context, ownerID, aircraftID uint64) (a *model.Aircraft, err error) {
	ctx, span := s.startSpan(ctx, "inventory.GetAircraft", idAttr("owner.id", ownerID), idAttr("aircraft.id", aircraftID))
	defer func() { endSpan(span, err) }()

	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		a, err = ownedAircraft(ctx, tx, ownerID, aircraftID)
		return err
	})
	return a, err
}

// UpdateAircraft edits one of owner's aircraft.  A change of the seat
// count is first propagated to every flight of the aircraft, then the
// aircraft row is saved.  Capacity changes, new flights and deletion of
// one aircraft are serialized, so the seat delta is always computed
// against the saved seat count.
func (s *Service) UpdateAircraft(ctx context.Context, ownerID, aircraftID uint64, in AircraftInput) (_ *model.Aircraft, err error) {
	ctx, span := s.startSpan(ctx, "inventory.UpdateAircraft", idAttr("owner.id", ownerID), idAttr("aircraft.id", aircraftID))
	defer func() { endSpan(span, err) }()

	if err := in.validate(); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.Code)

	unlock := s.fleetLocks.lock(aircraftID)
	defer unlock()

	var current model.Aircraft
	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		a, err := ownedAircraft(ctx, tx, ownerID, aircraftID)
		if err != nil {
			return err
		}
		if code != a.Code {
			if other, err := tx.FindAircraftByCode(ctx, code); err == nil && other.ID != a.ID {
				return fmt.Errorf("%w: aircraft code %q already exists", ErrConflict, code)
			} else if err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
		}
		current = *a
		return nil
	})
	if err != nil {
		return nil, err
	}

	if delta := in.TotalSeats - current.TotalSeats; delta != 0 {
		if err := s.ReallocateCapacity(ctx, aircraftID, delta); err != nil {
			return nil, err
		}
	}

	updated := current
	updated.Code = code
	updated.Model = strings.TrimSpace(in.Model)
	updated.TotalSeats = in.TotalSeats
	updated.LastUpdated = s.clock.Now()
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.UpdateAircraft(ctx, &updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAircraft removes one of owner's aircraft together with every
// flight it flies.  Flights are torn down one at a time, innermost rows
// first; a failure part way leaves the remaining flights and the
// aircraft in place and is logged for manual reconciliation.
func (s *Service) DeleteAircraft(ctx context.Context, ownerID, aircraftID uint64) (err error) {
	ctx, span := s.startSpan(ctx, "inventory.DeleteAircraft", idAttr("owner.id", ownerID), idAttr("aircraft.id", aircraftID))
	defer func() { endSpan(span, err) }()

	unlock := s.fleetLocks.lock(aircraftID)
	defer unlock()

	var flights []model.Flight
	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := ownedAircraft(ctx, tx, ownerID, aircraftID); err != nil {
			return err
		}
		flights, err = tx.ListFlightsByAircraft(ctx, aircraftID)
		return err
	})
	if err != nil {
		return err
	}

	for _, f := range flights {
		if err := s.removeFlight(ctx, f.ID); err != nil {
			s.log.Error("aircraft cascade delete aborted; manual reconciliation required",
				zap.Uint64("aircraft_id", aircraftID),
				zap.Uint64("flight_id", f.ID),
				zap.Error(err))
			return fmt.Errorf("delete flight %d of aircraft %d: %w", f.ID, aircraftID, err)
		}
	}
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.DeleteAircraft(ctx, aircraftID)
	})
	if err != nil {
		s.log.Error("aircraft cascade delete aborted; manual reconciliation required",
			zap.Uint64("aircraft_id", aircraftID), zap.Error(err))
		return fmt.Errorf("delete aircraft %d: %w", aircraftID, err)
	}
	s.log.Info("aircraft deleted", zap.Uint64("aircraft_id", aircraftID), zap.Int("flights", len(flights)))
	return nil
}

// FlightInput carries the fields of a new flight.
type FlightInput struct {
	OriginAirportID    uint64
	DestAirportID      uint64
	ScheduledDeparture time.Time
	ScheduledArrival   time.Time
	BusinessSeats      int
	EconomySeats       int
	BusinessPrice      int64
	EconomyPrice       int64
}

func (in FlightInput) validate() error {
	switch {
	case in.OriginAirportID == 0 || in.DestAirportID == 0:
		return fmt.Errorf("%w: origin and destination airports are required", ErrValidation)
	case in.OriginAirportID == in.DestAirportID:
		return fmt.Errorf("%w: origin and destination must differ", ErrValidation)
	case in.ScheduledDeparture.IsZero() || !in.ScheduledArrival.After(in.ScheduledDeparture):
		return fmt.Errorf("%w: arrival must be after departure", ErrValidation)
	case in.BusinessSeats < 0 || in.EconomySeats < 0:
		return fmt.Errorf("%w: seat counts must not be negative", ErrValidation)
	case in.BusinessPrice < 0 || in.EconomyPrice < 0:
		return fmt.Errorf("%w: prices must not be negative", ErrValidation)
	}
	return nil
}

// AddFlight schedules a new flight on one of owner's aircraft.  The
// actual times start equal to the scheduled ones and the business and
// economy seats must add up to the aircraft's seat count.
func (s *Service) AddFlight(ctx context.Context, ownerID, aircraftID uint64, in FlightInput) (_ *model.Flight, err error) {
	ctx, span := s.startSpan(ctx, "inventory.AddFlight", idAttr("owner.id", ownerID), idAttr("aircraft.id", aircraftID))
	defer func() { endSpan(span, err) }()

	if err := in.validate(); err != nil {
		return nil, err
	}
	f := model.Flight{
		AircraftID:         aircraftID,
		OriginAirportID:    in.OriginAirportID,
		DestAirportID:      in.DestAirportID,
		ScheduledDeparture: in.ScheduledDeparture.UTC(),
		ScheduledArrival:   in.ScheduledArrival.UTC(),
		ActualDeparture:    in.ScheduledDeparture.UTC(),
		ActualArrival:      in.ScheduledArrival.UTC(),
		AvailBusiness:      in.BusinessSeats,
		AvailEconomy:       in.EconomySeats,
		BusinessPrice:      in.BusinessPrice,
		EconomyPrice:       in.EconomyPrice,
	}

	unlock := s.fleetLocks.lock(aircraftID)
	defer unlock()

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		a, err := ownedAircraft(ctx, tx, ownerID, aircraftID)
		if err != nil {
			return err
		}
		if in.BusinessSeats+in.EconomySeats != a.TotalSeats {
			return fmt.Errorf("%w: business and economy seats must add up to %d", ErrValidation, a.TotalSeats)
		}
		for _, id := range []uint64{in.OriginAirportID, in.DestAirportID} {
			if _, err := tx.GetAirport(ctx, id); err != nil {
				if errors.Is(err, ErrNotFound) {
					return fmt.Errorf("%w: unknown airport %d", ErrValidation, id)
				}
				return err
			}
		}
		if err := tx.CreateFlight(ctx, &f); err != nil {
			return fmt.Errorf("create flight: %w", err)
		}
		return createSeats(ctx, tx, f.ID, in.BusinessSeats, in.EconomySeats)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("flight added", zap.Uint64("flight_id", f.ID), zap.Uint64("aircraft_id", aircraftID))
	return &f, nil
}

// ListFlights returns the flights of one of owner's aircraft.
func (s *Service) ListFlights(ctx context.Context, ownerID, aircraftID uint64) (out []model.Flight, err error) {
	ctx, span := s.startSpan(ctx, "inventory.ListFlights", idAttr("owner.id", ownerID), idAttr("aircraft.id", aircraftID))
	defer func() { endSpan(span, err) }()

	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := ownedAircraft(ctx, tx, ownerID, aircraftID); err != nil {
			return err
		}
		out, err = tx.ListFlightsByAircraft(ctx, aircraftID)
		return err
	})
	return out, err
}

// DeleteFlight removes a flight of one of owner's aircraft with its
// seats, bookings and tickets, whatever the booking status, and emails
// the holders of live bookings that the flight is cancelled.
func (s *Service) DeleteFlight(ctx context.Context, ownerID, aircraftID, flightID uint64) (err error) {
	ctx, span := s.startSpan(ctx, "inventory.DeleteFlight",
		idAttr("owner.id", ownerID), idAttr("aircraft.id", aircraftID), idAttr("flight.id", flightID))
	defer func() { endSpan(span, err) }()

	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := ownedAircraft(ctx, tx, ownerID, aircraftID); err != nil {
			return err
		}
		f, err := tx.GetFlight(ctx, flightID)
		if err != nil {
			return err
		}
		if f.AircraftID != aircraftID {
			return fmt.Errorf("flight %d of aircraft %d: %w", flightID, aircraftID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.removeFlight(ctx, flightID); err != nil {
		s.log.Error("flight cascade delete failed", zap.Uint64("flight_id", flightID), zap.Error(err))
		return err
	}
	s.log.Info("flight deleted", zap.Uint64("flight_id", flightID), zap.Uint64("aircraft_id", aircraftID))
	return nil
}

// removeFlight tears a flight down in one unit of work, tickets first,
// then bookings, seats and the flight row, and notifies the holders of
// bookings that were still live.
func (s *Service) removeFlight(ctx context.Context, flightID uint64) error {
	unlock := s.locks.lock(flightID)
	defer unlock()

	var (
		gone     model.Flight
		affected []uint64
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		f, err := tx.GetFlightForUpdate(ctx, flightID)
		if err != nil {
			return err
		}
		bookings, err := tx.ListBookingsByFlight(ctx, flightID)
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}
		ids := make([]uint64, 0, len(bookings))
		live := make([]model.Booking, 0, len(bookings))
		for _, b := range bookings {
			ids = append(ids, b.ID)
			if b.Status != model.BookingCancelled {
				live = append(live, b)
			}
		}
		if err := tx.DeleteTicketsByBookings(ctx, ids); err != nil {
			return fmt.Errorf("delete tickets: %w", err)
		}
		if err := tx.DeleteBookingsByFlight(ctx, flightID); err != nil {
			return fmt.Errorf("delete bookings: %w", err)
		}
		if err := deleteSeats(ctx, tx, flightID); err != nil {
			return err
		}
		if err := tx.DeleteFlight(ctx, flightID); err != nil {
			return fmt.Errorf("delete flight: %w", err)
		}
		gone = *f
		affected = uniqueUserIDs(live)
		return nil
	})
	if err != nil {
		return err
	}
	s.notifyFlightCancelled(ctx, gone, affected)
	return nil
}

// ListAirports returns every airport, ordered by id.
func (s *Service) ListAirports(ctx context.Context) (out []model.Airport, err error) {
	ctx, span := s.startSpan(ctx, "inventory.ListAirports")
	defer func() { endSpan(span, err) }()

	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		out, err = tx.ListAirports(ctx)
		return err
	})
	return out, err
}
