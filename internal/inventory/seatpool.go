package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/flight-inventory/internal/model"
)

const (
	businessPrefix = "B"
	economyPrefix  = "E"
)

func seatPrefix(class model.SeatClass) string {
	if class == model.ClassBusiness {
		return businessPrefix
	}
	return economyPrefix
}

// seatOrdinal parses the numeric part of a seat number such as "B12".
// It returns 0 for numbers that do not carry the class prefix.
func seatOrdinal(class model.SeatClass, number string) int {
	rest, ok := strings.CutPrefix(number, seatPrefix(class))
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// highestOrdinals returns the largest business and economy seat ordinals
// currently present on the flight.
func highestOrdinals(seats []model.Seat) (business, economy int) {
	for _, st := range seats {
		n := seatOrdinal(st.Class, st.SeatNumber)
		switch st.Class {
		case model.ClassBusiness:
			business = max(business, n)
		case model.ClassEconomy:
			economy = max(economy, n)
		}
	}
	return business, economy
}

func buildSeats(flightID uint64, class model.SeatClass, after, count int) []model.Seat {
	out := make([]model.Seat, 0, count)
	prefix := seatPrefix(class)
	for i := 1; i <= count; i++ {
		out = append(out, model.Seat{
			FlightID:   flightID,
			SeatNumber: prefix + strconv.Itoa(after+i),
			Class:      class,
			Available:  true,
		})
	}
	return out
}

// createSeats adds business and economy seats to a flight, numbered
// after the highest existing seat of each class, all available.  It
// does not touch the flight counters; callers adjust them in the same
// unit of work.
func createSeats(ctx context.Context, tx Tx, flightID uint64, business, economy int) error {
	if business < 0 || economy < 0 {
		return fmt.Errorf("%w: seat counts must not be negative (business=%d economy=%d)", ErrValidation, business, economy)
	}
	if business == 0 && economy == 0 {
		return nil
	}
	existing, err := tx.ListSeats(ctx, flightID)
	if err != nil {
		return fmt.Errorf("list seats: %w", err)
	}
	lastB, lastE := highestOrdinals(existing)
	seats := append(
		buildSeats(flightID, model.ClassBusiness, lastB, business),
		buildSeats(flightID, model.ClassEconomy, lastE, economy)...,
	)
	if err := tx.CreateSeats(ctx, seats); err != nil {
		return fmt.Errorf("create seats: %w", err)
	}
	return nil
}

// deleteSeats removes every seat of a flight.
func deleteSeats(ctx context.Context, tx Tx, flightID uint64) error {
	if err := tx.DeleteSeatsByFlight(ctx, flightID); err != nil {
		return fmt.Errorf("delete seats of flight %d: %w", flightID, err)
	}
	return nil
}

// SeatCounts is a per-class tally of a flight's seat rows.
type SeatCounts struct {
	Business          int `json:"business"`
	Economy           int `json:"economy"`
	AvailableBusiness int `json:"available_business"`
	AvailableEconomy  int `json:"available_economy"`
}

func countSeats(seats []model.Seat) SeatCounts {
	var c SeatCounts
	for _, st := range seats {
		switch st.Class {
		case model.ClassBusiness:
			c.Business++
			if st.Available {
				c.AvailableBusiness++
			}
		case model.ClassEconomy:
			c.Economy++
			if st.Available {
				c.AvailableEconomy++
			}
		}
	}
	return c
}

// FlightSeats lists the seats of a flight flown by one of owner's aircraft.
func (s *Service) FlightSeats(ctx context.Context, ownerID, flightID uint64) (seats []model.Seat, counts SeatCounts, err error) {
	ctx, span := s.startSpan(ctx, "inventory.FlightSeats", idAttr("owner.id", ownerID), idAttr("flight.id", flightID))
	defer func() { endSpan(span, err) }()

	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := ownedFlight(ctx, tx, ownerID, flightID); err != nil {
			return err
		}
		list, err := tx.ListSeats(ctx, flightID)
		if err != nil {
			return err
		}
		seats = list
		return nil
	})
	if err != nil {
		return nil, SeatCounts{}, err
	}
	return seats, countSeats(seats), nil
}

// ownedFlight loads a flight and checks that its aircraft belongs to owner.
func ownedFlight(ctx context.Context, tx Tx, ownerID, flightID uint64) (*model.Flight, error) {
	f, err := tx.GetFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedAircraft(ctx, tx, ownerID, f.AircraftID); err != nil {
		return nil, fmt.Errorf("flight %d: %w", flightID, ErrNotFound)
	}
	return f, nil
}

// ownedAircraft loads an aircraft and checks that it belongs to owner.
func ownedAircraft(ctx context.Context, tx Tx, ownerID, aircraftID uint64) (*model.Aircraft, error) {
	a, err := tx.GetAircraft(ctx, aircraftID)
	if err != nil {
		return nil, err
	}
	if a.OwnerID != ownerID {
		return nil, fmt.Errorf("aircraft %d: %w", aircraftID, ErrNotFound)
	}
	return a, nil
}
