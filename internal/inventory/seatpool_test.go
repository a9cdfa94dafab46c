package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-inventory/internal/inventory"
	"github.com/iliyamo/flight-inventory/internal/model"
)

func TestAddFlight_CreatesNumberedSeats(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	fl := f.addFlightWith(t, a, f.sgn.ID, f.han.ID, t0.Add(48*time.Hour), 2, 6)

	assert.Equal(t, 2, fl.AvailBusiness)
	assert.Equal(t, 6, fl.AvailEconomy)
	assert.Equal(t, fl.ScheduledDeparture, fl.ActualDeparture)

	seats := f.seats(t, fl.ID)
	numbers := make([]string, 0, len(seats))
	for _, s := range seats {
		assert.True(t, s.Available)
		numbers = append(numbers, s.SeatNumber)
	}
	assert.Equal(t, []string{"B1", "B2", "E1", "E2", "E3", "E4", "E5", "E6"}, numbers)
	f.requireSeatInvariant(t, fl.ID)
}

func TestAddFlight_SeatsMustMatchAircraft(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)

	_, err := f.svc.AddFlight(f.ctx, f.owner.ID, a.ID, inventory.FlightInput{
		OriginAirportID:    f.sgn.ID,
		DestAirportID:      f.han.ID,
		ScheduledDeparture: t0.Add(48 * time.Hour),
		ScheduledArrival:   t0.Add(50 * time.Hour),
		BusinessSeats:      2,
		EconomySeats:       5,
	})
	require.ErrorIs(t, err, inventory.ErrValidation)
}

func TestAddFlight_RejectsBadInput(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	dep := t0.Add(48 * time.Hour)

	cases := map[string]inventory.FlightInput{
		"negative seats":  {OriginAirportID: f.sgn.ID, DestAirportID: f.han.ID, ScheduledDeparture: dep, ScheduledArrival: dep.Add(time.Hour), BusinessSeats: -1, EconomySeats: 9},
		"same airport":    {OriginAirportID: f.han.ID, DestAirportID: f.han.ID, ScheduledDeparture: dep, ScheduledArrival: dep.Add(time.Hour), BusinessSeats: 2, EconomySeats: 6},
		"arrival first":   {OriginAirportID: f.sgn.ID, DestAirportID: f.han.ID, ScheduledDeparture: dep, ScheduledArrival: dep.Add(-time.Hour), BusinessSeats: 2, EconomySeats: 6},
		"unknown airport": {OriginAirportID: f.sgn.ID, DestAirportID: 999, ScheduledDeparture: dep, ScheduledArrival: dep.Add(time.Hour), BusinessSeats: 2, EconomySeats: 6},
		"negative price":  {OriginAirportID: f.sgn.ID, DestAirportID: f.han.ID, ScheduledDeparture: dep, ScheduledArrival: dep.Add(time.Hour), BusinessSeats: 2, EconomySeats: 6, EconomyPrice: -5},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.AddFlight(f.ctx, f.owner.ID, a.ID, in)
			require.ErrorIs(t, err, inventory.ErrValidation)
		})
	}
}

func TestAddFlight_OtherOwnersAircraft(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)

	_, err := f.svc.AddFlight(f.ctx, f.alice.ID, a.ID, inventory.FlightInput{
		OriginAirportID:    f.sgn.ID,
		DestAirportID:      f.han.ID,
		ScheduledDeparture: t0.Add(48 * time.Hour),
		ScheduledArrival:   t0.Add(50 * time.Hour),
		BusinessSeats:      2,
		EconomySeats:       6,
	})
	require.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestFlightSeats_TalliesClasses(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	fl := f.addFlightWith(t, a, f.sgn.ID, f.han.ID, t0.Add(48*time.Hour), 2, 6)

	_, _, err := f.svc.CreateBooking(f.ctx, f.alice.ID, fl.ID, 1, 2)
	require.NoError(t, err)

	seats, counts, err := f.svc.FlightSeats(f.ctx, f.owner.ID, fl.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 8)
	assert.Equal(t, inventory.SeatCounts{Business: 2, Economy: 6, AvailableBusiness: 1, AvailableEconomy: 4}, counts)

	_, _, err = f.svc.FlightSeats(f.ctx, f.alice.ID, fl.ID)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestFlightSeats_HeldSeatsAreLowestIDs(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	fl := f.addFlightWith(t, a, f.sgn.ID, f.han.ID, t0.Add(48*time.Hour), 2, 6)

	_, tickets, err := f.svc.CreateBooking(f.ctx, f.alice.ID, fl.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	held := map[string]bool{}
	for _, s := range f.seats(t, fl.ID) {
		if !s.Available {
			held[s.SeatNumber] = true
		}
	}
	assert.Equal(t, map[string]bool{"B1": true, "E1": true}, held)

	byID := map[uint64]model.Seat{}
	for _, s := range f.seats(t, fl.ID) {
		byID[s.ID] = s
	}
	assert.Equal(t, model.ClassBusiness, byID[tickets[0].SeatID].Class)
	assert.Equal(t, int64(400), tickets[0].Price)
	assert.Equal(t, model.ClassEconomy, byID[tickets[1].SeatID].Class)
	assert.Equal(t, int64(100), tickets[1].Price)
}
