package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-inventory/internal/inventory"
)

func resize(t *testing.T, f *fixture, aircraftID uint64, code string, seats int) {
	t.Helper()
	_, err := f.svc.UpdateAircraft(f.ctx, f.owner.ID, aircraftID, inventory.AircraftInput{Code: code, Model: "A321", TotalSeats: seats})
	require.NoError(t, err)
}

func TestReallocate_SplitsQuarterToBusiness(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 20)
	fl := f.addFlightWith(t, a, f.sgn.ID, f.han.ID, t0.Add(72*time.Hour), 5, 15)

	require.NoError(t, f.svc.ReallocateCapacity(f.ctx, a.ID, 10))

	got := f.flight(t, fl.ID)
	assert.Equal(t, 7, got.AvailBusiness)
	assert.Equal(t, 23, got.AvailEconomy)
	f.requireSeatInvariant(t, fl.ID)
}

func TestReallocate_SequencePreservesInvariant(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 20)
	first := f.addFlightWith(t, a, f.sgn.ID, f.han.ID, t0.Add(72*time.Hour), 5, 15)
	second := f.addFlightWith(t, a, f.han.ID, f.sgn.ID, t0.Add(96*time.Hour), 5, 15)

	total := 20
	for _, delta := range []int{10, -4, 3, -9, 1} {
		total += delta
		resize(t, f, a.ID, "VN-A321", total)

		for _, id := range []uint64{first.ID, second.ID} {
			f.requireSeatInvariant(t, id)
			assert.Len(t, f.seats(t, id), total, "delta %d", delta)
		}
	}

	got := f.flight(t, first.ID)
	assert.Equal(t, 4, got.AvailBusiness)
	assert.Equal(t, 17, got.AvailEconomy)
}

func TestReallocate_NewSeatsContinueNumbering(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 4)
	fl := f.addFlightWith(t, a, f.sgn.ID, f.han.ID, t0.Add(72*time.Hour), 2, 2)

	require.NoError(t, f.svc.ReallocateCapacity(f.ctx, a.ID, 4))

	var numbers []string
	for _, s := range f.seats(t, fl.ID) {
		numbers = append(numbers, s.SeatNumber)
	}
	assert.Equal(t, []string{"B1", "B2", "E1", "E2", "B3", "E3", "E4", "E5"}, numbers)
}

func TestReallocate_ShrinkOnlyRemovesAvailableSeats(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	fl := f.addFlightWith(t, a, f.sgn.ID, f.han.ID, t0.Add(72*time.Hour), 2, 6)

	_, tickets, err := f.svc.CreateBooking(f.ctx, f.alice.ID, fl.ID, 2, 5)
	require.NoError(t, err)

	require.NoError(t, f.svc.ReallocateCapacity(f.ctx, a.ID, -8))

	got := f.flight(t, fl.ID)
	assert.Equal(t, 0, got.AvailBusiness)
	assert.Equal(t, 0, got.AvailEconomy)

	seats := f.seats(t, fl.ID)
	assert.Len(t, seats, len(tickets))
	for _, s := range seats {
		assert.False(t, s.Available, "seat %s", s.SeatNumber)
	}
	f.requireSeatInvariant(t, fl.ID)
}

func TestReallocate_ShrinkRemovesLowestIDsFirst(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	fl := f.addFlightWith(t, a, f.sgn.ID, f.han.ID, t0.Add(72*time.Hour), 2, 6)

	require.NoError(t, f.svc.ReallocateCapacity(f.ctx, a.ID, -4))

	var numbers []string
	for _, s := range f.seats(t, fl.ID) {
		numbers = append(numbers, s.SeatNumber)
	}
	assert.Equal(t, []string{"B2", "E4", "E5", "E6"}, numbers)
	f.requireSeatInvariant(t, fl.ID)
}

func TestReallocate_ZeroDeltaIsNoop(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	fl := f.addFlight(t, a, t0.Add(72*time.Hour))
	before := f.seats(t, fl.ID)

	require.NoError(t, f.svc.ReallocateCapacity(f.ctx, a.ID, 0))
	assert.Equal(t, before, f.seats(t, fl.ID))
}

func TestReallocate_AircraftWithoutFlights(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	require.NoError(t, f.svc.ReallocateCapacity(f.ctx, a.ID, 12))
}
