package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-inventory/internal/inventory"
	"github.com/iliyamo/flight-inventory/internal/model"
)

func TestAddAircraft(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "  VN-A321 ", 180)
	assert.Equal(t, "VN-A321", a.Code)
	assert.Equal(t, f.owner.ID, a.OwnerID)

	_, err := f.svc.AddAircraft(f.ctx, f.owner.ID, inventory.AircraftInput{Code: "VN-A321", TotalSeats: 10})
	assert.ErrorIs(t, err, inventory.ErrConflict)
	_, err = f.svc.AddAircraft(f.ctx, f.owner.ID, inventory.AircraftInput{Code: " ", TotalSeats: 10})
	assert.ErrorIs(t, err, inventory.ErrValidation)
	_, err = f.svc.AddAircraft(f.ctx, f.owner.ID, inventory.AircraftInput{Code: "VN-X", TotalSeats: -1})
	assert.ErrorIs(t, err, inventory.ErrValidation)
}

func TestListAndGetAircraft_ScopedToOwner(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	f.addAircraft(t, "VN-A350", 8)

	list, err := f.svc.ListAircraft(f.ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = f.svc.ListAircraft(f.ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := f.svc.GetAircraft(f.ctx, f.owner.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Code, got.Code)
	_, err = f.svc.GetAircraft(f.ctx, f.alice.ID, a.ID)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestUpdateAircraft(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	f.addAircraft(t, "VN-A350", 8)
	f.clock.Set(t0.Add(time.Hour))

	updated, err := f.svc.UpdateAircraft(f.ctx, f.owner.ID, a.ID, inventory.AircraftInput{Code: "VN-A322", Model: "A322", TotalSeats: 12})
	require.NoError(t, err)
	assert.Equal(t, "VN-A322", updated.Code)
	assert.Equal(t, 12, updated.TotalSeats)
	assert.True(t, updated.LastUpdated.Equal(t0.Add(time.Hour)))

	_, err = f.svc.UpdateAircraft(f.ctx, f.owner.ID, a.ID, inventory.AircraftInput{Code: "VN-A350", TotalSeats: 12})
	assert.ErrorIs(t, err, inventory.ErrConflict)
	_, err = f.svc.UpdateAircraft(f.ctx, f.alice.ID, a.ID, inventory.AircraftInput{Code: "VN-A322", TotalSeats: 12})
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestDeleteAircraft_CascadesToEveryRow(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	first := f.addFlight(t, a, t0.Add(72*time.Hour))
	second := f.addFlight(t, a, t0.Add(96*time.Hour))

	b1, t1, err := f.svc.CreateBooking(f.ctx, f.alice.ID, first.ID, 1, 1)
	require.NoError(t, err)
	b2, t2, err := f.svc.CreateBooking(f.ctx, f.bob.ID, second.ID, 0, 2)
	require.NoError(t, err)
	seats := append(f.seats(t, first.ID), f.seats(t, second.ID)...)

	require.NoError(t, f.svc.DeleteAircraft(f.ctx, f.owner.ID, a.ID))

	err = f.store.View(f.ctx, func(ctx context.Context, tx inventory.Tx) error {
		_, err := tx.GetAircraft(ctx, a.ID)
		assert.ErrorIs(t, err, inventory.ErrNotFound)
		for _, id := range []uint64{first.ID, second.ID} {
			_, err = tx.GetFlight(ctx, id)
			assert.ErrorIs(t, err, inventory.ErrNotFound)
		}
		for _, s := range seats {
			_, err = tx.GetSeat(ctx, s.ID)
			assert.ErrorIs(t, err, inventory.ErrNotFound)
		}
		for _, id := range []uint64{b1.ID, b2.ID} {
			_, err = tx.GetBooking(ctx, id)
			assert.ErrorIs(t, err, inventory.ErrNotFound)
		}
		for _, tk := range append(t1, t2...) {
			_, err = tx.GetTicket(ctx, tk.ID)
			assert.ErrorIs(t, err, inventory.ErrNotFound)
		}
		return nil
	})
	require.NoError(t, err)

	f.svc.WaitNotifications()
	got := map[string]bool{}
	for _, m := range f.notes.messages() {
		assert.Equal(t, "Flight cancelled", m.Subject)
		for _, r := range m.Recipients {
			got[r] = true
		}
	}
	assert.Equal(t, map[string]bool{"alice@example.com": true, "bob@example.com": true}, got)
}

func TestDeleteFlight(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	other := f.addAircraft(t, "VN-A350", 8)
	fl := f.addFlight(t, a, t0.Add(72*time.Hour))
	kept := f.addFlight(t, a, t0.Add(96*time.Hour))

	cancelled, _, err := f.svc.CreateBooking(f.ctx, f.bob.ID, fl.ID, 0, 1)
	require.NoError(t, err)
	_, err = f.svc.CancelBooking(f.ctx, f.bob.ID, cancelled.ID)
	require.NoError(t, err)
	_, _, err = f.svc.CreateBooking(f.ctx, f.alice.ID, fl.ID, 0, 1)
	require.NoError(t, err)

	err = f.svc.DeleteFlight(f.ctx, f.owner.ID, other.ID, fl.ID)
	require.ErrorIs(t, err, inventory.ErrNotFound)
	err = f.svc.DeleteFlight(f.ctx, f.alice.ID, a.ID, fl.ID)
	require.ErrorIs(t, err, inventory.ErrNotFound)

	require.NoError(t, f.svc.DeleteFlight(f.ctx, f.owner.ID, a.ID, fl.ID))

	flights, err := f.svc.ListFlights(f.ctx, f.owner.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, kept.ID, flights[0].ID)
	assert.Empty(t, f.seats(t, fl.ID))

	mine, err := f.svc.MyBookings(f.ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	f.svc.WaitNotifications()
	msgs := f.notes.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"alice@example.com"}, msgs[0].Recipients)
	assert.Contains(t, msgs[0].Body, "To: Hanoi (Noi Bai International Airport)")
}

func TestListAirports(t *testing.T) {
	f := newFixture(t)
	airports, err := f.svc.ListAirports(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Airport{f.han, f.sgn}, airports)
}
