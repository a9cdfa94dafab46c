package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-inventory/internal/inventory"
	"github.com/iliyamo/flight-inventory/internal/model"
)

func TestApplyScheduleChange_DelaysLiveBookings(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	dep := time.Date(2024, time.February, 1, 8, 0, 0, 0, time.UTC)
	fl := f.addFlight(t, a, dep)

	live, _, err := f.svc.CreateBooking(f.ctx, f.alice.ID, fl.ID, 0, 2)
	require.NoError(t, err)
	gone, _, err := f.svc.CreateBooking(f.ctx, f.bob.ID, fl.ID, 1, 0)
	require.NoError(t, err)
	_, err = f.svc.CancelBooking(f.ctx, f.bob.ID, gone.ID)
	require.NoError(t, err)

	newDep := dep.Add(3*time.Hour + 30*time.Minute)
	newArr := newDep.Add(2 * time.Hour)
	updated, err := f.svc.ApplyScheduleChange(f.ctx, fl.ID, a.ID, newDep, newArr)
	require.NoError(t, err)
	assert.True(t, updated.ActualDeparture.Equal(newDep))
	assert.True(t, updated.ActualArrival.Equal(newArr))
	assert.True(t, updated.ScheduledDeparture.Equal(dep))

	b, err := f.svc.GetBooking(f.ctx, f.alice.ID, live.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingDelayed, b.Status)
	assert.True(t, b.CancellationDeadline.Equal(newDep.Add(-24*time.Hour)))

	b, err = f.svc.GetBooking(f.ctx, f.bob.ID, gone.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, b.Status)
	assert.True(t, b.CancellationDeadline.Equal(dep.Add(-24*time.Hour)))

	assert.Equal(t, 1, f.user(t, f.alice.ID).BookingsChanged)
	assert.Equal(t, 0, f.user(t, f.bob.ID).BookingsChanged)

	f.svc.WaitNotifications()
	msgs := f.notes.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"alice@example.com"}, msgs[0].Recipients)
	assert.Equal(t, "Flight schedule change", msgs[0].Subject)
	assert.Contains(t, msgs[0].Body, "From: Ho Chi Minh City (Tan Son Nhat International Airport)")
	assert.Contains(t, msgs[0].Body, "To: Hanoi (Noi Bai International Airport)")
	assert.Contains(t, msgs[0].Body, "Previous departure: 08:00 01/02/2024 UTC")
	assert.Contains(t, msgs[0].Body, "New departure: 11:30 01/02/2024 UTC")
}

func TestApplyScheduleChange_CountsUserOncePerChange(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	fl := f.addFlight(t, a, t0.Add(72*time.Hour))

	for i := 0; i < 2; i++ {
		_, _, err := f.svc.CreateBooking(f.ctx, f.alice.ID, fl.ID, 0, 1)
		require.NoError(t, err)
	}
	dep := t0.Add(80 * time.Hour)
	_, err := f.svc.ApplyScheduleChange(f.ctx, fl.ID, a.ID, dep, dep.Add(time.Hour))
	require.NoError(t, err)
	_, err = f.svc.ApplyScheduleChange(f.ctx, fl.ID, a.ID, dep.Add(time.Hour), dep.Add(2*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 2, f.user(t, f.alice.ID).BookingsChanged)

	f.svc.WaitNotifications()
	for _, m := range f.notes.messages() {
		assert.Equal(t, []string{"alice@example.com"}, m.Recipients)
	}
}

func TestApplyScheduleChange_WrongAircraft(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	other := f.addAircraft(t, "VN-A350", 8)
	dep := t0.Add(72 * time.Hour)
	fl := f.addFlight(t, a, dep)

	_, err := f.svc.ApplyScheduleChange(f.ctx, fl.ID, other.ID, dep.Add(time.Hour), dep.Add(3*time.Hour))
	require.ErrorIs(t, err, inventory.ErrNotFound)
	assert.True(t, f.flight(t, fl.ID).ActualDeparture.Equal(dep))
}

func TestApplyScheduleChange_RejectsInvertedTimes(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	dep := t0.Add(72 * time.Hour)
	fl := f.addFlight(t, a, dep)

	_, err := f.svc.ApplyScheduleChange(f.ctx, fl.ID, a.ID, dep, dep)
	require.ErrorIs(t, err, inventory.ErrValidation)
}

func TestApplyScheduleChange_NotifierFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.notes.err = errors.New("smtp down")
	a := f.addAircraft(t, "VN-A321", 8)
	dep := t0.Add(72 * time.Hour)
	fl := f.addFlight(t, a, dep)
	_, _, err := f.svc.CreateBooking(f.ctx, f.alice.ID, fl.ID, 1, 0)
	require.NoError(t, err)

	updated, err := f.svc.ApplyScheduleChange(f.ctx, fl.ID, a.ID, dep.Add(time.Hour), dep.Add(3*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, updated)
	f.svc.WaitNotifications()
	assert.Len(t, f.notes.messages(), 1)
}

func TestApplyScheduleChange_DoesNotWaitForDelivery(t *testing.T) {
	release := make(chan struct{})
	delivered := make(chan struct{})
	fx := newFixture(t)
	svc := inventory.New(fx.store,
		inventory.WithClock(fx.clock),
		inventory.WithNotifier(inventory.NotifierFunc(func(ctx context.Context, _ []string, _, _ string) error {
			<-release
			close(delivered)
			return nil
		})),
	)
	a, err := svc.AddAircraft(fx.ctx, fx.owner.ID, inventory.AircraftInput{Code: "VN-A321", TotalSeats: 4})
	require.NoError(t, err)
	dep := t0.Add(72 * time.Hour)
	fl, err := svc.AddFlight(fx.ctx, fx.owner.ID, a.ID, inventory.FlightInput{
		OriginAirportID:    fx.sgn.ID,
		DestAirportID:      fx.han.ID,
		ScheduledDeparture: dep,
		ScheduledArrival:   dep.Add(time.Hour),
		BusinessSeats:      1,
		EconomySeats:       3,
	})
	require.NoError(t, err)
	_, _, err = svc.CreateBooking(fx.ctx, fx.alice.ID, fl.ID, 0, 1)
	require.NoError(t, err)

	_, err = svc.ApplyScheduleChange(fx.ctx, fl.ID, a.ID, dep.Add(time.Hour), dep.Add(2*time.Hour))
	require.NoError(t, err)

	select {
	case <-delivered:
		t.Fatal("delivery finished before release")
	default:
	}
	close(release)
	svc.WaitNotifications()
	<-delivered
}

func TestApplyScheduleChange_NoBookingsSendsNothing(t *testing.T) {
	f := newFixture(t)
	a := f.addAircraft(t, "VN-A321", 8)
	dep := t0.Add(72 * time.Hour)
	fl := f.addFlight(t, a, dep)

	_, err := f.svc.ApplyScheduleChange(f.ctx, fl.ID, a.ID, dep.Add(time.Hour), dep.Add(3*time.Hour))
	require.NoError(t, err)
	f.svc.WaitNotifications()
	assert.Empty(t, f.notes.messages())
}
