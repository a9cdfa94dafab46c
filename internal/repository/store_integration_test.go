//go:build integration

package repository_test

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/flight-inventory/internal/database"
	"github.com/iliyamo/flight-inventory/internal/inventory"
	"github.com/iliyamo/flight-inventory/internal/model"
	"github.com/iliyamo/flight-inventory/internal/repository"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = database.Open(
		getEnv("TEST_DB_USER", "root"),
		getEnv("TEST_DB_PASS", ""),
		getEnv("TEST_DB_HOST", "127.0.0.1"),
		getEnv("TEST_DB_PORT", "3306"),
		getEnv("TEST_DB_NAME", "flight_inventory_test"),
	)
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}
	ctx := context.Background()
	if err := database.Migrate(ctx, testDB); err != nil {
		log.Fatalf("failed to migrate test database: %v", err)
	}
	if err := database.SeedAirports(ctx, testDB); err != nil {
		log.Fatalf("failed to seed airports: %v", err)
	}

	code := m.Run()
	_ = testDB.Close()
	os.Exit(code)
}

func cleanTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"tickets", "bookings", "seats", "flights", "aircraft", "refresh_tokens", "users"} {
		_, err := testDB.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func airportID(t *testing.T, code string) uint64 {
	t.Helper()
	var id uint64
	require.NoError(t, testDB.QueryRow("SELECT id FROM airports WHERE code = ?", code).Scan(&id))
	return id
}

func TestStore_BookingLifecycle(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	users := repository.NewUserRepo(testDB)
	ownerID, err := users.Create(ctx, "owner@airline.test", "secret123", model.RoleOwner, bcrypt.MinCost)
	require.NoError(t, err)
	customerID, err := users.Create(ctx, "alice@example.com", "secret123", model.RoleCustomer, bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	svc := inventory.New(repository.NewStore(testDB), inventory.WithClock(inventory.ClockFunc(func() time.Time { return now })))

	a, err := svc.AddAircraft(ctx, ownerID, inventory.AircraftInput{Code: "VN-IT01", Model: "A321", TotalSeats: 8})
	require.NoError(t, err)
	dep := now.Add(72 * time.Hour)
	fl, err := svc.AddFlight(ctx, ownerID, a.ID, inventory.FlightInput{
		OriginAirportID:    airportID(t, "SGN"),
		DestAirportID:      airportID(t, "HAN"),
		ScheduledDeparture: dep,
		ScheduledArrival:   dep.Add(2 * time.Hour),
		BusinessSeats:      2,
		EconomySeats:       6,
		BusinessPrice:      400,
		EconomyPrice:       100,
	})
	require.NoError(t, err)

	b, tickets, err := svc.CreateBooking(ctx, customerID, fl.ID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, tickets, 3)
	assert.Equal(t, int64(600), b.TotalAmount)

	_, _, err = svc.CreateBooking(ctx, customerID, fl.ID, 2, 0)
	require.ErrorIs(t, err, inventory.ErrConflict)

	_, err = svc.CancelBooking(ctx, customerID, b.ID)
	require.NoError(t, err)
	_, counts, err := svc.FlightSeats(ctx, ownerID, fl.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.SeatCounts{Business: 2, Economy: 6, AvailableBusiness: 2, AvailableEconomy: 6}, counts)

	_, err = svc.UpdateAircraft(ctx, ownerID, a.ID, inventory.AircraftInput{Code: "VN-IT01", Model: "A321", TotalSeats: 12})
	require.NoError(t, err)
	seats, counts, err := svc.FlightSeats(ctx, ownerID, fl.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 12)
	assert.Equal(t, 3, counts.Business)

	require.NoError(t, svc.DeleteAircraft(ctx, ownerID, a.ID))
	_, err = svc.GetAircraft(ctx, ownerID, a.ID)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
	_, err = svc.GetBooking(ctx, customerID, b.ID)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	ownerID, err := repository.NewUserRepo(testDB).Create(ctx, "owner@airline.test", "secret123", model.RoleOwner, bcrypt.MinCost)
	require.NoError(t, err)
	st := repository.NewStore(testDB)

	err = st.WithinTx(ctx, func(ctx context.Context, tx inventory.Tx) error {
		a := model.Aircraft{OwnerID: ownerID, Code: "VN-IT02", TotalSeats: 4, LastUpdated: time.Now().UTC()}
		require.NoError(t, tx.CreateAircraft(ctx, &a))
		return inventory.ErrValidation
	})
	require.ErrorIs(t, err, inventory.ErrValidation)

	err = st.View(ctx, func(ctx context.Context, tx inventory.Tx) error {
		_, err := tx.FindAircraftByCode(ctx, "VN-IT02")
		return err
	})
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	users := repository.NewUserRepo(testDB)
	_, err := users.Create(ctx, "dup@example.com", "secret123", model.RoleCustomer, bcrypt.MinCost)
	require.NoError(t, err)
	_, err = users.Create(ctx, "DUP@example.com", "secret123", model.RoleCustomer, bcrypt.MinCost)
	assert.ErrorIs(t, err, inventory.ErrConflict)
}
