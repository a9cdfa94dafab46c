package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/flight-inventory/internal/model"
)

// schema creates every table the service needs.  Statements are
// idempotent so Migrate can run on each start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role ENUM('OWNER','CUSTOMER') NOT NULL DEFAULT 'CUSTOMER',
		nums_booking_changed INT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_token_hash (token_hash),
		KEY ix_refresh_user (user_id),
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS airports (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		code VARCHAR(8) NOT NULL,
		name VARCHAR(255) NOT NULL,
		city VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_airports_code (code)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS aircraft (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		owner_id BIGINT UNSIGNED NOT NULL,
		code VARCHAR(32) NOT NULL,
		model VARCHAR(128) NOT NULL DEFAULT '',
		total_seats INT NOT NULL,
		last_updated DATETIME NOT NULL,
		UNIQUE KEY uq_aircraft_code (code),
		KEY ix_aircraft_owner (owner_id),
		CONSTRAINT fk_aircraft_owner FOREIGN KEY (owner_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS flights (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		aircraft_id BIGINT UNSIGNED NOT NULL,
		origin_airport_id BIGINT UNSIGNED NOT NULL,
		dest_airport_id BIGINT UNSIGNED NOT NULL,
		scheduled_departure DATETIME NOT NULL,
		scheduled_arrival DATETIME NOT NULL,
		actual_departure DATETIME NOT NULL,
		actual_arrival DATETIME NOT NULL,
		avail_business INT NOT NULL,
		avail_economy INT NOT NULL,
		business_price BIGINT NOT NULL,
		economy_price BIGINT NOT NULL,
		revenue BIGINT NOT NULL DEFAULT 0,
		KEY ix_flights_aircraft (aircraft_id),
		KEY ix_flights_departure (actual_departure),
		CONSTRAINT fk_flights_aircraft FOREIGN KEY (aircraft_id) REFERENCES aircraft (id),
		CONSTRAINT fk_flights_origin FOREIGN KEY (origin_airport_id) REFERENCES airports (id),
		CONSTRAINT fk_flights_dest FOREIGN KEY (dest_airport_id) REFERENCES airports (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS seats (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		flight_id BIGINT UNSIGNED NOT NULL,
		seat_number VARCHAR(16) NOT NULL,
		class ENUM('Business','Economy') NOT NULL,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		KEY ix_seats_pick (flight_id, class, available, id),
		CONSTRAINT fk_seats_flight FOREIGN KEY (flight_id) REFERENCES flights (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		flight_id BIGINT UNSIGNED NOT NULL,
		business_tickets INT NOT NULL,
		economy_tickets INT NOT NULL,
		total_amount BIGINT NOT NULL,
		status ENUM('Active','Delayed','Cancelled') NOT NULL DEFAULT 'Active',
		cancellation_deadline DATETIME NOT NULL,
		booking_date DATETIME NOT NULL,
		KEY ix_bookings_user (user_id, booking_date),
		KEY ix_bookings_flight (flight_id),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT fk_bookings_flight FOREIGN KEY (flight_id) REFERENCES flights (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		booking_id BIGINT UNSIGNED NOT NULL,
		seat_id BIGINT UNSIGNED NOT NULL,
		price BIGINT NOT NULL,
		KEY ix_tickets_booking (booking_id),
		UNIQUE KEY uq_tickets_seat (seat_id),
		CONSTRAINT fk_tickets_booking FOREIGN KEY (booking_id) REFERENCES bookings (id),
		CONSTRAINT fk_tickets_seat FOREIGN KEY (seat_id) REFERENCES seats (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates missing tables, parents before children.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}

// DefaultAirports seeds the reference table on an empty database.
var DefaultAirports = []model.Airport{
	{Code: "HAN", Name: "Noi Bai International Airport", City: "Hanoi"},
	{Code: "SGN", Name: "Tan Son Nhat International Airport", City: "Ho Chi Minh City"},
	{Code: "DAD", Name: "Da Nang International Airport", City: "Da Nang"},
	{Code: "CXR", Name: "Cam Ranh International Airport", City: "Nha Trang"},
	{Code: "PQC", Name: "Phu Quoc International Airport", City: "Phu Quoc"},
}

// SeedAirports inserts the default airports, skipping codes already present.
func SeedAirports(ctx context.Context, db *sql.DB) error {
	for _, a := range DefaultAirports {
		if _, err := db.ExecContext(ctx,
			`INSERT IGNORE INTO airports (code, name, city) VALUES (?, ?, ?)`, a.Code, a.Name, a.City); err != nil {
			return fmt.Errorf("seed airport %s: %w", a.Code, err)
		}
	}
	return nil
}
