package model

import "time"

// Aircraft is a plane operated by an owner.  The declared seat
// count drives the seat pool of every flight the aircraft flies;
// changing it reallocates seats on all of them.
//
// Fields:
//
//	ID          – primary key identifier.
//	OwnerID     – user ID of the operating owner.
//	Code        – registration code, unique across the fleet.
//	Model       – manufacturer model name.
//	TotalSeats  – declared seat count (never negative).
//	LastUpdated – when the aircraft row was last changed.
type Aircraft struct {
	ID          uint64    `json:"id"`           // aircraft.id
	OwnerID     uint64    `json:"owner_id"`     // aircraft.owner_id
	Code        string    `json:"code"`         // aircraft.code
	Model       string    `json:"model"`        // aircraft.model
	TotalSeats  int       `json:"total_seats"`  // aircraft.total_seats
	LastUpdated time.Time `json:"last_updated"` // aircraft.last_updated
}
