package model

import "time"

// Flight is one scheduled leg flown by an aircraft.  The two
// availability counters are a cached aggregate of the flight's
// seat rows; Revenue accumulates the total of live bookings.
//
// Fields:
//
//	ID                 – primary key identifier.
//	AircraftID         – aircraft flying the leg.
//	OriginAirportID    – departure airport.
//	DestAirportID      – arrival airport.
//	ScheduledDeparture – originally published departure time.
//	ScheduledArrival   – originally published arrival time.
//	ActualDeparture    – current departure time (starts equal to scheduled).
//	ActualArrival      – current arrival time (starts equal to scheduled).
//	AvailBusiness      – free business seats.
//	AvailEconomy       – free economy seats.
//	BusinessPrice      – ticket price for a business seat, minor units.
//	EconomyPrice       – ticket price for an economy seat, minor units.
//	Revenue            – accumulated revenue, minor units.
type Flight struct {
	ID                 uint64    `json:"id"`                  // flights.id
	AircraftID         uint64    `json:"aircraft_id"`         // flights.aircraft_id
	OriginAirportID    uint64    `json:"origin_airport_id"`   // flights.origin_airport_id
	DestAirportID      uint64    `json:"dest_airport_id"`     // flights.dest_airport_id
	ScheduledDeparture time.Time `json:"scheduled_departure"` // flights.scheduled_departure
	ScheduledArrival   time.Time `json:"scheduled_arrival"`   // flights.scheduled_arrival
	ActualDeparture    time.Time `json:"actual_departure"`    // flights.actual_departure
	ActualArrival      time.Time `json:"actual_arrival"`      // flights.actual_arrival
	AvailBusiness      int       `json:"avail_business"`      // flights.avail_business
	AvailEconomy       int       `json:"avail_economy"`       // flights.avail_economy
	BusinessPrice      int64     `json:"business_price"`      // flights.business_price
	EconomyPrice       int64     `json:"economy_price"`       // flights.economy_price
	Revenue            int64     `json:"revenue"`             // flights.revenue
}

// FlightStat is the slim projection the reporting queries read:
// one row per flight with its owner, destination and seat figures.
type FlightStat struct {
	FlightID        uint64
	OwnerID         uint64
	DestAirportCode string
	ActualDeparture time.Time
	Revenue         int64
	TotalSeats      int
	AvailBusiness   int
	AvailEconomy    int
}
