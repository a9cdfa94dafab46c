package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-inventory/internal/inventory"
)

// OwnerHandler serves the fleet endpoints under /v1/my-aircrafts.  Every
// method runs behind JWTAuth and RequireRole(OWNER) and scopes its work
// to the calling owner; another owner's ids answer 404.
type OwnerHandler struct {
	Inv *inventory.Service
}

func NewOwnerHandler(inv *inventory.Service) *OwnerHandler {
	if inv == nil {
		panic("nil inventory service passed to NewOwnerHandler")
	}
	return &OwnerHandler{Inv: inv}
}

type aircraftReq struct {
	Code       string `json:"code" validate:"required,max=32"`
	Model      string `json:"model" validate:"max=100"`
	TotalSeats *int   `json:"total_seats" validate:"required,gte=0"`
}

func (r aircraftReq) input() inventory.AircraftInput {
	return inventory.AircraftInput{Code: r.Code, Model: r.Model, TotalSeats: *r.TotalSeats}
}

type flightReq struct {
	OriginAirportID uint64    `json:"origin_airport_id" validate:"required"`
	DestAirportID   uint64    `json:"dest_airport_id" validate:"required,nefield=OriginAirportID"`
	Departure       time.Time `json:"departure" validate:"required"`
	Arrival         time.Time `json:"arrival" validate:"required"`
	BusinessSeats   int       `json:"business_seats" validate:"gte=0"`
	EconomySeats    int       `json:"economy_seats" validate:"gte=0"`
	BusinessPrice   int64     `json:"business_price" validate:"gte=0"`
	EconomyPrice    int64     `json:"economy_price" validate:"gte=0"`
}

type scheduleReq struct {
	Departure time.Time `json:"departure" validate:"required"`
	Arrival   time.Time `json:"arrival" validate:"required"`
}

// CreateAircraft handles POST /v1/my-aircrafts.
func (h *OwnerHandler) CreateAircraft(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	var req aircraftReq
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := h.Inv.AddAircraft(c.Request().Context(), owner, req.input())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

// ListAircraft handles GET /v1/my-aircrafts.
func (h *OwnerHandler) ListAircraft(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	list, err := h.Inv.ListAircraft(c.Request().Context(), owner)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"aircrafts": orEmpty(list)})
}

// GetAircraft handles GET /v1/my-aircrafts/:aircraft_id.
func (h *OwnerHandler) GetAircraft(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "aircraft_id")
	if err != nil {
		return err
	}
	a, err := h.Inv.GetAircraft(c.Request().Context(), owner, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

// UpdateAircraft handles PUT /v1/my-aircrafts/:aircraft_id.  A new seat
// count reallocates the seats of every flight the aircraft flies.
func (h *OwnerHandler) UpdateAircraft(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "aircraft_id")
	if err != nil {
		return err
	}
	var req aircraftReq
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := h.Inv.UpdateAircraft(c.Request().Context(), owner, id, req.input())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteAircraft handles DELETE /v1/my-aircrafts/:aircraft_id.
func (h *OwnerHandler) DeleteAircraft(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "aircraft_id")
	if err != nil {
		return err
	}
	if err := h.Inv.DeleteAircraft(c.Request().Context(), owner, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddFlight handles POST /v1/my-aircrafts/:aircraft_id/flights.
func (h *OwnerHandler) AddFlight(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	aircraftID, err := pathID(c, "aircraft_id")
	if err != nil {
		return err
	}
	var req flightReq
	if err := bind(c, &req); err != nil {
		return err
	}
	f, err := h.Inv.AddFlight(c.Request().Context(), owner, aircraftID, inventory.FlightInput{
		OriginAirportID:    req.OriginAirportID,
		DestAirportID:      req.DestAirportID,
		ScheduledDeparture: req.Departure.UTC(),
		ScheduledArrival:   req.Arrival.UTC(),
		BusinessSeats:      req.BusinessSeats,
		EconomySeats:       req.EconomySeats,
		BusinessPrice:      req.BusinessPrice,
		EconomyPrice:       req.EconomyPrice,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, f)
}

// ListFlights handles GET /v1/my-aircrafts/:aircraft_id/flights.
func (h *OwnerHandler) ListFlights(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	aircraftID, err := pathID(c, "aircraft_id")
	if err != nil {
		return err
	}
	list, err := h.Inv.ListFlights(c.Request().Context(), owner, aircraftID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"flights": orEmpty(list)})
}

// UpdateFlightSchedule handles PUT /v1/my-aircrafts/:aircraft_id/flights/:flight_id.
// Bookings on the flight become Delayed and their holders are emailed.
func (h *OwnerHandler) UpdateFlightSchedule(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	aircraftID, err := pathID(c, "aircraft_id")
	if err != nil {
		return err
	}
	flightID, err := pathID(c, "flight_id")
	if err != nil {
		return err
	}
	var req scheduleReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	// ApplyScheduleChange only checks the flight belongs to the aircraft.
	if _, err := h.Inv.GetAircraft(ctx, owner, aircraftID); err != nil {
		return httpError(err)
	}
	f, err := h.Inv.ApplyScheduleChange(ctx, flightID, aircraftID, req.Departure.UTC(), req.Arrival.UTC())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, f)
}

// DeleteFlight handles DELETE /v1/my-aircrafts/:aircraft_id/flights/:flight_id.
func (h *OwnerHandler) DeleteFlight(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	aircraftID, err := pathID(c, "aircraft_id")
	if err != nil {
		return err
	}
	flightID, err := pathID(c, "flight_id")
	if err != nil {
		return err
	}
	if err := h.Inv.DeleteFlight(c.Request().Context(), owner, aircraftID, flightID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// FlightTickets handles GET /v1/my-aircrafts/flights/:flight_id/tickets.
func (h *OwnerHandler) FlightTickets(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	flightID, err := pathID(c, "flight_id")
	if err != nil {
		return err
	}
	sum, err := h.Inv.FlightTickets(c.Request().Context(), owner, flightID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sum)
}

// FlightSeats handles GET /v1/my-aircrafts/flights/:flight_id/seats.
func (h *OwnerHandler) FlightSeats(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	flightID, err := pathID(c, "flight_id")
	if err != nil {
		return err
	}
	seats, counts, err := h.Inv.FlightSeats(c.Request().Context(), owner, flightID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"counts": counts, "seats": seats})
}
