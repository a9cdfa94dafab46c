package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-inventory/internal/inventory"
)

// CustomerHandler serves /v1/my-bookings.  All methods assume JWTAuth and
// RequireRole(CUSTOMER) have run; a booking that belongs to someone else
// answers 404.
type CustomerHandler struct {
	Inv *inventory.Service
}

func NewCustomerHandler(inv *inventory.Service) *CustomerHandler {
	if inv == nil {
		panic("nil inventory service passed to NewCustomerHandler")
	}
	return &CustomerHandler{Inv: inv}
}

type bookingReq struct {
	FlightID        uint64 `json:"flight_id" validate:"required"`
	BusinessTickets int    `json:"business_tickets" validate:"gte=0"`
	EconomyTickets  int    `json:"economy_tickets" validate:"gte=0"`
}

// CreateBooking handles POST /v1/my-bookings.  The lowest numbered free
// seats of each class are taken; 409 when there are not enough.
func (h *CustomerHandler) CreateBooking(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req bookingReq
	if err := bind(c, &req); err != nil {
		return err
	}
	b, tickets, err := h.Inv.CreateBooking(c.Request().Context(), userID, req.FlightID, req.BusinessTickets, req.EconomyTickets)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": b, "tickets": tickets})
}

// ListBookings handles GET /v1/my-bookings, newest first.
func (h *CustomerHandler) ListBookings(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	list, err := h.Inv.MyBookings(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}

// GetBooking handles GET /v1/my-bookings/:booking_id.
func (h *CustomerHandler) GetBooking(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "booking_id")
	if err != nil {
		return err
	}
	b, err := h.Inv.GetBooking(c.Request().Context(), userID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

// BookingTickets handles GET /v1/my-bookings/:booking_id/tickets.
func (h *CustomerHandler) BookingTickets(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "booking_id")
	if err != nil {
		return err
	}
	tickets, err := h.Inv.BookingTickets(c.Request().Context(), userID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": orEmpty(tickets)})
}

// CancelBooking handles DELETE /v1/my-bookings/:booking_id.  Cancelling
// after the deadline answers 400; cancelling twice answers 409.
func (h *CustomerHandler) CancelBooking(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "booking_id")
	if err != nil {
		return err
	}
	b, err := h.Inv.CancelBooking(c.Request().Context(), userID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}
