package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/srgjo27/rail_booking/internal/core/domain"
	"github.com/srgjo27/rail_booking/internal/core/services"
)

type BookingHandler struct {
	svc *services.BookingService
}

func NewBookingHandler(svc *services.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// CreateBooking handles POST /bookings. The caller is already authenticated;
// customer_email in the body identifies the customer.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req domain.BookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json body"})
	}

	booking, err := h.svc.ReserveAndBook(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, booking)
}

// History handles GET /customers/:email/bookings.
func (h *BookingHandler) History(c echo.Context) error {
	bookings, err := h.svc.BookingHistory(c.Request().Context(), c.Param("email"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, bookings)
}

func writeError(c echo.Context, err error) error {
	var capErr *domain.CapacityError

	switch {
	case errors.As(err, &capErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":           capErr.Error(),
			"available_seats": capErr.Available,
		})
	case domain.OutcomeOf(err) == domain.OutcomeCompensatingThenFailed:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed, please contact support"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrTrainNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "invalid train number"})
	case errors.Is(err, domain.ErrDuplicateTrain):
		return c.JSON(http.StatusConflict, echo.Map{"error": domain.ErrDuplicateTrain.Error()})
	case errors.Is(err, domain.ErrTrainHasBookings):
		return c.JSON(http.StatusConflict, echo.Map{"error": domain.ErrTrainHasBookings.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "request cancelled"})
	default:
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": domain.ErrStoreUnavailable.Error()})
	}
}
