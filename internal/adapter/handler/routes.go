package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, bookings *BookingHandler, trains *TrainHandler) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	e.POST("/bookings", bookings.CreateBooking)
	e.GET("/customers/:email/bookings", bookings.History)

	e.GET("/trains", trains.ListTrains)
	e.GET("/trains/search", trains.Search)
	e.GET("/trains/:trainNumber", trains.GetTrain)
	e.POST("/trains", trains.AddTrain)
	e.PUT("/trains/:trainNumber", trains.UpdateTrain)
	e.DELETE("/trains/:trainNumber", trains.DeleteTrain)
}
