package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/srgjo27/rail_booking/internal/core/domain"
	"github.com/srgjo27/rail_booking/internal/core/services"
)

type TrainHandler struct {
	svc *services.TrainService
}

func NewTrainHandler(svc *services.TrainService) *TrainHandler {
	return &TrainHandler{svc: svc}
}

func (h *TrainHandler) GetTrain(c echo.Context) error {
	train, err := h.svc.GetTrain(c.Request().Context(), c.Param("trainNumber"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, train)
}

func (h *TrainHandler) ListTrains(c echo.Context) error {
	trains, err := h.svc.ListTrains(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, trains)
}

// Search handles GET /trains/search?from=..&to=..
func (h *TrainHandler) Search(c echo.Context) error {
	trains, err := h.svc.SearchBetween(c.Request().Context(), c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, trains)
}

func (h *TrainHandler) AddTrain(c echo.Context) error {
	var train domain.Train
	if err := c.Bind(&train); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json body"})
	}

	created, err := h.svc.AddTrain(c.Request().Context(), train)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateTrain handles PUT /trains/:trainNumber. Seat counts in the body are
// ignored.
func (h *TrainHandler) UpdateTrain(c echo.Context) error {
	var train domain.Train
	if err := c.Bind(&train); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json body"})
	}

	updated, err := h.svc.UpdateTrain(c.Request().Context(), c.Param("trainNumber"), train)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *TrainHandler) DeleteTrain(c echo.Context) error {
	if err := h.svc.DeleteTrain(c.Request().Context(), c.Param("trainNumber")); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
