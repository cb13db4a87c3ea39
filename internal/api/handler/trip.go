package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-train-ticket-booking/internal/api"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/trip"
)

type TripHandler struct {
	trips   TripServiceInterface
	tickets TicketServiceInterface
}

func NewTripHandler(tr TripServiceInterface, tk TicketServiceInterface) *TripHandler {
	return &TripHandler{trips: tr, tickets: tk}
}

type SearchTripRequest struct {
	Origin        string `query:"origin" validate:"required"`
	Destination   string `query:"destination" validate:"required"`
	Date          string `query:"date" validate:"required,date"`
	DepartureTime string `query:"departure_time" validate:"required,timeofday"`
}

type TripResponse struct {
	ID            int64  `json:"id" example:"1"`
	Origin        string `json:"origin" example:"Burgos"`
	Destination   string `json:"destination" example:"Madrid"`
	Date          string `json:"date" example:"2022-04-20"`
	DepartureTime string `json:"departure_time" example:"08:30"`
	UnitPrice     int    `json:"unit_price" example:"25"`
	TotalSeats    int    `json:"total_seats" example:"10"`
	FreeSeats     int    `json:"free_seats" example:"7"`
	ReservedSeats int    `json:"reserved_seats" example:"3"`
	Completed     bool   `json:"completed" example:"false"`
}

func toTripResponse(t *trip.Trip) TripResponse {
	return TripResponse{
		ID: t.ID, Origin: t.Route.OriginStation, Destination: t.Route.DestinationStation,
		Date: t.TravelDate.Format(time.DateOnly), DepartureTime: t.DepartureTime.String(),
		UnitPrice: t.Route.UnitPrice, TotalSeats: t.TotalSeats, FreeSeats: t.FreeSeats,
		ReservedSeats: t.ReservedSeats(), Completed: t.Completed,
	}
}

type AvailabilityResponse struct {
	TripID    int64 `json:"trip_id" example:"1"`
	FreeSeats int   `json:"free_seats" example:"7"`
	Cached    bool  `json:"cached" example:"false"`
}

// Search godoc
// @Summary 便を検索
// @Tags trips
// @Produce json
// @Param origin query string true "出発駅"
// @Param destination query string true "到着駅"
// @Param date query string true "運行日 (YYYY-MM-DD)"
// @Param departure_time query string true "出発時刻 (HH:MM)"
// @Success 200 {object} TripResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /trips [get]
func (h *TripHandler) Search(c echo.Context) error {
	var req SearchTripRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	date, departure, err := parseDateAndTime(req.Date, req.DepartureTime)
	if err != nil {
		return err
	}

	t, err := h.trips.SearchTrip(c.Request().Context(), trip.SearchCriteria{
		Origin: req.Origin, Destination: req.Destination, Date: date, DepartureTime: departure,
	})
	if err != nil {
		return api.NewDomainError(err)
	}
	return c.JSON(http.StatusOK, toTripResponse(t))
}

// Availability godoc
// @Summary 便の空席数を取得
// @Tags trips
// @Produce json
// @Param id path int true "便ID"
// @Success 200 {object} AvailabilityResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /trips/{id}/availability [get]
func (h *TripHandler) Availability(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.trips.GetAvailability(c.Request().Context(), id)
	if err != nil {
		return api.NewDomainError(err)
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{TripID: a.TripID, FreeSeats: a.FreeSeats, Cached: a.Cached})
}

func (h *TripHandler) ListTickets(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListTripTickets(c.Request().Context(), id)
	if err != nil {
		return api.NewDomainError(err)
	}
	resp := make([]TicketResponse, len(tickets))
	for i, t := range tickets {
		resp[i] = toTicketResponse(t)
	}
	return c.JSON(http.StatusOK, resp)
}
