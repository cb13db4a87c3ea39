package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-train-ticket-booking/internal/api"
	"github.com/sanosuguru/go-train-ticket-booking/internal/application"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/ticket"
)

type TicketHandler struct {
	booking      BookingServiceInterface
	cancellation CancellationServiceInterface
	tickets      TicketServiceInterface
}

func NewTicketHandler(b BookingServiceInterface, c CancellationServiceInterface, t TicketServiceInterface) *TicketHandler {
	return &TicketHandler{booking: b, cancellation: c, tickets: t}
}

type PurchaseTicketRequest struct {
	Origin        string `json:"origin" validate:"required" example:"Burgos"`
	Destination   string `json:"destination" validate:"required" example:"Madrid"`
	Date          string `json:"date" validate:"required,date" example:"2022-04-20"`
	DepartureTime string `json:"departure_time" validate:"required,timeofday" example:"08:30"`
	Quantity      int    `json:"quantity" validate:"required,min=1" example:"3"`
}

// CancelTicketRequest の便指定は照合用で省略できる
type CancelTicketRequest struct {
	Origin        string `json:"origin" example:"Burgos"`
	Destination   string `json:"destination" example:"Madrid"`
	Date          string `json:"date" validate:"omitempty,date" example:"2022-04-20"`
	DepartureTime string `json:"departure_time" validate:"omitempty,timeofday" example:"08:30"`
	Quantity      int    `json:"quantity" validate:"required,min=1" example:"1"`
}

type TicketResponse struct {
	ID            int64  `json:"id" example:"1"`
	TripID        int64  `json:"trip_id" example:"1"`
	Origin        string `json:"origin,omitempty" example:"Burgos"`
	Destination   string `json:"destination,omitempty" example:"Madrid"`
	Date          string `json:"date,omitempty" example:"2022-04-20"`
	DepartureTime string `json:"departure_time,omitempty" example:"08:30"`
	PurchaseDate  string `json:"purchase_date" example:"2022-04-18"`
	Quantity      int    `json:"quantity" example:"3"`
	TotalPrice    int    `json:"total_price" example:"75"`
}

func toTicketResponse(t *ticket.Ticket) TicketResponse {
	res := TicketResponse{
		ID: t.ID, TripID: t.TripID,
		PurchaseDate: t.PurchaseDate.Format(time.DateOnly),
		Quantity:     t.Quantity, TotalPrice: t.TotalPrice,
	}
	if t.Trip != nil {
		res.Origin = t.Trip.Route.OriginStation
		res.Destination = t.Trip.Route.DestinationStation
		res.Date = t.Trip.TravelDate.Format(time.DateOnly)
		res.DepartureTime = t.Trip.DepartureTime.String()
	}
	return res
}

type CancelTicketResponse struct {
	TicketID          int64 `json:"ticket_id" example:"1"`
	TripID            int64 `json:"trip_id" example:"1"`
	CancelledQuantity int   `json:"cancelled_quantity" example:"1"`
	RemainingQuantity int   `json:"remaining_quantity" example:"2"`
	TicketDeleted     bool  `json:"ticket_deleted" example:"false"`
	RefundAmount      int   `json:"refund_amount" example:"25"`
	FreeSeats         int   `json:"free_seats" example:"8"`
}

// Purchase godoc
// @Summary チケットを購入
// @Description 便を出発駅・到着駅・運行日・出発時刻で指定し、座席を確保してチケットを発行します
// @Tags tickets
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "冪等キー"
// @Param request body PurchaseTicketRequest true "購入内容"
// @Success 201 {object} TicketResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse "便が見つからない"
// @Failure 409 {object} api.ErrorResponse "空席不足"
// @Failure 503 {object} api.ErrorResponse
// @Router /tickets [post]
func (h *TicketHandler) Purchase(c echo.Context) error {
	var req PurchaseTicketRequest
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

	t, err := h.booking.Purchase(c.Request().Context(), application.PurchaseInput{
		Origin: req.Origin, Destination: req.Destination,
		Date: date, DepartureTime: departure, Quantity: req.Quantity,
	})
	if err != nil {
		return api.NewDomainError(err)
	}
	return c.JSON(http.StatusCreated, toTicketResponse(t))
}

// Cancel godoc
// @Summary チケットを取消
// @Description チケットから指定した座席数を取り消し、便の空席に戻します。全席取り消すとチケットは削除されます
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path int true "チケットID"
// @Param request body CancelTicketRequest true "取消内容"
// @Success 200 {object} CancelTicketResponse
// @Failure 404 {object} api.ErrorResponse "チケットが見つからない"
// @Failure 409 {object} api.ErrorResponse "運行済み"
// @Failure 422 {object} api.ErrorResponse "保有数を超える取消"
// @Router /tickets/{id}/cancel [post]
func (h *TicketHandler) Cancel(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req CancelTicketRequest
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

	res, err := h.cancellation.Cancel(c.Request().Context(), application.CancelInput{
		TicketID: id, Origin: req.Origin, Destination: req.Destination,
		Date: date, DepartureTime: departure, Quantity: req.Quantity,
	})
	if err != nil {
		return api.NewDomainError(err)
	}
	return c.JSON(http.StatusOK, CancelTicketResponse{
		TicketID: res.TicketID, TripID: res.TripID,
		CancelledQuantity: res.CancelledQuantity, RemainingQuantity: res.RemainingQuantity,
		TicketDeleted: res.TicketDeleted, RefundAmount: res.RefundAmount, FreeSeats: res.FreeSeats,
	})
}

// GetByID godoc
// @Summary チケットを取得
// @Tags tickets
// @Produce json
// @Param id path int true "チケットID"
// @Success 200 {object} TicketResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.tickets.GetTicket(c.Request().Context(), id)
	if err != nil {
		return api.NewDomainError(err)
	}
	return c.JSON(http.StatusOK, toTicketResponse(t))
}
