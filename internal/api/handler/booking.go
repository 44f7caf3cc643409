package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

// CheckoutRequest はチェックアウト要求
// type によって ticket_count（一般入場）か seat_ledger_ids（座席指定）の
// どちらか一方だけが意味を持つ
type CheckoutRequest struct {
	Type           string   `json:"type" validate:"required" example:"reserved_seats"`
	ShowID         string   `json:"show_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	TicketCount    int      `json:"ticket_count,omitempty" example:"2"`
	SeatLedgerIDs  []string `json:"seat_ledger_ids,omitempty"`
	IdempotencyKey string   `json:"idempotency_key" validate:"required" example:"order-2026-001"`
}

type BookingResponse struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	ShowID          string                `json:"show_id"`
	Type            string                `json:"type"`
	TicketCount     int                   `json:"ticket_count"`
	SelectedSeating []string              `json:"selected_seating,omitempty"`
	PricePaid       int                   `json:"price_paid"`
	Currency        string                `json:"currency"`
	Status          string                `json:"status"`
	StatusNote      *string               `json:"status_note,omitempty"`
	DateReserved    time.Time             `json:"date_reserved"`
	DatePaid        *time.Time            `json:"date_paid,omitempty"`
	DateCancelled   *time.Time            `json:"date_cancelled,omitempty"`
	DateRefunded    *time.Time            `json:"date_refunded,omitempty"`
	DateExpired     *time.Time            `json:"date_expired,omitempty"`
	ExpiresAt       time.Time             `json:"expires_at"`
	Snapshot        *booking.ShowSnapshot `json:"snapshot,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID, UserID: b.UserID, ShowID: b.ShowID,
		Type: string(b.Type), TicketCount: b.TicketCount,
		SelectedSeating: b.SelectedSeating,
		PricePaid:       b.PricePaid, Currency: b.Currency,
		Status: string(b.Status), StatusNote: b.StatusNote,
		DateReserved: b.DateReserved, DatePaid: b.DatePaid,
		DateCancelled: b.DateCancelled, DateRefunded: b.DateRefunded,
		DateExpired: b.DateExpired, ExpiresAt: b.ExpiresAt,
		Snapshot: b.Snapshot, CreatedAt: b.CreatedAt,
	}
}

// Checkout godoc
// @Summary チケットを予約
// @Description 一般入場または座席指定でチケットを仮押さえします（30分間有効）
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CheckoutRequest true "チェックアウト情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "座席が確保済み、または残席不足"
// @Router /bookings [post]
func (h *BookingHandler) Checkout(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var input booking.CheckoutInput
	switch booking.Type(req.Type) {
	case booking.TypeGeneralAdmission:
		input = booking.GeneralAdmissionCheckout{
			ShowID:         req.ShowID,
			TicketCount:    req.TicketCount,
			IdempotencyKey: req.IdempotencyKey,
		}
	case booking.TypeReservedSeats:
		input = booking.ReservedSeatsCheckout{
			ShowID:         req.ShowID,
			SeatLedgerIDs:  req.SeatLedgerIDs,
			IdempotencyKey: req.IdempotencyKey,
		}
	default:
		return booking.ErrInvalidCheckoutType
	}

	b, err := h.service.ReserveTickets(c.Request().Context(), userID, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// GetByID godoc
// @Summary 予約を取得
// @Description 指定IDの予約を取得します
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	b, err := h.service.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// GetUserBookings godoc
// @Summary ユーザーの予約一覧を取得
// @Description ログインユーザーの予約一覧を取得します
// @Tags bookings
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} BookingResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /bookings [get]
func (h *BookingHandler) GetUserBookings(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	bookings, err := h.service.GetUserBookings(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return err
	}
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return c.JSON(http.StatusOK, resp)
}

// Pay godoc
// @Summary 予約を支払い済みにする
// @Description 仮押さえ中の座席を確定し、予約を支払い済みに遷移します
// @Tags bookings
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 403 {object} api.ErrorResponse "所有者ではない"
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "期限切れ、または座席の確定に失敗"
// @Router /bookings/{id}/pay [post]
func (h *BookingHandler) Pay(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	b, err := h.service.CompleteCheckout(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約をキャンセルし、確保していた座席を解放します
// @Tags bookings
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	b, err := h.service.CancelBooking(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}
