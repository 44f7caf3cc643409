package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/catalog"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/ledger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/show"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
// Code はクライアントが分岐に使える安定した識別子
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CodeInternal は未分類のサーバーエラーを表す
const CodeInternal = "INTERNAL"

type errorMapping struct {
	err    error
	status int
	code   string
}

// ドメインエラーとHTTPステータス・安定コードの対応表
// ハンドラーはサービスのエラーをそのまま返し、ここで一括変換する
var errorMappings = []errorMapping{
	{ledger.ErrSeatConflict, http.StatusConflict, "SEAT_RESERVED"},
	{booking.ErrScreenFull, http.StatusConflict, "SCREEN_FULL"},
	{booking.ErrInvalidCheckoutType, http.StatusConflict, "INVALID_RESERVATION_TYPE"},
	{booking.ErrBookingExpired, http.StatusConflict, "RESERVATION_EXPIRED"},
	{booking.ErrBookingNotFound, http.StatusNotFound, "RESERVATION_NOT_FOUND"},
	{booking.ErrNotOwner, http.StatusForbidden, "UNAUTHORIZED"},
	{booking.ErrIdempotencyKeyExists, http.StatusConflict, "IDEMPOTENCY_CONFLICT"},
	{booking.ErrBookingNotReserved, http.StatusConflict, "INVALID_TRANSITION"},
	{booking.ErrBookingNotPaid, http.StatusConflict, "INVALID_TRANSITION"},
	{booking.ErrBookingAlreadyCancelled, http.StatusConflict, "INVALID_TRANSITION"},
	{booking.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{booking.ErrInvalidTicketCount, http.StatusBadRequest, "VALIDATION_FAILED"},
	{booking.ErrSeatingRequired, http.StatusBadRequest, "VALIDATION_FAILED"},
	{booking.ErrSeatingNotAllowed, http.StatusBadRequest, "VALIDATION_FAILED"},
	{booking.ErrIdempotencyRequired, http.StatusBadRequest, "VALIDATION_FAILED"},
	{show.ErrShowNotFound, http.StatusNotFound, "SHOW_NOT_FOUND"},
	{show.ErrShowNotOpen, http.StatusConflict, "SHOW_NOT_OPEN"},
	{show.ErrInvalidShowTime, http.StatusBadRequest, "VALIDATION_FAILED"},
	{show.ErrInvalidTicketPrice, http.StatusBadRequest, "VALIDATION_FAILED"},
	{ledger.ErrEntryNotFound, http.StatusNotFound, "SEAT_NOT_FOUND"},
	{catalog.ErrMovieNotFound, http.StatusNotFound, "MOVIE_NOT_FOUND"},
	{catalog.ErrVenueNotFound, http.StatusNotFound, "VENUE_NOT_FOUND"},
	{catalog.ErrScreenNotFound, http.StatusNotFound, "SCREEN_NOT_FOUND"},
	{catalog.ErrSeatNotFound, http.StatusNotFound, "SEAT_NOT_FOUND"},
	// スナップショット不整合は内部不変条件の違反であり、欠陥としてログに残す
	{booking.ErrInconsistentSnapshot, http.StatusInternalServerError, "INCONSISTENT_SNAPSHOT"},
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	code := CodeInternal
	message := "内部サーバーエラー"

	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		code = httpStatusCode(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	} else {
		for _, m := range errorMappings {
			if errors.Is(err, m.err) {
				status = m.status
				code = m.code
				message = m.err.Error()
				break
			}
		}
	}

	// 5xx はサーバー側の欠陥として扱う
	if status >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", status),
			zap.String("code", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if err := c.JSON(status, ErrorResponse{
		Error: message,
		Code:  code,
	}); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}

func httpStatusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	default:
		return CodeInternal
	}
}
