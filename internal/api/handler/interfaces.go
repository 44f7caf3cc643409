package handler

import (
	"context"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/application"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/ledger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/show"
)

// ShowServiceInterface はショーサービスのインターフェース
type ShowServiceInterface interface {
	ScheduleShow(ctx context.Context, input application.ScheduleShowInput) (*show.Show, error)
	GetShow(ctx context.Context, id string) (*show.Show, error)
	ListShows(ctx context.Context, limit, offset int) ([]*show.Show, error)
	CloseShow(ctx context.Context, id string) (*show.Show, error)
	DeleteShow(ctx context.Context, id string) error
}

// LedgerServiceInterface は座席台帳サービスのインターフェース
type LedgerServiceInterface interface {
	GetEntry(ctx context.Context, id string) (*ledger.Entry, error)
	GetEntriesByShow(ctx context.Context, showID string) ([]*ledger.Entry, error)
	CountConfiguredSeats(ctx context.Context, showID string) (int, error)
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	ReserveTickets(ctx context.Context, userID string, input booking.CheckoutInput) (*booking.Booking, error)
	GetBooking(ctx context.Context, id string) (*booking.Booking, error)
	GetUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error)
	CompleteCheckout(ctx context.Context, userID, bookingID string) (*booking.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID string) (*booking.Booking, error)
	ExpireBookings(ctx context.Context) (int, error)
}
