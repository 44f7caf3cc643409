package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/ledger"
)

type LedgerHandler struct {
	service LedgerServiceInterface
}

func NewLedgerHandler(s LedgerServiceInterface) *LedgerHandler {
	return &LedgerHandler{service: s}
}

type LedgerEntryResponse struct {
	ID              string  `json:"id"`
	ShowID          string  `json:"show_id"`
	SeatID          string  `json:"seat_id"`
	BasePrice       int     `json:"base_price"`
	PriceMultiplier float64 `json:"price_multiplier"`
	OverridePrice   *int    `json:"override_price,omitempty"`
	ResolvedPrice   int     `json:"resolved_price"`
	Status          string  `json:"status"`
}

type SeatCountResponse struct {
	ShowID string `json:"show_id"`
	Count  int    `json:"count"`
}

func toLedgerEntryResponse(e *ledger.Entry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID: e.ID, ShowID: e.ShowID, SeatID: e.SeatID,
		BasePrice: e.BasePrice, PriceMultiplier: e.PriceMultiplier,
		OverridePrice: e.OverridePrice, ResolvedPrice: e.ResolvedPrice(),
		Status: string(e.Status),
	}
}

// GetByShow godoc
// @Summary ショーの座席台帳を取得
// @Description ショーの全座席エントリと状態を取得します
// @Tags seating
// @Produce json
// @Param id path string true "ショーID"
// @Success 200 {array} LedgerEntryResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /shows/{id}/seating [get]
func (h *LedgerHandler) GetByShow(c echo.Context) error {
	entries, err := h.service.GetEntriesByShow(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	resp := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toLedgerEntryResponse(e)
	}
	return c.JSON(http.StatusOK, resp)
}

// CountSeats godoc
// @Summary ショーの設定座席数を取得
// @Tags seating
// @Produce json
// @Param id path string true "ショーID"
// @Success 200 {object} SeatCountResponse
// @Router /shows/{id}/seating/count [get]
func (h *LedgerHandler) CountSeats(c echo.Context) error {
	showID := c.Param("id")
	count, err := h.service.CountConfiguredSeats(c.Request().Context(), showID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SeatCountResponse{ShowID: showID, Count: count})
}

// GetEntry godoc
// @Summary 座席台帳エントリを取得
// @Tags seating
// @Produce json
// @Param id path string true "台帳エントリID"
// @Success 200 {object} LedgerEntryResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /seating/{id} [get]
func (h *LedgerHandler) GetEntry(c echo.Context) error {
	e, err := h.service.GetEntry(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLedgerEntryResponse(e))
}
