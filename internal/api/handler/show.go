package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/application"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/show"
)

type ShowHandler struct {
	service ShowServiceInterface
}

func NewShowHandler(s ShowServiceInterface) *ShowHandler {
	return &ShowHandler{service: s}
}

type ScheduleShowRequest struct {
	MovieID     string    `json:"movie_id" validate:"required"`
	VenueID     string    `json:"venue_id" validate:"required"`
	ScreenID    string    `json:"screen_id" validate:"required"`
	StartAt     time.Time `json:"start_at" validate:"required"`
	EndAt       time.Time `json:"end_at" validate:"required"`
	TicketPrice int       `json:"ticket_price" validate:"gte=0"`
	Currency    string    `json:"currency"`
	Language    string    `json:"language"`
	Subtitles   []string  `json:"subtitles"`
}

type ShowResponse struct {
	ID          string    `json:"id"`
	MovieID     string    `json:"movie_id"`
	VenueID     string    `json:"venue_id"`
	ScreenID    string    `json:"screen_id"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	TicketPrice int       `json:"ticket_price"`
	Currency    string    `json:"currency"`
	Language    string    `json:"language"`
	Subtitles   []string  `json:"subtitles,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toShowResponse(s *show.Show) ShowResponse {
	return ShowResponse{
		ID: s.ID, MovieID: s.MovieID, VenueID: s.VenueID, ScreenID: s.ScreenID,
		StartAt: s.StartAt, EndAt: s.EndAt,
		TicketPrice: s.TicketPrice, Currency: s.Currency,
		Language: s.Language, Subtitles: s.Subtitles,
		Status: string(s.Status), CreatedAt: s.CreatedAt,
	}
}

// Schedule godoc
// @Summary ショーをスケジュール
// @Description ショーを作成し、スクリーンの座席から台帳を一括生成します
// @Tags shows
// @Accept json
// @Produce json
// @Param request body ScheduleShowRequest true "ショー情報"
// @Success 201 {object} ShowResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse "作品・劇場・スクリーンが存在しない"
// @Router /shows [post]
func (h *ShowHandler) Schedule(c echo.Context) error {
	var req ScheduleShowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s, err := h.service.ScheduleShow(c.Request().Context(), application.ScheduleShowInput{
		MovieID: req.MovieID, VenueID: req.VenueID, ScreenID: req.ScreenID,
		StartAt: req.StartAt, EndAt: req.EndAt,
		TicketPrice: req.TicketPrice, Currency: req.Currency,
		Language: req.Language, Subtitles: req.Subtitles,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toShowResponse(s))
}

// GetByID godoc
// @Summary ショーを取得
// @Tags shows
// @Produce json
// @Param id path string true "ショーID"
// @Success 200 {object} ShowResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /shows/{id} [get]
func (h *ShowHandler) GetByID(c echo.Context) error {
	s, err := h.service.GetShow(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShowResponse(s))
}

// List godoc
// @Summary ショー一覧を取得
// @Tags shows
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ShowResponse
// @Router /shows [get]
func (h *ShowHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	shows, err := h.service.ListShows(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	resp := make([]ShowResponse, len(shows))
	for i, s := range shows {
		resp[i] = toShowResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// Close godoc
// @Summary ショーの予約受付を終了
// @Tags shows
// @Produce json
// @Param id path string true "ショーID"
// @Success 200 {object} ShowResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /shows/{id}/close [post]
func (h *ShowHandler) Close(c echo.Context) error {
	s, err := h.service.CloseShow(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShowResponse(s))
}

// Delete godoc
// @Summary ショーを削除
// @Description ショーと紐付く座席台帳を削除します
// @Tags shows
// @Param id path string true "ショーID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /shows/{id} [delete]
func (h *ShowHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteShow(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
