package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/catalog"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/ledger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/show"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-cinema-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/logger"
)

// ShowService はショーのスケジューリングを担当する
// 台帳の一括作成や削除カスケードは永続化層のフックではなく、
// ここで明示的なオーケストレーションとして行う
type ShowService struct {
	txManager  transaction.Manager
	showRepo   show.Repository
	ledgerRepo ledger.Repository
	catalog    catalog.Repository
	cache      redisinfra.AvailabilityCacheInterface
}

// NewShowService は新しい ShowService を作成する
func NewShowService(txm transaction.Manager, sr show.Repository, lr ledger.Repository, c catalog.Repository, cache redisinfra.AvailabilityCacheInterface) *ShowService {
	return &ShowService{txManager: txm, showRepo: sr, ledgerRepo: lr, catalog: c, cache: cache}
}

// ScheduleShowInput はショー作成の入力
type ScheduleShowInput struct {
	MovieID     string
	VenueID     string
	ScreenID    string
	StartAt     time.Time
	EndAt       time.Time
	TicketPrice int
	Currency    string
	Language    string
	Subtitles   []string
}

// ScheduleShow はショーを作成し、スクリーンの座席カタログから
// 台帳エントリを一括作成する
func (s *ShowService) ScheduleShow(ctx context.Context, input ScheduleShowInput) (*show.Show, error) {
	// 参照整合性の事前確認
	if _, err := s.catalog.GetMovieByID(ctx, input.MovieID); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetVenueByID(ctx, input.VenueID); err != nil {
		return nil, err
	}
	screen, err := s.catalog.GetScreenByID(ctx, input.ScreenID)
	if err != nil {
		return nil, err
	}
	if screen.VenueID != input.VenueID {
		return nil, catalog.ErrScreenNotFound
	}

	sh := show.NewShow(input.MovieID, input.VenueID, input.ScreenID, input.StartAt, input.EndAt, input.TicketPrice, input.Currency, input.Language, input.Subtitles)
	if err := sh.Validate(); err != nil {
		return nil, err
	}

	seats, err := s.catalog.GetSeatsByScreenID(ctx, input.ScreenID)
	if err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.showRepo.Create(ctx, tx, sh); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	// 台帳の一括作成（ショー作成の明示的な後続ステップ）
	entries := make([]*ledger.Entry, 0, len(seats))
	for _, seat := range seats {
		e := ledger.NewEntry(sh.ID, seat.ID, sh.TicketPrice, seat.PriceMultiplier())
		if err := e.Validate(); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := s.ledgerRepo.CreateBulk(ctx, entries); err != nil {
		return nil, fmt.Errorf("台帳一括作成に失敗: %w", err)
	}

	s.invalidateCache(ctx, sh.ID)
	return sh, nil
}

// GetShow はIDからショーを取得する
func (s *ShowService) GetShow(ctx context.Context, id string) (*show.Show, error) {
	return s.showRepo.GetByID(ctx, id)
}

// ListShows はショー一覧を取得する
func (s *ShowService) ListShows(ctx context.Context, limit, offset int) ([]*show.Show, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.showRepo.List(ctx, limit, offset)
}

// CloseShow はショーの予約受付を終了する
func (s *ShowService) CloseShow(ctx context.Context, id string) (*show.Show, error) {
	sh, err := s.showRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sh.Close()
	if err := s.showRepo.Update(ctx, sh); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, sh.ID)
	return sh, nil
}

// DeleteShow はショーと紐付く台帳エントリを削除する
// カスケードは永続化層の暗黙フックではなくここで明示的に行う
func (s *ShowService) DeleteShow(ctx context.Context, id string) error {
	sh, err := s.showRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.ledgerRepo.DeleteByShowID(ctx, tx, sh.ID); err != nil {
		return fmt.Errorf("台帳カスケード削除に失敗: %w", err)
	}
	if err := s.showRepo.Delete(ctx, tx, sh.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateCache(ctx, sh.ID)
	return nil
}

func (s *ShowService) invalidateCache(ctx context.Context, showID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, showID); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}
