package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/ledger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/show"
	redisinfra "github.com/sanosuguru/go-cinema-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/logger"
)

const (
	configuredCountCacheTTL = 30 * time.Second
)

// AvailabilityChecker は一般入場予約のための読み取り専用キャパシティ判定
// 個別座席は追跡せず、スクリーンに設定された台帳エントリ数と
// 確定済みチケット数の差分だけを見る。副作用は持たない
type AvailabilityChecker struct {
	ledgerRepo  ledger.Repository
	bookingRepo booking.Repository
	cache       redisinfra.AvailabilityCacheInterface
}

// NewAvailabilityChecker は新しい AvailabilityChecker を作成する
func NewAvailabilityChecker(lr ledger.Repository, br booking.Repository, cache redisinfra.AvailabilityCacheInterface) *AvailabilityChecker {
	return &AvailabilityChecker{ledgerRepo: lr, bookingRepo: br, cache: cache}
}

// CheckCapacity は configured >= committed + requested を判定する
func (c *AvailabilityChecker) CheckCapacity(ctx context.Context, sh *show.Show, requestedCount int) (bool, error) {
	if requestedCount <= 0 {
		return false, booking.ErrInvalidTicketCount
	}

	configured, err := c.configuredCount(ctx, sh.ID)
	if err != nil {
		return false, err
	}

	committed, err := c.bookingRepo.SumCommittedTickets(ctx, sh.ID)
	if err != nil {
		return false, fmt.Errorf("確定チケット数の取得に失敗: %w", err)
	}

	return configured >= committed+requestedCount, nil
}

// configuredCount はショーの設定座席数をキャッシュ経由で取得する
func (c *AvailabilityChecker) configuredCount(ctx context.Context, showID string) (int, error) {
	if c.cache != nil {
		count, err := c.cache.GetConfiguredCount(ctx, showID)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.String("show_id", showID), zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	count, err := c.ledgerRepo.CountByShowID(ctx, showID)
	if err != nil {
		return 0, fmt.Errorf("台帳座席数の取得に失敗: %w", err)
	}

	if c.cache != nil {
		if cacheErr := c.cache.SetConfiguredCount(ctx, showID, count, configuredCountCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}

	return count, nil
}
