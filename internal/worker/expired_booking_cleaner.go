package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/logger"
)

// BookingExpirer は期限切れ予約を expired に遷移させるインターフェース
type BookingExpirer interface {
	ExpireBookings(ctx context.Context) (int, error)
}

// ExpiredBookingCleaner は期限切れの仮押さえを定期的に回収するワーカー
// 読み取り時のガードが正であり、このワーカーは座席を早めに
// 市場へ戻すための補助にすぎない
type ExpiredBookingCleaner struct {
	bookingService BookingExpirer
	interval       time.Duration
	stopCh         chan struct{}
	doneCh         chan struct{}
}

// NewExpiredBookingCleaner は新しいクリーナーを作成
func NewExpiredBookingCleaner(bs BookingExpirer, interval time.Duration) *ExpiredBookingCleaner {
	return &ExpiredBookingCleaner{
		bookingService: bs,
		interval:       interval,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start はクリーナーを開始
func (c *ExpiredBookingCleaner) Start(ctx context.Context) {
	logger.Info("期限切れ予約クリーナー開始",
		zap.Duration("interval", c.interval),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("期限切れ予約クリーナー停止（コンテキストキャンセル）")
			return
		case <-c.stopCh:
			logger.Info("期限切れ予約クリーナー停止（シグナル受信）")
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

// Stop はクリーナーを停止
func (c *ExpiredBookingCleaner) Stop() {
	close(c.stopCh)
	<-c.doneCh
}

// sweep は期限切れ予約を expired に遷移させ、座席を解放する
func (c *ExpiredBookingCleaner) sweep(ctx context.Context) {
	log := logger.Get()
	log.Debug("期限切れ予約のスイープ開始")

	count, err := c.bookingService.ExpireBookings(ctx)
	if err != nil {
		log.Error("期限切れ予約のスイープ失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("期限切れ予約を回収", zap.Int("count", count))
	} else {
		log.Debug("期限切れ予約なし")
	}
}
