package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCacheInterface はショーごとの座席数キャッシュのインターフェース
type AvailabilityCacheInterface interface {
	GetConfiguredCount(ctx context.Context, showID string) (int, error)
	SetConfiguredCount(ctx context.Context, showID string, count int, ttl time.Duration) error
	Invalidate(ctx context.Context, showID string) error
}

// AvailabilityCache はショーに設定された台帳座席数のキャッシュを管理する
// 一般入場のキャパシティ判定で毎回COUNTを打たないための read-through キャッシュ
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetConfiguredCount はショーの設定座席数をキャッシュから取得する
func (c *AvailabilityCache) GetConfiguredCount(ctx context.Context, showID string) (int, error) {
	key := c.configuredCountKey(showID)
	val, err := c.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetConfiguredCount はショーの設定座席数をキャッシュに保存する
func (c *AvailabilityCache) SetConfiguredCount(ctx context.Context, showID string, count int, ttl time.Duration) error {
	key := c.configuredCountKey(showID)
	if err := c.client.Set(ctx, key, count, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はショーのキャッシュを無効化する
func (c *AvailabilityCache) Invalidate(ctx context.Context, showID string) error {
	key := c.configuredCountKey(showID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) configuredCountKey(showID string) string {
	return fmt.Sprintf("ledger:configured:%s", showID)
}

var _ AvailabilityCacheInterface = (*AvailabilityCache)(nil)
