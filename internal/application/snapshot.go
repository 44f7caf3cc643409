package application

import (
	"context"
	"fmt"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/catalog"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/ledger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/show"
)

// SnapshotBuilder は予約時点のカタログデータから不変スナップショットを構築する
// 各サブビルダーは (a) 元エンティティを防御的に読み取り（欠落は NotFound）、
// (b) スナップショット制約に対して検証し、(c) 矛盾は内部不変条件違反
// （ErrInconsistentSnapshot）として失敗させる。部分的な成功はない
type SnapshotBuilder struct {
	catalog catalog.Repository
}

// NewSnapshotBuilder は新しい SnapshotBuilder を作成する
func NewSnapshotBuilder(c catalog.Repository) *SnapshotBuilder {
	return &SnapshotBuilder{catalog: c}
}

// BuildMovieSnapshot は作品のスナップショットを構築する
func (b *SnapshotBuilder) BuildMovieSnapshot(ctx context.Context, movieID string) (*booking.MovieSnapshot, error) {
	m, err := b.catalog.GetMovieByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	snap := &booking.MovieSnapshot{
		MovieID:        m.ID,
		Title:          m.Title,
		RuntimeMinutes: m.RuntimeMinutes,
		Rating:         m.Rating,
		Genres:         append([]string(nil), m.Genres...),
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("作品スナップショットの検証に失敗 (movie_id=%s): %w", movieID, err)
	}
	return snap, nil
}

// BuildVenueSnapshot は劇場のスナップショットを構築する
func (b *SnapshotBuilder) BuildVenueSnapshot(ctx context.Context, venueID string) (*booking.VenueSnapshot, error) {
	v, err := b.catalog.GetVenueByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	snap := &booking.VenueSnapshot{
		VenueID:  v.ID,
		Name:     v.Name,
		City:     v.City,
		Address:  v.Address,
		Timezone: v.Timezone,
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("劇場スナップショットの検証に失敗 (venue_id=%s): %w", venueID, err)
	}
	return snap, nil
}

// BuildScreenSnapshot はスクリーンのスナップショットを構築する
func (b *SnapshotBuilder) BuildScreenSnapshot(ctx context.Context, screenID string) (*booking.ScreenSnapshot, error) {
	s, err := b.catalog.GetScreenByID(ctx, screenID)
	if err != nil {
		return nil, err
	}
	snap := &booking.ScreenSnapshot{
		ScreenID: s.ID,
		Name:     s.Name,
		Capacity: s.Capacity,
		Format:   s.Format,
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("スクリーンスナップショットの検証に失敗 (screen_id=%s): %w", screenID, err)
	}
	return snap, nil
}

// BuildSeatSnapshots は台帳エントリから座席スナップショットを構築する
// entries が nil の場合は nil を返す（座席指定なし＝一般入場）
// 空スライスは空スライスのまま返し、両者の区別を保つ
// （空の座席指定は上流で検証済みでありここへは到達しない）
func (b *SnapshotBuilder) BuildSeatSnapshots(ctx context.Context, entries []*ledger.Entry) ([]booking.SeatSnapshot, error) {
	if entries == nil {
		return nil, nil
	}
	snaps := make([]booking.SeatSnapshot, 0, len(entries))
	for _, e := range entries {
		seat, err := b.catalog.GetSeatByID(ctx, e.SeatID)
		if err != nil {
			return nil, err
		}
		snap := booking.SeatSnapshot{
			LedgerID:  e.ID,
			SeatKey:   seat.Key(),
			SeatType:  string(seat.Type),
			Label:     seat.Label,
			PricePaid: e.ResolvedPrice(),
		}
		if err := snap.Validate(); err != nil {
			return nil, fmt.Errorf("座席スナップショットの検証に失敗 (ledger_id=%s): %w", e.ID, err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// BuildShowSnapshot は全サブスナップショットを合成し、
// 正式な支払額を埋め込んだ検証済みスナップショットを返す
// いずれかのサブビルダーが失敗した場合は全体が失敗する（部分書き込みなし）
func (b *SnapshotBuilder) BuildShowSnapshot(ctx context.Context, sh *show.Show, entries []*ledger.Entry, ticketCount, pricePaid int) (*booking.ShowSnapshot, error) {
	movie, err := b.BuildMovieSnapshot(ctx, sh.MovieID)
	if err != nil {
		return nil, err
	}
	venue, err := b.BuildVenueSnapshot(ctx, sh.VenueID)
	if err != nil {
		return nil, err
	}
	screen, err := b.BuildScreenSnapshot(ctx, sh.ScreenID)
	if err != nil {
		return nil, err
	}
	seats, err := b.BuildSeatSnapshots(ctx, entries)
	if err != nil {
		return nil, err
	}

	snap := &booking.ShowSnapshot{
		ShowID:      sh.ID,
		Movie:       *movie,
		Venue:       *venue,
		Screen:      *screen,
		Seats:       seats,
		StartAt:     sh.StartAt,
		EndAt:       sh.EndAt,
		Language:    sh.Language,
		Subtitles:   append([]string(nil), sh.Subtitles...),
		TicketCount: ticketCount,
		PricePaid:   pricePaid,
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("ショースナップショットの検証に失敗 (show_id=%s): %w", sh.ID, err)
	}
	return snap, nil
}
