package application

import (
	"context"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/ledger"
)

// LedgerService はショーごとの座席台帳の読み取りAPIを提供する
type LedgerService struct {
	ledgerRepo   ledger.Repository
	availability *AvailabilityChecker
}

// NewLedgerService は新しい LedgerService を作成する
func NewLedgerService(lr ledger.Repository, ac *AvailabilityChecker) *LedgerService {
	return &LedgerService{ledgerRepo: lr, availability: ac}
}

// GetEntry はIDから台帳エントリを取得する
func (s *LedgerService) GetEntry(ctx context.Context, id string) (*ledger.Entry, error) {
	return s.ledgerRepo.GetByID(ctx, id)
}

// GetEntriesByShow はショーの全台帳エントリを取得する
func (s *LedgerService) GetEntriesByShow(ctx context.Context, showID string) ([]*ledger.Entry, error) {
	return s.ledgerRepo.GetByShowID(ctx, showID)
}

// CountConfiguredSeats はショーに設定された座席数をキャッシュ経由で取得する
func (s *LedgerService) CountConfiguredSeats(ctx context.Context, showID string) (int, error) {
	return s.availability.configuredCount(ctx, showID)
}
