package action

import (
	"context"
	"time"

	"soloville/internal/app/apptest"
	"soloville/internal/app/ports"
	"soloville/internal/domain/village"
)

func newUseCase(f *apptest.Fixture, roll village.Roller) UseCase {
	return UseCase{
		Runner:     f.Runner(),
		Citizens:   f.Citizens,
		Tools:      f.Tools,
		History:    f.History,
		Operations: f.Operations,
		Catalog:    f.Registry(),
		Ledger:     f.Ledger(),
		Luck:       village.LuckPolicyRange,
		Roller:     roll,
		Now:        f.Clock(),
	}
}

type failingHistoryRepo struct {
	ports.HistoryRepository
	err error
}

func (r failingHistoryRepo) Append(_ context.Context, _ village.HistoryEntry) error {
	return r.err
}

type conflictingBalanceRepo struct {
	ports.BalanceRepository
	remaining *int
}

func (r conflictingBalanceRepo) UpdateQuantity(ctx context.Context, balanceID int64, quantity float64, expectedVersion int64, actor string, at time.Time) error {
	if *r.remaining != 0 {
		*r.remaining--
		return ports.ErrConflict
	}
	return r.BalanceRepository.UpdateQuantity(ctx, balanceID, quantity, expectedVersion, actor, at)
}
