package history

import (
	"context"
	"time"

	"soloville/internal/app/ports"
	"soloville/internal/app/shared/citizens"
	"soloville/internal/domain/village"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Request struct {
	CitizenName string
	Limit       int
}

type Response struct {
	Citizen string                 `json:"citizen"`
	Entries []village.HistoryEntry `json:"entries"`
}

type UseCase struct {
	Citizens ports.CitizenRepository
	History  ports.HistoryRepository
}

// List returns the citizen's latest entries, newest first.
func (u UseCase) List(ctx context.Context, req Request) (Response, error) {
	c, err := citizens.Get(ctx, u.Citizens, req.CitizenName)
	if err != nil {
		return Response{}, err
	}
	entries, err := u.History.ListByCitizen(ctx, c.ID, clampLimit(req.Limit))
	if err != nil {
		return Response{}, err
	}
	return Response{Citizen: c.Name, Entries: entries}, nil
}

// Window returns entries with from <= occurred_at < to, oldest first.
// A non-positive limit means no limit.
func (u UseCase) Window(ctx context.Context, from, to time.Time, limit int) ([]village.HistoryEntry, error) {
	if !from.Before(to) {
		return nil, village.ErrInvalidRequest
	}
	return u.History.ListWindow(ctx, from, to, limit)
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
