package dwelling

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"soloville/internal/app/ledger"
	"soloville/internal/app/ports"
	"soloville/internal/app/shared/citizens"
	"soloville/internal/app/shared/txrun"
	"soloville/internal/domain/village"

	"github.com/google/uuid"
)

const opUpgrade = "upgrade_dwelling"

type Request struct {
	CitizenName string
	RequestKey  string
	Actor       string
}

type Response struct {
	OperationID string                `json:"operation_id"`
	Citizen     string                `json:"citizen"`
	Level       int                   `json:"level"`
	Consumed    []village.Requirement `json:"consumed"`
	Message     string                `json:"message"`
	Replayed    bool                  `json:"replayed,omitempty"`
}

type UseCase struct {
	Runner     txrun.Runner
	Citizens   ports.CitizenRepository
	History    ports.HistoryRepository
	Operations ports.OperationRepository
	Ledger     ledger.Ledger
	Logger     *slog.Logger
	Now        func() time.Time
}

func (u UseCase) Upgrade(ctx context.Context, req Request) (Response, error) {
	req.CitizenName = strings.TrimSpace(req.CitizenName)
	req.RequestKey = strings.TrimSpace(req.RequestKey)
	if req.CitizenName == "" {
		return Response{}, village.ErrInvalidRequest
	}
	actor := req.Actor
	if actor == "" {
		actor = village.ActorSystem
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	var out Response
	err := u.Runner.Run(ctx, opUpgrade, func(txCtx context.Context) error {
		out = Response{}
		citizen, err := citizens.Lock(txCtx, u.Citizens, req.CitizenName)
		if err != nil {
			return err
		}
		if ok, err := txrun.Replay(txCtx, u.Operations, citizen.ID, req.RequestKey, &out); err != nil || ok {
			out.Replayed = ok
			return err
		}

		need, err := village.DwellingRequirements(citizen.DwellingLevel)
		if err != nil {
			return err
		}
		codes := make([]string, 0, len(need))
		for _, r := range need {
			codes = append(codes, r.ResourceCode)
		}
		have, err := u.Ledger.Locked(txCtx, citizen.ID, codes)
		if err != nil {
			return err
		}
		if missing := village.Shortfalls(have, need); len(missing) > 0 {
			return &village.InsufficientResourcesError{Missing: missing}
		}
		for _, r := range need {
			if _, err := u.Ledger.DebitExact(txCtx, citizen.ID, r.ResourceCode, r.Quantity, actor); err != nil {
				return err
			}
		}

		now := nowFn()
		level := citizen.DwellingLevel + 1
		if err := u.Citizens.Patch(txCtx, citizen.ID, village.CitizenPatch{}.DwellingLevel(level), actor, now); err != nil {
			return err
		}
		out = Response{
			OperationID: uuid.NewString(),
			Citizen:     citizen.Name,
			Level:       level,
			Consumed:    need,
			Message:     village.UpgradeMessage(citizen.Name, level),
		}
		if err := u.History.Append(txCtx, village.HistoryEntry{
			OperationID: out.OperationID,
			Code:        village.HistoryCodeUpgradeDwelling,
			CitizenID:   citizen.ID,
			Message:     out.Message,
			OccurredAt:  now,
		}); err != nil {
			return err
		}
		return txrun.Remember(txCtx, u.Operations, citizen.ID, req.RequestKey, opUpgrade, out.OperationID, out, now)
	})
	if err != nil {
		return Response{}, err
	}

	u.logger().DebugContext(ctx, "dwelling upgraded", "citizen", out.Citizen, "level", out.Level, "replayed", out.Replayed)
	return out, nil
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}
