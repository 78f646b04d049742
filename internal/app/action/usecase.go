package action

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"soloville/internal/app/catalog"
	"soloville/internal/app/ledger"
	"soloville/internal/app/ports"
	"soloville/internal/app/shared/citizens"
	"soloville/internal/app/shared/txrun"
	"soloville/internal/domain/village"

	"github.com/google/uuid"
)

const opPerformAction = "perform_action"

type UseCase struct {
	Runner     txrun.Runner
	Citizens   ports.CitizenRepository
	Tools      ports.ToolRepository
	History    ports.HistoryRepository
	Operations ports.OperationRepository
	Catalog    catalog.Registry
	Ledger     ledger.Ledger
	Luck       village.LuckPolicy
	Roller     village.Roller
	WellWindow time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

// Perform resolves one action for a citizen: precondition checks, rule
// rolls and every balance write happen in a single transaction.
func (u UseCase) Perform(ctx context.Context, req Request) (Response, error) {
	req.CitizenName = strings.TrimSpace(req.CitizenName)
	req.ActionCode = catalog.NormalizeCode(req.ActionCode)
	req.RequestKey = strings.TrimSpace(req.RequestKey)
	if req.CitizenName == "" || req.ActionCode == "" {
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
	policy := u.Luck
	if policy == (village.LuckPolicy{}) {
		policy = village.LuckPolicyRange
	}
	roller, err := u.roller()
	if err != nil {
		return Response{}, err
	}

	var out Response
	err = u.Runner.Run(ctx, opPerformAction, func(txCtx context.Context) error {
		out = Response{}
		citizen, err := citizens.Lock(txCtx, u.Citizens, req.CitizenName)
		if err != nil {
			return err
		}
		if ok, err := txrun.Replay(txCtx, u.Operations, citizen.ID, req.RequestKey, &out); err != nil || ok {
			out.Replayed = ok
			return err
		}

		action, rules, err := u.Catalog.GetActionRules(txCtx, req.ActionCode)
		if err != nil {
			return err
		}
		energy, err := u.Ledger.Locked(txCtx, citizen.ID, []string{village.EnergyResource})
		if err != nil {
			return err
		}
		if energy[village.EnergyResource] < village.DefaultEnergyCost {
			return village.ErrInsufficientEnergy
		}

		now := nowFn()
		elig := village.Eligibility{Well: village.WellEligible(citizen.WellVisitedAt, now, u.WellWindow)}
		if action.RequiresTool() {
			owns, err := u.Tools.Owns(txCtx, citizen.ID, action.ToolCode)
			if err != nil {
				return err
			}
			elig.Tool = owns
		}

		res := village.Resolve(rules, elig, policy, roller)
		for _, g := range res.Grants {
			if _, err := u.Ledger.Adjust(txCtx, citizen.ID, g.ResourceCode, g.Quantity, actor); err != nil {
				return err
			}
		}
		energyAfter, err := u.Ledger.Adjust(txCtx, citizen.ID, village.EnergyResource, res.EnergyDelta, actor)
		if err != nil {
			return err
		}

		out = Response{
			OperationID: uuid.NewString(),
			Citizen:     citizen.Name,
			Action:      action.Code,
			Luck:        res.Luck,
			Grants:      res.Grants,
			EnergyDelta: res.EnergyDelta,
			Energy:      energyAfter,
			WellBonus:   elig.Well,
			ToolBonus:   elig.Tool,
			Message:     village.ActionMessage(citizen.Name, action.Code, res),
		}
		if err := u.History.Append(txCtx, village.HistoryEntry{
			OperationID: out.OperationID,
			Code:        action.Code,
			CitizenID:   citizen.ID,
			Message:     out.Message,
			OccurredAt:  now,
		}); err != nil {
			return err
		}
		return txrun.Remember(txCtx, u.Operations, citizen.ID, req.RequestKey, opPerformAction, out.OperationID, out, now)
	})
	if err != nil {
		return Response{}, err
	}

	u.logger().DebugContext(ctx, "action resolved",
		"citizen", out.Citizen, "action", out.Action, "luck", out.Luck, "energy", out.Energy, "replayed", out.Replayed)
	return out, nil
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}

func (u UseCase) roller() (village.Roller, error) {
	if u.Roller != nil {
		return u.Roller, nil
	}
	seed, err := village.NewSeed()
	if err != nil {
		return nil, err
	}
	return village.NewRandRoller(seed), nil
}
