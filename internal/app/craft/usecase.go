// Package craft turns recipe ingredients into products. A craft either
// debits every ingredient and credits the product, or changes nothing.
package craft

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

const opCraft = "craft"

type Request struct {
	CitizenName string
	ProductCode string
	RequestKey  string
	Actor       string
}

type Response struct {
	OperationID string                `json:"operation_id"`
	Citizen     string                `json:"citizen"`
	Product     string                `json:"product"`
	Output      int                   `json:"output"`
	Consumed    []village.Requirement `json:"consumed"`
	Balance     float64               `json:"balance"`
	Message     string                `json:"message"`
	Replayed    bool                  `json:"replayed,omitempty"`
}

type UseCase struct {
	Runner     txrun.Runner
	Citizens   ports.CitizenRepository
	History    ports.HistoryRepository
	Operations ports.OperationRepository
	Catalog    catalog.Registry
	Ledger     ledger.Ledger
	Logger     *slog.Logger
	Now        func() time.Time
}

// Craft is not idempotent: without a RequestKey every call consumes
// ingredients again.
func (u UseCase) Craft(ctx context.Context, req Request) (Response, error) {
	req.CitizenName = strings.TrimSpace(req.CitizenName)
	req.RequestKey = strings.TrimSpace(req.RequestKey)
	if req.CitizenName == "" || strings.TrimSpace(req.ProductCode) == "" {
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
	err := u.Runner.Run(ctx, opCraft, func(txCtx context.Context) error {
		out = Response{}
		citizen, err := citizens.Lock(txCtx, u.Citizens, req.CitizenName)
		if err != nil {
			return err
		}
		if ok, err := txrun.Replay(txCtx, u.Operations, citizen.ID, req.RequestKey, &out); err != nil || ok {
			out.Replayed = ok
			return err
		}

		recipe, err := u.Catalog.GetRecipe(txCtx, req.ProductCode)
		if err != nil {
			return err
		}
		need := recipe.Requirements()
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
		balance, err := u.Ledger.Credit(txCtx, citizen.ID, recipe.ProductCode, float64(recipe.Output), actor)
		if err != nil {
			return err
		}

		now := nowFn()
		out = Response{
			OperationID: uuid.NewString(),
			Citizen:     citizen.Name,
			Product:     recipe.ProductCode,
			Output:      recipe.Output,
			Consumed:    need,
			Balance:     balance,
			Message:     village.CraftMessage(citizen.Name, recipe),
		}
		if err := u.History.Append(txCtx, village.HistoryEntry{
			OperationID: out.OperationID,
			Code:        village.HistoryCodeCraft,
			CitizenID:   citizen.ID,
			Message:     out.Message,
			OccurredAt:  now,
		}); err != nil {
			return err
		}
		return txrun.Remember(txCtx, u.Operations, citizen.ID, req.RequestKey, opCraft, out.OperationID, out, now)
	})
	if err != nil {
		return Response{}, err
	}

	u.logger().DebugContext(ctx, "craft applied", "citizen", out.Citizen, "product", out.Product, "output", out.Output, "replayed", out.Replayed)
	return out, nil
}

type Feasibility struct {
	Citizen  string              `json:"citizen"`
	Product  string              `json:"product"`
	Feasible bool                `json:"feasible"`
	Missing  []village.Shortfall `json:"missing,omitempty"`
}

// CanCraft reports whether the citizen holds every ingredient for one craft.
// It takes no locks and writes nothing.
func (u UseCase) CanCraft(ctx context.Context, citizenName, productCode string) (Feasibility, error) {
	if strings.TrimSpace(citizenName) == "" || strings.TrimSpace(productCode) == "" {
		return Feasibility{}, village.ErrInvalidRequest
	}
	c, err := citizens.Get(ctx, u.Citizens, citizenName)
	if err != nil {
		return Feasibility{}, err
	}
	recipe, err := u.Catalog.GetRecipe(ctx, productCode)
	if err != nil {
		return Feasibility{}, err
	}
	need := recipe.Requirements()
	have := make(map[string]float64, len(need))
	for _, r := range need {
		q, err := u.Ledger.GetBalance(ctx, c.ID, r.ResourceCode)
		if err != nil {
			return Feasibility{}, err
		}
		have[r.ResourceCode] = q
	}
	missing := village.Shortfalls(have, need)
	return Feasibility{
		Citizen:  c.Name,
		Product:  recipe.ProductCode,
		Feasible: len(missing) == 0,
		Missing:  missing,
	}, nil
}

// Describe returns the human readable cost of one craft.
func (u UseCase) Describe(ctx context.Context, productCode string) (string, error) {
	return u.Catalog.DescribeRecipe(ctx, productCode)
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}
