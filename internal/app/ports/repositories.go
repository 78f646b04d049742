package ports

import (
	"context"
	"encoding/json"
	"time"

	"soloville/internal/domain/village"
)

type CitizenRepository interface {
	Create(ctx context.Context, citizen village.Citizen) (village.Citizen, error)
	// GetByName includes soft-deleted rows; callers check Active.
	GetByName(ctx context.Context, name string) (village.Citizen, error)
	// LockByName is GetByName holding a row lock until the transaction ends.
	LockByName(ctx context.Context, name string) (village.Citizen, error)
	Patch(ctx context.Context, citizenID int64, patch village.CitizenPatch, actor string, at time.Time) error
	SoftDelete(ctx context.Context, citizenID int64, actor string, at time.Time) error
	// ListActive returns citizens that are not soft-deleted, ordered by name.
	// A non-positive limit means no limit.
	ListActive(ctx context.Context, limit int) ([]village.Citizen, error)
}

type ResourceRepository interface {
	GetByCode(ctx context.Context, code string) (village.Resource, error)
	ListActive(ctx context.Context) ([]village.Resource, error)
}

type BalanceRepository interface {
	Get(ctx context.Context, citizenID, resourceID int64) (village.Balance, error)
	// GetForUpdate is Get holding a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, citizenID, resourceID int64) (village.Balance, error)
	Insert(ctx context.Context, balance village.Balance, actor string, at time.Time) (village.Balance, error)
	// UpdateQuantity writes quantity and bumps the version when the stored
	// version equals expectedVersion, else returns ErrConflict.
	UpdateQuantity(ctx context.Context, balanceID int64, quantity float64, expectedVersion int64, actor string, at time.Time) error
	ListByCitizen(ctx context.Context, citizenID int64) ([]village.Balance, error)
}

type ToolRepository interface {
	GetByCode(ctx context.Context, code string) (village.Tool, error)
	Owns(ctx context.Context, citizenID int64, toolCode string) (bool, error)
	SetOwnership(ctx context.Context, citizenID, toolID int64, has bool, actor string, at time.Time) error
}

type ActionRepository interface {
	GetByCode(ctx context.Context, code string) (village.Action, error)
	ListRules(ctx context.Context, actionID int64) ([]village.ActionRule, error)
}

type RecipeRepository interface {
	GetByProductCode(ctx context.Context, productCode string) (village.Recipe, error)
}

type HistoryRepository interface {
	Append(ctx context.Context, entry village.HistoryEntry) error
	ListByCitizen(ctx context.Context, citizenID int64, limit int) ([]village.HistoryEntry, error)
	// ListWindow returns entries with from <= occurred_at < to, oldest first.
	ListWindow(ctx context.Context, from, to time.Time, limit int) ([]village.HistoryEntry, error)
}

type OperationRecord struct {
	CitizenID   int64
	RequestKey  string
	Kind        string
	OperationID string
	Outcome     json.RawMessage
	AppliedAt   time.Time
}

type OperationRepository interface {
	GetByKey(ctx context.Context, citizenID int64, key string) (*OperationRecord, error)
	Save(ctx context.Context, record OperationRecord) error
}

type CatalogAction struct {
	Action village.Action
	Rules  []village.ActionRule
}

// CatalogWriter upserts seed data by code. Rules and recipe ingredients are
// replaced wholesale for the action or product being written.
type CatalogWriter interface {
	UpsertResource(ctx context.Context, resource village.Resource) (village.Resource, error)
	UpsertTool(ctx context.Context, tool village.Tool) (village.Tool, error)
	UpsertAction(ctx context.Context, action CatalogAction) error
	UpsertRecipe(ctx context.Context, recipe village.Recipe) error
}
