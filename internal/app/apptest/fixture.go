// Package apptest wires the economy use cases over the in-memory store with
// a small seeded catalog, a fixed clock and a scripted roller.
package apptest

import (
	"context"
	"testing"
	"time"

	metricsinmem "soloville/internal/adapter/metrics/inmemory"
	"soloville/internal/adapter/repo/memory"
	"soloville/internal/app/catalog"
	"soloville/internal/app/ledger"
	"soloville/internal/app/ports"
	"soloville/internal/app/shared/txrun"
	"soloville/internal/domain/village"
)

var Epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type Fixture struct {
	Store      *memory.Store
	Tx         ports.TxManager
	Citizens   ports.CitizenRepository
	Resources  ports.ResourceRepository
	Balances   ports.BalanceRepository
	Tools      ports.ToolRepository
	Actions    ports.ActionRepository
	Recipes    ports.RecipeRepository
	History    ports.HistoryRepository
	Operations ports.OperationRepository
	Catalog    memory.CatalogRepo
	Metrics    *metricsinmem.Recorder
	Now        time.Time
}

func New(t testing.TB) *Fixture {
	t.Helper()
	store := memory.NewStore()
	f := &Fixture{
		Store:      store,
		Tx:         memory.NewTxManager(store),
		Citizens:   memory.NewCitizenRepo(store),
		Resources:  memory.NewResourceRepo(store),
		Balances:   memory.NewBalanceRepo(store),
		Tools:      memory.NewToolRepo(store),
		Actions:    memory.NewActionRepo(store),
		Recipes:    memory.NewRecipeRepo(store),
		History:    memory.NewHistoryRepo(store),
		Operations: memory.NewOperationRepo(store),
		Catalog:    memory.NewCatalogRepo(store),
		Metrics:    metricsinmem.NewRecorder(),
		Now:        Epoch,
	}
	f.seed(t)
	return f
}

func (f *Fixture) Clock() func() time.Time {
	return func() time.Time { return f.Now }
}

func (f *Fixture) Runner() txrun.Runner {
	return txrun.Runner{TxManager: f.Tx, Metrics: f.Metrics, MaxRetries: txrun.DefaultMaxRetries}
}

func (f *Fixture) Ledger() ledger.Ledger {
	return ledger.Ledger{Resources: f.Resources, Balances: f.Balances, Citizens: f.Citizens, Now: f.Clock()}
}

func (f *Fixture) Registry() catalog.Registry {
	return catalog.Registry{Resources: f.Resources, Actions: f.Actions, Recipes: f.Recipes}
}

var seedResources = []village.Resource{
	{Code: "moneda", Name: "Moneda"},
	{Code: "madera", Name: "Madera"},
	{Code: "rama", Name: "Rama"},
	{Code: "piedra", Name: "Piedra"},
	{Code: "hierro", Name: "Hierro"},
	{Code: "piel", Name: "Piel"},
	{Code: "hierba", Name: "Hierba"},
	{Code: village.EnergyResource, Name: "Energia"},
	{Code: "tabla", Name: "Tabla", IsProduct: true},
	{Code: "cuerda", Name: "Cuerda", IsProduct: true},
	{Code: "ladrillo", Name: "Ladrillo", IsProduct: true},
}

func (f *Fixture) seed(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	for _, res := range seedResources {
		res.Active = true
		if _, err := f.Catalog.UpsertResource(ctx, res); err != nil {
			t.Fatalf("seed resource %s: %v", res.Code, err)
		}
	}
	if _, err := f.Catalog.UpsertTool(ctx, village.Tool{Code: "hacha", Name: "Hacha"}); err != nil {
		t.Fatalf("seed tool: %v", err)
	}
	actions := []ports.CatalogAction{
		{
			Action: village.Action{Code: "talar", Name: "Talar", ToolCode: "hacha", Active: true},
			Rules: []village.ActionRule{
				{ResourceCode: "madera", BaseQty: 1, ToolQty: 0.5, BaseProb: 100, WellProb: 100, ToolProb: 100},
				{ResourceCode: "rama", BaseQty: 5, WellQty: 5, ToolQty: 2, BaseProb: 100, WellProb: 100, ToolProb: 100},
				{ResourceCode: village.EnergyResource, BaseQty: -1, WellQty: 0.1, ToolQty: 0.2, BaseProb: 100, WellProb: 100, ToolProb: 100},
			},
		},
		{
			Action: village.Action{Code: "guardia", Name: "Guardia", Active: true},
			Rules: []village.ActionRule{
				{ResourceCode: "moneda", BaseQty: 10, WellQty: 5, BaseProb: 100, WellProb: 100},
				{ResourceCode: village.EnergyResource, BaseQty: -1, BaseProb: 100},
			},
		},
		{
			Action: village.Action{Code: "retirada", Name: "Retirada", Active: false},
		},
	}
	for _, a := range actions {
		if err := f.Catalog.UpsertAction(ctx, a); err != nil {
			t.Fatalf("seed action %s: %v", a.Action.Code, err)
		}
	}
	if err := f.Catalog.UpsertRecipe(ctx, village.Recipe{
		ProductCode: "tabla",
		Output:      5,
		Ingredients: []village.Ingredient{
			{ResourceCode: "madera", Quantity: 1},
			{ResourceCode: village.EnergyResource, Quantity: 1},
		},
	}); err != nil {
		t.Fatalf("seed recipe: %v", err)
	}
}

// AddCitizen creates a citizen and sets the given balances directly.
func (f *Fixture) AddCitizen(t testing.TB, name string, balances map[string]float64) village.Citizen {
	t.Helper()
	ctx := context.Background()
	c, err := f.Citizens.Create(ctx, village.Citizen{
		Name:   name,
		Energy: int(balances[village.EnergyResource]),
		Audit:  village.Audit{CreatedAt: f.Now, CreatedBy: village.ActorSystem},
	})
	if err != nil {
		t.Fatalf("create citizen %s: %v", name, err)
	}
	for code, qty := range balances {
		res, err := f.Resources.GetByCode(ctx, code)
		if err != nil {
			t.Fatalf("resource %s: %v", code, err)
		}
		if _, err := f.Balances.Insert(ctx, village.Balance{
			CitizenID:    c.ID,
			ResourceID:   res.ID,
			ResourceCode: code,
			Quantity:     qty,
		}, village.ActorSystem, f.Now); err != nil {
			t.Fatalf("insert balance %s: %v", code, err)
		}
	}
	return c
}

// Balance reads a balance outside any transaction; absent rows read as zero.
func (f *Fixture) Balance(t testing.TB, citizenID int64, code string) float64 {
	t.Helper()
	q, err := f.Ledger().GetBalance(context.Background(), citizenID, code)
	if err != nil {
		t.Fatalf("get balance %s: %v", code, err)
	}
	return q
}

func (f *Fixture) Citizen(t testing.TB, name string) village.Citizen {
	t.Helper()
	c, err := f.Citizens.GetByName(context.Background(), name)
	if err != nil {
		t.Fatalf("get citizen %s: %v", name, err)
	}
	return c
}

func (f *Fixture) HistoryCount(t testing.TB, citizenID int64) int {
	t.Helper()
	entries, err := f.History.ListByCitizen(context.Background(), citizenID, 0)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	return len(entries)
}

type ScriptedRoller struct {
	Values []float64
	next   int
}

// Float64 returns the scripted values in order, then zero.
func (r *ScriptedRoller) Float64() float64 {
	if r.next >= len(r.Values) {
		return 0
	}
	v := r.Values[r.next]
	r.next++
	return v
}

func (r *ScriptedRoller) Drawn() int {
	return r.next
}
