package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"soloville/internal/app/apptest"
	"soloville/internal/app/ports"
	"soloville/internal/domain/village"
)

func TestPerform_TalarNormalLuck(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{"madera": 0, "rama": 0, village.EnergyResource: 5})
	uc := newUseCase(f, &apptest.ScriptedRoller{Values: []float64{0.5, 0, 0}})

	out, err := uc.Perform(context.Background(), Request{CitizenName: "Ada", ActionCode: "talar"})
	if err != nil {
		t.Fatalf("perform: %v", err)
	}
	if out.Luck != village.LuckNormal {
		t.Fatalf("luck got=%s want=normal", out.Luck)
	}
	if got := f.Balance(t, ada.ID, "madera"); got != 1 {
		t.Fatalf("madera got=%v want=1", got)
	}
	if got := f.Balance(t, ada.ID, "rama"); got != 5 {
		t.Fatalf("rama got=%v want=5", got)
	}
	if got := f.Balance(t, ada.ID, village.EnergyResource); got != 4 {
		t.Fatalf("energia got=%v want=4", got)
	}
	if out.Energy != 4 || out.EnergyDelta != -1 {
		t.Fatalf("response energy=%v delta=%v want 4/-1", out.Energy, out.EnergyDelta)
	}
	if got := f.Citizen(t, "Ada").Energy; got != 4 {
		t.Fatalf("citizen energy mirror got=%d want=4", got)
	}
	if got := f.HistoryCount(t, ada.ID); got != 1 {
		t.Fatalf("history entries got=%d want=1", got)
	}
	if out.OperationID == "" || out.Message != "Ada performed talar and got: 1 madera, 5 rama\nNot bad!" {
		t.Fatalf("unexpected response: %+v", out)
	}
	if s := f.Metrics.Snapshot(); s.ByOperation[opPerformAction].Success != 1 {
		t.Fatalf("expected one recorded success, got %+v", s.ByOperation)
	}
}

func TestPerform_WellAndToolBonuses(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{village.EnergyResource: 5})
	hacha, _ := f.Tools.GetByCode(context.Background(), "hacha")
	if err := f.Tools.SetOwnership(context.Background(), ada.ID, hacha.ID, true, "test", f.Now); err != nil {
		t.Fatalf("grant tool: %v", err)
	}
	visited := f.Now.Add(-time.Hour)
	if err := f.Citizens.Patch(context.Background(), ada.ID, village.CitizenPatch{}.WellVisitedAt(visited), "test", f.Now); err != nil {
		t.Fatalf("visit well: %v", err)
	}

	uc := newUseCase(f, &apptest.ScriptedRoller{Values: []float64{0.5}})
	out, err := uc.Perform(context.Background(), Request{CitizenName: "Ada", ActionCode: "talar"})
	if err != nil {
		t.Fatalf("perform: %v", err)
	}
	if !out.WellBonus || !out.ToolBonus {
		t.Fatalf("expected both bonuses, got well=%v tool=%v", out.WellBonus, out.ToolBonus)
	}
	if got := f.Balance(t, ada.ID, "madera"); got != 1.5 {
		t.Fatalf("madera got=%v want=1.5", got)
	}
	if got := f.Balance(t, ada.ID, "rama"); got != 12 {
		t.Fatalf("rama got=%v want=12", got)
	}
	if got := f.Balance(t, ada.ID, village.EnergyResource); got != 4.3 {
		t.Fatalf("energia got=%v want=4.3", got)
	}
}

func TestPerform_ExpiredWellGivesNoBonus(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{village.EnergyResource: 5})
	_ = f.Citizens.Patch(context.Background(), ada.ID, village.CitizenPatch{}.WellVisitedAt(f.Now.Add(-25*time.Hour)), "test", f.Now)

	uc := newUseCase(f, &apptest.ScriptedRoller{Values: []float64{0.5}})
	out, err := uc.Perform(context.Background(), Request{CitizenName: "Ada", ActionCode: "guardia"})
	if err != nil {
		t.Fatalf("perform: %v", err)
	}
	if out.WellBonus {
		t.Fatalf("well bonus must not apply after the window")
	}
	if got := f.Balance(t, ada.ID, "moneda"); got != 10 {
		t.Fatalf("moneda got=%v want=10", got)
	}
}

func TestPerform_InsufficientEnergy(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{village.EnergyResource: 0.5})
	uc := newUseCase(f, &apptest.ScriptedRoller{})

	_, err := uc.Perform(context.Background(), Request{CitizenName: "Ada", ActionCode: "talar"})
	if !errors.Is(err, village.ErrInsufficientEnergy) {
		t.Fatalf("expected ErrInsufficientEnergy, got %v", err)
	}
	if got := f.Balance(t, ada.ID, village.EnergyResource); got != 0.5 {
		t.Fatalf("energy changed: %v", got)
	}
	if f.HistoryCount(t, ada.ID) != 0 {
		t.Fatalf("rejected action must not write history")
	}
	if s := f.Metrics.Snapshot(); s.ByRejection[village.ErrInsufficientEnergy.Error()] != 1 {
		t.Fatalf("expected rejection recorded, got %+v", s.ByRejection)
	}
}

func TestPerform_PreconditionFailures(t *testing.T) {
	f := apptest.New(t)
	gone := f.AddCitizen(t, "Gone", map[string]float64{village.EnergyResource: 5})
	_ = f.Citizens.SoftDelete(context.Background(), gone.ID, "test", f.Now)
	f.AddCitizen(t, "Ada", map[string]float64{village.EnergyResource: 5})
	uc := newUseCase(f, &apptest.ScriptedRoller{})

	cases := []struct {
		req  Request
		want error
	}{
		{Request{CitizenName: "", ActionCode: "talar"}, village.ErrInvalidRequest},
		{Request{CitizenName: "Nobody", ActionCode: "talar"}, village.ErrCitizenNotFound},
		{Request{CitizenName: "Gone", ActionCode: "talar"}, village.ErrCitizenNotFound},
		{Request{CitizenName: "Ada", ActionCode: "volar"}, village.ErrActionNotFound},
		{Request{CitizenName: "Ada", ActionCode: "retirada"}, village.ErrActionNotFound},
	}
	for _, tc := range cases {
		if _, err := uc.Perform(context.Background(), tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("%+v: expected %v, got %v", tc.req, tc.want, err)
		}
	}
}

func TestPerform_RollsBackWhenHistoryFails(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{"madera": 2, village.EnergyResource: 5})
	boom := errors.New("disk full")
	uc := newUseCase(f, &apptest.ScriptedRoller{Values: []float64{0.5, 0, 0}})
	uc.History = failingHistoryRepo{HistoryRepository: f.History, err: boom}

	_, err := uc.Perform(context.Background(), Request{CitizenName: "Ada", ActionCode: "talar"})
	if !errors.Is(err, ports.ErrStorageFailure) || !errors.Is(err, boom) {
		t.Fatalf("expected storage failure wrapping cause, got %v", err)
	}
	var se *ports.StorageError
	if !errors.As(err, &se) || se.Op != opPerformAction {
		t.Fatalf("expected StorageError for %s, got %v", opPerformAction, err)
	}
	if got := f.Balance(t, ada.ID, "madera"); got != 2 {
		t.Fatalf("madera got=%v want=2 after rollback", got)
	}
	if got := f.Balance(t, ada.ID, "rama"); got != 0 {
		t.Fatalf("rama got=%v want=0 after rollback", got)
	}
	if got := f.Balance(t, ada.ID, village.EnergyResource); got != 5 {
		t.Fatalf("energia got=%v want=5 after rollback", got)
	}
	if got := f.Citizen(t, "Ada").Energy; got != 5 {
		t.Fatalf("energy mirror got=%d want=5 after rollback", got)
	}
}

func TestPerform_RetriesOnConflict(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{"madera": 1, village.EnergyResource: 5})
	conflicts := 2
	uc := newUseCase(f, &apptest.ScriptedRoller{Values: []float64{0.5, 0, 0, 0.5, 0, 0, 0.5, 0, 0}})
	uc.Ledger.Balances = conflictingBalanceRepo{BalanceRepository: f.Balances, remaining: &conflicts}

	if _, err := uc.Perform(context.Background(), Request{CitizenName: "Ada", ActionCode: "talar"}); err != nil {
		t.Fatalf("perform: %v", err)
	}
	if got := f.Balance(t, ada.ID, "madera"); got != 2 {
		t.Fatalf("madera got=%v want=2 (applied once)", got)
	}
	if got := f.HistoryCount(t, ada.ID); got != 1 {
		t.Fatalf("history entries got=%d want=1", got)
	}
}

func TestPerform_ConflictRetriesExhausted(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{"madera": 1, village.EnergyResource: 5})
	conflicts := -1
	uc := newUseCase(f, &apptest.ScriptedRoller{})
	uc.Ledger.Balances = conflictingBalanceRepo{BalanceRepository: f.Balances, remaining: &conflicts}

	_, err := uc.Perform(context.Background(), Request{CitizenName: "Ada", ActionCode: "talar"})
	if !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if errors.Is(err, ports.ErrStorageFailure) {
		t.Fatalf("conflict must not be reported as storage failure")
	}
	if got := f.Balance(t, ada.ID, "madera"); got != 1 {
		t.Fatalf("madera got=%v want=1", got)
	}
	if s := f.Metrics.Snapshot(); s.ByOperation[opPerformAction].Conflict != 1 {
		t.Fatalf("expected one conflict recorded, got %+v", s.ByOperation)
	}
}

func TestPerform_RequestKeyReplaysOutcome(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{village.EnergyResource: 5})
	uc := newUseCase(f, &apptest.ScriptedRoller{Values: []float64{0.5, 0, 0}})
	req := Request{CitizenName: "Ada", ActionCode: "talar", RequestKey: "chat-evt-1"}

	first, err := uc.Perform(context.Background(), req)
	if err != nil {
		t.Fatalf("first perform: %v", err)
	}
	second, err := uc.Perform(context.Background(), req)
	if err != nil {
		t.Fatalf("second perform: %v", err)
	}
	if !second.Replayed || second.OperationID != first.OperationID {
		t.Fatalf("expected replay of %s, got %+v", first.OperationID, second)
	}
	if got := f.Balance(t, ada.ID, "rama"); got != 5 {
		t.Fatalf("rama got=%v want=5 (applied once)", got)
	}
	if got := f.Balance(t, ada.ID, village.EnergyResource); got != 4 {
		t.Fatalf("energia got=%v want=4 (debited once)", got)
	}
	if got := f.HistoryCount(t, ada.ID); got != 1 {
		t.Fatalf("history entries got=%d want=1", got)
	}
}

func TestPerform_EnergyDecreasesEveryCall(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{village.EnergyResource: 30})
	hacha, _ := f.Tools.GetByCode(context.Background(), "hacha")
	_ = f.Tools.SetOwnership(context.Background(), ada.ID, hacha.ID, true, "test", f.Now)
	_ = f.Citizens.Patch(context.Background(), ada.ID, village.CitizenPatch{}.WellVisitedAt(f.Now), "test", f.Now)
	uc := newUseCase(f, village.NewRandRoller(7))

	before := f.Balance(t, ada.ID, village.EnergyResource)
	for i := 0; i < 20; i++ {
		out, err := uc.Perform(context.Background(), Request{CitizenName: "Ada", ActionCode: "talar"})
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		// refunds for talar add up to at most 0.3
		if drop := village.Round2(before - out.Energy); drop < 0.7 {
			t.Fatalf("step %d: energy dropped by %v, want >= 0.7", i, drop)
		}
		before = out.Energy
	}
}
