package ledger_test

import (
	"context"
	"errors"
	"testing"

	"soloville/internal/app/apptest"
	"soloville/internal/domain/village"
)

func TestLedger_GetBalanceAbsentRowIsZero(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", nil)

	got, err := f.Ledger().GetBalance(context.Background(), ada.ID, "madera")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if got != 0 {
		t.Fatalf("got=%v want=0", got)
	}
}

func TestLedger_GetBalanceUnknownResource(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", nil)
	_, err := f.Ledger().GetBalance(context.Background(), ada.ID, "mithril")
	if !errors.Is(err, village.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestLedger_AdjustCreatesRowOnlyForPositiveDelta(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", nil)
	l := f.Ledger()
	ctx := context.Background()

	got, err := l.Adjust(ctx, ada.ID, "madera", -3, "test")
	if err != nil || got != 0 {
		t.Fatalf("negative delta on absent row got=%v err=%v", got, err)
	}
	res, _ := f.Resources.GetByCode(ctx, "madera")
	if _, err := f.Balances.Get(ctx, ada.ID, res.ID); err == nil {
		t.Fatalf("negative delta must not create a row")
	}

	got, err = l.Adjust(ctx, ada.ID, "madera", 2.5, "test")
	if err != nil || got != 2.5 {
		t.Fatalf("positive delta got=%v err=%v", got, err)
	}
	b, err := f.Balances.Get(ctx, ada.ID, res.ID)
	if err != nil {
		t.Fatalf("row not created: %v", err)
	}
	if b.Version != 1 || b.ModifiedBy != "test" {
		t.Fatalf("unexpected audit on new row: %+v", b)
	}
}

func TestLedger_AdjustClampsAtZero(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{"madera": 3})

	got, err := f.Ledger().Adjust(context.Background(), ada.ID, "madera", -10, "test")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if got != 0 {
		t.Fatalf("got=%v want=0", got)
	}
	if f.Balance(t, ada.ID, "madera") != 0 {
		t.Fatalf("stored balance must clamp to 0")
	}
}

func TestLedger_AdjustSequenceNeverNegative(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", nil)
	l := f.Ledger()
	ctx := context.Background()

	deltas := []float64{4, -1.5, -7, 0.25, 3, -3.1, -0.01, 12, -11.99}
	want := 0.0
	for i, d := range deltas {
		want = village.Round2(want + d)
		if want < 0 {
			want = 0
		}
		got, err := l.Adjust(ctx, ada.ID, "rama", d, "test")
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got < 0 || got != want {
			t.Fatalf("step %d got=%v want=%v", i, got, want)
		}
	}
}

func TestLedger_AdjustTwiceInOneTxSumsDeltas(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{"moneda": 1})
	l := f.Ledger()

	err := f.Tx.RunInTx(context.Background(), func(ctx context.Context) error {
		if _, err := l.Adjust(ctx, ada.ID, "moneda", 2, "test"); err != nil {
			return err
		}
		_, err := l.Adjust(ctx, ada.ID, "moneda", 3, "test")
		return err
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	if got := f.Balance(t, ada.ID, "moneda"); got != 6 {
		t.Fatalf("got=%v want=6", got)
	}
	res, _ := f.Resources.GetByCode(context.Background(), "moneda")
	b, _ := f.Balances.Get(context.Background(), ada.ID, res.ID)
	if b.Version != 3 {
		t.Fatalf("version got=%d want=3", b.Version)
	}
}

func TestLedger_DebitExactRejectsWithoutWriting(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{"madera": 1})

	_, err := f.Ledger().DebitExact(context.Background(), ada.ID, "madera", 2, "test")
	var insufficient *village.InsufficientResourcesError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientResourcesError, got %v", err)
	}
	if !errors.Is(err, village.ErrInsufficientResources) {
		t.Fatalf("expected ErrInsufficientResources in chain")
	}
	if len(insufficient.Missing) != 1 || insufficient.Missing[0].Available != 1 {
		t.Fatalf("unexpected shortfall: %+v", insufficient.Missing)
	}
	if f.Balance(t, ada.ID, "madera") != 1 {
		t.Fatalf("balance must be unchanged")
	}
}

func TestLedger_DebitExactAbsentRow(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", nil)
	if _, err := f.Ledger().DebitExact(context.Background(), ada.ID, "madera", 1, "test"); !errors.Is(err, village.ErrInsufficientResources) {
		t.Fatalf("expected ErrInsufficientResources, got %v", err)
	}
}

func TestLedger_EnergyWritesMirrorCitizen(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{village.EnergyResource: 5})

	if _, err := f.Ledger().Adjust(context.Background(), ada.ID, village.EnergyResource, -1.5, "test"); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if got := f.Citizen(t, "Ada").Energy; got != 3 {
		t.Fatalf("mirrored energy got=%d want=3", got)
	}
}

func TestLedger_BalanceOf(t *testing.T) {
	f := apptest.New(t)
	f.AddCitizen(t, "Ada", map[string]float64{"rama": 7})
	l := f.Ledger()
	ctx := context.Background()

	got, err := l.BalanceOf(ctx, " Ada ", "rama")
	if err != nil || got != 7 {
		t.Fatalf("got=%v err=%v", got, err)
	}
	if _, err := l.BalanceOf(ctx, "Bob", "rama"); !errors.Is(err, village.ErrCitizenNotFound) {
		t.Fatalf("expected ErrCitizenNotFound, got %v", err)
	}
	if _, err := l.BalanceOf(ctx, "", "rama"); !errors.Is(err, village.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}
