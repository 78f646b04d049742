package action

import (
	"context"
	"sync"
	"testing"

	"soloville/internal/app/apptest"
	"soloville/internal/domain/village"
)

// fixedRoller always draws u; 0.5 means normal luck and every 100% roll passes.
type fixedRoller float64

func (r fixedRoller) Float64() float64 { return float64(r) }

func TestPerform_ConcurrentCallsLoseNoUpdates(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{"moneda": 0, village.EnergyResource: 100})
	uc := newUseCase(f, fixedRoller(0.5))

	const calls = 50
	var wg sync.WaitGroup
	errs := make(chan error, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.Perform(context.Background(), Request{CitizenName: "Ada", ActionCode: "guardia"}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("perform: %v", err)
	}

	if got, want := f.Balance(t, ada.ID, village.EnergyResource), 50.0; got != want {
		t.Fatalf("energia got=%v want=%v", got, want)
	}
	if got, want := f.Balance(t, ada.ID, "moneda"), 500.0; got != want {
		t.Fatalf("moneda got=%v want=%v", got, want)
	}
	if got, want := f.Citizen(t, "Ada").Energy, 50; got != want {
		t.Fatalf("citizen energy mirror got=%d want=%d", got, want)
	}
	if got, want := f.HistoryCount(t, ada.ID), calls; got != want {
		t.Fatalf("history entries got=%d want=%d", got, want)
	}
}
