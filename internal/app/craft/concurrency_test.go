package craft

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"soloville/internal/app/apptest"
	"soloville/internal/domain/village"
)

func TestCraft_ConcurrentCallsNeverOverspend(t *testing.T) {
	f := apptest.New(t)
	ada := f.AddCitizen(t, "Ada", map[string]float64{"madera": 10, village.EnergyResource: 10, "tabla": 0})
	uc := newUseCase(f)

	const calls = 15
	var wg sync.WaitGroup
	var ok, short atomic.Int32
	errs := make(chan error, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Craft(context.Background(), Request{CitizenName: "Ada", ProductCode: "tabla"})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, village.ErrInsufficientResources):
				short.Add(1)
			default:
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("craft: %v", err)
	}

	if got, want := ok.Load(), int32(10); got != want {
		t.Fatalf("successful crafts got=%d want=%d", got, want)
	}
	if got, want := short.Load(), int32(calls-10); got != want {
		t.Fatalf("rejected crafts got=%d want=%d", got, want)
	}
	if got := f.Balance(t, ada.ID, "madera"); got != 0 {
		t.Fatalf("madera got=%v want=0", got)
	}
	if got := f.Balance(t, ada.ID, village.EnergyResource); got != 0 {
		t.Fatalf("energia got=%v want=0", got)
	}
	if got, want := f.Balance(t, ada.ID, "tabla"), 50.0; got != want {
		t.Fatalf("tabla got=%v want=%v", got, want)
	}
	if got, want := f.HistoryCount(t, ada.ID), 10; got != want {
		t.Fatalf("history entries got=%d want=%d", got, want)
	}
}
