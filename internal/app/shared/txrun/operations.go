package txrun

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"soloville/internal/app/ports"
)

// Replay loads the stored outcome for (citizenID, key) into out. It reports
// false when the key is empty, the repository is nil or no record exists.
func Replay(ctx context.Context, repo ports.OperationRepository, citizenID int64, key string, out any) (bool, error) {
	if key == "" || repo == nil {
		return false, nil
	}
	rec, err := repo.GetByKey(ctx, citizenID, key)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(rec.Outcome, out); err != nil {
		return false, fmt.Errorf("decode stored outcome %s: %w", key, err)
	}
	return true, nil
}

// Remember stores outcome under (citizenID, key) in the current transaction.
func Remember(ctx context.Context, repo ports.OperationRepository, citizenID int64, key, kind, operationID string, outcome any, at time.Time) error {
	if key == "" || repo == nil {
		return nil
	}
	raw, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("encode outcome %s: %w", key, err)
	}
	return repo.Save(ctx, ports.OperationRecord{
		CitizenID:   citizenID,
		RequestKey:  key,
		Kind:        kind,
		OperationID: operationID,
		Outcome:     raw,
		AppliedAt:   at,
	})
}
