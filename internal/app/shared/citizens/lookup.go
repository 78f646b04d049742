package citizens

import (
	"context"
	"errors"
	"strings"

	"soloville/internal/app/ports"
	"soloville/internal/domain/village"
)

// Lock resolves an active citizen by name and row-locks it for the rest of
// the transaction, serialising operations of the same citizen.
func Lock(ctx context.Context, repo ports.CitizenRepository, name string) (village.Citizen, error) {
	return resolve(repo.LockByName(ctx, strings.TrimSpace(name)))
}

func Get(ctx context.Context, repo ports.CitizenRepository, name string) (village.Citizen, error) {
	return resolve(repo.GetByName(ctx, strings.TrimSpace(name)))
}

func resolve(c village.Citizen, err error) (village.Citizen, error) {
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return village.Citizen{}, village.ErrCitizenNotFound
		}
		return village.Citizen{}, err
	}
	if !c.Active() {
		return village.Citizen{}, village.ErrCitizenNotFound
	}
	return c, nil
}
