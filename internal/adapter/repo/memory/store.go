package memory

import (
	"context"
	"sync"

	"soloville/internal/app/ports"
	"soloville/internal/domain/village"
)

type balanceKey struct {
	citizenID  int64
	resourceID int64
}

type ownershipKey struct {
	citizenID int64
	toolID    int64
}

type operationKey struct {
	citizenID int64
	key       string
}

type storeData struct {
	nextID        int64
	citizens      map[int64]village.Citizen
	citizenByName map[string]int64
	resources     map[string]village.Resource
	balances      map[int64]village.Balance
	balanceByKey  map[balanceKey]int64
	tools         map[string]village.Tool
	ownership     map[ownershipKey]bool
	actions       map[string]village.Action
	rules         map[int64][]village.ActionRule
	recipes       map[string]village.Recipe
	history       []village.HistoryEntry
	operations    map[operationKey]ports.OperationRecord
}

// Store keeps every table in process memory. Writes made inside
// TxManager.RunInTx are discarded when the callback fails.
type Store struct {
	mu   sync.RWMutex
	data storeData
}

func NewStore() *Store {
	return &Store{data: storeData{
		citizens:      make(map[int64]village.Citizen),
		citizenByName: make(map[string]int64),
		resources:     make(map[string]village.Resource),
		balances:      make(map[int64]village.Balance),
		balanceByKey:  make(map[balanceKey]int64),
		tools:         make(map[string]village.Tool),
		ownership:     make(map[ownershipKey]bool),
		actions:       make(map[string]village.Action),
		rules:         make(map[int64][]village.ActionRule),
		recipes:       make(map[string]village.Recipe),
		operations:    make(map[operationKey]ports.OperationRecord),
	}}
}

func (d *storeData) newID() int64 {
	d.nextID++
	return d.nextID
}

func (d storeData) clone() storeData {
	out := storeData{
		nextID:        d.nextID,
		citizens:      make(map[int64]village.Citizen, len(d.citizens)),
		citizenByName: make(map[string]int64, len(d.citizenByName)),
		resources:     make(map[string]village.Resource, len(d.resources)),
		balances:      make(map[int64]village.Balance, len(d.balances)),
		balanceByKey:  make(map[balanceKey]int64, len(d.balanceByKey)),
		tools:         make(map[string]village.Tool, len(d.tools)),
		ownership:     make(map[ownershipKey]bool, len(d.ownership)),
		actions:       make(map[string]village.Action, len(d.actions)),
		rules:         make(map[int64][]village.ActionRule, len(d.rules)),
		recipes:       make(map[string]village.Recipe, len(d.recipes)),
		history:       append([]village.HistoryEntry(nil), d.history...),
		operations:    make(map[operationKey]ports.OperationRecord, len(d.operations)),
	}
	for k, v := range d.citizens {
		out.citizens[k] = v
	}
	for k, v := range d.citizenByName {
		out.citizenByName[k] = v
	}
	for k, v := range d.resources {
		out.resources[k] = v
	}
	for k, v := range d.balances {
		out.balances[k] = v
	}
	for k, v := range d.balanceByKey {
		out.balanceByKey[k] = v
	}
	for k, v := range d.tools {
		out.tools[k] = v
	}
	for k, v := range d.ownership {
		out.ownership[k] = v
	}
	for k, v := range d.actions {
		out.actions[k] = v
	}
	for k, v := range d.rules {
		out.rules[k] = append([]village.ActionRule(nil), v...)
	}
	for k, v := range d.recipes {
		v.Ingredients = append([]village.Ingredient(nil), v.Ingredients...)
		out.recipes[k] = v
	}
	for k, v := range d.operations {
		out.operations[k] = v
	}
	return out
}

type txKeyType struct{}

var txKey = txKeyType{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey).(*Store)
	return owner == s
}

func (s *Store) read(ctx context.Context, fn func(d *storeData)) {
	if !s.inTx(ctx) {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn(&s.data)
}

func (s *Store) write(ctx context.Context, fn func(d *storeData) error) error {
	if !s.inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(&s.data)
}
