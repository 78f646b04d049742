package inmemory

import "sync"

type OperationCounts struct {
	Success  uint64 `json:"success"`
	Rejected uint64 `json:"rejected"`
	Conflict uint64 `json:"conflict"`
	Failure  uint64 `json:"failure"`
}

type Snapshot struct {
	OperationTotal    uint64                     `json:"operation_total"`
	OperationSuccess  uint64                     `json:"operation_success"`
	OperationRejected uint64                     `json:"operation_rejected"`
	OperationConflict uint64                     `json:"operation_conflict"`
	OperationFailure  uint64                     `json:"operation_failure"`
	ByOperation       map[string]OperationCounts `json:"by_operation"`
	ByRejection       map[string]uint64          `json:"by_rejection"`
}

type Recorder struct {
	mu          sync.Mutex
	byOp        map[string]OperationCounts
	byRejection map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byOp:        map[string]OperationCounts{},
		byRejection: map[string]uint64{},
	}
}

func (r *Recorder) update(op string, fn func(c *OperationCounts)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.byOp[op]
	fn(&c)
	r.byOp[op] = c
}

func (r *Recorder) RecordSuccess(op string) {
	r.update(op, func(c *OperationCounts) { c.Success++ })
}

func (r *Recorder) RecordRejected(op string, reason string) {
	r.update(op, func(c *OperationCounts) { c.Rejected++ })
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byRejection[reason]++
}

func (r *Recorder) RecordConflict(op string) {
	r.update(op, func(c *OperationCounts) { c.Conflict++ })
}

func (r *Recorder) RecordFailure(op string) {
	r.update(op, func(c *OperationCounts) { c.Failure++ })
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ByOperation: make(map[string]OperationCounts, len(r.byOp)),
		ByRejection: make(map[string]uint64, len(r.byRejection)),
	}
	for op, c := range r.byOp {
		out.ByOperation[op] = c
		out.OperationSuccess += c.Success
		out.OperationRejected += c.Rejected
		out.OperationConflict += c.Conflict
		out.OperationFailure += c.Failure
	}
	out.OperationTotal = out.OperationSuccess + out.OperationRejected + out.OperationConflict + out.OperationFailure
	for k, v := range r.byRejection {
		out.ByRejection[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
