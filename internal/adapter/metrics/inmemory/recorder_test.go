package inmemory

import "testing"

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordSuccess("perform_action")
	r.RecordSuccess("craft")
	r.RecordRejected("craft", "insufficient resources")
	r.RecordConflict("perform_action")
	r.RecordFailure("upgrade_dwelling")

	s := r.Snapshot()
	if s.OperationTotal != 5 {
		t.Fatalf("expected total 5, got %d", s.OperationTotal)
	}
	if s.OperationSuccess != 2 {
		t.Fatalf("expected success 2, got %d", s.OperationSuccess)
	}
	if s.OperationRejected != 1 {
		t.Fatalf("expected rejected 1, got %d", s.OperationRejected)
	}
	if s.OperationConflict != 1 {
		t.Fatalf("expected conflict 1, got %d", s.OperationConflict)
	}
	if s.OperationFailure != 1 {
		t.Fatalf("expected failure 1, got %d", s.OperationFailure)
	}
	if got := s.ByOperation["craft"]; got.Success != 1 || got.Rejected != 1 {
		t.Fatalf("unexpected craft counts: %+v", got)
	}
	if s.ByRejection["insufficient resources"] != 1 {
		t.Fatalf("expected rejection reason count 1")
	}
}

func TestRecorderSnapshotIsDetached(t *testing.T) {
	r := NewRecorder()
	r.RecordSuccess("craft")
	s := r.Snapshot()
	r.RecordSuccess("craft")
	if s.ByOperation["craft"].Success != 1 {
		t.Fatalf("snapshot changed after further records")
	}
}
