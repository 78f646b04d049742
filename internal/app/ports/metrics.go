package ports

type OperationMetrics interface {
	RecordSuccess(op string)
	RecordRejected(op string, reason string)
	RecordConflict(op string)
	RecordFailure(op string)
}
