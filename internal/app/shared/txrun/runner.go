// Package txrun runs a use case body as one transaction, re-running the
// whole body when the store reports a conflicting concurrent update.
package txrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"soloville/internal/app/ports"
	"soloville/internal/domain/village"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const DefaultMaxRetries = 3

var rejections = []error{
	village.ErrInvalidRequest,
	village.ErrCitizenNotFound,
	village.ErrCitizenExists,
	village.ErrActionNotFound,
	village.ErrResourceNotFound,
	village.ErrToolNotFound,
	village.ErrProductNotFabricable,
	village.ErrInsufficientEnergy,
	village.ErrInsufficientResources,
	village.ErrDwellingMaxLevel,
	village.ErrInvalidPatch,
}

// Rejection returns the domain sentinel err matches, if any. Rejections are
// expected outcomes and are returned to callers unchanged.
func Rejection(err error) (error, bool) {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return r, true
		}
	}
	return nil, false
}

type Runner struct {
	TxManager  ports.TxManager
	Metrics    ports.OperationMetrics
	Logger     *slog.Logger
	Tracer     trace.Tracer
	MaxRetries int
}

func (r Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r Runner) tracer() trace.Tracer {
	if r.Tracer == nil {
		return noop.NewTracerProvider().Tracer("soloville")
	}
	return r.Tracer
}

// Run executes fn inside a transaction. ErrConflict triggers a bounded
// number of full re-executions. Errors that are neither rejections nor
// conflicts come back wrapped in *ports.StorageError.
func (r Runner) Run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, span := r.tracer().Start(ctx, op)
	defer span.End()

	retries := r.MaxRetries
	if retries < 0 {
		retries = 0
	}

	var err error
	attempt := 0
	for attempt <= retries {
		attempt++
		err = r.TxManager.RunInTx(ctx, fn)
		if err == nil || !errors.Is(err, ports.ErrConflict) || ctx.Err() != nil {
			break
		}
		r.logger().WarnContext(ctx, "transaction conflict", "op", op, "attempt", attempt, "err", err)
	}
	span.SetAttributes(attribute.Int("soloville.attempts", attempt))

	if err == nil {
		r.record(func(m ports.OperationMetrics) { m.RecordSuccess(op) })
		return nil
	}
	if reason, ok := Rejection(err); ok {
		span.SetAttributes(attribute.String("soloville.rejection", reason.Error()))
		r.record(func(m ports.OperationMetrics) { m.RecordRejected(op, reason.Error()) })
		return err
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if errors.Is(err, ports.ErrConflict) {
		r.record(func(m ports.OperationMetrics) { m.RecordConflict(op) })
		r.logger().ErrorContext(ctx, "transaction conflict retries exhausted", "op", op, "attempts", attempt, "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	r.record(func(m ports.OperationMetrics) { m.RecordFailure(op) })
	r.logger().ErrorContext(ctx, "operation failed", "op", op, "err", err)
	return &ports.StorageError{Op: op, Err: err}
}

func (r Runner) record(fn func(m ports.OperationMetrics)) {
	if r.Metrics != nil {
		fn(r.Metrics)
	}
}
