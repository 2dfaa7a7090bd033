package execution

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/repositories/clock"
	"github.com/civicwaste/swm-backend/utils"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// EntityStore writes to one storage backend. The relational and document repositories both
// implement it.
type EntityStore interface {
	InsertEntity(ctx context.Context, entity models.Entity, payload json.RawMessage) (string, error)
	UpdateEntity(ctx context.Context, entity models.Entity, id string, payload json.RawMessage) error
	DeleteEntity(ctx context.Context, entity models.Entity, id string) error
}

// Engine dispatches mutations to the store of their backend. The set of backends is closed
// and fixed at construction.
type Engine struct {
	stores map[models.Backend]EntityStore
	clock  clock.Clock
}

func NewEngine(relational, document EntityStore, clock clock.Clock) *Engine {
	return &Engine{
		stores: map[models.Backend]EntityStore{
			models.BackendRelational: relational,
			models.BackendDocument:   document,
		},
		clock: clock,
	}
}

// Apply runs a mutation and returns the id of the affected row or document.
func (e *Engine) Apply(ctx context.Context, mutation models.Mutation) (string, error) {
	store, ok := e.stores[mutation.Entity.Backend]
	if !ok || store == nil {
		return "", errors.Wrapf(models.ErrUnknownEntity, "no store for backend %s", mutation.Entity.Backend)
	}

	switch mutation.Operation {
	case models.OperationCreate:
		return store.InsertEntity(ctx, mutation.Entity, mutation.Payload)
	case models.OperationUpdate, models.OperationDelete:
		if mutation.TargetId == nil || *mutation.TargetId == "" {
			return "", models.ErrMissingTargetId
		}
		id := *mutation.TargetId
		if mutation.Operation == models.OperationUpdate {
			return id, store.UpdateEntity(ctx, mutation.Entity, id, mutation.Payload)
		}
		return id, store.DeleteEntity(ctx, mutation.Entity, id)
	}
	return "", errors.Wrapf(models.ErrInvalidOperation, "operation %q", mutation.Operation)
}

// MutationFromRecord rebuilds the mutation described by a change record. The record's
// persisted backend decides which store runs it.
func MutationFromRecord(record models.ChangeRecord) (models.Mutation, error) {
	entity, ok := models.FindEntity(record.TargetEntity)
	if !ok {
		entity, ok = models.FindEntity(string(record.EntityType))
	}
	if !ok {
		return models.Mutation{}, errors.Wrapf(models.ErrUnknownEntity, "target %q", record.TargetEntity)
	}
	if record.Backend != entity.Backend {
		return models.Mutation{}, errors.Wrapf(models.ErrUnknownEntity,
			"target %q is %s, record says %s", record.TargetEntity, entity.Backend, record.Backend)
	}

	return models.Mutation{
		Operation:    record.Operation,
		Entity:       entity,
		TargetId:     record.TargetId,
		Payload:      record.ProposedChanges,
		OriginalData: record.OriginalData,
	}, nil
}

// Execute replays an approved change exactly once. Failures, panics included, never escape:
// they are logged and reported in the returned outcome.
func (e *Engine) Execute(ctx context.Context, record models.ChangeRecord) (outcome models.ExecutionOutcome) {
	ctx, span := utils.StartSpan(ctx, "execution.Execute",
		attribute.String("change_request_id", record.Id),
		attribute.String("backend", record.Backend.String()),
		attribute.String("operation", string(record.Operation)),
	)
	defer span.End()
	logger := utils.LoggerFromContext(ctx).With(
		slog.String("change_request_id", record.Id),
		slog.String("target_entity", record.TargetEntity),
		slog.String("operation", string(record.Operation)),
	)

	outcome.AttemptedAt = e.clock.Now()

	defer func() {
		if r := recover(); r != nil {
			outcome.Succeeded = false
			outcome.Error = fmt.Sprintf("panic during execution: %v", r)
		}

		result := "success"
		if !outcome.Succeeded {
			result = "failure"
			span.SetStatus(codes.Error, outcome.Error)
			logger.ErrorContext(ctx, "approved change could not be applied", slog.String("error", outcome.Error))
			utils.ReportExecutionFailure(ctx, record.Id, record.TargetEntity, outcome.Error)
		} else {
			logger.InfoContext(ctx, "approved change applied", slog.String("affected_id", outcome.AffectedId))
		}
		utils.MetricChangeExecutions.WithLabelValues(record.Backend.String(), result).Inc()
	}()

	mutation, err := MutationFromRecord(record)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	id, err := e.Apply(ctx, mutation)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Succeeded = true
	outcome.AffectedId = id
	return outcome
}
