package usecases

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/repositories/clock"
	"github.com/civicwaste/swm-backend/usecases/classification"
	"github.com/civicwaste/swm-backend/usecases/security"
	"github.com/civicwaste/swm-backend/utils"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

type ChangeRecordRepository interface {
	CreateChangeRecord(ctx context.Context, input models.ChangeRecordToCreate) error
	GetChangeRecord(ctx context.Context, id string) (models.ChangeRecord, error)
	ListChangeRecords(ctx context.Context, filters models.ChangeRecordFilters,
		pagination models.Pagination) (models.Paginated[models.ChangeRecord], error)
	ReviewChangeRecord(ctx context.Context, review models.ChangeReview) (models.ChangeRecord, error)
	SetExecutionOutcome(ctx context.Context, id string, outcome models.ExecutionOutcome) error
	CountByStatus(ctx context.Context) (map[models.ChangeStatus]int64, error)
	CountPendingByCategory(ctx context.Context, now time.Time) (map[string]int64, error)
	CountPendingByPriority(ctx context.Context, now time.Time) (map[models.ChangePriority]int64, error)
	CountExpiredPending(ctx context.Context, now time.Time) (int64, error)
}

type ChangeExecutor interface {
	Apply(ctx context.Context, mutation models.Mutation) (string, error)
	Execute(ctx context.Context, record models.ChangeRecord) models.ExecutionOutcome
}

type ChangeRequestUsecase struct {
	enforceSecurity security.EnforceSecurityChangeRequest
	repository      ChangeRecordRepository
	executor        ChangeExecutor
	clock           clock.Clock
	credentials     models.Credentials
	retention       time.Duration
}

// InterceptMutation decides what happens to a mutation before it reaches its backend.
// Managers get a pending change record instead of the mutation. Admin creations are
// flagged for direct execution. Everything else, and any replay of an approved change,
// passes through.
func (usecase *ChangeRequestUsecase) InterceptMutation(
	ctx context.Context,
	execCtx models.ExecutionContext,
	mutation models.Mutation,
) (models.InterceptionResult, error) {
	if execCtx.BypassApproval || !mutation.Operation.IsValid() {
		return models.InterceptionResult{Decision: models.InterceptionPassThrough}, nil
	}

	switch execCtx.Credentials.Role {
	case models.ADMIN:
		if mutation.Operation == models.OperationCreate {
			return models.InterceptionResult{Decision: models.InterceptionDirectExecution}, nil
		}
		return models.InterceptionResult{Decision: models.InterceptionPassThrough}, nil
	case models.MANAGER:
		record, err := usecase.queueChange(ctx, execCtx.Credentials, mutation)
		if err != nil {
			return models.InterceptionResult{}, err
		}
		return models.InterceptionResult{
			Decision:              models.InterceptionQueued,
			Record:                &record,
			EstimatedApprovalTime: classification.EstimatedReviewWindow(record.Priority),
		}, nil
	}
	return models.InterceptionResult{Decision: models.InterceptionPassThrough}, nil
}

// SubmitChangeRequest records a change explicitly. Admins creating a new entity skip the
// review and the change is applied at once.
func (usecase *ChangeRequestUsecase) SubmitChangeRequest(
	ctx context.Context,
	input models.ChangeRequestInput,
) (models.InterceptionResult, error) {
	if err := usecase.enforceSecurity.SubmitChangeRequest(); err != nil {
		return models.InterceptionResult{}, err
	}

	operation := models.ChangeOperationFrom(string(input.Operation))
	if !operation.IsValid() {
		return models.InterceptionResult{}, errors.Wrapf(models.ErrInvalidOperation, "operation %q", input.Operation)
	}
	entity, ok := models.FindEntity(input.Entity)
	if !ok {
		return models.InterceptionResult{}, errors.Wrapf(models.ErrUnknownEntity, "entity %q", input.Entity)
	}
	targetId := input.TargetId
	if operation == models.OperationCreate {
		// the row or document does not exist yet, the id comes from the store
		targetId = nil
	}
	mutation := models.Mutation{
		Operation:    operation,
		Entity:       entity,
		TargetId:     targetId,
		Payload:      input.ProposedChanges,
		OriginalData: input.OriginalData,
	}

	if usecase.credentials.Role == models.ADMIN && operation == models.OperationCreate {
		if err := validateMutation(mutation); err != nil {
			return models.InterceptionResult{}, err
		}
		id, err := usecase.executor.Apply(ctx, mutation)
		if err != nil {
			return models.InterceptionResult{}, err
		}
		utils.LoggerFromContext(ctx).InfoContext(ctx, "change applied without review",
			slog.String("entity", string(entity.Type)),
			slog.String("affected_id", id),
		)
		return models.InterceptionResult{Decision: models.InterceptionDirectExecution, AffectedId: id}, nil
	}

	record, err := usecase.queueChange(ctx, usecase.credentials, mutation)
	if err != nil {
		return models.InterceptionResult{}, err
	}
	return models.InterceptionResult{
		Decision:              models.InterceptionQueued,
		Record:                &record,
		EstimatedApprovalTime: classification.EstimatedReviewWindow(record.Priority),
	}, nil
}

func isJsonObject(raw json.RawMessage) bool {
	return gjson.ValidBytes(raw) && gjson.ParseBytes(raw).IsObject()
}

func isEmptyJson(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func validateMutation(mutation models.Mutation) error {
	if !mutation.Operation.IsValid() {
		return errors.Wrapf(models.ErrInvalidOperation, "operation %q", mutation.Operation)
	}
	if mutation.Operation.RequiresTargetId() && (mutation.TargetId == nil || *mutation.TargetId == "") {
		return models.ErrMissingTargetId
	}
	if mutation.Operation != models.OperationDelete {
		if !isJsonObject(mutation.Payload) {
			return errors.Wrap(models.BadParameterError, "proposed changes must be a JSON object")
		}
		if len(gjson.ParseBytes(mutation.Payload).Map()) == 0 {
			return models.ErrEmptyChanges
		}
	}
	if !isEmptyJson(mutation.OriginalData) && !isJsonObject(mutation.OriginalData) {
		return errors.Wrap(models.BadParameterError, "original data must be a JSON object")
	}
	return nil
}

func (usecase *ChangeRequestUsecase) queueChange(
	ctx context.Context,
	creds models.Credentials,
	mutation models.Mutation,
) (models.ChangeRecord, error) {
	if err := validateMutation(mutation); err != nil {
		return models.ChangeRecord{}, err
	}

	payload := mutation.Payload
	if mutation.Operation == models.OperationDelete && !isJsonObject(payload) {
		payload = nil
	}
	originalData := mutation.OriginalData
	if isEmptyJson(originalData) {
		originalData = nil
	}

	target := mutation.Entity.Target()
	now := usecase.clock.Now()
	priority := classification.ClassifyPriority(mutation.Operation, target, payload)
	input := models.ChangeRecordToCreate{
		Id:              uuid.NewString(),
		Operation:       mutation.Operation,
		TargetEntity:    target,
		EntityType:      mutation.Entity.Type,
		TargetId:        mutation.TargetId,
		Backend:         classification.ClassifyBackend(target),
		ProposedChanges: payload,
		OriginalData:    originalData,
		RequestedBy:     creds.ActorIdentity.UserId,
		RequestedByName: creds.DisplayName(),
		Priority:        priority,
		Category:        classification.ClassifyCategory(target),
		Description:     classification.Describe(mutation.Operation, target, mutation.TargetId),
		CreatedAt:       now,
		ExpiresAt:       now.Add(usecase.retention),
	}

	if err := usecase.repository.CreateChangeRecord(ctx, input); err != nil {
		return models.ChangeRecord{}, errors.Wrap(err, "error persisting change request")
	}

	utils.MetricChangeRequestsCreated.
		WithLabelValues(string(input.EntityType), string(input.Operation), string(input.Priority)).
		Inc()
	utils.LoggerFromContext(ctx).InfoContext(ctx, "change request queued for approval",
		slog.String("change_request_id", input.Id),
		slog.String("target_entity", input.TargetEntity),
		slog.String("operation", string(input.Operation)),
		slog.String("priority", string(input.Priority)),
	)

	return models.ChangeRecord{
		Id:              input.Id,
		Operation:       input.Operation,
		TargetEntity:    input.TargetEntity,
		EntityType:      input.EntityType,
		TargetId:        input.TargetId,
		Backend:         input.Backend,
		ProposedChanges: input.ProposedChanges,
		OriginalData:    input.OriginalData,
		RequestedBy:     input.RequestedBy,
		RequestedByName: input.RequestedByName,
		Status:          models.ChangeStatusPending,
		Priority:        input.Priority,
		Category:        input.Category,
		Description:     input.Description,
		ExpiresAt:       input.ExpiresAt,
		CreatedAt:       input.CreatedAt,
		UpdatedAt:       input.CreatedAt,
	}, nil
}

func (usecase *ChangeRequestUsecase) ListPendingChanges(
	ctx context.Context,
	filters models.ChangeRecordFilters,
	pagination models.Pagination,
) (models.Paginated[models.ChangeRecord], error) {
	if err := usecase.enforceSecurity.ListPendingChanges(); err != nil {
		return models.Paginated[models.ChangeRecord]{}, err
	}

	filters.Status = models.ChangeStatusPending
	filters.RequestedBy = ""
	filters.AsOf = usecase.clock.Now()
	filters.SortByPriority = true
	return usecase.repository.ListChangeRecords(ctx, filters, pagination)
}

func (usecase *ChangeRequestUsecase) ListOwnRequests(
	ctx context.Context,
	status models.ChangeStatus,
	pagination models.Pagination,
) (models.Paginated[models.ChangeRecord], error) {
	if err := usecase.enforceSecurity.ListOwnRequests(); err != nil {
		return models.Paginated[models.ChangeRecord]{}, err
	}

	return usecase.repository.ListChangeRecords(ctx, models.ChangeRecordFilters{
		Status:      status,
		RequestedBy: usecase.credentials.ActorIdentity.UserId,
		AsOf:        usecase.clock.Now(),
	}, pagination)
}

func (usecase *ChangeRequestUsecase) GetChangeRequest(ctx context.Context, id string) (models.ChangeRecord, error) {
	record, err := usecase.repository.GetChangeRecord(ctx, id)
	if err != nil {
		return models.ChangeRecord{}, err
	}
	if err := usecase.enforceSecurity.ReadChangeRequest(record); err != nil {
		return models.ChangeRecord{}, err
	}
	return record, nil
}

func (usecase *ChangeRequestUsecase) review(
	ctx context.Context,
	id string,
	decision models.ChangeStatus,
	comments string,
) (models.ChangeRecord, error) {
	if err := usecase.enforceSecurity.ReviewChangeRequest(); err != nil {
		return models.ChangeRecord{}, err
	}

	now := usecase.clock.Now()
	record, err := usecase.repository.GetChangeRecord(ctx, id)
	if err != nil {
		return models.ChangeRecord{}, err
	}
	if !record.CanBeReviewed(now) {
		return models.ChangeRecord{}, errors.Wrapf(models.ErrChangeNotReviewable,
			"change request %s is %s", id, record.EffectiveStatus(now))
	}

	reviewed, err := usecase.repository.ReviewChangeRecord(ctx, models.ChangeReview{
		Id:             id,
		Status:         decision,
		ReviewedBy:     usecase.credentials.ActorIdentity.UserId,
		ReviewedByName: usecase.credentials.DisplayName(),
		Comments:       comments,
		ReviewedAt:     now,
	})
	if err != nil {
		return models.ChangeRecord{}, err
	}

	utils.MetricChangeRequestsReviewed.WithLabelValues(string(decision)).Inc()
	utils.LoggerFromContext(ctx).InfoContext(ctx, "change request reviewed",
		slog.String("change_request_id", id),
		slog.String("decision", string(decision)),
		slog.String("reviewed_by", usecase.credentials.ActorIdentity.UserId),
	)
	return reviewed, nil
}

// ApproveChange approves a pending change and applies it exactly once. The approval stands
// even when applying the change fails: the outcome is recorded on the change request.
func (usecase *ChangeRequestUsecase) ApproveChange(ctx context.Context, id, comments string) (models.ChangeRecord, error) {
	record, err := usecase.review(ctx, id, models.ChangeStatusApproved, comments)
	if err != nil {
		return models.ChangeRecord{}, err
	}

	// the approval is already persisted, a cancelled request must not cut the execution short
	execCtx := context.WithoutCancel(ctx)
	outcome := usecase.executor.Execute(execCtx, record)
	record.ExecutionOutcome = &outcome
	record.UpdatedAt = outcome.AttemptedAt

	if err := usecase.repository.SetExecutionOutcome(execCtx, record.Id, outcome); err != nil {
		utils.LogAndReportSentryError(execCtx, errors.Wrapf(err,
			"could not record execution outcome of change request %s", record.Id))
	}
	return record, nil
}

func (usecase *ChangeRequestUsecase) RejectChange(ctx context.Context, id, comments string) (models.ChangeRecord, error) {
	return usecase.review(ctx, id, models.ChangeStatusRejected, comments)
}

func (usecase *ChangeRequestUsecase) GetStatistics(ctx context.Context) (models.ChangeRecordStats, error) {
	if err := usecase.enforceSecurity.ReadStatistics(); err != nil {
		return models.ChangeRecordStats{}, err
	}

	now := usecase.clock.Now()
	var (
		stats   models.ChangeRecordStats
		expired int64
	)
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		stats.ByStatus, err = usecase.repository.CountByStatus(ctx)
		return err
	})
	group.Go(func() (err error) {
		stats.PendingByCategory, err = usecase.repository.CountPendingByCategory(ctx, now)
		return err
	})
	group.Go(func() (err error) {
		stats.PendingByPriority, err = usecase.repository.CountPendingByPriority(ctx, now)
		return err
	})
	group.Go(func() (err error) {
		expired, err = usecase.repository.CountExpiredPending(ctx, now)
		return err
	})
	if err := group.Wait(); err != nil {
		return models.ChangeRecordStats{}, err
	}

	if stats.ByStatus == nil {
		stats.ByStatus = make(map[models.ChangeStatus]int64)
	}
	// expiry is never persisted, stored pending counts include expired records
	if expired > 0 {
		stats.ByStatus[models.ChangeStatusPending] -= expired
		stats.ByStatus[models.ChangeStatusExpired] += expired
	}
	return stats, nil
}
