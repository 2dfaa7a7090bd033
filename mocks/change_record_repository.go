package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/civicwaste/swm-backend/models"
)

type ChangeRecordRepository struct {
	mock.Mock
}

func (r *ChangeRecordRepository) CreateChangeRecord(ctx context.Context, input models.ChangeRecordToCreate) error {
	args := r.Called(ctx, input)
	return args.Error(0)
}

func (r *ChangeRecordRepository) GetChangeRecord(ctx context.Context, id string) (models.ChangeRecord, error) {
	args := r.Called(ctx, id)
	return args.Get(0).(models.ChangeRecord), args.Error(1)
}

func (r *ChangeRecordRepository) ListChangeRecords(
	ctx context.Context,
	filters models.ChangeRecordFilters,
	pagination models.Pagination,
) (models.Paginated[models.ChangeRecord], error) {
	args := r.Called(ctx, filters, pagination)
	return args.Get(0).(models.Paginated[models.ChangeRecord]), args.Error(1)
}

func (r *ChangeRecordRepository) ReviewChangeRecord(ctx context.Context, review models.ChangeReview) (models.ChangeRecord, error) {
	args := r.Called(ctx, review)
	return args.Get(0).(models.ChangeRecord), args.Error(1)
}

func (r *ChangeRecordRepository) SetExecutionOutcome(ctx context.Context, id string, outcome models.ExecutionOutcome) error {
	args := r.Called(ctx, id, outcome)
	return args.Error(0)
}

func (r *ChangeRecordRepository) CountByStatus(ctx context.Context) (map[models.ChangeStatus]int64, error) {
	args := r.Called(ctx)
	return args.Get(0).(map[models.ChangeStatus]int64), args.Error(1)
}

func (r *ChangeRecordRepository) CountPendingByCategory(ctx context.Context, now time.Time) (map[string]int64, error) {
	args := r.Called(ctx, now)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (r *ChangeRecordRepository) CountPendingByPriority(ctx context.Context, now time.Time) (map[models.ChangePriority]int64, error) {
	args := r.Called(ctx, now)
	return args.Get(0).(map[models.ChangePriority]int64), args.Error(1)
}

func (r *ChangeRecordRepository) CountExpiredPending(ctx context.Context, now time.Time) (int64, error) {
	args := r.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
