package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/civicwaste/swm-backend/models"
)

type ChangeExecutor struct {
	mock.Mock
}

func (e *ChangeExecutor) Apply(ctx context.Context, mutation models.Mutation) (string, error) {
	args := e.Called(ctx, mutation)
	return args.String(0), args.Error(1)
}

func (e *ChangeExecutor) Execute(ctx context.Context, record models.ChangeRecord) models.ExecutionOutcome {
	args := e.Called(ctx, record)
	return args.Get(0).(models.ExecutionOutcome)
}
