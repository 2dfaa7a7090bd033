package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/civicwaste/swm-backend/models"
)

type EntityStore struct {
	mock.Mock
}

func (s *EntityStore) InsertEntity(ctx context.Context, entity models.Entity, payload json.RawMessage) (string, error) {
	args := s.Called(ctx, entity, payload)
	return args.String(0), args.Error(1)
}

func (s *EntityStore) UpdateEntity(ctx context.Context, entity models.Entity, id string, payload json.RawMessage) error {
	args := s.Called(ctx, entity, id, payload)
	return args.Error(0)
}

func (s *EntityStore) DeleteEntity(ctx context.Context, entity models.Entity, id string) error {
	args := s.Called(ctx, entity, id)
	return args.Error(0)
}

func (s *EntityStore) GetEntity(ctx context.Context, entity models.Entity, id string) (models.EntityRow, error) {
	args := s.Called(ctx, entity, id)
	return args.Get(0).(models.EntityRow), args.Error(1)
}

func (s *EntityStore) ListEntities(
	ctx context.Context,
	entity models.Entity,
	pagination models.Pagination,
) (models.Paginated[models.EntityRow], error) {
	args := s.Called(ctx, entity, pagination)
	return args.Get(0).(models.Paginated[models.EntityRow]), args.Error(1)
}
