package usecases

import (
	"context"

	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/usecases/security"
	"github.com/cockroachdb/errors"
)

type EntityReader interface {
	GetEntity(ctx context.Context, entity models.Entity, id string) (models.EntityRow, error)
	ListEntities(ctx context.Context, entity models.Entity, pagination models.Pagination) (models.Paginated[models.EntityRow], error)
}

// EntityUsecase serves the plain CRUD routes. Writes reaching it have already been through
// the change request interception.
type EntityUsecase struct {
	enforceSecurity security.EnforceSecurityEntity
	readers         map[models.Backend]EntityReader
	executor        ChangeExecutor
}

func (usecase *EntityUsecase) reader(entity models.Entity) (EntityReader, error) {
	reader, ok := usecase.readers[entity.Backend]
	if !ok || reader == nil {
		return nil, errors.Wrapf(models.ErrUnknownEntity, "no store for %s", entity.Type)
	}
	return reader, nil
}

func (usecase *EntityUsecase) ListEntities(
	ctx context.Context,
	entity models.Entity,
	pagination models.Pagination,
) (models.Paginated[models.EntityRow], error) {
	if err := usecase.enforceSecurity.ReadEntity(); err != nil {
		return models.Paginated[models.EntityRow]{}, err
	}
	reader, err := usecase.reader(entity)
	if err != nil {
		return models.Paginated[models.EntityRow]{}, err
	}
	return reader.ListEntities(ctx, entity, pagination)
}

func (usecase *EntityUsecase) GetEntity(ctx context.Context, entity models.Entity, id string) (models.EntityRow, error) {
	if err := usecase.enforceSecurity.ReadEntity(); err != nil {
		return nil, err
	}
	reader, err := usecase.reader(entity)
	if err != nil {
		return nil, err
	}
	return reader.GetEntity(ctx, entity, id)
}

// ApplyMutation writes directly to the entity's backend and returns the affected id.
func (usecase *EntityUsecase) ApplyMutation(ctx context.Context, mutation models.Mutation) (string, error) {
	if err := usecase.enforceSecurity.WriteEntity(); err != nil {
		return "", err
	}
	if err := validateMutation(mutation); err != nil {
		return "", err
	}
	return usecase.executor.Apply(ctx, mutation)
}
