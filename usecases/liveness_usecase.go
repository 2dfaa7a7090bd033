package usecases

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

type livenessRepository interface {
	PostgresLiveness(ctx context.Context) error
	MongoLiveness(ctx context.Context) error
}

type LivenessUsecase struct {
	livenessRepository livenessRepository
}

// Liveness checks that both storage backends answer.
func (usecase LivenessUsecase) Liveness(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return usecase.livenessRepository.PostgresLiveness(ctx) })
	group.Go(func() error { return usecase.livenessRepository.MongoLiveness(ctx) })
	return errors.Wrap(group.Wait(), "liveness check failed")
}
