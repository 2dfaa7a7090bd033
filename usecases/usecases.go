package usecases

import (
	"time"

	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/repositories"
	"github.com/civicwaste/swm-backend/usecases/execution"
)

type Usecases struct {
	Repositories           repositories.Repositories
	changeRequestRetention time.Duration
}

type options struct {
	changeRequestRetention time.Duration
}

type Option func(*options)

func WithChangeRequestRetention(retention time.Duration) Option {
	return func(o *options) {
		if retention > 0 {
			o.changeRequestRetention = retention
		}
	}
}

func NewUsecases(repos repositories.Repositories, opts ...Option) Usecases {
	options := &options{changeRequestRetention: models.ChangeRequestRetention}
	for _, o := range opts {
		o(options)
	}

	return Usecases{
		Repositories:           repos,
		changeRequestRetention: options.changeRequestRetention,
	}
}

func (usecases *Usecases) NewExecutionEngine() *execution.Engine {
	return execution.NewEngine(
		usecases.Repositories.RelationalEntityRepository,
		usecases.Repositories.DocumentEntityRepository,
		usecases.Repositories.Clock,
	)
}

func (usecases *Usecases) NewLivenessUsecase() LivenessUsecase {
	return LivenessUsecase{
		livenessRepository: usecases.Repositories.LivenessRepository,
	}
}
