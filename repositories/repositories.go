package repositories

import (
	"github.com/civicwaste/swm-backend/repositories/clock"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

type Repositories struct {
	ExecutorGetter             ExecutorGetter
	RelationalEntityRepository *RelationalEntityRepository
	DocumentEntityRepository   *DocumentEntityRepository
	ChangeRecordRepository     *ChangeRecordRepository
	LivenessRepository         *LivenessRepository
	Clock                      clock.Clock
}

func NewRepositories(pool *pgxpool.Pool, mongoClient *mongo.Client, mongoDatabase string) Repositories {
	executorGetter := NewExecutorGetter(pool)
	db := mongoClient.Database(mongoDatabase)

	return Repositories{
		ExecutorGetter:             executorGetter,
		RelationalEntityRepository: NewRelationalEntityRepository(executorGetter),
		DocumentEntityRepository:   NewDocumentEntityRepository(db),
		ChangeRecordRepository:     NewChangeRecordRepository(db),
		LivenessRepository:         NewLivenessRepository(executorGetter, mongoClient),
		Clock:                      clock.New(),
	}
}
