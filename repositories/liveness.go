package repositories

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type LivenessRepository struct {
	executorGetter ExecutorGetter
	mongoClient    *mongo.Client
}

func NewLivenessRepository(executorGetter ExecutorGetter, mongoClient *mongo.Client) *LivenessRepository {
	return &LivenessRepository{executorGetter: executorGetter, mongoClient: mongoClient}
}

func (repo *LivenessRepository) PostgresLiveness(ctx context.Context) error {
	row := repo.executorGetter.GetExecutor().QueryRow(ctx, "SELECT 1")
	var result int
	if err := row.Scan(&result); err != nil {
		return errors.Wrap(err, "postgres is not reachable")
	}
	return nil
}

func (repo *LivenessRepository) MongoLiveness(ctx context.Context) error {
	if err := repo.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		return errors.Wrap(err, "mongo is not reachable")
	}
	return nil
}
