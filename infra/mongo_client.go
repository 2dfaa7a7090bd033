package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func NewMongoClient(ctx context.Context, config MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(config.Uri).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("unable to create mongo client: %w", err)
	}

	err = retry.Do(
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return client.Ping(pingCtx, readpref.Primary())
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.LastErrorOnly(true),
		retry.Delay(2*time.Second),
	)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("unable to reach mongo: %w", err)
	}
	return client, nil
}
