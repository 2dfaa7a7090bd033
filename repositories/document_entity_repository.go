package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/pure_utils"
	"github.com/civicwaste/swm-backend/repositories/docmodels"
	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentEntityRepository applies generic mutations to document collections. Collections
// are resolved by model name from the entity catalog.
type DocumentEntityRepository struct {
	db *mongo.Database
}

func NewDocumentEntityRepository(db *mongo.Database) *DocumentEntityRepository {
	return &DocumentEntityRepository{db: db}
}

func (repo *DocumentEntityRepository) collection(entity models.Entity) (*mongo.Collection, error) {
	if entity.Backend != models.BackendDocument {
		return nil, errors.Wrapf(models.ErrUnknownEntity, "%s is not a document entity", entity.Type)
	}
	return repo.db.Collection(entity.Table), nil
}

func documentPayload(payload json.RawMessage) (bson.D, error) {
	doc, err := docmodels.JsonToDocument(payload)
	if err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, models.ErrEmptyChanges
	}
	return doc, nil
}

func withoutId(doc bson.D) bson.D {
	out := make(bson.D, 0, len(doc))
	for _, e := range doc {
		if e.Key != "_id" {
			out = append(out, e)
		}
	}
	return out
}

func (repo *DocumentEntityRepository) InsertEntity(ctx context.Context, entity models.Entity, payload json.RawMessage) (string, error) {
	coll, err := repo.collection(entity)
	if err != nil {
		return "", err
	}
	doc, err := documentPayload(payload)
	if err != nil {
		return "", err
	}

	result, err := coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", errors.Wrap(models.ConflictError, err.Error())
		}
		return "", errors.Wrapf(err, "error inserting into %s", entity.Table)
	}
	return docmodels.IdString(result.InsertedID), nil
}

func (repo *DocumentEntityRepository) UpdateEntity(ctx context.Context, entity models.Entity, id string, payload json.RawMessage) error {
	coll, err := repo.collection(entity)
	if err != nil {
		return err
	}
	doc, err := documentPayload(payload)
	if err != nil {
		return err
	}
	doc = withoutId(doc)
	if len(doc) == 0 {
		return models.ErrEmptyChanges
	}

	result, err := coll.UpdateOne(ctx, docmodels.IdFilter(id), bson.D{{Key: "$set", Value: doc}})
	if err != nil {
		return errors.Wrapf(err, "error updating %s %s", entity.Table, id)
	}
	if result.MatchedCount == 0 {
		return errors.Wrapf(models.NotFoundError, "no %s with id %s", entity.Type, id)
	}
	return nil
}

func (repo *DocumentEntityRepository) DeleteEntity(ctx context.Context, entity models.Entity, id string) error {
	coll, err := repo.collection(entity)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, docmodels.IdFilter(id))
	if err != nil {
		return errors.Wrapf(err, "error deleting %s %s", entity.Table, id)
	}
	if result.DeletedCount == 0 {
		return errors.Wrapf(models.NotFoundError, "no %s with id %s", entity.Type, id)
	}
	return nil
}

func (repo *DocumentEntityRepository) GetEntity(ctx context.Context, entity models.Entity, id string) (models.EntityRow, error) {
	coll, err := repo.collection(entity)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	err = coll.FindOne(ctx, docmodels.IdFilter(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Wrap(models.NotFoundError, fmt.Sprintf("no %s with id %s", entity.Type, id))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s %s", entity.Table, id)
	}
	return docmodels.AdaptEntityDocument(doc)
}

func (repo *DocumentEntityRepository) ListEntities(
	ctx context.Context,
	entity models.Entity,
	pagination models.Pagination,
) (models.Paginated[models.EntityRow], error) {
	pagination = pagination.Normalize()
	coll, err := repo.collection(entity)
	if err != nil {
		return models.Paginated[models.EntityRow]{}, err
	}

	total, err := coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return models.Paginated[models.EntityRow]{}, errors.Wrapf(err, "error counting %s", entity.Table)
	}

	cursor, err := coll.Find(ctx, bson.D{}, options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(pagination.Offset())).
		SetLimit(int64(pagination.Limit)))
	if err != nil {
		return models.Paginated[models.EntityRow]{}, errors.Wrapf(err, "error listing %s", entity.Table)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return models.Paginated[models.EntityRow]{}, errors.Wrapf(err, "error decoding %s", entity.Table)
	}

	rows, err := pure_utils.MapErr(docs, docmodels.AdaptEntityDocument)
	if err != nil {
		return models.Paginated[models.EntityRow]{}, err
	}

	return models.Paginated[models.EntityRow]{
		Items:      rows,
		Pagination: pagination,
		Total:      total,
	}, nil
}
