package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/repositories/docmodels"
	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChangeRecordRepository struct {
	db *mongo.Database
}

func NewChangeRecordRepository(db *mongo.Database) *ChangeRecordRepository {
	return &ChangeRecordRepository{db: db}
}

func (repo *ChangeRecordRepository) collection() *mongo.Collection {
	return repo.db.Collection(docmodels.COLLECTION_CHANGE_RECORDS)
}

// EnsureIndexes creates the indexes backing the review queue and per requester history.
func (repo *ChangeRecordRepository) EnsureIndexes(ctx context.Context) error {
	_, err := repo.collection().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "priorityRank", Value: -1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "requestedBy", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "category", Value: 1}}},
	})
	return errors.Wrap(err, "error creating change record indexes")
}

func (repo *ChangeRecordRepository) CreateChangeRecord(ctx context.Context, input models.ChangeRecordToCreate) error {
	doc, err := docmodels.AdaptChangeRecordToCreate(input)
	if err != nil {
		return err
	}
	if _, err := repo.collection().InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrap(models.ConflictError, fmt.Sprintf("change record %s already exists", input.Id))
		}
		return errors.Wrap(err, "error inserting change record")
	}
	return nil
}

func (repo *ChangeRecordRepository) GetChangeRecord(ctx context.Context, id string) (models.ChangeRecord, error) {
	var doc docmodels.DocChangeRecord
	err := repo.collection().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ChangeRecord{}, errors.Wrap(models.NotFoundError, fmt.Sprintf("change record %s not found", id))
	}
	if err != nil {
		return models.ChangeRecord{}, errors.Wrap(err, "error reading change record")
	}
	return docmodels.AdaptChangeRecord(doc)
}

func changeRecordFilter(filters models.ChangeRecordFilters) bson.D {
	filter := bson.D{}
	switch {
	case filters.Status == "":
	case filters.AsOf.IsZero():
		filter = append(filter, bson.E{Key: "status", Value: string(filters.Status)})
	case filters.Status == models.ChangeStatusPending:
		filter = append(filter, pendingMatch(filters.AsOf)...)
	case filters.Status == models.ChangeStatusExpired:
		filter = append(filter,
			bson.E{Key: "status", Value: string(models.ChangeStatusPending)},
			bson.E{Key: "expiresAt", Value: bson.D{{Key: "$lte", Value: filters.AsOf}}},
		)
	default:
		filter = append(filter, bson.E{Key: "status", Value: string(filters.Status)})
	}
	if filters.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: filters.Category})
	}
	if filters.Priority != "" {
		filter = append(filter, bson.E{Key: "priority", Value: string(filters.Priority)})
	}
	if filters.RequestedBy != "" {
		filter = append(filter, bson.E{Key: "requestedBy", Value: filters.RequestedBy})
	}
	return filter
}

func changeRecordSort(filters models.ChangeRecordFilters) bson.D {
	if filters.SortByPriority {
		return bson.D{{Key: "priorityRank", Value: -1}, {Key: "createdAt", Value: -1}}
	}
	return bson.D{{Key: "createdAt", Value: -1}}
}

func (repo *ChangeRecordRepository) ListChangeRecords(
	ctx context.Context,
	filters models.ChangeRecordFilters,
	pagination models.Pagination,
) (models.Paginated[models.ChangeRecord], error) {
	pagination = pagination.Normalize()
	filter := changeRecordFilter(filters)

	total, err := repo.collection().CountDocuments(ctx, filter)
	if err != nil {
		return models.Paginated[models.ChangeRecord]{}, errors.Wrap(err, "error counting change records")
	}

	cursor, err := repo.collection().Find(ctx, filter, options.Find().
		SetSort(changeRecordSort(filters)).
		SetSkip(int64(pagination.Offset())).
		SetLimit(int64(pagination.Limit)))
	if err != nil {
		return models.Paginated[models.ChangeRecord]{}, errors.Wrap(err, "error listing change records")
	}

	var docs []docmodels.DocChangeRecord
	if err := cursor.All(ctx, &docs); err != nil {
		return models.Paginated[models.ChangeRecord]{}, errors.Wrap(err, "error decoding change records")
	}

	records := make([]models.ChangeRecord, 0, len(docs))
	for _, doc := range docs {
		record, err := docmodels.AdaptChangeRecord(doc)
		if err != nil {
			return models.Paginated[models.ChangeRecord]{}, err
		}
		records = append(records, record)
	}

	return models.Paginated[models.ChangeRecord]{
		Items:      records,
		Pagination: pagination,
		Total:      total,
	}, nil
}

// ReviewChangeRecord moves a record out of pending in a single conditional update. The
// update only matches a record that is still pending and unexpired at reviewedAt, so of
// two concurrent reviews at most one succeeds. Any miss is reported as not reviewable.
func (repo *ChangeRecordRepository) ReviewChangeRecord(ctx context.Context, review models.ChangeReview) (models.ChangeRecord, error) {
	filter := bson.D{
		{Key: "_id", Value: review.Id},
		{Key: "status", Value: string(models.ChangeStatusPending)},
		{Key: "expiresAt", Value: bson.D{{Key: "$gt", Value: review.ReviewedAt}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: string(review.Status)},
		{Key: "reviewedBy", Value: review.ReviewedBy},
		{Key: "reviewedByName", Value: review.ReviewedByName},
		{Key: "reviewComments", Value: review.Comments},
		{Key: "reviewedAt", Value: review.ReviewedAt},
		{Key: "updatedAt", Value: review.ReviewedAt},
	}}}

	var doc docmodels.DocChangeRecord
	err := repo.collection().
		FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ChangeRecord{}, errors.Wrap(models.ErrChangeNotReviewable, review.Id)
	}
	if err != nil {
		return models.ChangeRecord{}, errors.Wrap(err, "error reviewing change record")
	}
	return docmodels.AdaptChangeRecord(doc)
}

func (repo *ChangeRecordRepository) SetExecutionOutcome(ctx context.Context, id string, outcome models.ExecutionOutcome) error {
	result, err := repo.collection().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "executionOutcome", Value: docmodels.AdaptExecutionOutcome(outcome)},
			{Key: "updatedAt", Value: outcome.AttemptedAt},
		}}})
	if err != nil {
		return errors.Wrap(err, "error saving execution outcome")
	}
	if result.MatchedCount == 0 {
		return errors.Wrap(models.NotFoundError, fmt.Sprintf("change record %s not found", id))
	}
	return nil
}

type groupCount struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

func (repo *ChangeRecordRepository) countGroupedBy(ctx context.Context, match bson.D, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: "$" + field},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
	}}})

	cursor, err := repo.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrapf(err, "error counting change records by %s", field)
	}
	var groups []groupCount
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, errors.Wrapf(err, "error decoding change record counts by %s", field)
	}

	counts := make(map[string]int64, len(groups))
	for _, g := range groups {
		counts[g.Key] = g.Count
	}
	return counts, nil
}

func (repo *ChangeRecordRepository) CountByStatus(ctx context.Context) (map[models.ChangeStatus]int64, error) {
	counts, err := repo.countGroupedBy(ctx, nil, "status")
	if err != nil {
		return nil, err
	}
	out := make(map[models.ChangeStatus]int64, len(counts))
	for k, v := range counts {
		out[models.ChangeStatus(k)] = v
	}
	return out, nil
}

// CountPendingByCategory only counts records still awaiting review at now.
func (repo *ChangeRecordRepository) CountPendingByCategory(ctx context.Context, now time.Time) (map[string]int64, error) {
	return repo.countGroupedBy(ctx, pendingMatch(now), "category")
}

func (repo *ChangeRecordRepository) CountPendingByPriority(ctx context.Context, now time.Time) (map[models.ChangePriority]int64, error) {
	counts, err := repo.countGroupedBy(ctx, pendingMatch(now), "priority")
	if err != nil {
		return nil, err
	}
	out := make(map[models.ChangePriority]int64, len(counts))
	for k, v := range counts {
		out[models.ChangePriority(k)] = v
	}
	return out, nil
}

func pendingMatch(now time.Time) bson.D {
	return bson.D{
		{Key: "status", Value: string(models.ChangeStatusPending)},
		{Key: "expiresAt", Value: bson.D{{Key: "$gt", Value: now}}},
	}
}

// CountExpiredPending counts records still stored as pending whose review window has passed.
func (repo *ChangeRecordRepository) CountExpiredPending(ctx context.Context, now time.Time) (int64, error) {
	count, err := repo.collection().CountDocuments(ctx, bson.D{
		{Key: "status", Value: string(models.ChangeStatusPending)},
		{Key: "expiresAt", Value: bson.D{{Key: "$lte", Value: now}}},
	})
	return count, errors.Wrap(err, "error counting expired change records")
}
