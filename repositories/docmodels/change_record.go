package docmodels

import (
	"time"

	"github.com/civicwaste/swm-backend/models"
	"go.mongodb.org/mongo-driver/bson"
)

const COLLECTION_CHANGE_RECORDS = "PendingChange"

type DocExecutionOutcome struct {
	Succeeded   bool      `bson:"succeeded"`
	Error       string    `bson:"error,omitempty"`
	AttemptedAt time.Time `bson:"attemptedAt"`
	AffectedId  string    `bson:"affectedId,omitempty"`
}

type DocChangeRecord struct {
	Id              string  `bson:"_id"`
	Operation       string  `bson:"operation"`
	TargetEntity    string  `bson:"targetEntity"`
	EntityType      string  `bson:"entityType"`
	TargetId        *string `bson:"targetId,omitempty"`
	Backend         string  `bson:"backend"`
	ProposedChanges bson.D  `bson:"proposedChanges,omitempty"`
	OriginalData    bson.D  `bson:"originalData,omitempty"`

	RequestedBy     string `bson:"requestedBy"`
	RequestedByName string `bson:"requestedByName"`

	Status         string     `bson:"status"`
	ReviewedBy     *string    `bson:"reviewedBy,omitempty"`
	ReviewedByName *string    `bson:"reviewedByName,omitempty"`
	ReviewedAt     *time.Time `bson:"reviewedAt,omitempty"`
	ReviewComments *string    `bson:"reviewComments,omitempty"`

	Priority     string `bson:"priority"`
	PriorityRank int    `bson:"priorityRank"`
	Category     string `bson:"category"`
	Description  string `bson:"description"`

	ExpiresAt        time.Time            `bson:"expiresAt"`
	ExecutionOutcome *DocExecutionOutcome `bson:"executionOutcome,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func AdaptChangeRecord(doc DocChangeRecord) (models.ChangeRecord, error) {
	proposed, err := DocumentToJson(doc.ProposedChanges)
	if err != nil {
		return models.ChangeRecord{}, err
	}
	original, err := DocumentToJson(doc.OriginalData)
	if err != nil {
		return models.ChangeRecord{}, err
	}

	record := models.ChangeRecord{
		Id:              doc.Id,
		Operation:       models.ChangeOperationFrom(doc.Operation),
		TargetEntity:    doc.TargetEntity,
		EntityType:      models.EntityType(doc.EntityType),
		TargetId:        doc.TargetId,
		Backend:         models.BackendFrom(doc.Backend),
		ProposedChanges: proposed,
		OriginalData:    original,
		RequestedBy:     doc.RequestedBy,
		RequestedByName: doc.RequestedByName,
		Status:          models.ChangeStatusFrom(doc.Status),
		ReviewedBy:      doc.ReviewedBy,
		ReviewedByName:  doc.ReviewedByName,
		ReviewComments:  doc.ReviewComments,
		Priority:        models.ChangePriorityFrom(doc.Priority),
		Category:        doc.Category,
		Description:     doc.Description,
		ExpiresAt:       doc.ExpiresAt.UTC(),
		CreatedAt:       doc.CreatedAt.UTC(),
		UpdatedAt:       doc.UpdatedAt.UTC(),
	}
	if doc.ReviewedAt != nil {
		reviewedAt := doc.ReviewedAt.UTC()
		record.ReviewedAt = &reviewedAt
	}
	if doc.ExecutionOutcome != nil {
		record.ExecutionOutcome = &models.ExecutionOutcome{
			Succeeded:   doc.ExecutionOutcome.Succeeded,
			Error:       doc.ExecutionOutcome.Error,
			AttemptedAt: doc.ExecutionOutcome.AttemptedAt.UTC(),
			AffectedId:  doc.ExecutionOutcome.AffectedId,
		}
	}
	return record, nil
}

func AdaptChangeRecordToCreate(input models.ChangeRecordToCreate) (DocChangeRecord, error) {
	proposed, err := JsonToDocument(input.ProposedChanges)
	if err != nil {
		return DocChangeRecord{}, err
	}
	original, err := JsonToDocument(input.OriginalData)
	if err != nil {
		return DocChangeRecord{}, err
	}

	return DocChangeRecord{
		Id:              input.Id,
		Operation:       string(input.Operation),
		TargetEntity:    input.TargetEntity,
		EntityType:      string(input.EntityType),
		TargetId:        input.TargetId,
		Backend:         input.Backend.String(),
		ProposedChanges: proposed,
		OriginalData:    original,
		RequestedBy:     input.RequestedBy,
		RequestedByName: input.RequestedByName,
		Status:          string(models.ChangeStatusPending),
		Priority:        string(input.Priority),
		PriorityRank:    input.Priority.Rank(),
		Category:        input.Category,
		Description:     input.Description,
		ExpiresAt:       input.ExpiresAt,
		CreatedAt:       input.CreatedAt,
		UpdatedAt:       input.CreatedAt,
	}, nil
}

func AdaptExecutionOutcome(outcome models.ExecutionOutcome) DocExecutionOutcome {
	return DocExecutionOutcome{
		Succeeded:   outcome.Succeeded,
		Error:       outcome.Error,
		AttemptedAt: outcome.AttemptedAt,
		AffectedId:  outcome.AffectedId,
	}
}
