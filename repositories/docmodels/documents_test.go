package docmodels

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/civicwaste/swm-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJsonToDocument(t *testing.T) {
	doc, err := JsonToDocument(json.RawMessage(`{"owner": "Asha", "members": 4, "address": {"ward": 12}}`))
	require.NoError(t, err)
	assert.Equal(t, "owner", doc[0].Key)
	assert.Equal(t, "members", doc[1].Key)

	back, err := DocumentToJson(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner": "Asha", "members": 4, "address": {"ward": 12}}`, string(back))

	empty, err := JsonToDocument(nil)
	assert.NoError(t, err)
	assert.Nil(t, empty)

	_, err = JsonToDocument(json.RawMessage(`[1, 2]`))
	assert.ErrorIs(t, err, models.BadParameterError)
}

func TestIdFilter(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, bson.D{{Key: "_id", Value: oid}}, IdFilter(oid.Hex()))
	assert.Equal(t, bson.D{{Key: "_id", Value: "house-17"}}, IdFilter("house-17"))
}

func TestIdString(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid.Hex(), IdString(oid))
	assert.Equal(t, "abc", IdString("abc"))
	assert.Equal(t, "42", IdString(int32(42)))
	assert.Equal(t, "", IdString(nil))
}

func TestAdaptEntityDocument(t *testing.T) {
	oid := primitive.NewObjectID()
	row, err := AdaptEntityDocument(bson.M{"_id": oid, "owner": "Asha"})
	require.NoError(t, err)
	assert.Equal(t, oid.Hex(), row["_id"])
	assert.Equal(t, "Asha", row["owner"])
}

func TestAdaptChangeRecord(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	targetId := "7"
	input := models.ChangeRecordToCreate{
		Id:              "5a4c3b2a-0000-4000-8000-000000000001",
		Operation:       models.OperationUpdate,
		TargetEntity:    "swm.area_details",
		EntityType:      models.EntityArea,
		TargetId:        &targetId,
		Backend:         models.BackendRelational,
		ProposedChanges: json.RawMessage(`{"area_name": "South"}`),
		RequestedBy:     "manager-1",
		RequestedByName: "Meera",
		Priority:        models.PriorityUrgent,
		Category:        "administrative",
		Description:     "Update Area #7",
		CreatedAt:       now,
		ExpiresAt:       now.Add(models.ChangeRequestRetention),
	}

	doc, err := AdaptChangeRecordToCreate(input)
	require.NoError(t, err)
	assert.Equal(t, 4, doc.PriorityRank)
	assert.Equal(t, "pending", doc.Status)
	assert.Equal(t, "RELATIONAL", doc.Backend)

	record, err := AdaptChangeRecord(doc)
	require.NoError(t, err)
	assert.Equal(t, models.ChangeStatusPending, record.Status)
	assert.Equal(t, models.BackendRelational, record.Backend)
	assert.Equal(t, models.OperationUpdate, record.Operation)
	assert.JSONEq(t, `{"area_name": "South"}`, string(record.ProposedChanges))
	assert.Nil(t, record.OriginalData)
	assert.Equal(t, now, record.CreatedAt)
}
