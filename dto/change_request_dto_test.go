package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicwaste/swm-backend/models"
)

func TestAdaptChangeRequestDto(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	record := models.ChangeRecord{
		Id:              "cr-1",
		Operation:       models.OperationCreate,
		TargetEntity:    "HouseDetails",
		EntityType:      models.EntityHouse,
		Backend:         models.BackendDocument,
		ProposedChanges: json.RawMessage(`{"owner":"Asha"}`),
		Status:          models.ChangeStatusPending,
		Priority:        models.PriorityMedium,
		ExpiresAt:       now.Add(-time.Minute),
		CreatedAt:       now.Add(-models.ChangeRequestRetention),
	}

	out := AdaptChangeRequestDto(record, now)
	assert.Equal(t, "pending", out.Status)
	assert.Equal(t, "expired", out.EffectiveStatus)
	assert.False(t, out.CanBeReviewed)
	assert.Equal(t, "DOCUMENT", out.Backend)
	assert.False(t, out.TargetId.Valid)
	assert.Nil(t, out.ExecutionOutcome)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"originalData":null`)
	assert.Contains(t, string(raw), `"reviewedAt":null`)
	assert.Contains(t, string(raw), `"proposedChanges":{"owner":"Asha"}`)
}

func TestAdaptPendingApproval(t *testing.T) {
	out := AdaptPendingApproval(models.InterceptionResult{
		Decision: models.InterceptionQueued,
		Record: &models.ChangeRecord{
			Id:         "cr-2",
			Operation:  models.OperationUpdate,
			EntityType: models.EntityArea,
			Priority:   models.PriorityMedium,
		},
		EstimatedApprovalTime: "24-48 hours",
	})

	assert.Equal(t, "cr-2", out.RequestId)
	assert.Equal(t, "pending_approval", out.Status)
	assert.Equal(t, PendingApprovalDetails{
		Operation:             "UPDATE",
		EntityType:            "area",
		EstimatedApprovalTime: "24-48 hours",
		Priority:              "medium",
	}, out.Details)
}

func TestAdaptChangeRequestStats(t *testing.T) {
	out := AdaptChangeRequestStats(models.ChangeRecordStats{
		ByStatus:          map[models.ChangeStatus]int64{models.ChangeStatusApproved: 4},
		PendingByCategory: map[string]int64{"fleet": 1},
	})

	assert.Equal(t, int64(4), out.ByStatus["approved"])
	assert.Equal(t, int64(0), out.ByStatus["pending"])
	assert.Equal(t, int64(0), out.PendingByPriority["urgent"])
	assert.Equal(t, int64(1), out.PendingByCategory["fleet"])
}
