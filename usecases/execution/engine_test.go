package execution

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/civicwaste/swm-backend/mocks"
	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/repositories/clock"
)

var engineNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestEngine() (*Engine, *mocks.EntityStore, *mocks.EntityStore) {
	relational := new(mocks.EntityStore)
	document := new(mocks.EntityStore)
	return NewEngine(relational, document, clock.NewMock(engineNow)), relational, document
}

func mustEntity(t *testing.T, name string) models.Entity {
	t.Helper()
	e, ok := models.FindEntity(name)
	if !ok {
		t.Fatalf("unknown entity %s", name)
	}
	return e
}

func TestExecute_RelationalUpdate(t *testing.T) {
	engine, relational, document := newTestEngine()
	area := mustEntity(t, "area")
	targetId := "7"
	payload := json.RawMessage(`{"area_name": "South"}`)

	relational.On("UpdateEntity", mock.Anything, area, "7", payload).Return(nil).Once()

	outcome := engine.Execute(context.Background(), models.ChangeRecord{
		Id:              "cr-1",
		Operation:       models.OperationUpdate,
		TargetEntity:    "swm.area_details",
		TargetId:        &targetId,
		Backend:         models.BackendRelational,
		ProposedChanges: payload,
	})

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, "7", outcome.AffectedId)
	assert.Equal(t, engineNow, outcome.AttemptedAt)
	relational.AssertExpectations(t)
	document.AssertNotCalled(t, "UpdateEntity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_DocumentCreate(t *testing.T) {
	engine, relational, document := newTestEngine()
	house := mustEntity(t, "HouseDetails")
	payload := json.RawMessage(`{"owner": "Asha"}`)

	document.On("InsertEntity", mock.Anything, house, payload).Return("65f0c0ffee0000000000abcd", nil).Once()

	outcome := engine.Execute(context.Background(), models.ChangeRecord{
		Id:              "cr-2",
		Operation:       models.OperationCreate,
		TargetEntity:    "HouseDetails",
		Backend:         models.BackendDocument,
		ProposedChanges: payload,
	})

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, "65f0c0ffee0000000000abcd", outcome.AffectedId)
	document.AssertExpectations(t)
	relational.AssertExpectations(t)
}

func TestExecute_FailureIsCaptured(t *testing.T) {
	engine, relational, _ := newTestEngine()
	vehicle := mustEntity(t, "vehicle")
	targetId := "3"

	relational.On("DeleteEntity", mock.Anything, vehicle, "3").Return(models.NotFoundError).Once()

	outcome := engine.Execute(context.Background(), models.ChangeRecord{
		Id:           "cr-3",
		Operation:    models.OperationDelete,
		TargetEntity: "swm.vehicle_table",
		TargetId:     &targetId,
		Backend:      models.BackendRelational,
	})

	assert.False(t, outcome.Succeeded)
	assert.NotEmpty(t, outcome.Error)
	relational.AssertExpectations(t)
}

func TestExecute_PanicIsCaptured(t *testing.T) {
	engine, relational, _ := newTestEngine()
	zone := mustEntity(t, "zone")

	relational.On("InsertEntity", mock.Anything, zone, mock.Anything).
		Run(func(args mock.Arguments) { panic("connection reset") }).
		Return("", nil).Once()

	outcome := engine.Execute(context.Background(), models.ChangeRecord{
		Id:              "cr-4",
		Operation:       models.OperationCreate,
		TargetEntity:    "swm.zone_table",
		Backend:         models.BackendRelational,
		ProposedChanges: json.RawMessage(`{"zone_name": "East"}`),
	})

	assert.False(t, outcome.Succeeded)
	assert.Contains(t, outcome.Error, "connection reset")
}

func TestExecute_InconsistentBackend(t *testing.T) {
	engine, relational, document := newTestEngine()

	outcome := engine.Execute(context.Background(), models.ChangeRecord{
		Id:              "cr-5",
		Operation:       models.OperationCreate,
		TargetEntity:    "HouseDetails",
		Backend:         models.BackendRelational,
		ProposedChanges: json.RawMessage(`{"owner": "Asha"}`),
	})

	assert.False(t, outcome.Succeeded)
	relational.AssertExpectations(t)
	document.AssertExpectations(t)
}

func TestApply_MissingTargetId(t *testing.T) {
	engine, _, _ := newTestEngine()

	_, err := engine.Apply(context.Background(), models.Mutation{
		Operation: models.OperationUpdate,
		Entity:    mustEntity(t, "employee"),
		Payload:   json.RawMessage(`{"phone": "123"}`),
	})
	assert.ErrorIs(t, err, models.ErrMissingTargetId)
}

func TestApply_InvalidOperation(t *testing.T) {
	engine, _, _ := newTestEngine()

	_, err := engine.Apply(context.Background(), models.Mutation{
		Operation: "UPSERT",
		Entity:    mustEntity(t, "employee"),
	})
	assert.ErrorIs(t, err, models.ErrInvalidOperation)
}
