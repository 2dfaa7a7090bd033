package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/repositories"
	"github.com/civicwaste/swm-backend/repositories/clock"
	"github.com/civicwaste/swm-backend/repositories/docmodels"
	"github.com/civicwaste/swm-backend/usecases"
	"github.com/civicwaste/swm-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const (
	testSigningKey = "test-signing-key"
	changeRecordNs = "swm.PendingChange"
	testChangeId   = "0b7c2f9e-3d0a-4c55-9a51-3a1f8e2b6c10"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

var (
	adminCreds = models.Credentials{
		Role:          models.ADMIN,
		ActorIdentity: models.Identity{UserId: "admin-1", Username: "root", Name: "Asha Admin"},
	}
	managerCreds = models.Credentials{
		Role:          models.MANAGER,
		ActorIdentity: models.Identity{UserId: "manager-1", Username: "meera", Name: "Meera Manager"},
	}
	viewerCreds = models.Credentials{
		Role:          models.VIEWER,
		ActorIdentity: models.Identity{UserId: "viewer-1", Username: "vik"},
	}
)

type pgExecutorGetter struct {
	exec repositories.Executor
}

func (g pgExecutorGetter) GetExecutor() repositories.Executor {
	return g.exec
}

type testApi struct {
	router *gin.Engine
	pg     pgxmock.PgxPoolIface
	jwt    *repositories.JwtRepository
}

func newTestApi(t *testing.T, mt *mtest.T) testApi {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pg, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	repos := repositories.Repositories{
		RelationalEntityRepository: repositories.NewRelationalEntityRepository(pgExecutorGetter{exec: pg}),
		DocumentEntityRepository:   repositories.NewDocumentEntityRepository(mt.DB),
		ChangeRecordRepository:     repositories.NewChangeRecordRepository(mt.DB),
		Clock:                      clock.NewMock(testNow),
	}
	jwtRepo := repositories.NewJwtRepository(testSigningKey)

	router := gin.New()
	addRoutes(router, Configuration{
		DefaultTimeout: 5 * time.Second,
		MaxBodySize:    DEFAULT_MAX_BODY_SIZE,
	}, usecases.NewUsecases(repos), utils.NewAuthentication(jwtRepo))

	return testApi{router: router, pg: pg, jwt: jwtRepo}
}

func (a testApi) do(t *testing.T, method, path string, creds *models.Credentials, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if creds != nil {
		token, err := a.jwt.EncodeToken(time.Now().Add(time.Hour), *creds)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// areaChangeDoc is the stored form of a manager's "PUT /areas/7" change request
func areaChangeDoc(t *testing.T, status models.ChangeStatus) bson.D {
	t.Helper()
	targetId := "7"
	doc, err := docmodels.AdaptChangeRecordToCreate(models.ChangeRecordToCreate{
		Id:              testChangeId,
		Operation:       models.OperationUpdate,
		TargetEntity:    "swm.area_details",
		EntityType:      models.EntityArea,
		TargetId:        &targetId,
		Backend:         models.BackendRelational,
		ProposedChanges: json.RawMessage(`{"Area_Name": "Sector 9"}`),
		RequestedBy:     managerCreds.ActorIdentity.UserId,
		RequestedByName: managerCreds.DisplayName(),
		Priority:        models.PriorityMedium,
		Category:        "administrative",
		Description:     "Update Area #7",
		CreatedAt:       testNow.Add(-time.Hour),
		ExpiresAt:       testNow.Add(-time.Hour).Add(models.ChangeRequestRetention),
	})
	require.NoError(t, err)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var out bson.D
	require.NoError(t, bson.Unmarshal(raw, &out))
	for i, e := range out {
		if e.Key == "status" {
			out[i].Value = string(status)
		}
	}
	return out
}

func TestChangeRequestFlow(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("manager update is queued", func(mt *mtest.T) {
		api := newTestApi(t, mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		w := api.do(t, http.MethodPut, "/areas/7", &managerCreds, `{"Area_Name": "Sector 9"}`)

		require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
		body := decodeBody(t, w)
		assert.Equal(t, "pending_approval", body["status"])
		details := body["details"].(map[string]any)
		assert.Equal(t, "UPDATE", details["operation"])
		assert.Equal(t, "area", details["entityType"])
		assert.Equal(t, "medium", details["priority"])
		assert.Equal(t, "24-48 hours", details["estimatedApprovalTime"])

		inserted := mt.GetStartedEvent().Command
		assert.Equal(t, body["request_id"], inserted.Lookup("documents", "0", "_id").StringValue())
		assert.Equal(t, "pending", inserted.Lookup("documents", "0", "status").StringValue())
		assert.Equal(t, "RELATIONAL", inserted.Lookup("documents", "0", "backend").StringValue())
		assert.Equal(t, "swm.area_details", inserted.Lookup("documents", "0", "targetEntity").StringValue())

		// nothing reached the relational store
		assert.NoError(t, api.pg.ExpectationsWereMet())
	})

	mt.Run("admin approval applies the change", func(mt *mtest.T) {
		api := newTestApi(t, mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, changeRecordNs, mtest.FirstBatch, areaChangeDoc(t, models.ChangeStatusPending)),
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: areaChangeDoc(t, models.ChangeStatusApproved)}},
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)
		api.pg.ExpectExec(regexp.QuoteMeta(`UPDATE "swm"."area_details" SET "area_name" = $1 WHERE "id" = $2`)).
			WithArgs("Sector 9", "7").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		w := api.do(t, http.MethodPost, "/pending-changes/"+testChangeId+"/approve", &adminCreds,
			`{"comments": "looks right"}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decodeBody(t, w)
		assert.Equal(t, "Change approved", body["message"])
		change := body["change"].(map[string]any)
		assert.Equal(t, "approved", change["status"])
		outcome := change["executionOutcome"].(map[string]any)
		assert.Equal(t, true, outcome["succeeded"])
		assert.Equal(t, "7", outcome["affectedId"])
		assert.NoError(t, api.pg.ExpectationsWereMet())
	})

	mt.Run("approving a decided change conflicts", func(mt *mtest.T) {
		api := newTestApi(t, mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, changeRecordNs, mtest.FirstBatch, areaChangeDoc(t, models.ChangeStatusRejected)),
		)

		w := api.do(t, http.MethodPost, "/pending-changes/"+testChangeId+"/approve", &adminCreds, "")

		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
		assert.Equal(t, "change_not_reviewable", decodeBody(t, w)["error_code"])
		assert.NoError(t, api.pg.ExpectationsWereMet())
	})

	mt.Run("reject never touches the entity", func(mt *mtest.T) {
		api := newTestApi(t, mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, changeRecordNs, mtest.FirstBatch, areaChangeDoc(t, models.ChangeStatusPending)),
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: areaChangeDoc(t, models.ChangeStatusRejected)}},
		)

		w := api.do(t, http.MethodPost, "/pending-changes/"+testChangeId+"/reject", &adminCreds,
			`{"comments": "wrong ward"}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Change rejected", decodeBody(t, w)["message"])
		assert.NoError(t, api.pg.ExpectationsWereMet())
	})

	mt.Run("manager cannot review", func(mt *mtest.T) {
		api := newTestApi(t, mt)

		w := api.do(t, http.MethodPost, "/pending-changes/"+testChangeId+"/approve", &managerCreds, "")
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = api.do(t, http.MethodGet, "/pending-changes", &managerCreds, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	mt.Run("pending list", func(mt *mtest.T) {
		api := newTestApi(t, mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, changeRecordNs, mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
			mtest.CreateCursorResponse(0, changeRecordNs, mtest.FirstBatch, areaChangeDoc(t, models.ChangeStatusPending)),
		)

		w := api.do(t, http.MethodGet, "/pending-changes?priority=medium&page=1&limit=10", &adminCreds, "")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decodeBody(t, w)
		changes := body["changes"].([]any)
		require.Len(t, changes, 1)
		first := changes[0].(map[string]any)
		assert.Equal(t, testChangeId, first["id"])
		assert.Equal(t, true, first["canBeReviewed"])
		pagination := body["pagination"].(map[string]any)
		assert.Equal(t, float64(1), pagination["total"])
		assert.Equal(t, float64(10), pagination["limit"])
	})

	mt.Run("invalid query is rejected", func(mt *mtest.T) {
		api := newTestApi(t, mt)

		w := api.do(t, http.MethodGet, "/pending-changes?priority=whenever", &adminCreds, "")

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_payload", decodeBody(t, w)["error_code"])
	})

	mt.Run("manager payload must be an object", func(mt *mtest.T) {
		api := newTestApi(t, mt)

		w := api.do(t, http.MethodPut, "/areas/7", &managerCreds, `not json`)

		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})
}

func TestEntityRoutes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("admin create executes directly", func(mt *mtest.T) {
		api := newTestApi(t, mt)
		api.pg.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "swm"."zone_table" ("zone_name") VALUES ($1) RETURNING "id"::text`)).
			WithArgs("East").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("4"))

		w := api.do(t, http.MethodPost, "/zones", &adminCreds, `{"zone_name": "East"}`)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		body := decodeBody(t, w)
		assert.Equal(t, "4", body["id"])
		assert.Equal(t, "CREATE", body["operation"])
		assert.NoError(t, api.pg.ExpectationsWereMet())
	})

	mt.Run("admin update passes through", func(mt *mtest.T) {
		api := newTestApi(t, mt)
		api.pg.ExpectExec(regexp.QuoteMeta(`UPDATE "swm"."area_details" SET "area_name" = $1 WHERE "id" = $2`)).
			WithArgs("Sector 9", "7").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		w := api.do(t, http.MethodPatch, "/areas/7", &adminCreds, `{"Area_Name": "Sector 9"}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NoError(t, api.pg.ExpectationsWereMet())
	})

	mt.Run("viewer cannot write", func(mt *mtest.T) {
		api := newTestApi(t, mt)

		w := api.do(t, http.MethodDelete, "/areas/7", &viewerCreds, "")

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.NoError(t, api.pg.ExpectationsWereMet())
	})

	mt.Run("viewer reads", func(mt *mtest.T) {
		api := newTestApi(t, mt)
		api.pg.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "swm"."area_details" WHERE "id" = $1`)).
			WithArgs("7").
			WillReturnRows(pgxmock.NewRows([]string{"id", "area_name"}).AddRow(int64(7), "Sector 9"))

		w := api.do(t, http.MethodGet, "/areas/7", &viewerCreds, "")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Sector 9", decodeBody(t, w)["area_name"])
	})

	mt.Run("missing token", func(mt *mtest.T) {
		api := newTestApi(t, mt)

		w := api.do(t, http.MethodGet, "/areas", nil, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestChangeRequestIdMustBeUuid(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("approve", func(mt *mtest.T) {
		api := newTestApi(t, mt)

		w := api.do(t, http.MethodPost, "/pending-changes/42/approve", &adminCreds, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
