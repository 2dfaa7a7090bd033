package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/civicwaste/swm-backend/models"
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) ValidateToken(token string) (models.Credentials, error) {
	args := m.Called(token)
	return args.Get(0).(models.Credentials), args.Error(1)
}

func TestAuthenticationMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	manager := models.Credentials{
		Role:          models.MANAGER,
		ActorIdentity: models.Identity{UserId: "u-1", Username: "jdoe"},
	}

	tests := []struct {
		name           string
		header         string
		setupValidator func(*MockValidator)
		expectedStatus int
	}{
		{
			name:   "valid token",
			header: "Bearer good",
			setupValidator: func(v *MockValidator) {
				v.On("ValidateToken", "good").Return(manager, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			header:         "Token good",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "rejected token",
			header: "Bearer bad",
			setupValidator: func(v *MockValidator) {
				v.On("ValidateToken", "bad").
					Return(models.Credentials{}, errors.Wrap(models.UnAuthorizedError, "expired"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "validator failure",
			header: "Bearer boom",
			setupValidator: func(v *MockValidator) {
				v.On("ValidateToken", "boom").Return(models.Credentials{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := new(MockValidator)
			if tt.setupValidator != nil {
				tt.setupValidator(v)
			}
			auth := NewAuthentication(v)

			var seen models.Credentials
			router := gin.New()
			router.GET("/", auth.Middleware, func(c *gin.Context) {
				seen, _ = CredentialsFromCtx(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, manager, seen)
			}
			v.AssertExpectations(t)
		})
	}
}

func TestParseAuthorizationBearerHeader(t *testing.T) {
	header := http.Header{}
	header.Add("Authorization", "Bearer TOKEN")
	token, err := ParseAuthorizationBearerHeader(header)
	assert.NoError(t, err)
	assert.Equal(t, "TOKEN", token)

	token, err = ParseAuthorizationBearerHeader(http.Header{})
	assert.NoError(t, err)
	assert.Empty(t, token)

	header = http.Header{}
	header.Add("Authorization", "MalformedBearer")
	_, err = ParseAuthorizationBearerHeader(header)
	assert.ErrorIs(t, err, models.UnAuthorizedError)
}
