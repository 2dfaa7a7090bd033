package repositories

import (
	"testing"
	"time"

	"github.com/civicwaste/swm-backend/models"
	"github.com/go-faker/faker/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJwtRepository_RoundTrip(t *testing.T) {
	repo := NewJwtRepository("secret")
	creds := models.Credentials{
		Role:          models.MANAGER,
		ActorIdentity: models.Identity{
			UserId:   faker.UUIDHyphenated(),
			Username: faker.Username(),
			Name:     faker.Name(),
		},
	}

	token, err := repo.EncodeToken(time.Now().Add(time.Hour), creds)
	require.NoError(t, err)

	got, err := repo.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, creds, got)
}

func TestJwtRepository_LowerCaseRole(t *testing.T) {
	claims := jwt.MapClaims{
		"id":       "u-1",
		"username": "admin",
		"role":     "admin",
		"name":     "Root",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, err := NewJwtRepository("secret").ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.ADMIN, got.Role)
	assert.Equal(t, "Root", got.DisplayName())
}

func TestJwtRepository_Rejects(t *testing.T) {
	repo := NewJwtRepository("secret")
	creds := models.Credentials{Role: models.ADMIN, ActorIdentity: models.Identity{UserId: "u-1"}}

	t.Run("wrong key", func(t *testing.T) {
		token, err := NewJwtRepository("other").EncodeToken(time.Now().Add(time.Hour), creds)
		require.NoError(t, err)
		_, err = repo.ValidateToken(token)
		assert.ErrorIs(t, err, models.UnAuthorizedError)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := repo.EncodeToken(time.Now().Add(-time.Hour), creds)
		require.NoError(t, err)
		_, err = repo.ValidateToken(token)
		assert.ErrorIs(t, err, models.UnAuthorizedError)
	})

	t.Run("no user id", func(t *testing.T) {
		token, err := repo.EncodeToken(time.Now().Add(time.Hour), models.Credentials{Role: models.ADMIN})
		require.NoError(t, err)
		_, err = repo.ValidateToken(token)
		assert.ErrorIs(t, err, models.UnAuthorizedError)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := repo.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, models.UnAuthorizedError)
	})
}
