package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIssueDevToken(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("AUTHENTICATION_JWT_SIGNING_KEY", "local-secret")

	out := &bytes.Buffer{}
	require.NoError(t, RunIssueDevToken(out, DevTokenRequest{Role: "manager"}))

	creds, err := repositories.NewJwtRepository("local-secret").ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, models.MANAGER, creds.Role)
	assert.Equal(t, "dev-manager", creds.ActorIdentity.Username)
	assert.NotEmpty(t, creds.ActorIdentity.UserId)
}

func TestRunIssueDevToken_refusals(t *testing.T) {
	t.Setenv("AUTHENTICATION_JWT_SIGNING_KEY", "local-secret")

	t.Setenv("ENV", "production")
	assert.Error(t, RunIssueDevToken(&bytes.Buffer{}, DevTokenRequest{Role: "admin"}))

	t.Setenv("ENV", "development")
	assert.ErrorIs(t, RunIssueDevToken(&bytes.Buffer{}, DevTokenRequest{Role: "superuser"}), models.BadParameterError)

	t.Setenv("AUTHENTICATION_JWT_SIGNING_KEY", "")
	assert.Error(t, RunIssueDevToken(&bytes.Buffer{}, DevTokenRequest{Role: "admin"}))
}
