package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/repositories"
	"github.com/civicwaste/swm-backend/utils"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const devTokenValidity = 12 * time.Hour

type DevTokenRequest struct {
	Role     string
	Username string
}

// RunIssueDevToken prints a token signed with the configured key, so the API can be called
// locally without the authentication service. It refuses to run outside development.
func RunIssueDevToken(out io.Writer, request DevTokenRequest) error {
	if env := utils.GetEnv("ENV", "development"); env != "development" {
		return errors.Newf("refusing to issue a development token in %s", env)
	}
	signingKey := utils.GetEnv("AUTHENTICATION_JWT_SIGNING_KEY", "")
	if signingKey == "" {
		return errors.New("AUTHENTICATION_JWT_SIGNING_KEY is required")
	}

	role := models.RoleFromString(request.Role)
	if role == models.NO_ROLE {
		return errors.Wrapf(models.BadParameterError, "unknown role %q", request.Role)
	}
	username := request.Username
	if username == "" {
		username = "dev-" + strings.ToLower(role.String())
	}

	token, err := repositories.NewJwtRepository(signingKey).EncodeToken(
		time.Now().Add(devTokenValidity),
		models.Credentials{
			ActorIdentity: models.Identity{UserId: uuid.NewString(), Username: username, Name: username},
			Role:          role,
		},
	)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
