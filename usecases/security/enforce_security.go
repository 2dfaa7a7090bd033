package security

import (
	"fmt"

	"github.com/civicwaste/swm-backend/models"
	"github.com/cockroachdb/errors"
)

type EnforceSecurity interface {
	Permission(permission models.Permission) error
	UserId() string
}

type EnforceSecurityImpl struct {
	Credentials models.Credentials
}

func (e *EnforceSecurityImpl) Permission(permission models.Permission) error {
	if !e.Credentials.Role.HasPermission(permission) {
		return errors.Wrap(models.ForbiddenError,
			fmt.Sprintf("role %s is missing permission %s", e.Credentials.Role, permission))
	}
	return nil
}

func (e *EnforceSecurityImpl) UserId() string {
	return e.Credentials.ActorIdentity.UserId
}
