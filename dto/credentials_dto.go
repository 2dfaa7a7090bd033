package dto

import (
	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/pure_utils"
)

// Credentials is the identity block carried by the tokens of the authentication service
type Credentials struct {
	Id          string   `json:"id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Name        string   `json:"name,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

func AdaptCredentialDto(creds models.Credentials) Credentials {
	return Credentials{
		Id:       creds.ActorIdentity.UserId,
		Username: creds.ActorIdentity.Username,
		Role:     creds.Role.String(),
		Name:     creds.ActorIdentity.Name,
		Permissions: pure_utils.Map(creds.Role.Permissions(),
			func(p models.Permission) string { return p.String() }),
	}
}

func AdaptCredential(dto Credentials) models.Credentials {
	return models.Credentials{
		Role: models.RoleFromString(dto.Role),
		ActorIdentity: models.Identity{
			UserId:   dto.Id,
			Username: dto.Username,
			Name:     dto.Name,
		},
	}
}
