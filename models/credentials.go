package models

// Identity of the principal as supplied by the authentication service
type Identity struct {
	UserId   string
	Username string
	Name     string
}

type Credentials struct {
	ActorIdentity Identity
	Role          Role
}

// DisplayName is used when stamping requested_by_name / reviewed_by_name
func (c Credentials) DisplayName() string {
	if c.ActorIdentity.Name != "" {
		return c.ActorIdentity.Name
	}
	return c.ActorIdentity.Username
}
