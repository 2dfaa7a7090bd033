package usecases

import (
	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/usecases/security"
)

type UsecasesWithCreds struct {
	Usecases
	Credentials models.Credentials
}

func (usecases *UsecasesWithCreds) NewEnforceSecurity() security.EnforceSecurity {
	return &security.EnforceSecurityImpl{
		Credentials: usecases.Credentials,
	}
}

func (usecases *UsecasesWithCreds) NewEnforceChangeRequestSecurity() security.EnforceSecurityChangeRequest {
	return &security.EnforceSecurityChangeRequestImpl{
		EnforceSecurity: usecases.NewEnforceSecurity(),
		Credentials:     usecases.Credentials,
	}
}

func (usecases *UsecasesWithCreds) NewEnforceEntitySecurity() security.EnforceSecurityEntity {
	return &security.EnforceSecurityEntityImpl{
		EnforceSecurity: usecases.NewEnforceSecurity(),
	}
}

func (usecases *UsecasesWithCreds) NewChangeRequestUsecase() ChangeRequestUsecase {
	return ChangeRequestUsecase{
		enforceSecurity: usecases.NewEnforceChangeRequestSecurity(),
		repository:      usecases.Repositories.ChangeRecordRepository,
		executor:        usecases.NewExecutionEngine(),
		clock:           usecases.Repositories.Clock,
		credentials:     usecases.Credentials,
		retention:       usecases.changeRequestRetention,
	}
}

func (usecases *UsecasesWithCreds) NewEntityUsecase() EntityUsecase {
	return EntityUsecase{
		enforceSecurity: usecases.NewEnforceEntitySecurity(),
		readers: map[models.Backend]EntityReader{
			models.BackendRelational: usecases.Repositories.RelationalEntityRepository,
			models.BackendDocument:   usecases.Repositories.DocumentEntityRepository,
		},
		executor: usecases.NewExecutionEngine(),
	}
}
