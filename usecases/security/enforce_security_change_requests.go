package security

import (
	"errors"

	"github.com/civicwaste/swm-backend/models"
)

type EnforceSecurityChangeRequest interface {
	SubmitChangeRequest() error
	ListPendingChanges() error
	ListOwnRequests() error
	ReadChangeRequest(record models.ChangeRecord) error
	ReviewChangeRequest() error
	ReadStatistics() error
}

type EnforceSecurityChangeRequestImpl struct {
	EnforceSecurity
	Credentials models.Credentials
}

func (e *EnforceSecurityChangeRequestImpl) SubmitChangeRequest() error {
	return e.Permission(models.CHANGE_REQUEST_CREATE)
}

func (e *EnforceSecurityChangeRequestImpl) ListPendingChanges() error {
	return e.Permission(models.CHANGE_REQUEST_REVIEW)
}

func (e *EnforceSecurityChangeRequestImpl) ListOwnRequests() error {
	return e.Permission(models.CHANGE_REQUEST_LIST_OWN)
}

// ReadChangeRequest lets reviewers read any record and requesters read their own.
func (e *EnforceSecurityChangeRequestImpl) ReadChangeRequest(record models.ChangeRecord) error {
	if e.Permission(models.CHANGE_REQUEST_REVIEW) == nil {
		return nil
	}
	return errors.Join(
		e.Permission(models.CHANGE_REQUEST_LIST_OWN),
		e.ownRecord(record),
	)
}

func (e *EnforceSecurityChangeRequestImpl) ownRecord(record models.ChangeRecord) error {
	if record.RequestedBy == "" || record.RequestedBy != e.UserId() {
		return models.ForbiddenError
	}
	return nil
}

func (e *EnforceSecurityChangeRequestImpl) ReviewChangeRequest() error {
	return e.Permission(models.CHANGE_REQUEST_REVIEW)
}

func (e *EnforceSecurityChangeRequestImpl) ReadStatistics() error {
	return e.Permission(models.CHANGE_REQUEST_STATS)
}

type EnforceSecurityEntity interface {
	ReadEntity() error
	WriteEntity() error
}

type EnforceSecurityEntityImpl struct {
	EnforceSecurity
}

func (e *EnforceSecurityEntityImpl) ReadEntity() error {
	return e.Permission(models.ENTITY_READ)
}

func (e *EnforceSecurityEntityImpl) WriteEntity() error {
	return e.Permission(models.ENTITY_WRITE)
}
