package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/civicwaste/swm-backend/models"
)

type EnforceSecurity struct {
	mock.Mock
}

func (e *EnforceSecurity) Permission(permission models.Permission) error {
	args := e.Called(permission)
	return args.Error(0)
}

func (e *EnforceSecurity) UserId() string {
	args := e.Called()
	return args.String(0)
}

type EnforceSecurityChangeRequest struct {
	mock.Mock
}

func (e *EnforceSecurityChangeRequest) SubmitChangeRequest() error {
	args := e.Called()
	return args.Error(0)
}

func (e *EnforceSecurityChangeRequest) ListPendingChanges() error {
	args := e.Called()
	return args.Error(0)
}

func (e *EnforceSecurityChangeRequest) ListOwnRequests() error {
	args := e.Called()
	return args.Error(0)
}

func (e *EnforceSecurityChangeRequest) ReadChangeRequest(record models.ChangeRecord) error {
	args := e.Called(record)
	return args.Error(0)
}

func (e *EnforceSecurityChangeRequest) ReviewChangeRequest() error {
	args := e.Called()
	return args.Error(0)
}

func (e *EnforceSecurityChangeRequest) ReadStatistics() error {
	args := e.Called()
	return args.Error(0)
}

type EnforceSecurityEntity struct {
	mock.Mock
}

func (e *EnforceSecurityEntity) ReadEntity() error {
	args := e.Called()
	return args.Error(0)
}

func (e *EnforceSecurityEntity) WriteEntity() error {
	args := e.Called()
	return args.Error(0)
}
