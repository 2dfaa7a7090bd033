package utils

import (
	"testing"

	"github.com/civicwaste/swm-backend/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateUuid(t *testing.T) {
	assert.NoError(t, ValidateUuid("0b7c2f9e-3d0a-4c55-9a51-3a1f8e2b6c10"))
	assert.ErrorIs(t, ValidateUuid("42"), models.BadParameterError)
}
