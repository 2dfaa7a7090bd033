package utils

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/civicwaste/swm-backend/models"
)

func ValidateUuid(uuidParam string) error {
	if _, err := uuid.Parse(uuidParam); err != nil {
		return fmt.Errorf("'%s' is not a valid UUID: %w", uuidParam, models.BadParameterError)
	}
	return nil
}
