package utils

import (
	"fmt"
	"regexp"

	"github.com/civicwaste/swm-backend/models"
)

const MAX_IDENTIFIER_LENGTH = 63

var columnIdentifierRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateColumnIdentifier rejects payload keys that could not be a plain postgres column name
func ValidateColumnIdentifier(name string) error {
	if len(name) > MAX_IDENTIFIER_LENGTH || !columnIdentifierRegexp.MatchString(name) {
		return fmt.Errorf("'%s': %w", name, models.ErrInvalidColumn)
	}
	return nil
}
