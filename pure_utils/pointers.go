package pure_utils

// NilIfEmpty returns nil for the zero value string, for optional fields
func NilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
