package dto

type APIErrorResponse struct {
	Message   string    `json:"message"`
	ErrorCode ErrorCode `json:"error_code"`
	Details   []string  `json:"details,omitempty"`
}

type ErrorCode string

const (
	InvalidPayload      ErrorCode = "invalid_payload"
	Unauthorized        ErrorCode = "unauthorized"
	Forbidden           ErrorCode = "forbidden"
	NotFound            ErrorCode = "not_found"
	Conflict            ErrorCode = "conflict"
	InternalError       ErrorCode = "internal_error"
	ChangeNotReviewable ErrorCode = "change_not_reviewable"
	UnknownEntity       ErrorCode = "unknown_entity"
	InvalidOperation    ErrorCode = "invalid_operation"
	MissingTargetId     ErrorCode = "missing_target_id"
	InvalidColumn       ErrorCode = "invalid_column"
	EmptyChanges        ErrorCode = "empty_changes"
)
