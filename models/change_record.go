package models

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Pending records can be reviewed for this long after their creation
const ChangeRequestRetention = 7 * 24 * time.Hour

type ChangeOperation string

const (
	OperationCreate ChangeOperation = "CREATE"
	OperationUpdate ChangeOperation = "UPDATE"
	OperationDelete ChangeOperation = "DELETE"
)

func ChangeOperationFrom(s string) ChangeOperation {
	switch op := ChangeOperation(strings.ToUpper(strings.TrimSpace(s))); op {
	case OperationCreate, OperationUpdate, OperationDelete:
		return op
	}
	return ""
}

func (o ChangeOperation) IsValid() bool {
	return o == OperationCreate || o == OperationUpdate || o == OperationDelete
}

func (o ChangeOperation) RequiresTargetId() bool {
	return o == OperationUpdate || o == OperationDelete
}

// OperationFromHttpMethod returns false for non mutating methods
func OperationFromHttpMethod(method string) (ChangeOperation, bool) {
	switch method {
	case http.MethodPost:
		return OperationCreate, true
	case http.MethodPut, http.MethodPatch:
		return OperationUpdate, true
	case http.MethodDelete:
		return OperationDelete, true
	}
	return "", false
}

type ChangeStatus string

const (
	ChangeStatusPending  ChangeStatus = "pending"
	ChangeStatusApproved ChangeStatus = "approved"
	ChangeStatusRejected ChangeStatus = "rejected"
	ChangeStatusExpired  ChangeStatus = "expired"
)

func ChangeStatusFrom(s string) ChangeStatus {
	switch st := ChangeStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case ChangeStatusPending, ChangeStatusApproved, ChangeStatusRejected, ChangeStatusExpired:
		return st
	}
	return ""
}

type ChangePriority string

const (
	PriorityLow    ChangePriority = "low"
	PriorityMedium ChangePriority = "medium"
	PriorityHigh   ChangePriority = "high"
	PriorityUrgent ChangePriority = "urgent"
)

func ChangePriorityFrom(s string) ChangePriority {
	switch p := ChangePriority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p
	}
	return ""
}

// Rank orders priorities for sorting, higher is more pressing
func (p ChangePriority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return 0
}

type ExecutionOutcome struct {
	Succeeded   bool
	Error       string
	AttemptedAt time.Time
	AffectedId  string
}

type ChangeRecord struct {
	Id              string
	Operation       ChangeOperation
	TargetEntity    string
	EntityType      EntityType
	TargetId        *string
	Backend         Backend
	ProposedChanges json.RawMessage
	OriginalData    json.RawMessage

	RequestedBy     string
	RequestedByName string

	Status         ChangeStatus
	ReviewedBy     *string
	ReviewedByName *string
	ReviewedAt     *time.Time
	ReviewComments *string

	Priority    ChangePriority
	Category    string
	Description string

	ExpiresAt        time.Time
	ExecutionOutcome *ExecutionOutcome

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanBeReviewed is true only for a pending record that has not yet expired
func (r ChangeRecord) CanBeReviewed(now time.Time) bool {
	return r.Status == ChangeStatusPending && r.ExpiresAt.After(now)
}

// EffectiveStatus reports a pending record past its expiry as expired. Expiry is never persisted.
func (r ChangeRecord) EffectiveStatus(now time.Time) ChangeStatus {
	if r.Status == ChangeStatusPending && !r.ExpiresAt.After(now) {
		return ChangeStatusExpired
	}
	return r.Status
}

type ChangeRecordToCreate struct {
	Id              string
	Operation       ChangeOperation
	TargetEntity    string
	EntityType      EntityType
	TargetId        *string
	Backend         Backend
	ProposedChanges json.RawMessage
	OriginalData    json.RawMessage
	RequestedBy     string
	RequestedByName string
	Priority        ChangePriority
	Category        string
	Description     string
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

type ChangeReview struct {
	Id             string
	Status         ChangeStatus
	ReviewedBy     string
	ReviewedByName string
	Comments       string
	ReviewedAt     time.Time
}

type ChangeRecordFilters struct {
	Status      ChangeStatus
	Category    string
	Priority    ChangePriority
	RequestedBy string

	// When set, Status is matched on the effective status at AsOf: pending excludes
	// records past expiry and expired selects them.
	AsOf time.Time

	// pending queues are ordered by priority first, personal histories by recency only
	SortByPriority bool
}

type ChangeRecordStats struct {
	ByStatus          map[ChangeStatus]int64
	PendingByCategory map[string]int64
	PendingByPriority map[ChangePriority]int64
}

// Mutation is a data mutation request: an operation on a target entity, with a payload
type Mutation struct {
	Operation    ChangeOperation
	Entity       Entity
	TargetId     *string
	Payload      json.RawMessage
	OriginalData json.RawMessage
}

// ExecutionContext is passed explicitly to the interception layer. BypassApproval is for callers
// that re-submit an already approved change through the HTTP mutation path. The execution engine
// replays approved changes straight against the entity stores and never goes through
// interception, so none of the server's own routes set it.
type ExecutionContext struct {
	Credentials    Credentials
	BypassApproval bool
}
