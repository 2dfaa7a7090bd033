package dto

import (
	"encoding/json"
	"time"

	"github.com/guregu/null/v5"

	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/pure_utils"
)

type ExecutionOutcome struct {
	Succeeded   bool        `json:"succeeded"`
	Error       null.String `json:"error"`
	AttemptedAt time.Time   `json:"attemptedAt"`
	AffectedId  null.String `json:"affectedId"`
}

type ChangeRequest struct {
	Id              string          `json:"id"`
	Operation       string          `json:"operation"`
	TargetEntity    string          `json:"targetEntity"`
	EntityType      string          `json:"entityType"`
	TargetId        null.String     `json:"targetId"`
	Backend         string          `json:"backend"`
	ProposedChanges json.RawMessage `json:"proposedChanges"`
	OriginalData    json.RawMessage `json:"originalData"`

	RequestedBy     string `json:"requestedBy"`
	RequestedByName string `json:"requestedByName"`

	Status          string      `json:"status"`
	EffectiveStatus string      `json:"effectiveStatus"`
	CanBeReviewed   bool        `json:"canBeReviewed"`
	ReviewedBy      null.String `json:"reviewedBy"`
	ReviewedByName  null.String `json:"reviewedByName"`
	ReviewedAt      null.Time   `json:"reviewedAt"`
	ReviewComments  null.String `json:"reviewComments"`

	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Description string `json:"description"`

	ExpiresAt        time.Time         `json:"expiresAt"`
	ExecutionOutcome *ExecutionOutcome `json:"executionOutcome"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func jsonOrNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

func AdaptChangeRequestDto(record models.ChangeRecord, now time.Time) ChangeRequest {
	out := ChangeRequest{
		Id:              record.Id,
		Operation:       string(record.Operation),
		TargetEntity:    record.TargetEntity,
		EntityType:      string(record.EntityType),
		TargetId:        null.StringFromPtr(record.TargetId),
		Backend:         record.Backend.String(),
		ProposedChanges: jsonOrNull(record.ProposedChanges),
		OriginalData:    jsonOrNull(record.OriginalData),
		RequestedBy:     record.RequestedBy,
		RequestedByName: record.RequestedByName,
		Status:          string(record.Status),
		EffectiveStatus: string(record.EffectiveStatus(now)),
		CanBeReviewed:   record.CanBeReviewed(now),
		ReviewedBy:      null.StringFromPtr(record.ReviewedBy),
		ReviewedByName:  null.StringFromPtr(record.ReviewedByName),
		ReviewedAt:      null.TimeFromPtr(record.ReviewedAt),
		ReviewComments:  null.StringFromPtr(record.ReviewComments),
		Priority:        string(record.Priority),
		Category:        record.Category,
		Description:     record.Description,
		ExpiresAt:       record.ExpiresAt,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
	if record.ExecutionOutcome != nil {
		out.ExecutionOutcome = &ExecutionOutcome{
			Succeeded:   record.ExecutionOutcome.Succeeded,
			Error:       null.NewString(record.ExecutionOutcome.Error, record.ExecutionOutcome.Error != ""),
			AttemptedAt: record.ExecutionOutcome.AttemptedAt,
			AffectedId:  null.NewString(record.ExecutionOutcome.AffectedId, record.ExecutionOutcome.AffectedId != ""),
		}
	}
	return out
}

type ChangeRequestList struct {
	Changes    []ChangeRequest `json:"changes"`
	Pagination Pagination      `json:"pagination"`
}

func AdaptChangeRequestList(page models.Paginated[models.ChangeRecord], now time.Time) ChangeRequestList {
	return ChangeRequestList{
		Changes: pure_utils.Map(page.Items, func(r models.ChangeRecord) ChangeRequest {
			return AdaptChangeRequestDto(r, now)
		}),
		Pagination: AdaptPaginationDto(page),
	}
}

type PendingApprovalDetails struct {
	Operation             string `json:"operation"`
	EntityType            string `json:"entityType"`
	EstimatedApprovalTime string `json:"estimatedApprovalTime"`
	Priority              string `json:"priority"`
}

// PendingApproval is the acknowledgement returned with 202 Accepted when a change is queued
type PendingApproval struct {
	RequestId string                 `json:"request_id"`
	Status    string                 `json:"status"`
	Message   string                 `json:"message"`
	Details   PendingApprovalDetails `json:"details"`
}

const PendingApprovalStatus = "pending_approval"

func AdaptPendingApproval(result models.InterceptionResult) PendingApproval {
	record := result.Record
	return PendingApproval{
		RequestId: record.Id,
		Status:    PendingApprovalStatus,
		Message:   "Your change has been submitted for administrator approval",
		Details: PendingApprovalDetails{
			Operation:             string(record.Operation),
			EntityType:            string(record.EntityType),
			EstimatedApprovalTime: result.EstimatedApprovalTime,
			Priority:              string(record.Priority),
		},
	}
}

type ChangeRequestInput struct {
	Operation       string          `json:"operation" binding:"required,oneof=CREATE UPDATE DELETE create update delete"`
	Entity          string          `json:"entity" binding:"required"`
	TargetId        null.String     `json:"target_id"`
	ProposedChanges json.RawMessage `json:"proposed_changes"`
	OriginalData    json.RawMessage `json:"original_data"`
}

func AdaptChangeRequestInput(input ChangeRequestInput) models.ChangeRequestInput {
	return models.ChangeRequestInput{
		Operation:       models.ChangeOperationFrom(input.Operation),
		Entity:          input.Entity,
		TargetId:        pure_utils.NilIfEmpty(input.TargetId.ValueOrZero()),
		ProposedChanges: input.ProposedChanges,
		OriginalData:    input.OriginalData,
	}
}

type DirectExecution struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

type ReviewInput struct {
	Comments string `json:"comments" binding:"max=2000"`
}

type ReviewResult struct {
	Message string        `json:"message"`
	Change  ChangeRequest `json:"change"`
}

func AdaptReviewResult(record models.ChangeRecord, now time.Time) ReviewResult {
	message := "Change rejected"
	if record.Status == models.ChangeStatusApproved {
		message = "Change approved"
		if record.ExecutionOutcome != nil && !record.ExecutionOutcome.Succeeded {
			message = "Change approved, but applying it failed"
		}
	}
	return ReviewResult{Message: message, Change: AdaptChangeRequestDto(record, now)}
}

type ListPendingQuery struct {
	PaginationQuery
	Category string `form:"category"`
	Priority string `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
}

type ListOwnQuery struct {
	PaginationQuery
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected expired"`
}

type ChangeRequestStats struct {
	ByStatus          map[string]int64 `json:"byStatus"`
	PendingByCategory map[string]int64 `json:"pendingByCategory"`
	PendingByPriority map[string]int64 `json:"pendingByPriority"`
}

func AdaptChangeRequestStats(stats models.ChangeRecordStats) ChangeRequestStats {
	out := ChangeRequestStats{
		ByStatus:          make(map[string]int64, 4),
		PendingByCategory: make(map[string]int64, len(stats.PendingByCategory)),
		PendingByPriority: make(map[string]int64, 4),
	}
	for _, s := range []models.ChangeStatus{
		models.ChangeStatusPending, models.ChangeStatusApproved,
		models.ChangeStatusRejected, models.ChangeStatusExpired,
	} {
		out.ByStatus[string(s)] = stats.ByStatus[s]
	}
	for _, p := range []models.ChangePriority{
		models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent,
	} {
		out.PendingByPriority[string(p)] = stats.PendingByPriority[p]
	}
	for category, count := range stats.PendingByCategory {
		out.PendingByCategory[category] = count
	}
	return out
}
