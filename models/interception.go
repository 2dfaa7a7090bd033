package models

import "encoding/json"

type InterceptionDecision int

const (
	// the mutation proceeds untouched
	InterceptionPassThrough InterceptionDecision = iota
	// a privileged principal authored the change, it is executed without review
	InterceptionDirectExecution
	// a pending change record was created and the mutation must not run
	InterceptionQueued
)

func (d InterceptionDecision) String() string {
	switch d {
	case InterceptionPassThrough:
		return "pass_through"
	case InterceptionDirectExecution:
		return "direct_execution"
	case InterceptionQueued:
		return "queued"
	}
	return "unknown"
}

type InterceptionResult struct {
	Decision              InterceptionDecision
	Record                *ChangeRecord
	AffectedId            string
	EstimatedApprovalTime string
}

// ChangeRequestInput is a change request submitted explicitly rather than intercepted
type ChangeRequestInput struct {
	Operation       ChangeOperation
	Entity          string
	TargetId        *string
	ProposedChanges json.RawMessage
	OriginalData    json.RawMessage
}
