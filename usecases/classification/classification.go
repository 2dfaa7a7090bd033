// Package classification holds the deterministic rules mapping a mutation to the backend that
// stores its target, a display category and a review priority. Unknown inputs degrade to
// defaults, nothing here returns an error.
package classification

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/go-set/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/civicwaste/swm-backend/models"
)

const DefaultCategory = "general"

var relationalTargets = set.From(relationalNames(models.EntityCatalog))

func relationalNames(catalog []models.Entity) []string {
	names := make([]string, 0, len(catalog)*4)
	for _, e := range catalog {
		if e.Backend != models.BackendRelational {
			continue
		}
		names = append(names,
			string(e.Type), strings.ToLower(e.Route),
			strings.ToLower(e.Table), strings.ToLower(e.Target()))
	}
	return names
}

// ClassifyBackend checks the target against the closed list of relational entities.
// Anything else lives in the document store.
func ClassifyBackend(targetEntity string) models.Backend {
	if relationalTargets.Contains(strings.ToLower(strings.TrimSpace(targetEntity))) {
		return models.BackendRelational
	}
	return models.BackendDocument
}

func ClassifyCategory(targetEntity string) string {
	if e, ok := models.FindEntity(targetEntity); ok && e.Category != "" {
		return e.Category
	}
	return DefaultCategory
}

type priorityPin struct {
	entity    models.EntityType
	operation models.ChangeOperation
}

var pinnedPriorities = map[priorityPin]models.ChangePriority{
	{models.EntityEmployee, models.OperationUpdate}:        models.PriorityHigh,
	{models.EntityZone, models.OperationCreate}:            models.PriorityHigh,
	{models.EntityWard, models.OperationCreate}:            models.PriorityHigh,
	{models.EntityDumpYard, models.OperationCreate}:        models.PriorityHigh,
	{models.EntityDumpYard, models.OperationUpdate}:        models.PriorityHigh,
	{models.EntityVehicle, models.OperationCreate}:         models.PriorityMedium,
	{models.EntityVehicle, models.OperationUpdate}:         models.PriorityMedium,
	{models.EntityDevice, models.OperationCreate}:          models.PriorityMedium,
	{models.EntityQueryPost, models.OperationCreate}:       models.PriorityLow,
	{models.EntityQueryPost, models.OperationUpdate}:       models.PriorityLow,
	{models.EntityCarbonFootprint, models.OperationCreate}: models.PriorityLow,
}

// ClassifyPriority applies the rules in order, the first match wins:
// deletes, then entity/operation pins, then urgency markers in the payload.
func ClassifyPriority(operation models.ChangeOperation, targetEntity string, payload json.RawMessage) models.ChangePriority {
	if operation == models.OperationDelete {
		return models.PriorityHigh
	}

	if e, ok := models.FindEntity(targetEntity); ok {
		if p, pinned := pinnedPriorities[priorityPin{e.Type, operation}]; pinned {
			return p
		}
	}

	if hasUrgencyMarker(payload) {
		return models.PriorityUrgent
	}

	return models.PriorityMedium
}

func hasUrgencyMarker(payload json.RawMessage) bool {
	if len(payload) == 0 || !gjson.ValidBytes(payload) {
		return false
	}
	result := gjson.ParseBytes(payload)
	if !result.IsObject() {
		return false
	}

	for _, flag := range []string{"urgent", "emergency", "is_emergency"} {
		if v := result.Get(flag); v.Type == gjson.True {
			return true
		}
	}

	switch strings.ToLower(result.Get("priority").String()) {
	case "urgent", "emergency":
		return true
	}
	return false
}

// EstimatedReviewWindow is the turnaround announced to the requester
func EstimatedReviewWindow(priority models.ChangePriority) string {
	switch priority {
	case models.PriorityUrgent:
		return "2-4 hours"
	case models.PriorityHigh:
		return "12-24 hours"
	case models.PriorityLow:
		return "2-3 days"
	default:
		return "24-48 hours"
	}
}

// Describe builds the human readable summary of a change, e.g. "Update Area #7"
func Describe(operation models.ChangeOperation, targetEntity string, targetId *string) string {
	name := targetEntity
	if e, ok := models.FindEntity(targetEntity); ok {
		name = string(e.Type)
	}
	// a Caser keeps state and cannot be shared between goroutines
	caser := cases.Title(language.English)
	name = caser.String(strings.ReplaceAll(name, "_", " "))
	verb := caser.String(strings.ToLower(string(operation)))

	if targetId != nil && *targetId != "" {
		return fmt.Sprintf("%s %s #%s", verb, name, *targetId)
	}
	if operation == models.OperationCreate {
		return fmt.Sprintf("Create new %s", name)
	}
	return fmt.Sprintf("%s %s", verb, name)
}
