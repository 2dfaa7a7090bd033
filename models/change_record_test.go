package models

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChangeRecord_CanBeReviewed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name      string
		status    ChangeStatus
		expiresAt time.Time
		expected  bool
	}{
		{"pending and not expired", ChangeStatusPending, future, true},
		{"pending but expired", ChangeStatusPending, past, false},
		{"pending expiring right now", ChangeStatusPending, now, false},
		{"approved", ChangeStatusApproved, future, false},
		{"rejected", ChangeStatusRejected, future, false},
		{"approved and expired", ChangeStatusApproved, past, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := ChangeRecord{Status: tt.status, ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.expected, record.CanBeReviewed(now))
		})
	}
}

func TestChangeRecord_EffectiveStatus(t *testing.T) {
	now := time.Now()

	assert.Equal(t, ChangeStatusExpired,
		ChangeRecord{Status: ChangeStatusPending, ExpiresAt: now.Add(-time.Minute)}.EffectiveStatus(now))
	assert.Equal(t, ChangeStatusPending,
		ChangeRecord{Status: ChangeStatusPending, ExpiresAt: now.Add(time.Minute)}.EffectiveStatus(now))
	assert.Equal(t, ChangeStatusApproved,
		ChangeRecord{Status: ChangeStatusApproved, ExpiresAt: now.Add(-time.Minute)}.EffectiveStatus(now))
}

func TestOperationFromHttpMethod(t *testing.T) {
	for method, expected := range map[string]ChangeOperation{
		http.MethodPost:   OperationCreate,
		http.MethodPut:    OperationUpdate,
		http.MethodPatch:  OperationUpdate,
		http.MethodDelete: OperationDelete,
	} {
		op, ok := OperationFromHttpMethod(method)
		assert.True(t, ok, method)
		assert.Equal(t, expected, op, method)
	}

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		_, ok := OperationFromHttpMethod(method)
		assert.False(t, ok, method)
	}
}

func TestParsers(t *testing.T) {
	assert.Equal(t, OperationUpdate, ChangeOperationFrom(" update "))
	assert.Equal(t, ChangeOperation(""), ChangeOperationFrom("upsert"))
	assert.Equal(t, ChangeStatusRejected, ChangeStatusFrom("REJECTED"))
	assert.Equal(t, ChangePriority(""), ChangePriorityFrom("critical"))
	assert.Greater(t, PriorityUrgent.Rank(), PriorityHigh.Rank())
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
}

func TestFindEntity(t *testing.T) {
	for _, name := range []string{"area", "areas", "area_details", "swm.area_details", "AREA_DETAILS"} {
		e, ok := FindEntity(name)
		assert.True(t, ok, name)
		assert.Equal(t, EntityArea, e.Type, name)
		assert.Equal(t, "swm.area_details", e.Target())
	}

	house, ok := FindEntity("HouseDetails")
	assert.True(t, ok)
	assert.Equal(t, BackendDocument, house.Backend)
	assert.Equal(t, "HouseDetails", house.Target())

	_, ok = FindEntity("spaceships")
	assert.False(t, ok)
}

func TestRoles(t *testing.T) {
	assert.Equal(t, MANAGER, RoleFromString("manager"))
	assert.Equal(t, ADMIN, RoleFromString("ADMIN"))
	assert.Equal(t, NO_ROLE, RoleFromString("superuser"))

	assert.True(t, ADMIN.HasPermission(CHANGE_REQUEST_REVIEW))
	assert.False(t, MANAGER.HasPermission(CHANGE_REQUEST_REVIEW))
	assert.True(t, MANAGER.HasPermission(CHANGE_REQUEST_LIST_OWN))
	assert.False(t, VIEWER.HasPermission(ENTITY_WRITE))
	assert.Empty(t, NO_ROLE.Permissions())
}

func TestPagination(t *testing.T) {
	p := Pagination{Page: 0, Limit: 500}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageLimit, p.Limit)
	assert.Equal(t, 0, p.Offset())

	p = Pagination{Page: 3, Limit: 10}.Normalize()
	assert.Equal(t, 20, p.Offset())

	paginated := Paginated[int]{Pagination: p, Total: 21}
	assert.Equal(t, int64(3), paginated.TotalPages())
}
