package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/backend/internal/domain/shared"
)

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)
	defer mockDB.Close()

	assert.NotNil(t, mockDB.DB)
	assert.NotNil(t, mockDB.Mock)
	assert.NotNil(t, mockDB.SqlDB)
}

func TestMockDB_ExpectationsWereMet(t *testing.T) {
	mockDB := NewMockDB(t)
	defer mockDB.Close()

	// No expectations set, should pass
	mockDB.ExpectationsWereMet(t)
}

func TestNewTestContext(t *testing.T) {
	tc := NewTestContext(t)

	assert.NotNil(t, tc.Context)
	assert.NotNil(t, tc.Recorder)
	assert.NotNil(t, tc.Engine)
	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
}

func TestTestContext_SetRequestID(t *testing.T) {
	tc := NewTestContext(t)

	tc.SetRequestID("req-123")

	val, exists := tc.Context.Get("X-Request-ID")
	assert.True(t, exists)
	assert.Equal(t, "req-123", val)
}

func TestTestContext_SetActor(t *testing.T) {
	tc := NewTestContext(t)
	actor := AdminActor()

	tc.SetActor(actor)

	val, exists := tc.Context.Get("actor")
	require.True(t, exists)
	assert.Equal(t, actor, val)

	fromReq, ok := shared.ActorFromContext(tc.Context.Request.Context())
	require.True(t, ok)
	assert.Equal(t, actor, fromReq)
}

func TestTestContext_SetHeader(t *testing.T) {
	tc := NewTestContext(t)

	tc.SetHeader("Authorization", "Bearer token")

	assert.Equal(t, "Bearer token", tc.Context.Request.Header.Get("Authorization"))
}

func TestTestContext_ResponseCode(t *testing.T) {
	tc := NewTestContext(t)
	tc.Recorder.WriteHeader(http.StatusCreated)

	assert.Equal(t, http.StatusCreated, tc.ResponseCode())
}

func TestNewTestUUID_Deterministic(t *testing.T) {
	first := NewTestUUID("seed-1")
	second := NewTestUUID("seed-1")
	other := NewTestUUID("seed-2")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestActors(t *testing.T) {
	staff := StaffActor()
	admin := AdminActor()

	assert.Equal(t, shared.RoleStaff, staff.Role)
	assert.Equal(t, shared.RoleAdmin, admin.Role)
	assert.NotEqual(t, staff.UserID, admin.UserID)
}

func TestStaffContext_CarriesActor(t *testing.T) {
	actor, ok := shared.ActorFromContext(StaffContext())

	require.True(t, ok)
	assert.Equal(t, StaffActor(), actor)
}

func TestAssertEventually(t *testing.T) {
	calls := 0
	AssertEventually(t, func() bool {
		calls++
		return calls >= 3
	}, time.Second, time.Millisecond)

	assert.GreaterOrEqual(t, calls, 3)
}

func TestAssertNever(t *testing.T) {
	AssertNever(t, func() bool {
		return false
	}, 20*time.Millisecond, 5*time.Millisecond)
}
