package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
	"github.com/jakechorley/shiftsignup/pkg/memstore"
)

// newStore returns a memstore whose clock advances one second per call, so
// signup order is deterministic
func newStore() *memstore.DB {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	return memstore.New(memstore.WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}))
}

func generate(t *testing.T, store *memstore.DB, eventID, start, end string, capacity int) []db.Timeslot {
	t.Helper()
	result, err := GenerateTimeslots(context.Background(), store, zap.NewNop(), GenerateRequest{
		EventID:   eventID,
		StartTime: start,
		EndTime:   end,
		Capacity:  capacity,
	})
	require.NoError(t, err)
	return result.Timeslots
}

func signupUser(t *testing.T, store *memstore.DB, timeslotID, userID string) *db.Signup {
	t.Helper()
	s, err := SignupForTimeslot(context.Background(), store, zap.NewNop(), SignupRequest{
		TimeslotID: timeslotID,
		User:       model.UserSnapshot{UserID: userID, FirstName: userID, LastName: "Volunteer"},
	})
	require.NoError(t, err)
	return s
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestCreateTimeslot(t *testing.T) {
	store := newStore()
	ctx := context.Background()
	generate(t, store, "event-1", "09:00", "13:00", 4)

	ts, err := CreateTimeslot(ctx, store, zap.NewNop(), CreateTimeslotRequest{
		EventID:   "event-1",
		StartTime: "10:00",
		EndTime:   "10:30",
		Capacity:  2,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ts.ID)
	assert.Equal(t, 3, ts.ShiftNumber)
	assert.Nil(t, ts.TeamLeadUserID)

	// Custom slots may overlap generated ones
	views, err := ListEventTimeslots(ctx, store, "event-1")
	require.NoError(t, err)
	assert.Len(t, views, 3)
}

func TestCreateTimeslot_Invalid(t *testing.T) {
	store := newStore()
	ctx := context.Background()

	_, err := CreateTimeslot(ctx, store, zap.NewNop(), CreateTimeslotRequest{
		EventID: "event-1", StartTime: "11:00", EndTime: "10:00", Capacity: 2,
	})
	assert.ErrorIs(t, err, model.ErrInvalidRange)

	_, err = CreateTimeslot(ctx, store, zap.NewNop(), CreateTimeslotRequest{
		EventID: "event-1", StartTime: "09:00", EndTime: "10:00", Capacity: 0,
	})
	assert.ErrorIs(t, err, model.ErrInvalidTimeslot)

	_, err = CreateTimeslot(ctx, store, zap.NewNop(), CreateTimeslotRequest{
		EventID: "event-1", StartTime: "9am", EndTime: "10:00", Capacity: 1,
	})
	assert.ErrorIs(t, err, model.ErrInvalidTimeslot)
}

func TestUpdateTimeslot_CapacityGuard(t *testing.T) {
	store := newStore()
	ctx := context.Background()
	slot := generate(t, store, "event-1", "09:00", "11:00", 4)[0]
	signupUser(t, store, slot.ID, "u1")
	signupUser(t, store, slot.ID, "u2")

	_, err := UpdateTimeslot(ctx, store, zap.NewNop(), slot.ID, db.TimeslotPatch{Capacity: intPtr(1)})
	assert.ErrorIs(t, err, model.ErrCapacityBelowSignups)

	updated, err := UpdateTimeslot(ctx, store, zap.NewNop(), slot.ID, db.TimeslotPatch{Capacity: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Capacity)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestUpdateTimeslot_Validation(t *testing.T) {
	store := newStore()
	ctx := context.Background()
	slot := generate(t, store, "event-1", "09:00", "11:00", 4)[0]

	_, err := UpdateTimeslot(ctx, store, zap.NewNop(), slot.ID, db.TimeslotPatch{Capacity: intPtr(0)})
	assert.ErrorIs(t, err, model.ErrInvalidTimeslot)

	_, err = UpdateTimeslot(ctx, store, zap.NewNop(), slot.ID, db.TimeslotPatch{StartTime: strPtr("25:00")})
	assert.ErrorIs(t, err, model.ErrInvalidTimeslot)

	_, err = UpdateTimeslot(ctx, store, zap.NewNop(), slot.ID, db.TimeslotPatch{EndTime: strPtr("08:00")})
	assert.ErrorIs(t, err, model.ErrInvalidRange)

	unchanged, err := UpdateTimeslot(ctx, store, zap.NewNop(), slot.ID, db.TimeslotPatch{})
	require.NoError(t, err)
	assert.Equal(t, slot.EndTime, unchanged.EndTime)

	_, err = UpdateTimeslot(ctx, store, zap.NewNop(), "missing", db.TimeslotPatch{Capacity: intPtr(3)})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateTimeslot_ShiftNumberKeepsEventDense(t *testing.T) {
	store := newStore()
	ctx := context.Background()
	slots := generate(t, store, "event-1", "09:00", "15:00", 4)

	moved, err := UpdateTimeslot(ctx, store, zap.NewNop(), slots[0].ID, db.TimeslotPatch{ShiftNumber: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, moved.ShiftNumber)

	views, err := ListEventTimeslots(ctx, store, "event-1")
	require.NoError(t, err)
	require.Len(t, views, 3)
	for i, id := range []string{slots[1].ID, slots[0].ID, slots[2].ID} {
		assert.Equal(t, id, views[i].ID)
		assert.Equal(t, i+1, views[i].ShiftNumber)
	}

	_, err = UpdateTimeslot(ctx, store, zap.NewNop(), slots[0].ID, db.TimeslotPatch{ShiftNumber: intPtr(7)})
	assert.ErrorIs(t, err, model.ErrInvalidTimeslot)
}

func TestCreateTimeslot_AtShiftNumber(t *testing.T) {
	store := newStore()
	ctx := context.Background()
	slots := generate(t, store, "event-1", "09:00", "13:00", 4)

	ts, err := CreateTimeslot(ctx, store, zap.NewNop(), CreateTimeslotRequest{
		EventID: "event-1", ShiftNumber: 1, StartTime: "08:00", EndTime: "09:00", Capacity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ts.ShiftNumber)

	views, err := ListEventTimeslots(ctx, store, "event-1")
	require.NoError(t, err)
	require.Len(t, views, 3)
	for i, id := range []string{ts.ID, slots[0].ID, slots[1].ID} {
		assert.Equal(t, id, views[i].ID)
		assert.Equal(t, i+1, views[i].ShiftNumber)
	}

	_, err = CreateTimeslot(ctx, store, zap.NewNop(), CreateTimeslotRequest{
		EventID: "event-1", ShiftNumber: 5, StartTime: "13:00", EndTime: "14:00", Capacity: 2,
	})
	assert.ErrorIs(t, err, model.ErrInvalidTimeslot)
}

func TestCreateTimeslot_RejectsSignedClock(t *testing.T) {
	store := newStore()
	_, err := CreateTimeslot(context.Background(), store, zap.NewNop(), CreateTimeslotRequest{
		EventID: "event-1", StartTime: "+9:00", EndTime: "10:00", Capacity: 1,
	})
	assert.ErrorIs(t, err, model.ErrInvalidTimeslot)
}

func TestDeleteTimeslot_CascadeAndRenumber(t *testing.T) {
	store := newStore()
	ctx := context.Background()
	slots := generate(t, store, "event-1", "09:00", "15:00", 4)
	other := generate(t, store, "event-2", "09:00", "11:00", 4)[0]

	signupUser(t, store, slots[1].ID, "u1")
	cancelled := signupUser(t, store, slots[1].ID, "u2")
	_, err := CancelSignup(ctx, store, zap.NewNop(), cancelled.ID)
	require.NoError(t, err)
	signupUser(t, store, other.ID, "u1")

	result, err := DeleteTimeslot(ctx, store, zap.NewNop(), slots[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RemovedSignups)
	require.Len(t, result.Remaining, 2)
	assert.Equal(t, slots[0].ID, result.Remaining[0].ID)
	assert.Equal(t, 1, result.Remaining[0].ShiftNumber)
	assert.Equal(t, slots[2].ID, result.Remaining[1].ID)
	assert.Equal(t, 2, result.Remaining[1].ShiftNumber)

	otherSignups, err := store.ListSignups(ctx, db.SignupFilter{EventID: "event-2"})
	require.NoError(t, err)
	assert.Len(t, otherSignups, 1)

	_, err = DeleteTimeslot(ctx, store, zap.NewNop(), slots[1].ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTeamLead(t *testing.T) {
	store := newStore()
	ctx := context.Background()
	slot := generate(t, store, "event-1", "09:00", "11:00", 4)[0]
	signupUser(t, store, slot.ID, "u1")

	_, err := AssignTeamLead(ctx, store, zap.NewNop(), slot.ID, "stranger")
	assert.ErrorIs(t, err, model.ErrTeamLeadNotSignedUp)

	ts, err := AssignTeamLead(ctx, store, zap.NewNop(), slot.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, ts.TeamLeadUserID)
	assert.Equal(t, "u1", *ts.TeamLeadUserID)

	ts, err = RemoveTeamLead(ctx, store, zap.NewNop(), slot.ID)
	require.NoError(t, err)
	assert.Nil(t, ts.TeamLeadUserID)

	_, err = RemoveTeamLead(ctx, store, zap.NewNop(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
