package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/tutor_connect/internal/cache"
	"github.com/Freeeeeet/tutor_connect/internal/model"
)

func setupTestStore(t *testing.T) *Store {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	store, err := New(context.Background(), Connection{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var slot = time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

func TestSaveAndLoad(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	s1 := model.StudentBooking{Subject: "Math", Time: slot, TutorID: "anna-uid", TutorName: "Anna"}
	s2 := model.StudentBooking{Subject: "Art", Time: slot, TutorID: "anna-uid", TutorName: "Anna"}
	t1 := model.TutorBooking{Subject: "Math", StudentEmail: "bob@example.com", Time: slot}

	err := store.Save(ctx, "bob", cache.Snapshot{
		IsTutor:         true,
		StudentBookings: []model.StudentBooking{s1, s2},
		TutorBookings:   []model.TutorBooking{t1},
	})
	require.NoError(t, err)

	snapshot, err := store.Load(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.True(t, snapshot.IsTutor)
	assert.Equal(t, []model.StudentBooking{s1, s2}, snapshot.StudentBookings)
	assert.Equal(t, []model.TutorBooking{t1}, snapshot.TutorBookings)
}

func TestLoadNotFound(t *testing.T) {
	store := setupTestStore(t)

	snapshot, err := store.Load(context.Background(), "no_such_owner")
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestLoadDropsBrokenRows(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t1 := model.TutorBooking{Subject: "Math", StudentEmail: "bob@example.com", Time: slot}
	require.NoError(t, store.Save(ctx, "anna", cache.Snapshot{TutorBookings: []model.TutorBooking{t1}}))

	require.NoError(t, store.Db.RPush(ctx, tutorKey("anna"), "not-json", `{"subject":"Math","time":"2025-07-01T11:00:00Z"}`).Err())

	snapshot, err := store.Load(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, []model.TutorBooking{t1}, snapshot.TutorBookings)
}

func TestSaveErasesPreviousRows(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	s1 := model.StudentBooking{Subject: "Math", Time: slot, TutorID: "anna-uid", TutorName: "Anna"}
	require.NoError(t, store.Save(ctx, "bob", cache.Snapshot{StudentBookings: []model.StudentBooking{s1}}))
	require.NoError(t, store.Save(ctx, "bob", cache.Snapshot{}))

	snapshot, err := store.Load(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Empty(t, snapshot.StudentBookings)
	assert.Empty(t, snapshot.TutorBookings)
}
