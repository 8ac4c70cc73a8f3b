package store_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub-backend-go/internal/store"
)

func openStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(dir)
	require.NoError(t, err)
	return st, dir
}

func TestOpenSeedsCollectionFiles(t *testing.T) {
	_, dir := openStore(t)
	for _, name := range []string{"users", "classes", "announcements", "assignments", "events", "media"} {
		raw, err := os.ReadFile(filepath.Join(dir, name+".json"))
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(raw))
	}
}

func TestInsertAssignsUniqueIDs(t *testing.T) {
	st, _ := openStore(t)
	events := st.Collection(store.Events)
	seen := map[string]bool{}
	for i := 0; i < 2000; i++ {
		rec, err := events.Insert(store.Record{"title": fmt.Sprintf("event %d", i)})
		require.NoError(t, err)
		id := rec.ID()
		require.NotEmpty(t, id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	all, err := events.ReadAll()
	require.NoError(t, err)
	assert.Len(t, all, 2000)
}

func TestInsertStampsCreatedAtAndKeepsProvidedFields(t *testing.T) {
	st, _ := openStore(t)
	events := st.Collection(store.Events)

	rec, err := events.Insert(store.Record{"title": "open day"})
	require.NoError(t, err)
	assert.NotEmpty(t, rec["createdAt"])

	rec, err = events.Insert(store.Record{"id": "evt-1", "createdAt": "2024-01-01T00:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", rec.ID())
	assert.Equal(t, "2024-01-01T00:00:00Z", rec["createdAt"])
}

func TestInsertAppendsInOrder(t *testing.T) {
	st, _ := openStore(t)
	events := st.Collection(store.Events)
	for _, id := range []string{"a", "b", "c"} {
		_, err := events.Insert(store.Record{"id": id})
		require.NoError(t, err)
	}
	all, err := events.ReadAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID())
	assert.Equal(t, "b", all[1].ID())
	assert.Equal(t, "c", all[2].ID())
}

func TestUpdateMergesPatchOverExistingRecord(t *testing.T) {
	st, _ := openStore(t)
	events := st.Collection(store.Events)
	_, err := events.Insert(store.Record{"id": "evt-1", "title": "old", "description": "keep me", "date": "2025-05-01"})
	require.NoError(t, err)

	updated, found, err := events.Update("evt-1", store.Record{"title": "new", "location": "gym"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new", updated["title"])
	assert.Equal(t, "gym", updated["location"])
	assert.Equal(t, "keep me", updated["description"])
	assert.Equal(t, "2025-05-01", updated["date"])

	stored, found, err := events.Get("evt-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new", stored["title"])
	assert.Equal(t, "keep me", stored["description"])
}

func TestUpdateCannotChangeID(t *testing.T) {
	st, _ := openStore(t)
	events := st.Collection(store.Events)
	_, err := events.Insert(store.Record{"id": "evt-1"})
	require.NoError(t, err)

	updated, found, err := events.Update("evt-1", store.Record{"id": "evt-2", "title": "renamed"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "evt-1", updated.ID())
}

func TestUpdateMissingIDReportsAbsent(t *testing.T) {
	st, _ := openStore(t)
	_, found, err := st.Collection(store.Events).Update("nope", store.Record{"title": "x"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemove(t *testing.T) {
	st, _ := openStore(t)
	events := st.Collection(store.Events)
	_, err := events.Insert(store.Record{"id": "evt-1"})
	require.NoError(t, err)
	_, err = events.Insert(store.Record{"id": "evt-2"})
	require.NoError(t, err)

	removed, err := events.Remove("evt-1")
	require.NoError(t, err)
	assert.True(t, removed)

	matches, err := events.Find(store.Where(store.Eq("id", "evt-1")))
	require.NoError(t, err)
	assert.Empty(t, matches)

	removed, err = events.Remove("evt-1")
	require.NoError(t, err)
	assert.False(t, removed)

	all, err := events.ReadAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCorruptedFileReadsAsEmptyButBlocksWrites(t *testing.T) {
	st, dir := openStore(t)
	users := st.Collection(store.Users)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0o644))

	matches, err := users.Find(nil)
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, found, err := users.FindOne(store.Where(store.Eq("id", "u1")))
	require.NoError(t, err)
	assert.False(t, found)

	_, err = users.ReadAll()
	assert.ErrorIs(t, err, store.ErrCorrupted)

	_, err = users.Insert(store.Record{"name": "nope"})
	assert.ErrorIs(t, err, store.ErrCorrupted)
	_, _, err = users.Update("u1", store.Record{"name": "nope"})
	assert.ErrorIs(t, err, store.ErrCorrupted)
	_, err = users.Remove("u1")
	assert.ErrorIs(t, err, store.ErrCorrupted)

	// The unreadable file must still hold its original bytes.
	raw, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))
}

func TestCollectionsSurviveReopen(t *testing.T) {
	st, dir := openStore(t)
	_, err := st.Collection(store.Media).Insert(store.Record{"id": "m1", "title": "photo"})
	require.NoError(t, err)

	reopened, err := store.Open(dir)
	require.NoError(t, err)
	rec, found, err := reopened.Collection(store.Media).Get("m1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "photo", rec["title"])
}

func TestUnknownCollectionFails(t *testing.T) {
	st, _ := openStore(t)
	_, err := st.Collection("grades").Insert(store.Record{})
	assert.ErrorIs(t, err, store.ErrUnknownCollection)
}
