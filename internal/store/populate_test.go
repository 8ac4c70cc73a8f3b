package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub-backend-go/internal/store"
)

func mapResolver(data map[string]map[string]store.Record) store.Resolver {
	return func(collection, id string) (store.Record, bool) {
		rec, ok := data[collection][id]
		return rec, ok
	}
}

func usersFixture() store.Resolver {
	return mapResolver(map[string]map[string]store.Record{
		"users": {
			"u1": {"id": "u1", "name": "Dana", "email": "dana@school.test", "passwordHash": "secret"},
			"u2": {"id": "u2", "name": "Omer", "email": "omer@school.test", "passwordHash": "secret"},
		},
		"classes": {
			"c1": {"id": "c1", "name": "7A", "teacher": "u1"},
		},
	})
}

func TestPopulateSingleReference(t *testing.T) {
	rec := store.Record{"id": "a1", "author": "u1"}
	out := store.Populate(rec, []store.Ref{{Field: "author", Collection: "users"}}, usersFixture())

	author, ok := out["author"].(store.Record)
	require.True(t, ok)
	assert.Equal(t, "Dana", author["name"])
	assert.Equal(t, "dana@school.test", author["email"])
}

func TestPopulateArrayKeepsOrderAndRawMisses(t *testing.T) {
	rec := store.Record{"id": "c1", "students": []any{"u2", "ghost", "u1"}}
	out := store.Populate(rec, []store.Ref{{Field: "students", Collection: "users", Select: "name"}}, usersFixture())

	students, ok := out["students"].([]any)
	require.True(t, ok)
	require.Len(t, students, 3)
	assert.Equal(t, store.Record{"name": "Omer"}, students[0])
	assert.Equal(t, "ghost", students[1])
	assert.Equal(t, store.Record{"name": "Dana"}, students[2])
}

func TestPopulateMissingSingleReferenceStaysRaw(t *testing.T) {
	rec := store.Record{"id": "a1", "author": "ghost"}
	out := store.Populate(rec, []store.Ref{{Field: "author", Collection: "users"}}, usersFixture())
	assert.Equal(t, "ghost", out["author"])
}

func TestPopulateNeverExposesPasswordHash(t *testing.T) {
	refs := []store.Ref{{Field: "author", Collection: "users"}}
	out := store.Populate(store.Record{"author": "u1"}, refs, usersFixture())
	author := out["author"].(store.Record)
	_, leaked := author["passwordHash"]
	assert.False(t, leaked)

	// Asking for the secret explicitly must not help.
	refs = []store.Ref{{Field: "author", Collection: "users", Select: "name passwordHash"}}
	out = store.Populate(store.Record{"author": "u1"}, refs, usersFixture())
	author = out["author"].(store.Record)
	_, leaked = author["passwordHash"]
	assert.False(t, leaked)
	assert.Equal(t, "Dana", author["name"])
}

func TestPopulateProjectionAcceptsSpacesAndCommas(t *testing.T) {
	refs := []store.Ref{{Field: "author", Collection: "users", Select: "name,email"}}
	out := store.Populate(store.Record{"author": "u1"}, refs, usersFixture())
	author := out["author"].(store.Record)
	assert.Equal(t, store.Record{"name": "Dana", "email": "dana@school.test"}, author)
}

func TestPopulateDoesNotMutateInput(t *testing.T) {
	rec := store.Record{"id": "a1", "author": "u1", "class": "c1"}
	refs := []store.Ref{
		{Field: "author", Collection: "users"},
		{Field: "class", Collection: "classes", Select: "name"},
	}
	out := store.Populate(rec, refs, usersFixture())

	assert.Equal(t, "u1", rec["author"])
	assert.Equal(t, "c1", rec["class"])
	assert.NotEqual(t, rec["author"], out["author"])
	assert.Equal(t, store.Record{"name": "7A"}, out["class"])
}

func TestPopulateLeavesUnlistedFieldsAlone(t *testing.T) {
	rec := store.Record{"id": "a1", "title": "homework", "author": "u1"}
	out := store.Populate(rec, []store.Ref{{Field: "author", Collection: "users"}}, usersFixture())
	assert.Equal(t, "homework", out["title"])
	assert.Equal(t, "a1", out.ID())
}
