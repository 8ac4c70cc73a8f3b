package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub-backend-go/internal/store"
)

func seedClasses(t *testing.T, st *store.Store, records ...store.Record) *store.Collection {
	t.Helper()
	classes := st.Collection(store.Classes)
	require.NoError(t, classes.WriteAll(records))
	return classes
}

func matchedIDs(t *testing.T, c *store.Collection, pred store.Predicate) []string {
	t.Helper()
	matches, err := c.Find(pred)
	require.NoError(t, err)
	ids := make([]string, 0, len(matches))
	for _, rec := range matches {
		ids = append(ids, rec.ID())
	}
	return ids
}

func TestNilPredicateMatchesEverything(t *testing.T) {
	st, _ := openStore(t)
	classes := seedClasses(t, st,
		store.Record{"id": "c1"},
		store.Record{"id": "c2"},
	)
	assert.Equal(t, []string{"c1", "c2"}, matchedIDs(t, classes, nil))
	assert.Equal(t, []string{"c1", "c2"}, matchedIDs(t, classes, store.Where()))
}

func TestEqIsStrict(t *testing.T) {
	st, _ := openStore(t)
	classes := seedClasses(t, st,
		store.Record{"id": "c1", "isGlobal": true},
		store.Record{"id": "c2", "isGlobal": "true"},
		store.Record{"id": "c3"},
	)
	assert.Equal(t, []string{"c1"}, matchedIDs(t, classes, store.Where(store.Eq("isGlobal", true))))
}

func TestEqMatchesNumbersAcrossJSONRoundtrip(t *testing.T) {
	st, _ := openStore(t)
	classes := seedClasses(t, st, store.Record{"id": "c1", "grade": 7})
	// Stored values come back as float64; integer literals still match.
	assert.Equal(t, []string{"c1"}, matchedIDs(t, classes, store.Where(store.Eq("grade", 7))))
}

func TestConjunctionRequiresEveryClause(t *testing.T) {
	st, _ := openStore(t)
	classes := seedClasses(t, st,
		store.Record{"id": "c1", "name": "7A", "teacher": "T1"},
		store.Record{"id": "c2", "name": "7A", "teacher": "T2"},
	)
	pred := store.Where(store.Eq("name", "7A"), store.Eq("teacher", "T2"))
	assert.Equal(t, []string{"c2"}, matchedIDs(t, classes, pred))
}

func TestInMatchesScalarMembership(t *testing.T) {
	st, _ := openStore(t)
	classes := seedClasses(t, st,
		store.Record{"id": "a1", "class": "c1"},
		store.Record{"id": "a2", "class": "c2"},
		store.Record{"id": "a3", "class": "c3"},
	)
	pred := store.Where(store.InStrings("class", []string{"c1", "c3"}))
	assert.Equal(t, []string{"a1", "a3"}, matchedIDs(t, classes, pred))
}

func TestContainsChecksArrayElements(t *testing.T) {
	st, _ := openStore(t)
	classes := seedClasses(t, st,
		store.Record{"id": "c1", "students": []any{"S1", "S2"}},
		store.Record{"id": "c2", "students": []any{"S3"}},
		store.Record{"id": "c3"},
		store.Record{"id": "c4", "students": "S1"},
	)
	assert.Equal(t, []string{"c1"}, matchedIDs(t, classes, store.Where(store.Contains("students", "S1"))))
}

func TestOrMembershipDisjunction(t *testing.T) {
	st, _ := openStore(t)
	classes := seedClasses(t, st,
		store.Record{"id": "1", "students": []any{}},
		store.Record{"id": "2", "teachers": []any{"T1"}},
		store.Record{"id": "3", "students": []any{"S1"}},
	)
	pred := store.Where(store.Or(
		store.Where(store.Contains("students", "S1")),
		store.Where(store.Contains("teachers", "T1")),
	))
	assert.Equal(t, []string{"2", "3"}, matchedIDs(t, classes, pred))
}

func TestOrBranchIsAllOrNothing(t *testing.T) {
	st, _ := openStore(t)
	classes := seedClasses(t, st,
		store.Record{"id": "c1", "name": "7A", "year": float64(2025)},
		store.Record{"id": "c2", "name": "7A", "year": float64(2024)},
	)
	pred := store.Where(store.Or(
		store.Where(store.Eq("name", "7A"), store.Eq("year", 2024)),
	))
	assert.Equal(t, []string{"c2"}, matchedIDs(t, classes, pred))
}
