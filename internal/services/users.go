package services

import (
	"strings"

	"schoolhub-backend-go/internal/store"
)

// SanitizeUser returns a copy of a user record without the password hash.
func SanitizeUser(rec store.Record) store.Record {
	out := store.Record{}
	for key, value := range rec {
		if key == "passwordHash" {
			continue
		}
		out[key] = value
	}
	return out
}

func UserByID(st *store.Store, id string) (store.Record, bool, error) {
	return st.Collection(store.Users).Get(id)
}

func UserByEmail(st *store.Store, email string) (store.Record, bool, error) {
	return st.Collection(store.Users).FindOne(store.Where(store.Eq("email", strings.TrimSpace(email))))
}
