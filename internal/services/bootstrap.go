package services

import (
	"log"

	"schoolhub-backend-go/internal/store"
)

// EnsureAdminUser seeds the configured admin account on first run. It is
// idempotent: an existing user with the admin email is left untouched, so
// restarting the process never creates a second admin.
func EnsureAdminUser(st *store.Store, tokens TokenService, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	users := st.Collection(store.Users)
	_, exists, err := users.FindOne(store.Where(store.Eq("email", email)))
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	hash, err := tokens.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = users.Insert(store.Record{
		"name":         "Administrator",
		"email":        email,
		"passwordHash": hash,
		"role":         RoleAdmin,
		"classes":      []any{},
	})
	if err != nil {
		return err
	}
	log.Printf("seeded admin user %s", email)
	return nil
}
