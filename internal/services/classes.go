package services

import "schoolhub-backend-go/internal/store"

// ClassesForRole returns the classes visible to a caller: students see the
// classes they are enrolled in, teachers the ones they teach, admins all.
func ClassesForRole(st *store.Store, userID, role string) ([]store.Record, error) {
	classes := st.Collection(store.Classes)
	switch role {
	case RoleStudent:
		return classes.Find(store.Where(store.Contains("students", userID)))
	case RoleTeacher:
		return classes.Find(store.Where(store.Contains("teachers", userID)))
	default:
		return classes.Find(nil)
	}
}

// MemberClasses returns every class the user belongs to in any capacity:
// enrolled student, listed teacher, or owning teacher.
func MemberClasses(st *store.Store, userID string) ([]store.Record, error) {
	return st.Collection(store.Classes).Find(store.Where(store.Or(
		store.Where(store.Contains("students", userID)),
		store.Where(store.Contains("teachers", userID)),
		store.Where(store.Eq("teacher", userID)),
	)))
}

// IsClassTeacher reports whether userID owns or is listed as a teacher of
// the class record.
func IsClassTeacher(class store.Record, userID string) bool {
	if owner, _ := class["teacher"].(string); owner == userID {
		return true
	}
	teachers, _ := class["teachers"].([]any)
	for _, teacher := range teachers {
		if id, _ := teacher.(string); id == userID {
			return true
		}
	}
	return false
}

// ClassIDs extracts the ids of the given class records.
func ClassIDs(classes []store.Record) []string {
	ids := make([]string, 0, len(classes))
	for _, class := range classes {
		if id := class.ID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
