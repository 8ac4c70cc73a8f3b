package httpapi

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"schoolhub-backend-go/internal/services"
	"schoolhub-backend-go/internal/store"
)

func mapServiceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if serr, ok := err.(services.ServiceError); ok {
		WriteError(w, serr.Status, serr.Message)
		return true
	}
	return false
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

// recordTime parses a record's timestamp field for ordering. Unparseable
// or missing values sort to the zero time.
func recordTime(rec store.Record, field string) time.Time {
	raw, _ := rec[field].(string)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z07:00", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func sortByTimeAsc(records []store.Record, field string) {
	sort.SliceStable(records, func(i, j int) bool {
		return recordTime(records[i], field).Before(recordTime(records[j], field))
	})
}

func sortByTimeDesc(records []store.Record, field string) {
	sort.SliceStable(records, func(i, j int) bool {
		return recordTime(records[j], field).Before(recordTime(records[i], field))
	})
}
