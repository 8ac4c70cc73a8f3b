// Package store implements the flat-file document database backing the
// portal: one JSON array file per collection, queried in memory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Collection names. Each maps to <name>.json under the data directory;
// the per-collection files are part of the durable contract and must stay
// independently loadable.
const (
	Users         = "users"
	Classes       = "classes"
	Announcements = "announcements"
	Assignments   = "assignments"
	Events        = "events"
	Media         = "media"
)

var collectionNames = []string{Users, Classes, Announcements, Assignments, Events, Media}

// ErrCorrupted reports a backing file that exists but cannot be parsed.
// Read paths treat it as an empty collection; write paths must refuse to
// overwrite the unreadable data.
var ErrCorrupted = errors.New("collection file corrupted")

// ErrUnknownCollection reports a collection name outside the fixed set.
var ErrUnknownCollection = errors.New("unknown collection")

// Record is a single stored document. Every persisted record has a string
// "id"; everything else is open-ended JSON.
type Record map[string]any

// ID returns the record's id, or "" when unset.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Store holds the fixed set of collections under a single data directory.
type Store struct {
	dir   string
	locks map[string]*sync.Mutex
}

// Open prepares the data directory and seeds an empty file for every
// collection that does not exist yet.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	locks := make(map[string]*sync.Mutex, len(collectionNames))
	for _, name := range collectionNames {
		locks[name] = &sync.Mutex{}
		path := filepath.Join(dir, name+".json")
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return nil, err
		}
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, err
		}
	}
	return &Store{dir: dir, locks: locks}, nil
}

// Collection returns a handle for the named collection. The name must be
// one of the fixed set; operations on an unknown name fail.
func (s *Store) Collection(name string) *Collection {
	return &Collection{store: s, name: name}
}

// Collection is a named ordered sequence of records backed by one file.
// Mutating operations serialize on a per-collection mutex so overlapping
// read-modify-write cycles cannot interleave.
type Collection struct {
	store *Store
	name  string
}

func (c *Collection) path() string {
	return filepath.Join(c.store.dir, c.name+".json")
}

func (c *Collection) lock() (*sync.Mutex, error) {
	mu, ok := c.store.locks[c.name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, c.name)
	}
	return mu, nil
}

func (c *Collection) readAll() ([]Record, error) {
	if _, err := c.lock(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(c.path())
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupted, c.name, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (c *Collection) writeAll(records []Record) error {
	if records == nil {
		records = []Record{}
	}
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	// Write to a temp file in the same directory and rename over the
	// target so a failed write leaves the prior contents intact.
	tmp, err := os.CreateTemp(c.store.dir, c.name+"-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path())
}

// ReadAll returns every record in storage order.
func (c *Collection) ReadAll() ([]Record, error) {
	return c.readAll()
}

// WriteAll replaces the collection's full contents.
func (c *Collection) WriteAll(records []Record) error {
	mu, err := c.lock()
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	return c.writeAll(records)
}

// Find returns all records matching pred in storage order. A nil predicate
// matches everything. A corrupted backing file reads as empty.
func (c *Collection) Find(pred Predicate) ([]Record, error) {
	records, err := c.readAll()
	if err != nil {
		if errors.Is(err, ErrCorrupted) {
			return []Record{}, nil
		}
		return nil, err
	}
	matched := make([]Record, 0, len(records))
	for _, rec := range records {
		if pred.Matches(rec) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// FindOne returns the first record matching pred, or ok=false when none does.
func (c *Collection) FindOne(pred Predicate) (Record, bool, error) {
	records, err := c.readAll()
	if err != nil {
		if errors.Is(err, ErrCorrupted) {
			return nil, false, nil
		}
		return nil, false, err
	}
	for _, rec := range records {
		if pred.Matches(rec) {
			return rec, true, nil
		}
	}
	return nil, false, nil
}

// Get returns the record with the given id.
func (c *Collection) Get(id string) (Record, bool, error) {
	return c.FindOne(Where(Eq("id", id)))
}

// Insert stores rec at the end of the collection, assigning a fresh id and
// createdAt stamp when absent, and returns the stored record.
func (c *Collection) Insert(rec Record) (Record, error) {
	mu, err := c.lock()
	if err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	records, err := c.readAll()
	if err != nil {
		return nil, err
	}
	stored := Record{}
	for key, value := range rec {
		stored[key] = value
	}
	if stored.ID() == "" {
		stored["id"] = uuid.NewString()
	}
	if _, ok := stored["createdAt"]; !ok {
		stored["createdAt"] = time.Now().UTC().Format(time.RFC3339)
	}
	records = append(records, stored)
	if err := c.writeAll(records); err != nil {
		return nil, err
	}
	return stored, nil
}

// Update merges patch over the record with the given id and persists the
// collection. Fields absent from patch are retained; the id itself is
// immutable. Returns ok=false when no record has that id.
func (c *Collection) Update(id string, patch Record) (Record, bool, error) {
	mu, err := c.lock()
	if err != nil {
		return nil, false, err
	}
	mu.Lock()
	defer mu.Unlock()
	records, err := c.readAll()
	if err != nil {
		return nil, false, err
	}
	for i, rec := range records {
		if rec.ID() != id {
			continue
		}
		merged := Record{}
		for key, value := range rec {
			merged[key] = value
		}
		for key, value := range patch {
			if key == "id" {
				continue
			}
			merged[key] = value
		}
		records[i] = merged
		if err := c.writeAll(records); err != nil {
			return nil, false, err
		}
		return merged, true, nil
	}
	return nil, false, nil
}

// Remove deletes the record with the given id, reporting whether it existed.
// The collection is rewritten either way.
func (c *Collection) Remove(id string) (bool, error) {
	mu, err := c.lock()
	if err != nil {
		return false, err
	}
	mu.Lock()
	defer mu.Unlock()
	records, err := c.readAll()
	if err != nil {
		return false, err
	}
	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.ID() != id {
			kept = append(kept, rec)
		}
	}
	if err := c.writeAll(kept); err != nil {
		return false, err
	}
	return len(kept) < len(records), nil
}
