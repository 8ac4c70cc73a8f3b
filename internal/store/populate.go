package store

import "strings"

// secretField is never included in a resolved sub-document, with or
// without a projection.
const secretField = "passwordHash"

// Ref directs the populator to replace an id-valued field with the record
// it points at. Select is an optional space- or comma-delimited list of
// fields to keep on the resolved sub-document.
type Ref struct {
	Field      string
	Collection string
	Select     string
}

// Resolver looks up a record by id in a named collection.
type Resolver func(collection, id string) (Record, bool)

// Populate returns a copy of rec with each ref's field replaced by the
// resolved sub-document(s). Array fields resolve element by element in
// order; an id with no matching record stays as the raw id. The input
// record is never mutated.
func Populate(rec Record, refs []Ref, resolve Resolver) Record {
	if rec == nil {
		return nil
	}
	populated := Record{}
	for key, value := range rec {
		populated[key] = value
	}
	for _, ref := range refs {
		switch value := populated[ref.Field].(type) {
		case []any:
			resolved := make([]any, len(value))
			for i, item := range value {
				resolved[i] = resolveOne(item, ref, resolve)
			}
			populated[ref.Field] = resolved
		case string:
			populated[ref.Field] = resolveOne(value, ref, resolve)
		}
	}
	return populated
}

func resolveOne(value any, ref Ref, resolve Resolver) any {
	id, ok := value.(string)
	if !ok {
		return value
	}
	target, ok := resolve(ref.Collection, id)
	if !ok {
		return id
	}
	return project(target, ref.Select)
}

func project(rec Record, selectList string) Record {
	if selectList == "" {
		out := Record{}
		for key, value := range rec {
			if key != secretField {
				out[key] = value
			}
		}
		return out
	}
	out := Record{}
	for _, field := range splitFields(selectList) {
		if field == secretField {
			continue
		}
		if value, ok := rec[field]; ok {
			out[field] = value
		}
	}
	return out
}

func splitFields(list string) []string {
	fields := strings.FieldsFunc(list, func(r rune) bool {
		return r == ' ' || r == ','
	})
	return fields
}

// Populate resolves refs against the store's own collections.
func (s *Store) Populate(rec Record, refs []Ref) Record {
	return Populate(rec, refs, func(collection, id string) (Record, bool) {
		target, ok, err := s.Collection(collection).Get(id)
		if err != nil {
			return nil, false
		}
		return target, ok
	})
}
