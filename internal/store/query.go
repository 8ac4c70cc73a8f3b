package store

// The predicate mini-language: a Predicate is a conjunction of clauses, a
// clause is scalar equality, set membership, array containment, or a
// disjunction of sub-predicates. Whether a field is matched as a scalar or
// as an array of ids is explicit at the call site (Eq vs Contains), never
// inferred from the field name.

// Clause matches a single condition against a record.
type Clause interface {
	matches(rec Record) bool
}

// Predicate is a conjunction of clauses. A nil or empty predicate matches
// every record.
type Predicate []Clause

// Where builds a predicate from the given clauses.
func Where(clauses ...Clause) Predicate {
	return Predicate(clauses)
}

// Matches reports whether rec satisfies every clause.
func (p Predicate) Matches(rec Record) bool {
	for _, clause := range p {
		if !clause.matches(rec) {
			return false
		}
	}
	return true
}

type eqClause struct {
	field string
	value any
}

// Eq matches records whose field equals value (strict type and value).
func Eq(field string, value any) Clause {
	return eqClause{field: field, value: value}
}

func (c eqClause) matches(rec Record) bool {
	return scalarEqual(rec[c.field], c.value)
}

type inClause struct {
	field  string
	values []any
}

// In matches records whose scalar field is one of the given values.
func In(field string, values ...any) Clause {
	return inClause{field: field, values: values}
}

// InStrings is In over a slice of string literals.
func InStrings(field string, values []string) Clause {
	boxed := make([]any, len(values))
	for i, value := range values {
		boxed[i] = value
	}
	return inClause{field: field, values: boxed}
}

func (c inClause) matches(rec Record) bool {
	value := rec[c.field]
	for _, candidate := range c.values {
		if scalarEqual(value, candidate) {
			return true
		}
	}
	return false
}

type containsClause struct {
	field string
	value any
}

// Contains matches records whose array field has value as an element.
// Records where the field is absent or not an array do not match.
func Contains(field string, value any) Clause {
	return containsClause{field: field, value: value}
}

func (c containsClause) matches(rec Record) bool {
	items, ok := rec[c.field].([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if scalarEqual(item, c.value) {
			return true
		}
	}
	return false
}

type orClause struct {
	branches []Predicate
}

// Or matches records satisfying at least one of the sub-predicates in full.
func Or(branches ...Predicate) Clause {
	return orClause{branches: branches}
}

func (c orClause) matches(rec Record) bool {
	for _, branch := range c.branches {
		if branch.Matches(rec) {
			return true
		}
	}
	return false
}

// scalarEqual compares two JSON scalar values. Values decoded from the
// backing files are string, bool, float64 or nil; integer literals from
// call sites are normalized so Eq("grade", 5) matches a stored 5.
func scalarEqual(a, b any) bool {
	if na, ok := normalizeNumber(a); ok {
		nb, ok := normalizeNumber(b)
		return ok && na == nb
	}
	switch a.(type) {
	case string, bool, nil:
		return a == b
	}
	return false
}

func normalizeNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
