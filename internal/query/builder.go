// Package query assembles parameterized PostgreSQL statements for the
// restaurant listings.
package query

import (
	"fmt"
	"reflect"
	"strings"

	"restaurantapi/internal/jsonpath"
)

// Column renders the SQL expression a filter compares against.
type Column interface {
	SQL() string
}

// Col is a plain table column.
type Col string

func (c Col) SQL() string { return string(c) }

// JSONText exposes a scalar inside a JSONB column as a text column. Objects,
// arrays and JSON null render as SQL NULL so they never match a filter.
type JSONText struct {
	Column string
	Path   jsonpath.Path
}

func (j JSONText) SQL() string {
	lit := pgTextArray(j.Path.Keys())
	return fmt.Sprintf(
		"(CASE WHEN jsonb_typeof(%[1]s #> %[2]s) IN ('string', 'number', 'boolean') THEN %[1]s #>> %[2]s END)",
		j.Column, lit,
	)
}

// pgTextArray renders keys as a quoted text[] literal, e.g. '{"a","0"}'.
func pgTextArray(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		k = strings.ReplaceAll(k, `\`, `\\`)
		k = strings.ReplaceAll(k, `"`, `\"`)
		quoted[i] = `"` + k + `"`
	}
	lit := "{" + strings.Join(quoted, ",") + "}"
	return "'" + strings.ReplaceAll(lit, "'", "''") + "'"
}

type Operator int

const (
	Eq Operator = iota
	Ne
	Contains
	Gte
)

func (o Operator) String() string {
	switch o {
	case Eq:
		return "="
	case Ne:
		return "<>"
	case Contains:
		return "ILIKE"
	case Gte:
		return ">="
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// Filter is one optional predicate. A nil, empty-string or nil-pointer Value
// makes the filter a no-op.
type Filter struct {
	Column Column
	Op     Operator
	Value  any
}

// Builder accumulates predicates and their arguments in lockstep. Placeholder
// numbers are assigned when a parameter is added, so skipped filters never
// leave gaps.
type Builder struct {
	next       int
	predicates []string
	args       []any
}

// NewBuilder starts numbering placeholders at start ($start, $start+1, ...).
func NewBuilder(start int) *Builder {
	if start < 1 {
		start = 1
	}
	return &Builder{next: start}
}

// Param reserves the next placeholder for v and returns it.
func (b *Builder) Param(v any) string {
	ph := fmt.Sprintf("$%d", b.next)
	b.args = append(b.args, v)
	b.next++
	return ph
}

// Where appends a predicate that takes no parameters.
func (b *Builder) Where(predicate string) *Builder {
	b.predicates = append(b.predicates, predicate)
	return b
}

func (b *Builder) Add(filters ...Filter) *Builder {
	for _, f := range filters {
		v, ok := value(f.Value)
		if !ok {
			continue
		}
		col := f.Column.SQL()
		switch f.Op {
		case Contains:
			ph := b.Param("%" + escapeLike(fmt.Sprint(v)) + "%")
			b.predicates = append(b.predicates, fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, col, ph))
		default:
			ph := b.Param(v)
			b.predicates = append(b.predicates, fmt.Sprintf("%s %s %s", col, f.Op, ph))
		}
	}
	return b
}

func (b *Builder) Predicates() []string { return append([]string(nil), b.predicates...) }

func (b *Builder) Args() []any { return append([]any(nil), b.args...) }

// Next is the placeholder number the next parameter will receive.
func (b *Builder) Next() int { return b.next }

// WhereClause joins the predicates with AND, or returns "" when there are none.
func (b *Builder) WhereClause() string {
	if len(b.predicates) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.predicates, " AND ")
}

// value dereferences pointers and reports whether v carries a value.
func value(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.String && rv.Len() == 0 {
		return nil, false
	}
	return rv.Interface(), true
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
