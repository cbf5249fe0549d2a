// Package jsonpath reads named sub-fields out of decoded JSON documents.
//
// A path is a dotted list of object keys with optional bracketed array
// indexes, e.g. "location.address.address" or "media[0].sizes". Lookups never
// fail on missing intermediate keys; they report absence instead.
package jsonpath

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var ErrInvalidPath = errors.New("invalid json path")

// Segment is either an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

type Path struct {
	raw      string
	segments []Segment
}

func Parse(expr string) (Path, error) {
	if strings.TrimSpace(expr) == "" {
		return Path{}, fmt.Errorf("%w: empty", ErrInvalidPath)
	}

	var segs []Segment
	for _, part := range strings.Split(expr, ".") {
		key, rest, bracket := strings.Cut(part, "[")
		if key == "" && !bracket {
			return Path{}, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, expr)
		}
		if strings.Contains(key, "]") {
			return Path{}, fmt.Errorf("%w: stray bracket in %q", ErrInvalidPath, expr)
		}
		if key != "" {
			segs = append(segs, Segment{Key: key})
		}
		if !bracket {
			continue
		}
		// rest is "0]" or "0][1]"
		for _, idx := range strings.Split(strings.TrimSuffix(rest, "]"), "][") {
			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 {
				return Path{}, fmt.Errorf("%w: bad index %q in %q", ErrInvalidPath, idx, expr)
			}
			segs = append(segs, Segment{Index: n, IsIndex: true})
		}
		if !strings.HasSuffix(rest, "]") {
			return Path{}, fmt.Errorf("%w: unclosed bracket in %q", ErrInvalidPath, expr)
		}
	}
	return Path{raw: expr, segments: segs}, nil
}

// MustParse is Parse for package-level path constants.
func MustParse(expr string) Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string { return p.raw }

func (p Path) Segments() []Segment {
	return append([]Segment(nil), p.segments...)
}

// Keys renders every segment as text, the form a store's native path
// operators expect (indexes become "0", "1", ...).
func (p Path) Keys() []string {
	out := make([]string, len(p.segments))
	for i, s := range p.segments {
		out[i] = s.String()
	}
	return out
}

// Lookup walks doc, a value produced by decoding JSON into any.
func (p Path) Lookup(doc any) (any, bool) {
	cur := doc
	for _, s := range p.segments {
		if s.IsIndex {
			arr, ok := cur.([]any)
			if !ok || s.Index >= len(arr) {
				return nil, false
			}
			cur = arr[s.Index]
			continue
		}
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[s.Key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Scalar returns the text form of a string, number or boolean at p.
// Objects, arrays and JSON null are reported as absent.
func (p Path) Scalar(doc any) (string, bool) {
	v, ok := p.Lookup(doc)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// Decode parses raw JSON keeping numbers as json.Number. Empty input and the
// literal null decode to a nil document.
func Decode(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ScalarFromRaw decodes raw and extracts the scalar at p. Malformed JSON is
// treated the same as a missing field.
func (p Path) ScalarFromRaw(raw []byte) (string, bool) {
	doc, err := Decode(raw)
	if err != nil {
		return "", false
	}
	return p.Scalar(doc)
}
