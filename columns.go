package dpipes

import "fmt"

// ColsKey is the reserved argument name carrying a stage's column selection.
// Column-scoped pipe functions read it via Cols.
const ColsKey = "cols"

// ColumnSpec describes which columns each stage of a column processor
// operates on. Build one with Column, Columns, or ColumnsPerStage.
type ColumnSpec struct {
	single   string
	flat     []string
	perStage [][]string
	kind     colSpecKind
}

type colSpecKind int

const (
	colSpecSingle colSpecKind = iota
	colSpecFlat
	colSpecPerStage
)

// Column selects a single column, broadcast to every stage.
func Column(name string) ColumnSpec {
	return ColumnSpec{single: name, kind: colSpecSingle}
}

// Columns selects a set of columns, broadcast identically to every stage.
func Columns(names ...string) ColumnSpec {
	return ColumnSpec{flat: names, kind: colSpecFlat}
}

// ColumnsPerStage selects one column group per stage, positionally aligned
// with the function list. The group count must equal the function count.
func ColumnsPerStage(groups ...[]string) ColumnSpec {
	return ColumnSpec{perStage: groups, kind: colSpecPerStage}
}

// resolve normalizes the spec into one selection per stage. A selection is
// either a string or a []string, matching what column-scoped functions
// accept. Broadcast list selections are copied per stage so stages never
// share a slice.
func (cs ColumnSpec) resolve(n int) ([]any, error) {
	out := make([]any, n)
	switch cs.kind {
	case colSpecSingle:
		for i := range out {
			out[i] = cs.single
		}
	case colSpecFlat:
		for i := range out {
			group := make([]string, len(cs.flat))
			copy(group, cs.flat)
			out[i] = group
		}
	case colSpecPerStage:
		if len(cs.perStage) != n {
			return nil, fmt.Errorf("dpipes: got %d column groups for %d funcs", len(cs.perStage), n)
		}
		for i, group := range cs.perStage {
			out[i] = group
		}
	}
	return out, nil
}

// Cols returns the column selection bound to a stage, normalized to a list.
// A single column name becomes a one-element list. Returns an error if no
// selection was bound or the value has an unexpected type.
func Cols(args Args) ([]string, error) {
	raw, ok := args[ColsKey]
	if !ok {
		return nil, fmt.Errorf("dpipes: no column selection bound (arg %q missing)", ColsKey)
	}
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	default:
		return nil, fmt.Errorf("dpipes: arg %q: expected string or []string, got %T", ColsKey, raw)
	}
}
