package compass

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// State wraps a generic document tree (nil, bool, float64, string, []any,
// map[string]any) addressed by Path, matching spec.md's state model.
type State struct {
	root any
}

// NewState wraps an already-decoded document value.
func NewState(root any) *State { return &State{root: root} }

// Root returns the underlying document value.
func (s *State) Root() any { return s.root }

// Clone performs a deep structural copy of the state.
func (s *State) Clone() *State { return &State{root: cloneValue(s.root)} }

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

// Resolve looks up the value at path, returning (value, true) if present,
// or (nil, false) if any segment along the way is absent.
func (s *State) Resolve(p Path) (any, bool) {
	cur := s.root
	for _, seg := range p.Segments() {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Assign sets the value at path, creating intermediate maps as needed. It
// fails with InputError if an intermediate segment resolves to a non-container
// or an array index is out of bounds for anything but an append.
func (s *State) Assign(p Path, value any) error {
	segs := p.Segments()
	if len(segs) == 0 {
		s.root = value
		return nil
	}
	parentPath, _ := p.Parent()
	parent, err := s.ensureContainer(parentPath)
	if err != nil {
		return err
	}
	leaf := segs[len(segs)-1]
	switch node := parent.(type) {
	case map[string]any:
		node[leaf] = value
		return nil
	case []any:
		idx, convErr := strconv.Atoi(leaf)
		if convErr != nil {
			return NewInputError(fmt.Sprintf("compass: array index %q invalid", leaf), convErr)
		}
		if idx == len(node) {
			return s.assignParentSlice(parentPath, append(node, value))
		}
		if idx < 0 || idx >= len(node) {
			return NewInputError(fmt.Sprintf("compass: array index %d out of bounds", idx), nil)
		}
		node[idx] = value
		return nil
	default:
		return NewInputError(fmt.Sprintf("compass: cannot assign into non-container at %q", parentPath.String()), nil)
	}
}

func (s *State) assignParentSlice(parentPath Path, newSlice []any) error {
	if len(parentPath.Segments()) == 0 {
		s.root = newSlice
		return nil
	}
	grandParentPath, _ := parentPath.Parent()
	grandParent, err := s.ensureContainer(grandParentPath)
	if err != nil {
		return err
	}
	leaf, _ := parentPath.Leaf()
	switch node := grandParent.(type) {
	case map[string]any:
		node[leaf] = newSlice
		return nil
	case []any:
		idx, convErr := strconv.Atoi(leaf)
		if convErr != nil || idx < 0 || idx >= len(node) {
			return NewInputError("compass: cannot grow array in place", convErr)
		}
		node[idx] = newSlice
		return nil
	default:
		return NewInputError("compass: cannot assign grown array into non-container", nil)
	}
}

// ensureContainer walks to path, creating empty maps for any absent
// intermediate segment, and returns the resolved container (map or slice).
func (s *State) ensureContainer(p Path) (any, error) {
	segs := p.Segments()
	if len(segs) == 0 {
		if s.root == nil {
			s.root = map[string]any{}
		}
		return s.root, nil
	}
	if _, ok := s.root.(map[string]any); !ok && s.root == nil {
		s.root = map[string]any{}
	}
	var cur any = s.root
	for i, seg := range segs {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				next = map[string]any{}
				node[seg] = next
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, NewInputError(fmt.Sprintf("compass: cannot resolve parent path segment %q", seg), err)
			}
			cur = node[idx]
		default:
			return nil, NewInputError(fmt.Sprintf("compass: intermediate path segment %d of %q is not a container", i, p.String()), nil)
		}
	}
	return cur, nil
}

// Delete removes the value at path. Deleting an array element that is not
// the last element is modeled as replace-with-successor + remove-last,
// matching spec.md's array-mid-deletion invariant; deleting the last
// element (or the sole matching element) is a plain remove.
func (s *State) Delete(p Path) error {
	parentPath, hasParent := p.Parent()
	if !hasParent {
		s.root = nil
		return nil
	}
	parent, ok := s.Resolve(parentPath)
	if !ok {
		return NewNotFoundError(fmt.Sprintf("compass: delete target parent %q not found", parentPath.String()))
	}
	leaf, _ := p.Leaf()
	switch node := parent.(type) {
	case map[string]any:
		if _, exists := node[leaf]; !exists {
			return NewNotFoundError(fmt.Sprintf("compass: delete target %q not found", p.String()))
		}
		delete(node, leaf)
		return nil
	case []any:
		idx, err := strconv.Atoi(leaf)
		if err != nil || idx < 0 || idx >= len(node) {
			return NewNotFoundError(fmt.Sprintf("compass: delete target %q not found", p.String()))
		}
		last := len(node) - 1
		copy(node[idx:], node[idx+1:])
		return s.assignParentSlice(parentPath, node[:last])
	default:
		return NewNotFoundError(fmt.Sprintf("compass: delete target parent %q is not a container", parentPath.String()))
	}
}

// OpKind is the kind of a single patch operation.
type OpKind string

const (
	OpAssign OpKind = "assign"
	OpRemove OpKind = "remove"
)

// Op is a single structural change at a path.
type Op struct {
	Kind  OpKind
	Path  Path
	Value any
}

// Patch is an ordered sequence of structural operations transforming one
// state into another.
type Patch struct {
	Ops []Op
}

// Empty reports whether the patch carries no operations (states are equal).
func (p Patch) Empty() bool { return len(p.Ops) == 0 }

// Len is the patch's operation count.
func (p Patch) Len() int { return len(p.Ops) }

// Apply applies every op in the patch to the state, in order.
func (s *State) Apply(p Patch) error {
	for _, op := range p.Ops {
		switch op.Kind {
		case OpAssign:
			if err := s.Assign(op.Path, op.Value); err != nil {
				return err
			}
		case OpRemove:
			if err := s.Delete(op.Path); err != nil {
				return err
			}
		default:
			return NewUnexpectedError(fmt.Sprintf("compass: unknown op kind %q", op.Kind), nil)
		}
	}
	return nil
}

// Diff computes the patch that transforms `from` into `to`, rooted at base.
func Diff(base Path, from, to any) Patch {
	var ops []Op
	diffValue(base, from, to, &ops)
	return Patch{Ops: ops}
}

func diffValue(at Path, from, to any, ops *[]Op) {
	fromMap, fromIsMap := from.(map[string]any)
	toMap, toIsMap := to.(map[string]any)
	if fromIsMap && toIsMap {
		diffMaps(at, fromMap, toMap, ops)
		return
	}
	fromArr, fromIsArr := from.([]any)
	toArr, toIsArr := to.([]any)
	if fromIsArr && toIsArr {
		diffArrays(at, fromArr, toArr, ops)
		return
	}
	if !valuesEqual(from, to) {
		*ops = append(*ops, Op{Kind: OpAssign, Path: at, Value: to})
	}
}

func diffMaps(at Path, from, to map[string]any, ops *[]Op) {
	keys := make([]string, 0, len(from)+len(to))
	seen := map[string]bool{}
	for k := range from {
		keys = append(keys, k)
		seen[k] = true
	}
	for k := range to {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fv, fok := from[k]
		tv, tok := to[k]
		child := at.AppendKey(k)
		switch {
		case fok && !tok:
			*ops = append(*ops, Op{Kind: OpRemove, Path: child})
		case !fok && tok:
			*ops = append(*ops, Op{Kind: OpAssign, Path: child, Value: tv})
		default:
			diffValue(child, fv, tv, ops)
		}
	}
}

// diffArrays treats arrays positionally. Deleting any index but the last is
// represented as assign(index, successor-chain) + remove(last); deleting the
// last is a plain remove, matching spec.md's invariant.
func diffArrays(at Path, from, to []any, ops *[]Op) {
	n := len(from)
	m := len(to)
	common := n
	if m < common {
		common = m
	}
	for i := 0; i < common; i++ {
		diffValue(at.AppendIndex(i), from[i], to[i], ops)
	}
	switch {
	case m > n:
		for i := n; i < m; i++ {
			*ops = append(*ops, Op{Kind: OpAssign, Path: at.AppendIndex(i), Value: to[i]})
		}
	case n > m:
		for i := n - 1; i >= m; i-- {
			*ops = append(*ops, Op{Kind: OpRemove, Path: at.AppendIndex(i)})
		}
	}
}

func valuesEqual(a, b any) bool {
	ab, aerr := json.Marshal(a)
	bb, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return false
	}
	return string(ab) == string(bb)
}

// Canonical produces a deterministic JSON encoding of v, suitable for
// content-addressed hashing (sorted map keys, stable number formatting).
func Canonical(v any) ([]byte, error) {
	return json.Marshal(canonicalize(v))
}

func canonicalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make(orderedMap, 0, len(keys))
		for _, k := range keys {
			ordered = append(ordered, orderedEntry{k, canonicalize(t[k])})
		}
		return ordered
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = canonicalize(e)
		}
		return out
	default:
		return v
	}
}

type orderedEntry struct {
	Key   string
	Value any
}

type orderedMap []orderedEntry

func (m orderedMap) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, e := range m {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}
