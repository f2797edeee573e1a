// Package extract provides the typed accessors a Job's handler function
// declares as parameters: Pointer, View, Target, Args and System. A job's
// Scoped() status is the conjunction of every extractor it declares.
package extract

import (
	"encoding/json"
	"fmt"

	"github.com/fredrikaverpil/compass"
)

// resolver is implemented by every extractor (via pointer receiver) so the
// reflective job lifter in package task can fill in an arbitrary
// extractor's value without itself needing to be generic.
type resolver interface {
	resolveInto(state *compass.State, ctx compass.Context) error
}

// ScopeHinter reports whether an extractor instance is scoped to its job's
// context path (true for everything but System).
type ScopeHinter interface {
	Scoped() bool
}

func roundtrip(v any, dst any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return compass.NewUnexpectedError("compass/extract: marshal intermediate value", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return compass.NewInputError("compass/extract: value does not match extractor type", err)
	}
	return nil
}

// Pointer resolves an optional value at the job's context path. Present is
// false, and Value is the zero value of T, when the leaf is absent; the
// extraction only fails if the parent of the path is absent or is not a map
// or array.
type Pointer[T any] struct {
	Value   T
	Present bool
	Path    compass.Path
}

func (p Pointer[T]) Scoped() bool { return true }

func (p *Pointer[T]) resolveInto(state *compass.State, ctx compass.Context) error {
	p.Path = ctx.Path
	v, ok := state.Resolve(ctx.Path)
	if !ok {
		if parentPath, hasParent := ctx.Path.Parent(); hasParent {
			parent, found := state.Resolve(parentPath)
			_, isMap := parent.(map[string]any)
			_, isArr := parent.([]any)
			if !found || !(isMap || isArr) {
				return compass.NewNotFoundError(fmt.Sprintf("compass/extract: pointer parent %q cannot be reached", parentPath.String()))
			}
		}
		p.Present = false
		return nil
	}
	if err := roundtrip(v, &p.Value); err != nil {
		return err
	}
	p.Present = true
	return nil
}

// Get returns the resolved value and whether it was present.
func (p Pointer[T]) Get() (T, bool) { return p.Value, p.Present }

// GetOrZero returns the resolved value, or the zero value of T if absent.
func (p Pointer[T]) GetOrZero() T { return p.Value }

// Assign produces a patch op that writes v at this pointer's own path.
func (p Pointer[T]) Assign(v T) compass.Op {
	return compass.Op{Kind: compass.OpAssign, Path: p.Path, Value: v}
}

// Unassign produces a patch op that removes the value at this pointer's
// own path.
func (p Pointer[T]) Unassign() compass.Op {
	return compass.Op{Kind: compass.OpRemove, Path: p.Path}
}

// View is a Pointer that fails extraction if its value is absent.
type View[T any] struct {
	Value T
	Path  compass.Path
}

func (v View[T]) Scoped() bool { return true }

func (v *View[T]) resolveInto(state *compass.State, ctx compass.Context) error {
	v.Path = ctx.Path
	raw, ok := state.Resolve(ctx.Path)
	if !ok {
		return compass.NewNotFoundError(fmt.Sprintf("compass/extract: view at %q has no value", ctx.Path.String()))
	}
	return roundtrip(raw, &v.Value)
}

// Get returns the resolved value.
func (v View[T]) Get() T { return v.Value }

// Target deserializes the context's target value, failing if the context
// carries no target.
type Target[T any] struct {
	Value T
}

func (t Target[T]) Scoped() bool { return true }

func (t *Target[T]) resolveInto(state *compass.State, ctx compass.Context) error {
	if !ctx.HasTarget() {
		return compass.NewInputError("compass/extract: target requested but context has none", nil)
	}
	return roundtrip(ctx.Target, &t.Value)
}

// Get returns the resolved target value.
func (t Target[T]) Get() T { return t.Value }

// ArgKey is a phantom marker type used to bind an Args extractor instance to
// a single named template argument, since Go reflection cannot recover
// parameter names at runtime.
type ArgKey interface {
	ArgName() string
}

// Args extracts a single named template-captured path argument as type T,
// where T is one of string or any type implementing encoding.TextUnmarshaler
// semantics via JSON string decoding.
type Args[K ArgKey, T any] struct {
	Value T
}

func (a Args[K, T]) Scoped() bool { return true }

func (a *Args[K, T]) resolveInto(_ *compass.State, ctx compass.Context) error {
	var key K
	raw, ok := ctx.Arg(key.ArgName())
	if !ok {
		return compass.NewInputError(fmt.Sprintf("compass/extract: missing path arg %q", key.ArgName()), nil)
	}
	quoted, err := json.Marshal(raw)
	if err != nil {
		return compass.NewUnexpectedError("compass/extract: marshal arg string", err)
	}
	if err := json.Unmarshal(quoted, &a.Value); err != nil {
		return compass.NewInputError(fmt.Sprintf("compass/extract: arg %q does not parse as requested type", key.ArgName()), err)
	}
	return nil
}

// Get returns the resolved argument value.
func (a Args[K, T]) Get() T { return a.Value }

// Self exposes the job's own resolved path and captured template args,
// without resolving any state value. Composite Methods use it to address
// sub-tasks relative to their own route.
type Self struct {
	Path compass.Path
	Args map[string]string
}

func (s Self) Scoped() bool { return true }

func (s *Self) resolveInto(_ *compass.State, ctx compass.Context) error {
	s.Path = ctx.Path
	s.Args = ctx.Args
	return nil
}

// System extracts the entire state document, independent of the job's
// context path. It is the only unscoped extractor.
type System[T any] struct {
	Value T
}

func (s System[T]) Scoped() bool { return false }

func (s *System[T]) resolveInto(state *compass.State, _ compass.Context) error {
	return roundtrip(state.Root(), &s.Value)
}

// Get returns the resolved whole-state value.
func (s System[T]) Get() T { return s.Value }

// Resolve fills dst (a pointer to one of Pointer[T]/View[T]/Target[T]/
// Args[K,T]/System[T]) in place. Exported so package task's reflective
// handler lifter can drive extraction without this package depending on
// reflect internals of its own. dst must implement the package-private
// resolver interface; any other value is an UnexpectedError.
func Resolve(dst any, state *compass.State, ctx compass.Context) error {
	r, ok := dst.(resolver)
	if !ok {
		return compass.NewUnexpectedError(fmt.Sprintf("compass/extract: %T is not an extractor", dst), nil)
	}
	return r.resolveInto(state, ctx)
}

// Scoped reports the Scoped() hint of an extractor value.
func Scoped(v ScopeHinter) bool { return v.Scoped() }
