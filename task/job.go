// Package task implements the Job/Task/Intent machinery: handler functions
// are lifted into Action or Method jobs by reflecting over their declared
// extractor parameters, since Go has no compile-time variadic generics
// equivalent to the macro-based arity unrolling this is ported from.
package task

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/fredrikaverpil/compass"
	"github.com/fredrikaverpil/compass/extract"
)

// Kind distinguishes atomic Action jobs from composite Method jobs.
type Kind int

const (
	KindAction Kind = iota
	KindMethod
)

const maxArity = 16

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Job is the common surface both Action and Method expose to Intent and
// Domain: identity, composite-vs-atomic degree, and scoped-ness.
type Job interface {
	ID() string
	Degree() int
	Scoped() bool
}

// binding holds the reflective machinery shared by Action and Method: the
// handler function, its declared extractor parameter types, and whether
// every one of them is scoped.
type binding struct {
	id         string
	kind       Kind
	fn         reflect.Value
	paramTypes []reflect.Type
	scoped     bool
}

func newBinding(fn any, kind Kind) *binding {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		panic(fmt.Sprintf("compass/task: handler must be a func, got %s", t.Kind()))
	}
	if t.NumIn() > maxArity {
		panic(fmt.Sprintf("compass/task: handler declares %d params, max supported arity is %d", t.NumIn(), maxArity))
	}
	paramTypes := make([]reflect.Type, t.NumIn())
	scoped := true
	for i := 0; i < t.NumIn(); i++ {
		pt := t.In(i)
		zero := reflect.New(pt).Elem().Interface()
		hinter, ok := zero.(extract.ScopeHinter)
		if !ok {
			panic(fmt.Sprintf("compass/task: param %d of handler is not a recognized extractor type (%s)", i, pt))
		}
		if !hinter.Scoped() {
			scoped = false
		}
		paramTypes[i] = pt
	}
	name := runtime.FuncForPC(v.Pointer()).Name()
	return &binding{id: name, kind: kind, fn: v, paramTypes: paramTypes, scoped: scoped}
}

func (b *binding) ID() string { return b.id }

// Degree orders composite (Method) jobs before atomic (Action) jobs in
// deterministic intent sorting: 0 for Method, 1 for Action.
func (b *binding) Degree() int {
	if b.kind == KindMethod {
		return 0
	}
	return 1
}

func (b *binding) Scoped() bool { return b.scoped }

func (b *binding) resolveArgs(state *compass.State, ctx compass.Context) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(b.paramTypes))
	for i, pt := range b.paramTypes {
		ptr := reflect.New(pt)
		if err := extract.Resolve(ptr.Interface(), state, ctx); err != nil {
			return nil, err
		}
		args[i] = ptr.Elem()
	}
	return args, nil
}

func (b *binding) call(args []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = compass.NewInputError(fmt.Sprintf("compass/task: handler %s panicked", b.id), fmt.Errorf("%v", r))
		}
	}()
	out = b.fn.Call(args)
	return out, nil
}
