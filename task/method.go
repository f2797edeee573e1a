package task

import (
	"fmt"
	"reflect"

	"github.com/fredrikaverpil/compass"
)

var taskSliceType = reflect.TypeOf([]Task{})

// Method is a composite job: its handler returns the ordered sub-tasks that
// realize it, or an empty slice if the method is not applicable in the
// current state. A nil error with zero sub-tasks means "not applicable",
// not "nothing to do".
type Method struct {
	*binding
}

// NewMethod lifts a handler func(extractors...) ([]task.Task, error) into a
// Method job. Panics on a malformed signature, as NewAction does.
func NewMethod(fn any) *Method {
	b := newBinding(fn, KindMethod)
	t := b.fn.Type()
	if t.NumOut() != 2 {
		panic(fmt.Sprintf("compass/task: method handler %s must return ([]task.Task, error)", b.id))
	}
	if t.Out(0) != taskSliceType {
		panic(fmt.Sprintf("compass/task: method handler %s's first return must be []task.Task, got %s", b.id, t.Out(0)))
	}
	if !t.Out(1).Implements(errorType) {
		panic(fmt.Sprintf("compass/task: method handler %s's second return must be error", b.id))
	}
	return &Method{binding: b}
}

// Expand resolves the method's extractors against state/ctx and invokes its
// handler, returning ordered sub-tasks. Sub-tasks inherit any arg from ctx
// that they do not already declare themselves (additive, never
// overwriting). A panic inside the handler is recovered and surfaced as an
// InputError, matching the handler-panic contract of Action/Method
// construction.
func (m *Method) Expand(state *compass.State, ctx compass.Context) ([]Task, error) {
	args, err := m.resolveArgs(state, ctx)
	if err != nil {
		return nil, err
	}
	out, err := m.call(args)
	if err != nil {
		return nil, err
	}
	if errVal := out[1].Interface(); errVal != nil {
		return nil, errVal.(error)
	}
	subtasks := out[0].Interface().([]Task)
	result := make([]Task, len(subtasks))
	for i, sub := range subtasks {
		merged := sub.Context
		for k, v := range ctx.Args {
			if _, exists := merged.Args[k]; !exists {
				merged = merged.WithArg(k, v)
			}
		}
		sub.Context = merged
		result[i] = sub
	}
	return result, nil
}
