// Package workflow assembles planner output into an executable DAG: each
// WorkUnit carries a content-addressed id, and the Workflow renders as
// seq!/par! text exactly as the test suite this is grounded on expects.
package workflow

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fredrikaverpil/compass"
	"github.com/fredrikaverpil/compass/task"
)

// WorkUnit is a single planned invocation of an Action at a concrete path,
// bound to the target value that drove its selection and a snapshot of the
// state it was planned against.
type WorkUnit struct {
	ID       string
	TaskID   string
	Path     compass.Path
	Action   *task.Action
	Context  compass.Context
	Target   any
	Scoped   bool
	stateKey []byte
}

// NewWorkUnit builds a WorkUnit, computing its content-addressed id from
// the task id, path, canonical target, and canonical state-at-path —
// exactly the four components spec.md's workflow model names.
func NewWorkUnit(taskID string, path compass.Path, action *task.Action, ctx compass.Context, target any, stateAtPath any, scoped bool) (WorkUnit, error) {
	targetBytes, err := compass.Canonical(target)
	if err != nil {
		return WorkUnit{}, compass.NewUnexpectedError("compass/workflow: canonicalize target", err)
	}
	stateBytes, err := compass.Canonical(stateAtPath)
	if err != nil {
		return WorkUnit{}, compass.NewUnexpectedError("compass/workflow: canonicalize state", err)
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", taskID, path.String())
	h.Write(targetBytes)
	h.Write([]byte{0})
	h.Write(stateBytes)
	id := hex.EncodeToString(h.Sum(nil))
	return WorkUnit{
		ID:       id,
		TaskID:   taskID,
		Path:     path,
		Action:   action,
		Context:  ctx,
		Target:   target,
		Scoped:   scoped,
		stateKey: append(targetBytes, stateBytes...),
	}, nil
}

// String renders as "task_id(path)", the node text format the seq!/par!
// serialization composes.
func (w WorkUnit) String() string {
	return fmt.Sprintf("%s(%s)", w.TaskID, w.Path.String())
}
