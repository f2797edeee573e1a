// Command compass is a small goyek-based demo driving the planner/workflow
// packages over the bundled counters and blocks-world fixtures, in the same
// task-definition-plus-boot shape the teacher's own scaffolded
// main.go template uses (goyek.Define + boot.Main).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/goyek/goyek/v3"
	"github.com/goyek/x/boot"

	"github.com/fredrikaverpil/compass"
	"github.com/fredrikaverpil/compass/examples/blocks"
	"github.com/fredrikaverpil/compass/examples/counters"
	"github.com/fredrikaverpil/compass/planner"
	"github.com/fredrikaverpil/compass/workflow"
)

var (
	fixtureParam = goyek.NewStringParam(goyek.StringParam{
		Name:    "fixture",
		Usage:   "which bundled example domain to plan over: counters|blocks",
		Default: "counters",
	})
	currentParam = goyek.NewStringParam(goyek.StringParam{
		Name:  "current",
		Usage: "path to a YAML file holding the current state",
	})
	targetParam = goyek.NewStringParam(goyek.StringParam{
		Name:  "target",
		Usage: "path to a YAML file holding the target state",
	})
)

func loadYAML(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compass: read %s: %w", path, err)
	}
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("compass: parse %s: %w", path, err)
	}
	return v, nil
}

func plannerFor(name string) (*planner.Planner, error) {
	switch name {
	case "counters":
		return planner.New(counters.NewDomain()), nil
	case "blocks":
		return planner.New(blocks.NewDomain()), nil
	default:
		return nil, fmt.Errorf("compass: unknown fixture %q", name)
	}
}

func loadPair(a *goyek.A) (*compass.State, any, error) {
	current, err := loadYAML(currentParam.Get(a))
	if err != nil {
		return nil, nil, err
	}
	target, err := loadYAML(targetParam.Get(a))
	if err != nil {
		return nil, nil, err
	}
	return compass.NewState(current), target, nil
}

var _ = goyek.Define(goyek.Task{
	Name:   "plan",
	Usage:  "find and print a workflow transforming --current into --target",
	Params: goyek.Params{}.Add(fixtureParam).Add(currentParam).Add(targetParam),
	Action: func(a *goyek.A) {
		out := workflow.StdPrinter()
		pl, err := plannerFor(fixtureParam.Get(a))
		if err != nil {
			a.Fatal(err.Error())
			return
		}
		state, target, err := loadPair(a)
		if err != nil {
			a.Fatal(err.Error())
			return
		}
		wf, err := pl.FindWorkflow(state, target)
		if err != nil {
			a.Fatal(err.Error())
			return
		}
		out.PlanHeader(fmt.Sprintf("plan (%s):", fixtureParam.Get(a)))
		fmt.Fprintln(out.Stdout, wf.String())
	},
})

var _ = goyek.Define(goyek.Task{
	Name:   "run",
	Usage:  "find a workflow and execute it against --current, printing the resulting state",
	Params: goyek.Params{}.Add(fixtureParam).Add(currentParam).Add(targetParam),
	Action: func(a *goyek.A) {
		out := workflow.StdPrinter()
		pl, err := plannerFor(fixtureParam.Get(a))
		if err != nil {
			a.Fatal(err.Error())
			return
		}
		state, target, err := loadPair(a)
		if err != nil {
			a.Fatal(err.Error())
			return
		}
		wf, err := pl.FindWorkflow(state, target)
		if err != nil {
			a.Fatal(err.Error())
			return
		}
		if err := wf.Run(context.Background(), state); err != nil {
			a.Fatal(err.Error())
			return
		}
		rendered, err := yaml.Marshal(state.Root())
		if err != nil {
			a.Fatal(err.Error())
			return
		}
		fmt.Fprint(out.Stdout, string(rendered))
	},
})

func main() {
	boot.Main()
}
