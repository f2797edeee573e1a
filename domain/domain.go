// Package domain implements the path-template router binding Intents to
// routes: given a concrete path, it resolves the ordered set of Intents
// applicable there (longest-match among registered templates), and given a
// job id it can resolve back to the template it was registered under.
package domain

import (
	"fmt"

	"github.com/fredrikaverpil/compass"
	"github.com/fredrikaverpil/compass/task"
)

type route struct {
	template compass.Path
	intents  []task.Intent
}

// Domain is an append-only router. A job may be registered under exactly
// one route, and at most once at that route; violating either
// invariant panics, matching the registration-time contract failures of the
// source this is ported from.
type Domain struct {
	routes   []*route
	jobPaths map[string]compass.Path
}

// New creates an empty Domain.
func New() *Domain {
	return &Domain{jobPaths: map[string]compass.Path{}}
}

// Job registers job as able to satisfy intent.Operation goals at the given
// path template. Panics if job is already registered under a different
// template, or already registered at this template (under any operation).
func (d *Domain) Job(path compass.Path, intent task.Intent) *Domain {
	if existing, ok := d.jobPaths[intent.Job.ID()]; ok && existing.String() != path.String() {
		panic(fmt.Sprintf("compass/domain: job %q already registered at path %q, cannot also register at %q", intent.Job.ID(), existing.String(), path.String()))
	}
	r := d.routeFor(path)
	for _, existing := range r.intents {
		if existing.Job.ID() == intent.Job.ID() {
			panic(fmt.Sprintf("compass/domain: job %q already registered (operation %s) at path %q", intent.Job.ID(), existing.Operation, path.String()))
		}
	}
	r.intents = append(r.intents, intent)
	task.SortIntents(r.intents)
	d.jobPaths[intent.Job.ID()] = path
	return d
}

func (d *Domain) routeFor(path compass.Path) *route {
	for _, r := range d.routes {
		if r.template.String() == path.String() {
			return r
		}
	}
	r := &route{template: path}
	d.routes = append(d.routes, r)
	return r
}

// Match is the result of resolving a concrete path against the domain.
type Match struct {
	Template compass.Path
	Args     map[string]string
	Intents  []task.Intent
}

// Resolve finds the most specific (longest-match) registered template
// matching the given concrete path, returning its captured args and ordered
// intents.
func (d *Domain) Resolve(concrete compass.Path) (Match, bool) {
	var best *route
	var bestArgs map[string]string
	for _, r := range d.routes {
		args, ok := r.template.Match(concrete)
		if !ok {
			continue
		}
		if best == nil || r.template.Specificity() > best.template.Specificity() {
			best, bestArgs = r, args
		}
	}
	if best == nil {
		return Match{}, false
	}
	return Match{Template: best.template, Args: bestArgs, Intents: best.intents}, true
}

// FindPathForJob reverse-resolves a job id back to a concrete path by
// rendering its registered template with the given args. Returns
// compass.ErrNotFound if the job was never registered.
func (d *Domain) FindPathForJob(jobID string, args map[string]string) (compass.Path, error) {
	tmpl, ok := d.jobPaths[jobID]
	if !ok {
		return compass.Path{}, compass.NewNotFoundError(fmt.Sprintf("compass/domain: no route registered for job %q", jobID))
	}
	rendered, err := tmpl.Render(args)
	if err != nil {
		return compass.Path{}, compass.NewNotFoundError(fmt.Sprintf("compass/domain: cannot render route for job %q: %v", jobID, err))
	}
	return rendered, nil
}

// Templates returns every registered route template, in registration order.
func (d *Domain) Templates() []compass.Path {
	out := make([]compass.Path, len(d.routes))
	for i, r := range d.routes {
		out[i] = r.template
	}
	return out
}
