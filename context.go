package compass

// Context carries the per-invocation addressing information passed to a
// job: the concrete path it was matched against, the template args captured
// from that match, and an optional target value supplied by the caller
// (e.g. the planner's current search goal at this path).
type Context struct {
	Path   Path
	Args   map[string]string
	Target any
	hasTgt bool
}

// NewContext builds a Context for a concrete path with no target set.
func NewContext(path Path, args map[string]string) Context {
	if args == nil {
		args = map[string]string{}
	}
	return Context{Path: path, Args: args}
}

// WithTarget returns a copy of the context carrying the given target value.
func (c Context) WithTarget(v any) Context {
	c.Target = v
	c.hasTgt = true
	return c
}

// HasTarget reports whether a target value was set on this context.
func (c Context) HasTarget() bool { return c.hasTgt }

// WithArg returns a copy of the context with an additional named arg
// merged in (existing keys are overwritten).
func (c Context) WithArg(name, value string) Context {
	merged := make(map[string]string, len(c.Args)+1)
	for k, v := range c.Args {
		merged[k] = v
	}
	merged[name] = value
	c.Args = merged
	return c
}

// Arg looks up a named template-captured argument.
func (c Context) Arg(name string) (string, bool) {
	v, ok := c.Args[name]
	return v, ok
}
