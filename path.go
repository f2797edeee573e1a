package compass

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is an RFC-6901 style pointer, optionally containing template holes
// such as {name} (single segment) or {*name} (tail wildcard). Literal
// braces are written doubled: {{ and }}.
type Path struct {
	raw      string
	segments []segment
}

type segmentKind int

const (
	segLiteral segmentKind = iota
	segHole
	segWildcard
)

type segment struct {
	kind segmentKind
	text string // literal text, or hole/wildcard name
}

// MustPath parses a compile-time-literal path template, panicking on a
// malformed literal the way a Go programmer error would.
func MustPath(raw string) Path {
	p, err := ParsePath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePath parses a path template from user-controlled input.
func ParsePath(raw string) (Path, error) {
	if !strings.HasPrefix(raw, "/") {
		return Path{}, fmt.Errorf("compass: path %q must start with /", raw)
	}
	if raw == "/" {
		return Path{raw: raw}, nil
	}
	parts := strings.Split(raw[1:], "/")
	segs := make([]segment, 0, len(parts))
	for _, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return Path{}, fmt.Errorf("compass: path %q: %w", raw, err)
		}
		segs = append(segs, seg)
	}
	return Path{raw: raw, segments: segs}, nil
}

func parseSegment(part string) (segment, error) {
	unescaped := strings.ReplaceAll(strings.ReplaceAll(part, "{{", "\x00"), "}}", "\x01")
	if strings.Contains(unescaped, "{") || strings.Contains(unescaped, "}") {
		if strings.HasPrefix(unescaped, "{*") && strings.HasSuffix(unescaped, "}") {
			name := unescaped[2 : len(unescaped)-1]
			if name == "" {
				return segment{}, fmt.Errorf("empty wildcard name in segment %q", part)
			}
			return segment{kind: segWildcard, text: name}, nil
		}
		if strings.HasPrefix(unescaped, "{") && strings.HasSuffix(unescaped, "}") {
			name := unescaped[1 : len(unescaped)-1]
			if name == "" {
				return segment{}, fmt.Errorf("empty hole name in segment %q", part)
			}
			return segment{kind: segHole, text: name}, nil
		}
		return segment{}, fmt.Errorf("malformed template segment %q", part)
	}
	lit := strings.ReplaceAll(strings.ReplaceAll(unescaped, "\x00", "{"), "\x01", "}")
	return segment{kind: segLiteral, text: lit}, nil
}

// String returns the original raw path template.
func (p Path) String() string { return p.raw }

// IsTemplate reports whether the path contains any {name}/{*name} holes.
func (p Path) IsTemplate() bool {
	for _, s := range p.segments {
		if s.kind != segLiteral {
			return true
		}
	}
	return false
}

// Segments returns a copy of the path's literal segment strings, splitting
// a concrete (non-template) path on "/".
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	for i, s := range p.segments {
		out[i] = s.text
	}
	return out
}

// Match attempts to match a concrete path against this template, returning
// the captured (name -> value) bindings on success.
func (p Path) Match(concrete Path) (map[string]string, bool) {
	args := map[string]string{}
	ci := 0
	cSegs := concrete.segments
	for _, s := range p.segments {
		switch s.kind {
		case segLiteral:
			if ci >= len(cSegs) || cSegs[ci].text != s.text {
				return nil, false
			}
			ci++
		case segHole:
			if ci >= len(cSegs) {
				return nil, false
			}
			args[s.text] = cSegs[ci].text
			ci++
		case segWildcard:
			rest := make([]string, 0, len(cSegs)-ci)
			for ; ci < len(cSegs); ci++ {
				rest = append(rest, cSegs[ci].text)
			}
			args[s.text] = strings.Join(rest, "/")
			return args, true
		}
	}
	if ci != len(cSegs) {
		return nil, false
	}
	return args, true
}

// Specificity is used for longest-match route resolution: literal segments
// count more than holes, holes count more than a trailing wildcard.
func (p Path) Specificity() int {
	score := 0
	for _, s := range p.segments {
		switch s.kind {
		case segLiteral:
			score += 100
		case segHole:
			score += 10
		case segWildcard:
			score += 1
		}
	}
	return score
}

// Render substitutes the given args into this template, producing a
// concrete path. It errors if a hole has no matching arg.
func (p Path) Render(args map[string]string) (Path, error) {
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		switch s.kind {
		case segLiteral:
			b.WriteString(escapeLiteral(s.text))
		case segHole, segWildcard:
			v, ok := args[s.text]
			if !ok {
				return Path{}, fmt.Errorf("compass: missing arg %q rendering path %q", s.text, p.raw)
			}
			b.WriteString(v)
		}
	}
	raw := b.String()
	if raw == "" {
		raw = "/"
	}
	return ParsePath(raw)
}

func escapeLiteral(s string) string {
	s = strings.ReplaceAll(s, "{", "{{")
	return strings.ReplaceAll(s, "}", "}}")
}

// AppendIndex returns a concrete path with an additional numeric array index
// segment appended.
func (p Path) AppendIndex(i int) Path {
	return p.appendLiteral(strconv.Itoa(i))
}

// AppendKey returns a concrete path with an additional map-key segment appended.
func (p Path) AppendKey(key string) Path {
	return p.appendLiteral(key)
}

func (p Path) appendLiteral(text string) Path {
	segs := make([]segment, len(p.segments), len(p.segments)+1)
	copy(segs, p.segments)
	segs = append(segs, segment{kind: segLiteral, text: text})
	raw := p.raw
	if raw == "/" {
		raw = ""
	}
	return Path{raw: raw + "/" + escapeLiteral(text), segments: segs}
}

// Parent returns the path with its last segment removed, and false if this
// path has no parent (is the root "/").
func (p Path) Parent() (Path, bool) {
	if len(p.segments) == 0 {
		return Path{}, false
	}
	segs := p.segments[:len(p.segments)-1]
	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('/')
		b.WriteString(escapeLiteral(s.text))
	}
	raw := b.String()
	if raw == "" {
		raw = "/"
	}
	return Path{raw: raw, segments: segs}, true
}

// Leaf returns the final literal segment of a concrete path.
func (p Path) Leaf() (string, bool) {
	if len(p.segments) == 0 {
		return "", false
	}
	return p.segments[len(p.segments)-1].text, true
}
