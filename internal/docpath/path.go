// Package docpath provides the canonical addressing type for hierarchical
// applicant documents. A path is a dotted sequence of field names, any of
// which may carry an array index, e.g. "applicant.children[3].name".
//
// Paths are pure values: every derivation returns a new Path and two paths
// addressing the same location are equal regardless of how they were built.
package docpath

import (
	"fmt"
	"strconv"
	"strings"
)

const noIndex = -1

type segment struct {
	key   string
	index int // noIndex when the segment is not array-indexed
}

func (s segment) String() string {
	if s.index == noIndex {
		return s.key
	}
	return fmt.Sprintf("%s[%d]", s.key, s.index)
}

// Path addresses a location in a document tree. The zero value is the root.
type Path struct {
	segments []segment
}

// Root is the empty path addressing the document root object.
var Root = Path{}

// Parse builds a Path from its string form. A leading "$." JSON-path prefix
// is accepted and stripped. The empty string parses to the root path.
func Parse(s string) (Path, error) {
	s = strings.TrimPrefix(s, "$.")
	if s == "" || s == "$" {
		return Root, nil
	}

	parts := strings.Split(s, ".")
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return Path{}, fmt.Errorf("parse path %q: %w", s, err)
		}
		segments = append(segments, seg)
	}
	return Path{segments: segments}, nil
}

// MustParse is Parse for compile-time constant paths; it panics on error.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func parseSegment(part string) (segment, error) {
	if part == "" {
		return segment{}, fmt.Errorf("empty segment")
	}
	open := strings.IndexByte(part, '[')
	if open < 0 {
		if strings.ContainsAny(part, "]") {
			return segment{}, fmt.Errorf("malformed segment %q", part)
		}
		return segment{key: part, index: noIndex}, nil
	}
	if open == 0 || !strings.HasSuffix(part, "]") {
		return segment{}, fmt.Errorf("malformed segment %q", part)
	}
	idx, err := strconv.Atoi(part[open+1 : len(part)-1])
	if err != nil || idx < 0 {
		return segment{}, fmt.Errorf("malformed array index in segment %q", part)
	}
	return segment{key: part[:open], index: idx}, nil
}

// String returns the canonical dotted form. Parse(p.String()) always yields
// a path equal to p.
func (p Path) String() string {
	parts := make([]string, len(p.segments))
	for i, seg := range p.segments {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// IsRoot reports whether the path addresses the document root.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Depth returns the number of segments.
func (p Path) Depth() int {
	return len(p.segments)
}

// Join appends a segment to the path. The segment may itself carry an array
// index, e.g. Join("children[2]").
func (p Path) Join(seg string) Path {
	parsed, err := parseSegment(seg)
	if err != nil {
		// A malformed literal segment is a programming error, the same
		// class of misuse as ArrayIndex on a non-array path.
		panic(fmt.Sprintf("docpath: join %q onto %q: %v", seg, p, err))
	}
	return p.append(parsed)
}

// JoinKey appends a field name taken literally, without interpreting any
// bracket characters it may contain. Used when deriving paths from document
// keys that were not authored as path strings.
func (p Path) JoinKey(key string) Path {
	return p.append(segment{key: key, index: noIndex})
}

func (p Path) append(seg segment) Path {
	segments := make([]segment, len(p.segments), len(p.segments)+1)
	copy(segments, p.segments)
	return Path{segments: append(segments, seg)}
}

// AtIndex returns the path with its last segment addressed at array index i,
// replacing any index already present.
func (p Path) AtIndex(i int) Path {
	if p.IsRoot() {
		panic("docpath: AtIndex on root path")
	}
	segments := make([]segment, len(p.segments))
	copy(segments, p.segments)
	segments[len(segments)-1].index = i
	return Path{segments: segments}
}

// WithoutArrayReference returns the path with the index removed from its
// last segment: the bare form of an array-element path.
func (p Path) WithoutArrayReference() Path {
	if p.IsRoot() {
		return p
	}
	segments := make([]segment, len(p.segments))
	copy(segments, p.segments)
	segments[len(segments)-1].index = noIndex
	return Path{segments: segments}
}

// IsArrayElement reports whether the last segment carries an array index.
func (p Path) IsArrayElement() bool {
	if p.IsRoot() {
		return false
	}
	return p.segments[len(p.segments)-1].index != noIndex
}

// ArrayIndex returns the index of the last segment. Calling it on a path
// that is not an array element is a programming error and panics.
func (p Path) ArrayIndex() int {
	if !p.IsArrayElement() {
		panic(fmt.Sprintf("docpath: ArrayIndex on non-array-element path %q", p))
	}
	return p.segments[len(p.segments)-1].index
}

// ParentPath returns the path with the last segment removed. Calling it on
// the root is a programming error and panics.
func (p Path) ParentPath() Path {
	if p.IsRoot() {
		panic("docpath: ParentPath on root path")
	}
	segments := make([]segment, len(p.segments)-1)
	copy(segments, p.segments[:len(p.segments)-1])
	return Path{segments: segments}
}

// KeyName returns the field name of the last segment, without any array
// index. The root path has an empty key name.
func (p Path) KeyName() string {
	if p.IsRoot() {
		return ""
	}
	return p.segments[len(p.segments)-1].key
}

// Equal reports whether two paths address the same location.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, seg := range p.segments {
		if seg != other.segments[i] {
			return false
		}
	}
	return true
}

// Segment describes one step of a path walk.
type Segment struct {
	Key      string
	Index    int
	HasIndex bool
}

// Segments returns the path's segments for iteration by the document engine.
func (p Path) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	for i, seg := range p.segments {
		out[i] = Segment{Key: seg.key, Index: seg.index, HasIndex: seg.index != noIndex}
	}
	return out
}
