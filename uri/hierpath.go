package uri

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/errorutil"
	"github.com/ghettovoice/gouri/internal/grammar"
	"github.com/ghettovoice/gouri/internal/util"
)

// HierarchicalPath represents the URI path component as a sequence of
// segments split on '/'.
//
// Segments are stored fully decoded, so a segment may legitimately hold a
// '/' char that renders back as "%2F". An absolute path carries its leading
// slash in a separate flag, the segments of "/a/b" are exactly those of
// "a/b". The zero value is the empty relative path.
type HierarchicalPath struct {
	segments []string
	absolute bool
}

// ParseHierarchicalPath parses a path from the given input src
// (string or []byte). Any char except ASCII controls is accepted,
// chars outside the path set are pct-encoded on rendering.
func ParseHierarchicalPath[T ~string | ~[]byte](src T) (HierarchicalPath, error) {
	if err := grammar.ValidateComponent(src); err != nil {
		return HierarchicalPath{}, errtrace.Wrap(newSyntaxErr("path %q: %v", string(src), err))
	}
	s := string(src)
	var p HierarchicalPath
	if strings.HasPrefix(s, "/") {
		p.absolute = true
		s = s[1:]
	}
	raw := strings.Split(s, "/")
	p.segments = make([]string, len(raw))
	for i, seg := range raw {
		p.segments[i] = string(grammar.Unescape(seg))
	}
	return p, nil
}

// HierarchicalPathFrom creates a path from v.
// Accepted types: nil, string, []byte, [Component], [fmt.Stringer].
// A nil value produces the empty relative path.
func HierarchicalPathFrom(v any) (HierarchicalPath, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return HierarchicalPath{}, errtrace.Wrap(err)
	}
	if !ok {
		return HierarchicalPath{}, nil
	}
	return errtrace.Wrap2(ParseHierarchicalPath(s))
}

// HierarchicalPathFromSegments assembles a path from decoded segments taken
// verbatim: a '/' inside a segment stays part of it and renders as "%2F".
// No segments produce the empty path.
func HierarchicalPathFromSegments(absolute bool, segments ...string) HierarchicalPath {
	if len(segments) == 0 {
		segments = []string{""}
	}
	return HierarchicalPath{segments: slices.Clone(segments), absolute: absolute}
}

// segs returns the segment list, normalizing the zero value to the single
// empty segment every parsed empty path holds.
func (p HierarchicalPath) segs() []string {
	if len(p.segments) == 0 {
		return []string{""}
	}
	return p.segments
}

// IsAbsolute reports whether the path starts with a '/'.
func (p HierarchicalPath) IsAbsolute() bool { return p.absolute }

// Segments returns the decoded path segments.
func (p HierarchicalPath) Segments() []string {
	return slices.Clone(p.segs())
}

// Segment returns the decoded segment at the given offset.
// Negative offsets count from the last segment backwards.
// ok is false when the offset is out of range.
func (p HierarchicalPath) Segment(offset int) (string, bool) {
	ls := p.segs()
	if offset < 0 {
		offset += len(ls)
	}
	if offset < 0 || offset >= len(ls) {
		return "", false
	}
	return ls[offset], true
}

// SegmentCount returns the number of path segments.
// The empty path holds a single empty segment.
func (p HierarchicalPath) SegmentCount() int { return len(p.segs()) }

// Keys returns the offsets of all segments equal to the given decoded value.
func (p HierarchicalPath) Keys(segment string) []int {
	var keys []int
	for i, seg := range p.segs() {
		if seg == segment {
			keys = append(keys, i)
		}
	}
	return keys
}

// Basename returns the last decoded segment.
func (p HierarchicalPath) Basename() string {
	ls := p.segs()
	return ls[len(ls)-1]
}

// Dirname returns the path up to the last segment: "/" for a single-segment
// absolute path, "." for a single-segment relative one. Trailing empty
// segments do not count.
func (p HierarchicalPath) Dirname() string {
	ls := p.segs()
	for len(ls) > 1 && ls[len(ls)-1] == "" {
		ls = ls[:len(ls)-1]
	}
	if len(ls) <= 1 {
		if p.absolute {
			return "/"
		}
		return "."
	}
	d := strings.Join(ls[:len(ls)-1], "/")
	if p.absolute {
		return "/" + d
	}
	if d == "" {
		return "."
	}
	return d
}

// Extension returns the basename extension without the dot, ignoring any
// ";parameters" suffix. Empty when the basename has no dot.
func (p HierarchicalPath) Extension() string {
	name, _, _ := strings.Cut(p.Basename(), ";")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return ""
}

// WithSegment returns a path with the decoded segment at the given offset
// replaced. Offsets count from the first segment, negative ones from the
// last backwards. The offset equal to [HierarchicalPath.SegmentCount]
// appends a new segment, -(count+1) prepends one.
func (p HierarchicalPath) WithSegment(offset int, segment any) (HierarchicalPath, error) {
	s, ok, err := contentOf(segment)
	if err != nil {
		return HierarchicalPath{}, errtrace.Wrap(err)
	}
	if !ok {
		return HierarchicalPath{}, errtrace.Wrap(errorutil.NewInvalidArgumentError("nil segment"))
	}
	seg := string(grammar.Unescape(s))

	ls := slices.Clone(p.segs())
	n := len(ls)
	switch {
	case 0 <= offset && offset < n:
		ls[offset] = seg
	case offset == n:
		ls = append(ls, seg)
	case -n <= offset && offset < 0:
		ls[offset+n] = seg
	case offset == -(n + 1):
		ls = slices.Insert(ls, 0, seg)
	default:
		return HierarchicalPath{}, errtrace.Wrap(newRangeErr("segment offset %d is out of [%d, %d]", offset, -(n + 1), n))
	}
	return HierarchicalPath{segments: ls, absolute: p.absolute}, nil
}

// WithoutSegments returns a path with the segments at the given offsets
// removed. Duplicate offsets collapse, out of range ones fail.
func (p HierarchicalPath) WithoutSegments(offsets ...int) (HierarchicalPath, error) {
	ls := p.segs()
	n := len(ls)
	drop := make(map[int]bool, len(offsets))
	for _, o := range offsets {
		i := o
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return HierarchicalPath{}, errtrace.Wrap(newRangeErr("segment offset %d is out of [%d, %d]", o, -n, n-1))
		}
		drop[i] = true
	}
	if len(drop) == 0 {
		return p, nil
	}

	out := make([]string, 0, n-len(drop))
	for i, seg := range ls {
		if !drop[i] {
			out = append(out, seg)
		}
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return HierarchicalPath{segments: out, absolute: p.absolute}, nil
}

// Append returns a path with the given path attached after the last
// non-empty segment. The appended part keeps its own segments, its leading
// slash is dropped. A nil value is a no-op.
func (p HierarchicalPath) Append(v any) (HierarchicalPath, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return HierarchicalPath{}, errtrace.Wrap(err)
	}
	if !ok {
		return p, nil
	}
	ap, err := ParseHierarchicalPath(s)
	if err != nil {
		return HierarchicalPath{}, errtrace.Wrap(err)
	}

	base := p.segs()
	if base[len(base)-1] == "" {
		base = base[:len(base)-1]
	}
	out := append(slices.Clone(base), ap.segs()...)
	return HierarchicalPath{segments: out, absolute: p.absolute}, nil
}

// Prepend returns a path with the given path attached before the first
// segment. The result takes the absoluteness of the prepended part.
// A nil value is a no-op.
func (p HierarchicalPath) Prepend(v any) (HierarchicalPath, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return HierarchicalPath{}, errtrace.Wrap(err)
	}
	if !ok {
		return p, nil
	}
	pp, err := ParseHierarchicalPath(s)
	if err != nil {
		return HierarchicalPath{}, errtrace.Wrap(err)
	}

	pre := pp.segs()
	if pre[len(pre)-1] == "" {
		pre = pre[:len(pre)-1]
	}
	out := append(slices.Clone(pre), p.segs()...)
	return HierarchicalPath{segments: out, absolute: pp.absolute}, nil
}

// WithBasename returns a path with the last segment replaced.
// The basename goes in pct-encoded or decoded form but must not hold an
// unencoded path separator.
func (p HierarchicalPath) WithBasename(v any) (HierarchicalPath, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return HierarchicalPath{}, errtrace.Wrap(err)
	}
	if !ok {
		return HierarchicalPath{}, errtrace.Wrap(errorutil.NewInvalidArgumentError("nil basename"))
	}
	if strings.ContainsRune(s, '/') {
		return HierarchicalPath{}, errtrace.Wrap(newSyntaxErr("basename %q holds a path separator", s))
	}

	ls := slices.Clone(p.segs())
	ls[len(ls)-1] = string(grammar.Unescape(s))
	return HierarchicalPath{segments: ls, absolute: p.absolute}, nil
}

// WithDirname returns a path with everything before the last segment
// replaced by the given path. The result takes the absoluteness of the
// new dirname.
func (p HierarchicalPath) WithDirname(v any) (HierarchicalPath, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return HierarchicalPath{}, errtrace.Wrap(err)
	}
	if !ok {
		return HierarchicalPath{}, errtrace.Wrap(errorutil.NewInvalidArgumentError("nil dirname"))
	}
	d, err := ParseHierarchicalPath(s)
	if err != nil {
		return HierarchicalPath{}, errtrace.Wrap(err)
	}

	pre := d.segs()
	if pre[len(pre)-1] == "" {
		pre = pre[:len(pre)-1]
	}
	out := append(slices.Clone(pre), p.Basename())
	return HierarchicalPath{segments: out, absolute: d.absolute}, nil
}

// WithExtension returns a path with the basename extension replaced,
// preserving any ";parameters" suffix. An empty extension strips the
// current one. The extension must not hold a path separator or start
// with a dot. A path with an empty basename is returned unchanged.
func (p HierarchicalPath) WithExtension(v any) (HierarchicalPath, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return HierarchicalPath{}, errtrace.Wrap(err)
	}
	var ext string
	if ok {
		ext = strings.TrimSpace(s)
	}
	if strings.ContainsRune(ext, '/') {
		return HierarchicalPath{}, errtrace.Wrap(newSyntaxErr("extension %q holds a path separator", ext))
	}
	if strings.HasPrefix(ext, ".") {
		return HierarchicalPath{}, errtrace.Wrap(newSyntaxErr("extension %q starts with a dot", ext))
	}

	name, params, hasParams := strings.Cut(p.Basename(), ";")
	if name == "" {
		return p, nil
	}
	stem := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		stem = name[:i]
	}
	nb := stem
	if ext != "" {
		nb += "." + ext
	}
	if hasParams {
		nb += ";" + params
	}

	ls := slices.Clone(p.segs())
	ls[len(ls)-1] = nb
	return HierarchicalPath{segments: ls, absolute: p.absolute}, nil
}

// WithLeadingSlash returns an absolute path.
func (p HierarchicalPath) WithLeadingSlash() HierarchicalPath {
	if p.absolute {
		return p
	}
	return HierarchicalPath{segments: p.segs(), absolute: true}
}

// WithoutLeadingSlash returns a relative path.
func (p HierarchicalPath) WithoutLeadingSlash() HierarchicalPath {
	if !p.absolute {
		return p
	}
	return HierarchicalPath{segments: p.segs()}
}

func (p HierarchicalPath) hasTrailingSlash() bool {
	ls := p.segs()
	if ls[len(ls)-1] != "" {
		return false
	}
	return len(ls) > 1 || p.absolute
}

// WithTrailingSlash returns a path ending with a '/'.
func (p HierarchicalPath) WithTrailingSlash() HierarchicalPath {
	if p.hasTrailingSlash() {
		return p
	}
	ls := p.segs()
	if len(ls) == 1 && ls[0] == "" {
		return HierarchicalPath{segments: ls, absolute: true}
	}
	return HierarchicalPath{segments: append(slices.Clone(ls), ""), absolute: p.absolute}
}

// WithoutTrailingSlash returns a path without the trailing '/'.
// The root path "/" collapses into the empty relative path.
func (p HierarchicalPath) WithoutTrailingSlash() HierarchicalPath {
	if !p.hasTrailingSlash() {
		return p
	}
	ls := p.segs()
	if len(ls) == 1 {
		return HierarchicalPath{segments: ls}
	}
	return HierarchicalPath{segments: ls[:len(ls)-1], absolute: p.absolute}
}

// WithoutEmptySegments returns a path with all empty segments removed,
// collapsing repeated and trailing slashes.
func (p HierarchicalPath) WithoutEmptySegments() HierarchicalPath {
	ls := make([]string, 0, len(p.segs()))
	for _, seg := range p.segs() {
		if seg != "" {
			ls = append(ls, seg)
		}
	}
	if len(ls) == 0 {
		ls = []string{""}
	}
	return HierarchicalPath{segments: ls, absolute: p.absolute}
}

// WithoutDotSegments returns a path with the "." and ".." segments applied
// and removed, the way [Path.WithoutDotSegments] does.
func (p HierarchicalPath) WithoutDotSegments() HierarchicalPath {
	hasDot := slices.ContainsFunc(p.segs(), func(s string) bool { return s == "." || s == ".." })
	if !hasDot {
		return p
	}

	virt := p.segs()
	if p.absolute {
		virt = append([]string{""}, virt...)
	}
	out := make([]string, 0, len(virt))
	for _, seg := range virt {
		switch seg {
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		case ".":
		default:
			out = append(out, seg)
		}
	}
	if last := virt[len(virt)-1]; last == "." || last == ".." {
		if len(out) == 0 {
			return HierarchicalPath{segments: []string{""}, absolute: true}
		}
		out = append(out, "")
	}

	var abs bool
	if len(out) > 0 && out[0] == "" && len(out) > 1 {
		abs = true
		out = out[1:]
	}
	if len(out) == 0 || (len(out) == 1 && out[0] == "") {
		return HierarchicalPath{segments: []string{""}, absolute: abs}
	}
	return HierarchicalPath{segments: out, absolute: abs}
}

// Defined reports whether the path is present. A path always is.
func (p HierarchicalPath) Defined() bool { return true }

// Content returns the path in RFC3986-encoded form. ok is always true.
func (p HierarchicalPath) Content() (string, bool) {
	return p.Render(nil), true
}

// Decoded returns the decoded path string. A '/' inside a segment is not
// distinguishable from a separator here, use [HierarchicalPath.Segments]
// when that matters.
func (p HierarchicalPath) Decoded() string {
	s := strings.Join(p.segs(), "/")
	if p.absolute {
		return "/" + s
	}
	return s
}

// URIComponent returns the path as it appears inside a URI.
func (p HierarchicalPath) URIComponent() string {
	return p.Render(nil)
}

// Render returns the string representation of the path.
func (p HierarchicalPath) Render(opts *RenderOptions) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	esc := grammar.EscapeMode(grammar.IsPChar, renderMode(opts))
	if p.absolute {
		sb.WriteByte('/')
	}
	for i, seg := range p.segs() {
		if i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(string(grammar.EscapeAll(seg, esc)))
	}
	return sb.String()
}

// RenderTo writes the path to the provided writer.
func (p HierarchicalPath) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	s := p.Render(opts)
	if s == "" {
		return 0, nil
	}
	return errtrace.Wrap2(io.WriteString(w, s))
}

// String returns the string representation of the path.
func (p HierarchicalPath) String() string { return p.Render(nil) }

// Format implements fmt.Formatter for custom formatting of the path.
func (p HierarchicalPath) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, p.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(p.String()))
	default:
		type hideMethods HierarchicalPath
		type HierarchicalPath hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), HierarchicalPath(p))
	}
}

// Equal compares this path with another for equality.
func (p HierarchicalPath) Equal(val any) bool {
	var other HierarchicalPath
	switch v := val.(type) {
	case HierarchicalPath:
		other = v
	case *HierarchicalPath:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return p.absolute == other.absolute && slices.Equal(p.segs(), other.segs())
}

// IsValid checks whether the path is valid. Decoded segments hold arbitrary
// bytes that get re-encoded on rendering, so any segment sequence is valid.
func (p HierarchicalPath) IsValid() bool { return true }

// WithContent returns a path with the given content.
// The receiver is returned unchanged when the new content equals the current one.
func (p HierarchicalPath) WithContent(v any) (HierarchicalPath, error) {
	p2, err := HierarchicalPathFrom(v)
	if err != nil {
		return HierarchicalPath{}, errtrace.Wrap(err)
	}
	if p.Equal(p2) {
		return p, nil
	}
	return p2, nil
}

// MarshalText implements [encoding.TextMarshaler].
func (p HierarchicalPath) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (p *HierarchicalPath) UnmarshalText(text []byte) error {
	p1, err := ParseHierarchicalPath(text)
	if err != nil {
		*p = HierarchicalPath{}
		return errtrace.Wrap(err)
	}
	*p = p1
	return nil
}
