package uri

import (
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/grammar"
	"github.com/ghettovoice/gouri/internal/util"
)

// Pair is a single query pair. The key and value are stored decoded.
// A pair parsed from a token without '=' has no value at all, which is
// distinct from an empty one.
type Pair struct {
	Key      string
	Value    string
	HasValue bool
}

// KV creates a query pair with a value.
func KV(key, value string) Pair {
	return Pair{Key: key, Value: value, HasValue: true}
}

// KeyOnly creates a valueless query pair, rendered without '='.
func KeyOnly(key string) Pair {
	return Pair{Key: key}
}

// Query represents the URI query component as an ordered list of pairs.
//
// Duplicate keys are retained as separate pairs in their original order.
// Keys and values are stored decoded, the configured separator and any
// other char outside the query set are pct-encoded on rendering.
// The zero value is the undefined query, a query with no pairs is
// undefined too.
type Query struct {
	prs []Pair
	sep byte
}

// DefaultQuerySeparator joins query pairs unless another separator is set.
const DefaultQuerySeparator byte = '&'

// ParseQuery parses a query from the given input src (string or []byte)
// using the default '&' separator and RFC3986 decoding.
func ParseQuery[T ~string | ~[]byte](src T) (Query, error) {
	return errtrace.Wrap2(parseQuery(string(src), DefaultQuerySeparator, EncodingRFC3986))
}

// ParseQueryRFC3986 parses a query split on the given separator with
// RFC3986 decoding. A zero separator selects the default '&'.
func ParseQueryRFC3986[T ~string | ~[]byte](src T, sep byte) (Query, error) {
	return errtrace.Wrap2(parseQuery(string(src), sep, EncodingRFC3986))
}

// ParseQueryRFC1738 parses a query split on the given separator with
// RFC1738 decoding, a '+' outside pct-triplets reads as a space.
// A zero separator selects the default '&'.
func ParseQueryRFC1738[T ~string | ~[]byte](src T, sep byte) (Query, error) {
	return errtrace.Wrap2(parseQuery(string(src), sep, EncodingRFC1738))
}

// QueryFrom creates a query from v using the default '&' separator.
// Accepted types: nil, string, []byte, [Component], [fmt.Stringer].
// A nil value produces the undefined query.
func QueryFrom(v any) (Query, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return Query{}, errtrace.Wrap(err)
	}
	if !ok {
		return Query{}, nil
	}
	return errtrace.Wrap2(ParseQuery(s))
}

// QueryFromPairs assembles a query from decoded pairs.
// A zero separator selects the default '&'.
func QueryFromPairs(sep byte, pairs ...Pair) (Query, error) {
	if sep == 0 {
		sep = DefaultQuerySeparator
	}
	if err := validateQuerySep(sep); err != nil {
		return Query{}, errtrace.Wrap(err)
	}
	return Query{prs: slices.Clone(pairs), sep: sep}, nil
}

func parseQuery(src string, sep byte, mode EncodingMode) (Query, error) {
	if sep == 0 {
		sep = DefaultQuerySeparator
	}
	if err := validateQuerySep(sep); err != nil {
		return Query{}, errtrace.Wrap(err)
	}
	if err := grammar.ValidateComponent(src); err != nil {
		return Query{}, errtrace.Wrap(newSyntaxErr("query %q: %v", src, err))
	}

	tokens := strings.Split(src, string([]byte{sep}))
	q := Query{prs: make([]Pair, 0, len(tokens)), sep: sep}
	for _, tok := range tokens {
		rk, rv, found := strings.Cut(tok, "=")
		if mode == EncodingRFC1738 {
			rk = strings.ReplaceAll(rk, "+", " ")
			rv = strings.ReplaceAll(rv, "+", " ")
		}
		p := Pair{Key: string(grammar.Unescape(rk))}
		if found {
			p.Value = string(grammar.Unescape(rv))
			p.HasValue = true
		}
		q.prs = append(q.prs, p)
	}
	return q, nil
}

func validateQuerySep(sep byte) error {
	if sep <= 0x20 || sep >= 0x7f {
		return newSyntaxErr("query separator %q is not a printable ASCII character", sep)
	}
	if sep == '=' {
		return newSyntaxErr("query separator %q conflicts with the pair delimiter", sep)
	}
	return nil
}

// Separator returns the pair separator, '&' unless configured otherwise.
func (q Query) Separator() byte {
	if q.sep == 0 {
		return DefaultQuerySeparator
	}
	return q.sep
}

// WithSeparator returns a query joining its pairs with the given separator.
func (q Query) WithSeparator(sep byte) (Query, error) {
	if err := validateQuerySep(sep); err != nil {
		return Query{}, errtrace.Wrap(err)
	}
	return Query{prs: q.prs, sep: sep}, nil
}

// Defined reports whether the query is present. A query without pairs is
// undefined, note that the empty query "" still holds a single empty pair.
func (q Query) Defined() bool { return len(q.prs) > 0 }

// Len returns the number of pairs.
func (q Query) Len() int { return len(q.prs) }

// Has reports whether at least one pair with the given decoded key exists.
func (q Query) Has(key string) bool {
	return slices.ContainsFunc(q.prs, func(p Pair) bool { return p.Key == key })
}

// Get returns the decoded value of the first pair with the given decoded
// key. ok is false when no such pair exists or the pair has no value.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q.prs {
		if p.Key == key {
			return p.Value, p.HasValue
		}
	}
	return "", false
}

// GetAll returns the decoded values of all pairs with the given decoded key
// in insertion order. Valueless pairs contribute an empty string.
func (q Query) GetAll(key string) []string {
	var vals []string
	for _, p := range q.prs {
		if p.Key == key {
			vals = append(vals, p.Value)
		}
	}
	return vals
}

// Pairs returns all pairs in insertion order.
func (q Query) Pairs() []Pair {
	return slices.Clone(q.prs)
}

// Keys returns the distinct decoded keys in first-seen order.
func (q Query) Keys() []string {
	seen := make(map[string]bool, len(q.prs))
	keys := make([]string, 0, len(q.prs))
	for _, p := range q.prs {
		if !seen[p.Key] {
			seen[p.Key] = true
			keys = append(keys, p.Key)
		}
	}
	return keys
}

// WithPair returns a query where the first pair with the given decoded key
// is replaced in place by (key, value) and any further pairs with that key
// are dropped. An absent key appends a new pair. A nil value makes the
// pair valueless.
// Accepted value types: nil, string, []byte, [Component], [fmt.Stringer].
func (q Query) WithPair(key string, value any) (Query, error) {
	s, ok, err := contentOf(value)
	if err != nil {
		return Query{}, errtrace.Wrap(err)
	}
	np := Pair{Key: key}
	if ok {
		np.Value = s
		np.HasValue = true
	}

	out := make([]Pair, 0, len(q.prs)+1)
	replaced := false
	for _, p := range q.prs {
		if p.Key != key {
			out = append(out, p)
			continue
		}
		if !replaced {
			out = append(out, np)
			replaced = true
		}
	}
	if !replaced {
		out = append(out, np)
	}
	return Query{prs: out, sep: q.sep}, nil
}

// Merge returns a query with the pairs of v applied one at a time with
// [Query.WithPair] semantics. v is parsed with this query's separator.
// A nil value is a no-op.
func (q Query) Merge(v any) (Query, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return Query{}, errtrace.Wrap(err)
	}
	if !ok {
		return q, nil
	}
	mq, err := ParseQueryRFC3986(s, q.Separator())
	if err != nil {
		return Query{}, errtrace.Wrap(err)
	}

	out := q
	for _, p := range mq.prs {
		var val any
		if p.HasValue {
			val = p.Value
		}
		out, err = out.WithPair(p.Key, val)
		if err != nil {
			return Query{}, errtrace.Wrap(err)
		}
	}
	return out, nil
}

// Append returns a query with the pairs of v concatenated after the current
// ones, keeping duplicates. Pairs with an empty key and no value are dropped
// from the result. v is parsed with this query's separator.
// A nil value is a no-op.
func (q Query) Append(v any) (Query, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return Query{}, errtrace.Wrap(err)
	}
	if !ok {
		return q, nil
	}
	aq, err := ParseQueryRFC3986(s, q.Separator())
	if err != nil {
		return Query{}, errtrace.Wrap(err)
	}

	out := make([]Pair, 0, len(q.prs)+len(aq.prs))
	for _, p := range slices.Concat(q.prs, aq.prs) {
		if p.Key == "" && !p.HasValue {
			continue
		}
		out = append(out, p)
	}
	return Query{prs: out, sep: q.sep}, nil
}

// Sort returns a query with the pairs grouped by key. Groups keep the
// first-seen key order, pairs inside a group keep their insertion order.
func (q Query) Sort() Query {
	if len(q.prs) < 2 {
		return q
	}
	groups := make(map[string][]Pair, len(q.prs))
	order := make([]string, 0, len(q.prs))
	for _, p := range q.prs {
		if _, ok := groups[p.Key]; !ok {
			order = append(order, p.Key)
		}
		groups[p.Key] = append(groups[p.Key], p)
	}
	out := make([]Pair, 0, len(q.prs))
	for _, k := range order {
		out = append(out, groups[k]...)
	}
	return Query{prs: out, sep: q.sep}
}

// WithoutDuplicates returns a query keeping only the first occurrence of
// every exact (key, value) pair.
func (q Query) WithoutDuplicates() Query {
	if len(q.prs) < 2 {
		return q
	}
	seen := make(map[Pair]bool, len(q.prs))
	out := make([]Pair, 0, len(q.prs))
	for _, p := range q.prs {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return Query{prs: out, sep: q.sep}
}

// WithoutEmptyPairs returns a query dropping the pairs whose key is empty
// and whose value is absent or empty. A pair with an empty key but a
// non-empty value stays.
func (q Query) WithoutEmptyPairs() Query {
	out := make([]Pair, 0, len(q.prs))
	for _, p := range q.prs {
		if p.Key == "" && (!p.HasValue || p.Value == "") {
			continue
		}
		out = append(out, p)
	}
	if len(out) == len(q.prs) {
		return q
	}
	return Query{prs: out, sep: q.sep}
}

var queryNumericIndexRx = regexp.MustCompile(`\[\d+\]`)

// WithoutNumericIndices returns a query with every "[<digits>]" group in
// the decoded keys rewritten to "[]", so "offset[1]" becomes "offset[]".
func (q Query) WithoutNumericIndices() Query {
	out := make([]Pair, len(q.prs))
	changed := false
	for i, p := range q.prs {
		if strings.Contains(p.Key, "[") {
			p.Key = queryNumericIndexRx.ReplaceAllLiteralString(p.Key, "[]")
		}
		if p.Key != q.prs[i].Key {
			changed = true
		}
		out[i] = p
	}
	if !changed {
		return q
	}
	return Query{prs: out, sep: q.sep}
}

// WithoutParams returns a query dropping every pair whose decoded key
// equals one of the given names or addresses into it with a PHP-style
// bracket suffix, "name" removes "name", "name[1]" and "name[a][b]".
func (q Query) WithoutParams(names ...string) Query {
	if len(names) == 0 || len(q.prs) == 0 {
		return q
	}
	out := make([]Pair, 0, len(q.prs))
	for _, p := range q.prs {
		drop := slices.ContainsFunc(names, func(name string) bool {
			return p.Key == name || strings.HasPrefix(p.Key, name+"[")
		})
		if !drop {
			out = append(out, p)
		}
	}
	if len(out) == len(q.prs) {
		return q
	}
	return Query{prs: out, sep: q.sep}
}

// Params deserializes the pairs into a nested structure the way PHP's
// parse_str does, without mangling the keys. Bracket groups in a key
// address nested containers: "[]" and canonical numeric indices produce
// a []any, anything else a map[string]any. Valueless pairs read as empty
// strings. A key with unbalanced brackets stays literal.
func (q Query) Params() map[string]any {
	params := make(map[string]any, len(q.prs))
	for _, p := range q.prs {
		setQueryParam(params, p.Key, p.Value)
	}
	return params
}

// Param returns the [Query.Params] entry for the given name, nil when absent.
func (q Query) Param(name string) any {
	return q.Params()[name]
}

func setQueryParam(params map[string]any, key, value string) {
	base, rest, found := strings.Cut(key, "[")
	if !found {
		params[key] = value
		return
	}
	tokens, ok := splitBracketGroups(rest)
	if !ok || base == "" {
		params[key] = value
		return
	}
	params[base] = setNestedParam(params[base], tokens, value)
}

// splitBracketGroups cuts "a][b][" style remainders into bracket group
// contents. ok is false on unbalanced brackets or trailing garbage.
func splitBracketGroups(s string) ([]string, bool) {
	var tokens []string
	for {
		i := strings.IndexByte(s, ']')
		if i < 0 {
			return nil, false
		}
		tokens = append(tokens, s[:i])
		s = s[i+1:]
		if s == "" {
			return tokens, true
		}
		if s[0] != '[' {
			return nil, false
		}
		s = s[1:]
	}
}

func setNestedParam(cur any, tokens []string, value string) any {
	if len(tokens) == 0 {
		return value
	}
	tok := tokens[0]
	if tok == "" {
		list, _ := cur.([]any)
		if len(tokens) == 1 {
			return append(list, value)
		}
		return append(list, setNestedParam(nil, tokens[1:], value))
	}
	if idx, err := strconv.Atoi(tok); err == nil && idx >= 0 && (tok == "0" || tok[0] != '0') {
		list, _ := cur.([]any)
		for len(list) <= idx {
			list = append(list, nil)
		}
		list[idx] = setNestedParam(list[idx], tokens[1:], value)
		return list
	}
	m, _ := cur.(map[string]any)
	if m == nil {
		m = make(map[string]any)
	}
	m[tok] = setNestedParam(m[tok], tokens[1:], value)
	return m
}

// Content returns the query in RFC3986-encoded form.
// ok is false when the query is undefined.
func (q Query) Content() (string, bool) {
	if !q.Defined() {
		return "", false
	}
	return q.Render(nil), true
}

// URIComponent returns the query as it appears inside a URI, prefixed
// with '?'. Undefined queries render empty.
func (q Query) URIComponent() string {
	if !q.Defined() {
		return ""
	}
	return "?" + q.Render(nil)
}

// Render returns the string representation of the query.
func (q Query) Render(opts *RenderOptions) string {
	if !q.Defined() {
		return ""
	}
	mode := renderMode(opts)
	sep := q.Separator()
	keyEsc := grammar.EscapeMode(queryTokenChar(grammar.IsQueryKeyChar, sep), mode)
	valEsc := grammar.EscapeMode(queryTokenChar(grammar.IsQueryValueChar, sep), mode)

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i, p := range q.prs {
		if i > 0 {
			sb.WriteByte(sep)
		}
		sb.WriteString(renderPairToken(p.Key, keyEsc, mode))
		if p.HasValue {
			sb.WriteByte('=')
			sb.WriteString(renderPairToken(p.Value, valEsc, mode))
		}
	}
	return sb.String()
}

// queryTokenChar narrows a query char set to exclude the configured
// separator, it always renders pct-encoded inside keys and values.
func queryTokenChar(isValid func(c byte) bool, sep byte) func(c byte) bool {
	return func(c byte) bool { return c != sep && isValid(c) }
}

func renderPairToken(s string, shouldEscape func(c byte) bool, mode EncodingMode) string {
	t := string(grammar.EscapeAll(s, shouldEscape))
	if mode == EncodingRFC1738 {
		t = strings.ReplaceAll(t, "%20", "+")
	}
	return t
}

// RenderTo writes the query to the provided writer.
func (q Query) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	s := q.Render(opts)
	if s == "" {
		return 0, nil
	}
	return errtrace.Wrap2(io.WriteString(w, s))
}

// String returns the string representation of the query.
func (q Query) String() string { return q.Render(nil) }

// Format implements fmt.Formatter for custom formatting of the query.
func (q Query) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, q.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(q.String()))
	default:
		type hideMethods Query
		type Query hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Query(q))
	}
}

// Equal compares this query with another for equality.
// Queries are equal when they hold the same pairs in the same order and
// join them with the same separator.
func (q Query) Equal(val any) bool {
	var other Query
	switch v := val.(type) {
	case Query:
		other = v
	case *Query:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return q.Separator() == other.Separator() && slices.Equal(q.prs, other.prs)
}

// IsValid checks whether the query is valid.
func (q Query) IsValid() bool {
	return validateQuerySep(q.Separator()) == nil
}

// WithContent returns a query with the given content parsed using the
// current separator. The receiver is returned unchanged when the new
// content equals the current one.
func (q Query) WithContent(v any) (Query, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return Query{}, errtrace.Wrap(err)
	}
	if !ok {
		if !q.Defined() {
			return q, nil
		}
		return Query{sep: q.sep}, nil
	}
	q2, err := ParseQueryRFC3986(s, q.Separator())
	if err != nil {
		return Query{}, errtrace.Wrap(err)
	}
	if q.Equal(q2) {
		return q, nil
	}
	return q2, nil
}

// MarshalText implements [encoding.TextMarshaler].
func (q Query) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// Empty text produces the undefined query.
func (q *Query) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*q = Query{}
		return nil
	}
	q1, err := ParseQuery(text)
	if err != nil {
		*q = Query{}
		return errtrace.Wrap(err)
	}
	*q = q1
	return nil
}
