package uri

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"braces.dev/errtrace"
	"github.com/h2non/filetype"

	"github.com/ghettovoice/gouri/internal/grammar"
	"github.com/ghettovoice/gouri/internal/util"
)

// DataPath represents a data URI path per RFC2397,
// "mediatype[;base64],document".
//
// The mediatype defaults to "text/plain" and its parameters to
// "charset=us-ascii" when the path carries none. The document is kept in
// its transport form, pct-encoded text or base64 octets depending on the
// ";base64" flag. The zero value is the default empty data path
// "text/plain;charset=us-ascii,".
type DataPath struct {
	mimetype string
	params   []string
	document string
	binary   bool
}

const (
	defaultDataMimetype  = "text/plain"
	defaultDataParameter = "charset=us-ascii"
	dataBase64Flag       = "base64"
)

var dataMimetypeRx = regexp.MustCompile(`^\w+/[-.\w]+(?:\+[-.\w]+)?$`)

// ParseDataPath parses a data URI path from the given input src
// (string or []byte). The empty input reads as the default empty
// data path. The comma separating the mediatype from the document
// is mandatory for any other input.
func ParseDataPath[T ~string | ~[]byte](src T) (DataPath, error) {
	s := string(src)
	if s == "" {
		s = defaultDataMimetype + ";" + defaultDataParameter + ","
	}
	if err := grammar.ValidateComponent(s); err != nil {
		return DataPath{}, errtrace.Wrap(newSyntaxErr("data path %q: %v", s, err))
	}

	mediatype, doc, found := strings.Cut(s, ",")
	if !found {
		return DataPath{}, errtrace.Wrap(newSyntaxErr("data path %q is missing the comma delimiter", s))
	}
	if !util.IsASCII(mediatype) {
		return DataPath{}, errtrace.Wrap(newSyntaxErr("mediatype %q holds non-ASCII characters", mediatype))
	}

	var p DataPath
	mimetype, rawParams, _ := strings.Cut(mediatype, ";")
	if mimetype == "" {
		mimetype = defaultDataMimetype
	}
	if !dataMimetypeRx.MatchString(mimetype) {
		return DataPath{}, errtrace.Wrap(newSyntaxErr("invalid mimetype %q", mimetype))
	}
	p.mimetype = util.LCase(mimetype)

	var params []string
	if rawParams != "" {
		params = strings.Split(rawParams, ";")
	}
	if n := len(params); n > 0 && util.EqFold(params[n-1], dataBase64Flag) {
		p.binary = true
		params = params[:n-1]
	}
	if len(params) == 0 {
		params = []string{defaultDataParameter}
	}
	for _, param := range params {
		if err := validateDataParameter(param); err != nil {
			return DataPath{}, errtrace.Wrap(err)
		}
	}
	p.params = params

	if p.binary {
		if err := validateBase64Document(doc); err != nil {
			return DataPath{}, errtrace.Wrap(err)
		}
	}
	p.document = doc
	return p, nil
}

var dataParameterRx = regexp.MustCompile(`^\w+=[^;]*$`)

func validateDataParameter(param string) error {
	if util.EqFold(param, dataBase64Flag) {
		return nil
	}
	if !dataParameterRx.MatchString(param) {
		return newSyntaxErr("invalid mediatype parameter %q", param)
	}
	return nil
}

// validateBase64Document checks that the document is canonical base64,
// decoding and re-encoding must reproduce it byte for byte.
func validateBase64Document(doc string) error {
	dec, err := base64.StdEncoding.Strict().DecodeString(doc)
	if err != nil {
		return newSyntaxErr("document is not valid base64: %v", err)
	}
	if base64.StdEncoding.EncodeToString(dec) != doc {
		return newSyntaxErr("document %q is not canonical base64", doc)
	}
	return nil
}

// DataPathFrom creates a data path from v.
// Accepted types: nil, string, []byte, [Component], [fmt.Stringer].
// A nil value produces the default empty data path.
func DataPathFrom(v any) (DataPath, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return DataPath{}, errtrace.Wrap(err)
	}
	if !ok {
		return DataPath{}, nil
	}
	return errtrace.Wrap2(ParseDataPath(s))
}

// DataPathFromFile reads the file at the given filesystem path and wraps
// its content into a base64-encoded data path. The mimetype comes from
// magic number detection, text files without a known signature map to
// "text/plain", other content to "application/octet-stream".
func DataPathFromFile(name string) (DataPath, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return DataPath{}, errtrace.Wrap(newSyntaxErr("%v", err))
	}

	mimetype := "application/octet-stream"
	if kind, err := filetype.Match(data); err == nil && kind.MIME.Value != "" {
		mimetype = kind.MIME.Value
	} else if utf8.Valid(data) {
		mimetype = defaultDataMimetype
	}
	return errtrace.Wrap2(ParseDataPath(
		mimetype + ";" + dataBase64Flag + "," + base64.StdEncoding.EncodeToString(data),
	))
}

// MimeType returns the lowercased mimetype, "text/plain" by default.
func (p DataPath) MimeType() string {
	if p.mimetype == "" {
		return defaultDataMimetype
	}
	return p.mimetype
}

// Parameters returns the mediatype parameters joined with ';', without the
// base64 flag. Defaults to "charset=us-ascii".
func (p DataPath) Parameters() string {
	if len(p.params) == 0 {
		return defaultDataParameter
	}
	return strings.Join(p.params, ";")
}

// MediaType returns the full mediatype, "mimetype;parameters".
func (p DataPath) MediaType() string {
	return p.MimeType() + ";" + p.Parameters()
}

// Document returns the document part in its transport form, pct-encoded
// text or base64 octets depending on [DataPath.IsBase64Encoded].
func (p DataPath) Document() string { return p.document }

// IsBase64Encoded reports whether the document is base64 octets.
func (p DataPath) IsBase64Encoded() bool { return p.binary }

// WithParameters returns a data path with the mediatype parameters
// replaced. The base64 flag belongs to the document encoding and is
// rejected here.
func (p DataPath) WithParameters(params string) (DataPath, error) {
	for _, param := range strings.Split(params, ";") {
		if util.EqFold(param, dataBase64Flag) {
			return DataPath{}, errtrace.Wrap(newSyntaxErr("the %q parameter is controlled by the document encoding", dataBase64Flag))
		}
	}
	return errtrace.Wrap2(ParseDataPath(p.render(p.MimeType(), params, p.binary, p.document)))
}

// ToBinary returns an equivalent data path with the document re-encoded
// as base64 octets.
func (p DataPath) ToBinary() (DataPath, error) {
	if p.binary {
		return p, nil
	}
	doc := base64.StdEncoding.EncodeToString([]byte(grammar.Unescape(p.document)))
	return errtrace.Wrap2(ParseDataPath(p.render(p.MimeType(), p.Parameters(), true, doc)))
}

// ToASCII returns an equivalent data path with the document re-encoded
// as pct-encoded text.
func (p DataPath) ToASCII() (DataPath, error) {
	if !p.binary {
		return p, nil
	}
	dec, err := base64.StdEncoding.Strict().DecodeString(p.document)
	if err != nil {
		return DataPath{}, errtrace.Wrap(newSyntaxErr("document is not valid base64: %v", err))
	}
	doc := string(grammar.EscapeAll(string(dec), nil))
	return errtrace.Wrap2(ParseDataPath(p.render(p.MimeType(), p.Parameters(), false, doc)))
}

func (DataPath) render(mimetype, params string, binary bool, doc string) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	sb.WriteString(mimetype)
	if params != "" {
		sb.WriteByte(';')
		sb.WriteString(params)
	}
	if binary {
		sb.WriteByte(';')
		sb.WriteString(dataBase64Flag)
	}
	sb.WriteByte(',')
	sb.WriteString(doc)
	return sb.String()
}

// Defined reports whether the path is present. A data path always is.
func (p DataPath) Defined() bool { return true }

// Content returns the data path in its canonical form. ok is always true.
func (p DataPath) Content() (string, bool) {
	return p.Render(nil), true
}

// URIComponent returns the data path as it appears inside a URI.
func (p DataPath) URIComponent() string {
	return p.Render(nil)
}

// Render returns the string representation of the data path.
// A data path is ASCII by construction, encoding modes do not alter it.
func (p DataPath) Render(*RenderOptions) string {
	return p.render(p.MimeType(), p.Parameters(), p.binary, p.document)
}

// RenderTo writes the data path to the provided writer.
func (p DataPath) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	return errtrace.Wrap2(io.WriteString(w, p.Render(opts)))
}

// String returns the string representation of the data path.
func (p DataPath) String() string { return p.Render(nil) }

// Format implements fmt.Formatter for custom formatting of the data path.
func (p DataPath) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, p.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(p.String()))
	default:
		type hideMethods DataPath
		type DataPath hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), DataPath(p))
	}
}

// Equal compares this data path with another for equality.
func (p DataPath) Equal(val any) bool {
	var other DataPath
	switch v := val.(type) {
	case DataPath:
		other = v
	case *DataPath:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return p.MimeType() == other.MimeType() &&
		p.binary == other.binary &&
		p.document == other.document &&
		slices.Equal(p.paramList(), other.paramList())
}

func (p DataPath) paramList() []string {
	if len(p.params) == 0 {
		return []string{defaultDataParameter}
	}
	return p.params
}

// IsValid checks whether the data path is valid.
func (p DataPath) IsValid() bool {
	_, err := ParseDataPath(p.String())
	return err == nil
}

// WithContent returns a data path with the given content.
// The receiver is returned unchanged when the new content equals the current one.
func (p DataPath) WithContent(v any) (DataPath, error) {
	p2, err := DataPathFrom(v)
	if err != nil {
		return DataPath{}, errtrace.Wrap(err)
	}
	if p.Equal(p2) {
		return p, nil
	}
	return p2, nil
}

// MarshalText implements [encoding.TextMarshaler].
func (p DataPath) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// Empty text produces the default empty data path.
func (p *DataPath) UnmarshalText(text []byte) error {
	p1, err := ParseDataPath(text)
	if err != nil {
		*p = DataPath{}
		return errtrace.Wrap(err)
	}
	*p = p1
	return nil
}
