// Package uri provides parsing, manipulation and rendering of the
// components a URI reference is made of, according to RFC 3986, RFC 3987
// and RFC 2397.
//
// # Overview
//
// Every part of a URI is a small immutable value type with its own parser,
// accessors and copy-on-write mutators:
//
//   - [Scheme]: the URI scheme, stored lowercase ("HTTP" and "http" are the
//     same scheme).
//
//   - [UserInfo]: the user credentials part of the authority, a username
//     with an optional password.
//
//   - [Host]: a registered name, an IDNA domain, an IPv4/IPv6 address
//     (with optional zone) or an IPvFuture literal, classified on parse.
//     Domain hosts expose label-level access with negative offsets.
//
//   - [Port]: the network port, any non-negative integer.
//
//   - [Authority]: the [UserInfo]/[Host]/[Port] triple behind the "//"
//     prefix.
//
//   - [Path] and [HierarchicalPath]: the path component, flat or split
//     into decoded segments with basename/dirname/extension helpers.
//
//   - [DataPath]: the path of a data: URI per RFC 2397, with base64 and
//     pct-encoded document forms.
//
//   - [Query]: the query component as an ordered pair list with a
//     configurable separator, PHP-style nested params included.
//
//   - [Fragment]: the fragment component.
//
//   - [Reference]: the five-component decomposition of a whole URI
//     reference, produced by [Split].
//
// All component types implement the [Component] interface for uniform
// access from aggregating code.
//
// # Parsing
//
// Each component has a typed parser accepting string or []byte input, and
// a loose constructor accepting nil, strings, other components or anything
// implementing [fmt.Stringer]:
//
//	host, err := uri.ParseHost("www.XN--85X722F.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	host.Kind()      // uri.HostDomain
//	host.Unicode()   // "www.食狮.com", nil
//
//	ref, err := uri.Split("https://user@example.com:8042/over/there?name=ferret#nose")
//	ref.Scheme().String()   // "https"
//	ref.Port().Number()     // 8042, true
//
// Parsing is eager: a constructor either returns a fully valid component
// or an error, never both.
//
// # Absent versus empty
//
// Components model the RFC 3986 distinction between an absent component
// and a present-but-empty one. The zero value of a nullable component is
// the undefined state, Defined reports it, Content returns the encoded
// text with a presence flag, and URIComponent renders the component with
// its delimiter only when it is present:
//
//	var f uri.Fragment
//	f.URIComponent()            // ""
//	f, _ = uri.ParseFragment("")
//	f.URIComponent()            // "#"
//
// # Encoding
//
// Components store decoded or minimally-encoded text and re-encode on
// rendering. [RenderOptions] selects the encoding mode:
//
//   - [EncodingRFC3986]: canonical pct-encoding, the default.
//   - [EncodingRFC1738]: additionally encodes '+' and '~', the query
//     codec maps spaces to '+'.
//   - [EncodingRFC3987]: leaves non-ASCII bytes raw for IRI output,
//     domain hosts render in their Unicode form.
//
// Rendering never double-encodes: well-formed "%XX" triplets in the input
// survive parse and render untouched, a bare '%' is re-encoded as "%25".
//
// # Hosts
//
// [ParseHost] classifies its input. Bracketed literals become IPv6 or
// IPvFuture hosts, dotted decimals IPv4, everything else is decoded,
// normalized (NFC plus IDNA ToASCII for non-ASCII input, lowercase
// otherwise) and stored as a registered name or DNS domain. Zoned IPv6
// literals must be link-local and keep the zone in "%25" encoded form.
// IDNA conversion goes through the [IDNACodec] interface, the default
// codec uses UTS #46 lookup rules with length checks off.
//
// # Serialization
//
// All component types implement [encoding.TextMarshaler] and
// [encoding.TextUnmarshaler] for JSON/XML use:
//
//	type Endpoint struct {
//	    Host uri.Host `json:"host"`
//	    Port uri.Port `json:"port,omitempty"`
//	}
//
// # RFC Compliance
//
//   - RFC 3986: URI generic syntax, component grammars, appendix B
//     decomposition and section 5.3 recomposition.
//   - RFC 3987: IRI rendering mode and Unicode host forms.
//   - RFC 2397: the "data" URL scheme.
//   - UTS #46: IDNA processing of internationalized domain names.
//
// Reference resolution against a base URI is out of scope.
//
// # Thread Safety
//
// Component values are immutable, every mutator returns a new value.
// Sharing components across goroutines needs no synchronization.
package uri
