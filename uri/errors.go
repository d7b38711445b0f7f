package uri

import "github.com/ghettovoice/gouri/internal/errorutil"

// Common errors.
const (
	ErrInvalidArgument = errorutil.ErrInvalidArgument

	// ErrSyntax is returned when an input violates the component grammar.
	ErrSyntax Error = "invalid syntax"
	// ErrType is returned when a component is built from a value of an unsupported type.
	ErrType Error = "unsupported type"
	// ErrRange is returned when a numeric input is out of the valid bounds.
	ErrRange Error = "out of range"
)

// Host errors.
const (
	// ErrNotDomain is returned by domain label operations applied to an IP
	// or an opaque registered name host.
	ErrNotDomain Error = "host is not a domain name"
	// ErrIDNA is returned when an IDNA conversion of a host fails.
	ErrIDNA Error = "invalid internationalized domain name"
)

// Error represents a URI error.
// See [errorutil.Error].
type Error = errorutil.Error

func newSyntaxErr(args ...any) error {
	return errorutil.NewWrapperError(ErrSyntax, args...) //errtrace:skip
}

func newTypeErr(args ...any) error {
	return errorutil.NewWrapperError(ErrType, args...) //errtrace:skip
}

func newRangeErr(args ...any) error {
	return errorutil.NewWrapperError(ErrRange, args...) //errtrace:skip
}

func newNotDomainErr(args ...any) error {
	return errorutil.NewWrapperError(ErrNotDomain, args...) //errtrace:skip
}
