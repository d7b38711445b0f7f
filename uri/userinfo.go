package uri

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/grammar"
	"github.com/ghettovoice/gouri/internal/util"
)

// UserInfo represents the user information part of the URI authority.
//
// The user name and the password are stored fully decoded and get
// pct-encoded on rendering. An undefined or empty user name never carries
// a password. The zero value is the undefined userinfo.
type UserInfo struct {
	usrname, passwd       string
	hasUsrname, hasPasswd bool
}

// User returns a [UserInfo] containing the provided user name and no password.
// The user name is taken as-is, without pct-decoding.
func User(usrname string) UserInfo {
	return UserInfo{usrname: usrname, hasUsrname: true}
}

// UserPassword returns a [UserInfo] containing the provided user name and
// password, both taken as-is. An empty user name drops the password.
func UserPassword(usrname, passwd string) UserInfo {
	if usrname == "" {
		return UserInfo{hasUsrname: true}
	}
	return UserInfo{usrname: usrname, hasUsrname: true, passwd: passwd, hasPasswd: true}
}

// ParseUserInfo parses userinfo from the given input src (string or []byte).
// The input goes without the trailing '@' delimiter and is split on the
// first ':' into user name and password, each pct-decoded for storage.
func ParseUserInfo[T ~string | ~[]byte](src T) (UserInfo, error) {
	if err := grammar.ValidateComponent(src); err != nil {
		return UserInfo{}, errtrace.Wrap(newSyntaxErr("userinfo %q: %v", string(src), err))
	}
	s := string(src)
	ui := UserInfo{hasUsrname: true}
	i := strings.IndexByte(s, ':')
	if i < 0 {
		ui.usrname = string(grammar.Unescape(s))
		return ui, nil
	}
	ui.usrname = string(grammar.Unescape(s[:i]))
	if ui.usrname != "" {
		ui.passwd, ui.hasPasswd = string(grammar.Unescape(s[i+1:])), true
	}
	return ui, nil
}

// UserInfoFrom creates userinfo from v.
// Accepted types: nil, string, []byte, [Component], [fmt.Stringer].
func UserInfoFrom(v any) (UserInfo, error) {
	s, ok, err := contentOf(v)
	if err != nil {
		return UserInfo{}, errtrace.Wrap(err)
	}
	if !ok {
		return UserInfo{}, nil
	}
	return errtrace.Wrap2(ParseUserInfo(s))
}

// Username returns the decoded user name.
func (ui UserInfo) Username() string { return ui.usrname }

// Password returns the decoded password, false when no password is set.
func (ui UserInfo) Password() (string, bool) { return ui.passwd, ui.hasPasswd }

// Defined reports whether the userinfo is present.
func (ui UserInfo) Defined() bool { return ui.hasUsrname }

// Content returns the userinfo in RFC3986-encoded "user[:pass]" form,
// false when the userinfo is undefined.
func (ui UserInfo) Content() (string, bool) {
	if !ui.hasUsrname {
		return "", false
	}
	return ui.Render(nil), true
}

// URIComponent returns the userinfo with its trailing '@' delimiter,
// empty when the userinfo is undefined.
func (ui UserInfo) URIComponent() string {
	if !ui.hasUsrname {
		return ""
	}
	return ui.Render(nil) + "@"
}

// Render returns the string representation of the userinfo.
func (ui UserInfo) Render(opts *RenderOptions) string {
	if ui.usrname == "" {
		return ""
	}

	mode := renderMode(opts)
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	sb.WriteString(string(grammar.EscapeAll(ui.usrname, grammar.EscapeMode(grammar.IsUserChar, mode))))
	if ui.hasPasswd {
		sb.WriteByte(':')
		sb.WriteString(string(grammar.EscapeAll(ui.passwd, grammar.EscapeMode(grammar.IsUserInfoChar, mode))))
	}
	return sb.String()
}

// RenderTo writes the userinfo to the provided writer.
func (ui UserInfo) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if ui.usrname == "" {
		return 0, nil
	}
	return errtrace.Wrap2(io.WriteString(w, ui.Render(opts)))
}

// String returns the string representation of the userinfo.
func (ui UserInfo) String() string { return ui.Render(nil) }

// Format implements fmt.Formatter for custom formatting of the userinfo.
func (ui UserInfo) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, ui.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(ui.String()))
	default:
		type hideMethods UserInfo
		type UserInfo hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), UserInfo(ui))
	}
}

// Equal compares this userinfo with another for equality.
func (ui UserInfo) Equal(val any) bool {
	var other UserInfo
	switch v := val.(type) {
	case UserInfo:
		other = v
	case *UserInfo:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return ui == other
}

// IsValid checks whether the userinfo is syntactically valid.
func (ui UserInfo) IsValid() bool {
	return !ui.hasPasswd || (ui.hasUsrname && ui.usrname != "")
}

// WithUserInfo returns userinfo with the given user name and password.
// Accepted types for both arguments are those of [UserInfoFrom], nil stands
// for an absent part. A nil or empty user name drops the password.
// The receiver is returned unchanged when nothing changes.
func (ui UserInfo) WithUserInfo(user, pass any) (UserInfo, error) {
	usr, uok, err := contentOf(user)
	if err != nil {
		return UserInfo{}, errtrace.Wrap(err)
	}
	pwd, pok, err := contentOf(pass)
	if err != nil {
		return UserInfo{}, errtrace.Wrap(err)
	}

	var ui2 UserInfo
	if uok {
		ui2.usrname, ui2.hasUsrname = string(grammar.Unescape(usr)), true
		if pok && ui2.usrname != "" {
			ui2.passwd, ui2.hasPasswd = string(grammar.Unescape(pwd)), true
		}
	}
	if ui.Equal(ui2) {
		return ui, nil
	}
	return ui2, nil
}

// WithPassword returns userinfo with the given password.
// Setting a password on an undefined or empty user name fails.
// The receiver is returned unchanged when nothing changes.
func (ui UserInfo) WithPassword(pass any) (UserInfo, error) {
	pwd, ok, err := contentOf(pass)
	if err != nil {
		return UserInfo{}, errtrace.Wrap(err)
	}
	if ok && ui.usrname == "" {
		return UserInfo{}, errtrace.Wrap(newSyntaxErr("password without a user name"))
	}

	ui2 := ui
	ui2.passwd, ui2.hasPasswd = "", false
	if ok {
		ui2.passwd, ui2.hasPasswd = string(grammar.Unescape(pwd)), true
	}
	if ui.Equal(ui2) {
		return ui, nil
	}
	return ui2, nil
}

// WithContent returns userinfo with the given content.
// The receiver is returned unchanged when the new content equals the current one.
func (ui UserInfo) WithContent(v any) (UserInfo, error) {
	ui2, err := UserInfoFrom(v)
	if err != nil {
		return UserInfo{}, errtrace.Wrap(err)
	}
	if ui.Equal(ui2) {
		return ui, nil
	}
	return ui2, nil
}

// MarshalText implements [encoding.TextMarshaler].
func (ui UserInfo) MarshalText() ([]byte, error) {
	return []byte(ui.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// An empty text produces the undefined userinfo.
func (ui *UserInfo) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*ui = UserInfo{}
		return nil
	}
	ui1, err := ParseUserInfo(text)
	if err != nil {
		*ui = UserInfo{}
		return errtrace.Wrap(err)
	}
	*ui = ui1
	return nil
}
