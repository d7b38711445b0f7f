package grammar_test

import (
	"testing"

	"github.com/ghettovoice/gouri/internal/grammar"
)

func TestIsIPv4(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want bool
	}{
		{"", "", false},
		{"", "0.0.0.0", true},
		{"", "127.0.0.1", true},
		{"", "255.255.255.255", true},
		{"", "256.0.0.1", false},
		{"", "01.2.3.4", false},
		{"", "1.2.3", false},
		{"", "1.2.3.4.5", false},
		{"", "::1", false},
		{"", "example.com", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.IsIPv4(c.str), c.want; got != want {
				t.Errorf("grammar.IsIPv4(%q) = %v, want %v", c.str, got, want)
			}
		})
	}
}

func TestIsIPv6(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want bool
	}{
		{"", "", false},
		{"", "::1", true},
		{"", "fe80::1234", true},
		{"", "2001:db8::8:800:200c:417a", true},
		{"", "::ffff:192.0.2.1", true},
		{"", "fe80::1%eth0", false},
		{"", "1.2.3.4", false},
		{"", ":::", false},
		{"", "fe80", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.IsIPv6(c.str), c.want; got != want {
				t.Errorf("grammar.IsIPv6(%q) = %v, want %v", c.str, got, want)
			}
		})
	}
}

func TestIsLinkLocalIPv6(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want bool
	}{
		{"", "", false},
		{"", "fe80::1", true},
		{"", "fe80::1234:5678", true},
		{"", "febf::1", true},
		{"", "fec0::1", false},
		{"", "2001:db8::1", false},
		{"", "::1", false},
		{"", "169.254.0.1", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.IsLinkLocalIPv6(c.str), c.want; got != want {
				t.Errorf("grammar.IsLinkLocalIPv6(%q) = %v, want %v", c.str, got, want)
			}
		})
	}
}

func TestSplitZone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		str      string
		addr     string
		zone     string
		splitted bool
	}{
		{"no zone", "::1", "::1", "", false},
		{"raw zone", "fe80::1234%eth0", "fe80::1234", "eth0", true},
		{"encoded zone", "fe80::1234%25eth0", "fe80::1234", "25eth0", true},
		{"empty zone", "fe80::1234%", "fe80::1234", "", true},
		{"empty addr", "%eth0", "", "eth0", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			addr, zone, ok := grammar.SplitZone(c.str)
			if addr != c.addr || zone != c.zone || ok != c.splitted {
				t.Errorf("grammar.SplitZone(%q) = %q, %q, %v, want %q, %q, %v",
					c.str, addr, zone, ok, c.addr, c.zone, c.splitted)
			}
		})
	}
}

func TestIPvFutureVersion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		str     string
		version string
		matched bool
	}{
		{"", "", "", false},
		{"", "v1.x", "1", true},
		{"", "V1.x", "1", true},
		{"", "vA2F.unreserved:!", "A2F", true},
		{"", "v6.zz", "6", true},
		{"", "v.x", "", false},
		{"", "v1.", "", false},
		{"", "v1x", "", false},
		{"", "v1.a b", "", false},
		{"", "v1.a/b", "", false},
		{"", "w1.x", "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			ver, ok := grammar.IPvFutureVersion(c.str)
			if ver != c.version || ok != c.matched {
				t.Errorf("grammar.IPvFutureVersion(%q) = %q, %v, want %q, %v", c.str, ver, ok, c.version, c.matched)
			}
		})
	}
}
