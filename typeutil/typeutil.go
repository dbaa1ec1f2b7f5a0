// Package typeutil validates and converts raw string input, the kind
// arriving from command line arguments, config files and environment
// variables. A Validator takes the raw string and returns the parsed,
// validated value or an error describing what was wrong with the input.
package typeutil

import (
	"fmt"
	"math"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/lixenwraith/apputil/errutil"
)

// Validator parses and validates a raw string value.
type Validator func(raw string) (any, error)

// StringOptions tunes the String validator.
type StringOptions struct {
	// AllowEmpty accepts the empty string.
	AllowEmpty bool

	// MaxLength, when positive, rejects longer values.
	MaxLength int

	// Allowed, when non-empty, is the full set of permitted characters.
	Allowed string

	// Forbidden lists characters that must not appear.
	Forbidden string
}

// String accepts any non-empty string.
func String() Validator {
	return StringWith("value", StringOptions{})
}

// StringWith builds a string validator with the given constraints. The
// name is used in error messages.
func StringWith(name string, opts StringOptions) Validator {
	return func(raw string) (any, error) {
		if raw == "" && !opts.AllowEmpty {
			return nil, errutil.InvalidArg(name, "must not be empty")
		}
		if opts.MaxLength > 0 && len(raw) > opts.MaxLength {
			return nil, errutil.InvalidArg(name, "must be at most %d characters", opts.MaxLength)
		}
		if opts.Allowed != "" {
			for _, c := range raw {
				if !strings.ContainsRune(opts.Allowed, c) {
					return nil, errutil.InvalidArg(name, "character %q is not allowed", c)
				}
			}
		}
		if opts.Forbidden != "" && strings.ContainsAny(raw, opts.Forbidden) {
			return nil, errutil.InvalidArg(name, "must not contain any of %q", opts.Forbidden)
		}
		return raw, nil
	}
}

// NonNumericString accepts non-empty strings that are not plain numbers,
// catching arguments swapped by position.
func NonNumericString() Validator {
	return func(raw string) (any, error) {
		if raw == "" {
			return nil, errutil.InvalidArg("value", "must not be empty")
		}
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return nil, errutil.InvalidArg("value", "must not be a number")
		}
		return raw, nil
	}
}

// Bool accepts the usual boolean spellings (true/false, yes/no, on/off,
// 1/0) case-insensitively and returns a bool.
func Bool() Validator {
	return func(raw string) (any, error) {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}
		return nil, errutil.InvalidArg("value", "'%s' is not a boolean", raw)
	}
}

// IntRange accepts integers within [min, max] inclusive and returns an
// int64.
func IntRange(min, max int64) Validator {
	return func(raw string) (any, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, errutil.InvalidArg("value", "'%s' is not an integer", raw)
		}
		if n < min || n > max {
			return nil, errutil.InvalidArg("value", "%d is outside the range [%d, %d]", n, min, max)
		}
		return n, nil
	}
}

// Count accepts non-negative integers.
func Count() Validator {
	return IntRange(0, math.MaxInt64)
}

// Positive accepts integers greater than zero.
func Positive() Validator {
	return IntRange(1, math.MaxInt64)
}

// Selection accepts only values from the given set.
func Selection(choices ...string) Validator {
	return func(raw string) (any, error) {
		for _, c := range choices {
			if raw == c {
				return raw, nil
			}
		}
		return nil, errutil.InvalidArg("value", "'%s' is not one of %s", raw, strings.Join(choices, ", "))
	}
}

// List splits a comma separated string, runs the item validator on each
// element, and returns []any. min and max bound the element count; max <= 0
// means unbounded.
func List(item Validator, min, max int) Validator {
	return func(raw string) (any, error) {
		var parts []string
		if strings.TrimSpace(raw) != "" {
			for _, p := range strings.Split(raw, ",") {
				parts = append(parts, strings.TrimSpace(p))
			}
		}
		if len(parts) < min {
			return nil, errutil.InvalidArg("value", "needs at least %d items, got %d", min, len(parts))
		}
		if max > 0 && len(parts) > max {
			return nil, errutil.InvalidArg("value", "allows at most %d items, got %d", max, len(parts))
		}
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			v, err := item(p)
			if err != nil {
				return nil, fmt.Errorf("item '%s': %w", p, err)
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// Optional wraps a validator so the empty string passes through as nil.
func Optional(v Validator) Validator {
	return func(raw string) (any, error) {
		if raw == "" {
			return nil, nil
		}
		return v(raw)
	}
}

// IPv4Address accepts dotted-quad IPv4 addresses.
func IPv4Address() Validator {
	return func(raw string) (any, error) {
		ip := net.ParseIP(strings.TrimSpace(raw))
		if ip == nil || ip.To4() == nil {
			return nil, errutil.InvalidArg("value", "'%s' is not an IPv4 address", raw)
		}
		return ip.To4().String(), nil
	}
}

// IPv4Subnet accepts CIDR notation (10.0.0.0/24) or address/mask pairs
// (10.0.0.0/255.255.255.0) and returns canonical CIDR.
func IPv4Subnet() Validator {
	return func(raw string) (any, error) {
		raw = strings.TrimSpace(raw)
		if _, ipNet, err := net.ParseCIDR(raw); err == nil && ipNet.IP.To4() != nil {
			return ipNet.String(), nil
		}

		addr, mask, found := strings.Cut(raw, "/")
		if !found {
			return nil, errutil.InvalidArg("value", "'%s' is not a subnet", raw)
		}
		ip := net.ParseIP(addr)
		maskIP := net.ParseIP(mask)
		if ip == nil || ip.To4() == nil || maskIP == nil || maskIP.To4() == nil {
			return nil, errutil.InvalidArg("value", "'%s' is not a subnet", raw)
		}
		m := net.IPMask(maskIP.To4())
		if _, bits := m.Size(); bits == 0 {
			return nil, errutil.InvalidArg("value", "'%s' has a non-contiguous netmask", raw)
		}
		ipNet := &net.IPNet{IP: ip.To4().Mask(m), Mask: m}
		return ipNet.String(), nil
	}
}

var hostnameLabel = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

// Hostname accepts syntactically valid hostnames per RFC 1123 label rules.
func Hostname() Validator {
	return func(raw string) (any, error) {
		host := strings.TrimSuffix(strings.TrimSpace(raw), ".")
		if host == "" || len(host) > 253 {
			return nil, errutil.InvalidArg("value", "'%s' is not a hostname", raw)
		}
		for _, label := range strings.Split(host, ".") {
			if len(label) > 63 || !hostnameLabel.MatchString(label) {
				return nil, errutil.InvalidArg("value", "'%s' is not a hostname", raw)
			}
		}
		return host, nil
	}
}

// ResolvableHostname accepts hostnames that resolve in DNS.
func ResolvableHostname() Validator {
	syntax := Hostname()
	return func(raw string) (any, error) {
		v, err := syntax(raw)
		if err != nil {
			return nil, err
		}
		host := v.(string)
		if _, err := net.LookupHost(host); err != nil {
			return nil, errutil.InvalidArg("value", "'%s' does not resolve: %v", host, err)
		}
		return host, nil
	}
}

// MACAddress accepts hardware addresses in any form net.ParseMAC
// understands and returns the canonical colon form.
func MACAddress() Validator {
	return func(raw string) (any, error) {
		hw, err := net.ParseMAC(strings.TrimSpace(raw))
		if err != nil {
			return nil, errutil.InvalidArg("value", "'%s' is not a MAC address", raw)
		}
		return hw.String(), nil
	}
}

// VLANTag accepts IEEE 802.1Q VLAN IDs (1-4095).
func VLANTag() Validator {
	inner := IntRange(1, 4095)
	return func(raw string) (any, error) {
		v, err := inner(raw)
		if err != nil {
			return nil, errutil.InvalidArg("value", "'%s' is not a VLAN tag (1-4095)", raw)
		}
		return v, nil
	}
}

// Regex accepts strings matching the given pattern in full.
func Regex(pattern string) Validator {
	re := regexp.MustCompile("^(?:" + pattern + ")$")
	return func(raw string) (any, error) {
		if !re.MatchString(raw) {
			return nil, errutil.InvalidArg("value", "'%s' does not match %s", raw, pattern)
		}
		return raw, nil
	}
}

// ValidateArgs runs each named validator against the corresponding raw
// value and returns the parsed results. The first failure aborts, with the
// argument name attached to the error.
func ValidateArgs(args map[string]string, validators map[string]Validator) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for name, v := range validators {
		raw, ok := args[name]
		if !ok {
			return nil, errutil.InvalidArg(name, "missing argument")
		}
		parsed, err := v(raw)
		if err != nil {
			return nil, fmt.Errorf("argument '%s': %w", name, err)
		}
		out[name] = parsed
	}
	return out, nil
}
