// Package netutil provides small network helpers: DNS lookups against a
// chosen nameserver, reachability checks and HTTP downloads.
package netutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/lixenwraith/apputil/shellutil"
)

// ErrHostNotFound is returned when a DNS query answers NXDOMAIN or the
// response carries no usable records.
var ErrHostNotFound = errors.New("host not found")

// ErrServfail is returned when the nameserver reports a server-side
// failure for the query.
var ErrServfail = errors.New("nameserver failure")

// Resolve looks up the IPv4 address of host. When nameserver is non-empty
// the query goes directly to it instead of the system resolver; a bare
// address gets port 53 appended.
func Resolve(ctx context.Context, host, nameserver string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return host, nil
	}

	if nameserver == "" {
		addrs, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
		if err != nil {
			var dnsErr *net.DNSError
			if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
				return "", fmt.Errorf("resolving '%s': %w", host, ErrHostNotFound)
			}
			return "", fmt.Errorf("resolving '%s': %w", host, err)
		}
		if len(addrs) == 0 {
			return "", fmt.Errorf("resolving '%s': %w", host, ErrHostNotFound)
		}
		return addrs[0].String(), nil
	}

	if _, _, err := net.SplitHostPort(nameserver); err != nil {
		nameserver = net.JoinHostPort(nameserver, "53")
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), dns.TypeA)
	msg.RecursionDesired = true

	client := new(dns.Client)
	reply, _, err := client.ExchangeContext(ctx, msg, nameserver)
	if err != nil {
		return "", fmt.Errorf("querying nameserver '%s': %w", nameserver, err)
	}

	switch reply.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return "", fmt.Errorf("resolving '%s': %w", host, ErrHostNotFound)
	case dns.RcodeServerFailure:
		return "", fmt.Errorf("resolving '%s': %w", host, ErrServfail)
	default:
		return "", fmt.Errorf("resolving '%s': unexpected rcode %s", host, dns.RcodeToString[reply.Rcode])
	}

	for _, rr := range reply.Answer {
		if a, ok := rr.(*dns.A); ok {
			return a.A.String(), nil
		}
	}
	return "", fmt.Errorf("resolving '%s': no A records: %w", host, ErrHostNotFound)
}

// Ping reports whether host answers a single ICMP echo within the
// timeout. It shells out to the system ping binary, which carries the
// privileges raw sockets would otherwise require.
func Ping(host string, timeout time.Duration) bool {
	secs := int(timeout.Seconds())
	if secs < 1 {
		secs = 1
	}

	var command string
	switch runtime.GOOS {
	case "darwin":
		command = fmt.Sprintf("ping -c 1 -t %d %s", secs, host)
	default:
		command = fmt.Sprintf("ping -c 1 -W %d %s", secs, host)
	}

	res, err := shellutil.RunTimeout(command, timeout+2*time.Second)
	return err == nil && res.ExitCode == 0
}

// URLFilename extracts the trailing filename from a URL, ignoring query
// strings and fragments.
func URLFilename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL '%s': %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("URL '%s' has no filename component", rawURL)
	}
	return name, nil
}

// DownloadOptions tunes Download.
type DownloadOptions struct {
	// Username and Password enable HTTP basic auth when Username is set.
	Username string
	Password string

	// Timeout bounds the whole transfer. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// Download fetches rawURL to destination. An empty destination derives
// the local filename from the URL, placed in the working directory. The
// destination path is returned.
func Download(ctx context.Context, rawURL, destination string, opts DownloadOptions) (string, error) {
	if destination == "" {
		name, err := URLFilename(rawURL)
		if err != nil {
			return "", err
		}
		destination = name
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for '%s': %w", rawURL, err)
	}
	if opts.Username != "" {
		req.SetBasicAuth(opts.Username, opts.Password)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch '%s': %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching '%s': unexpected status %s", rawURL, resp.Status)
	}

	out, err := os.Create(destination)
	if err != nil {
		return "", fmt.Errorf("failed to create '%s': %w", destination, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(destination)
		return "", fmt.Errorf("failed to write '%s': %w", destination, err)
	}
	return destination, nil
}

// HostPort splits "host:port" with a default port applied when the input
// has none. IPv6 literals must be bracketed.
func HostPort(input string, defaultPort string) (host, port string, err error) {
	host, port, err = net.SplitHostPort(input)
	if err == nil {
		return host, port, nil
	}
	if strings.ContainsAny(input, ":]") {
		return "", "", fmt.Errorf("invalid host/port '%s': %w", input, err)
	}
	return input, defaultPort, nil
}
