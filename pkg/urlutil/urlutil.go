package urlutil

import (
	"errors"
	"net"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

// ErrNoDomain is returned by Domain when a URL has no host, or its host
// is an IP literal or otherwise has no registrable domain.
var ErrNoDomain = errors.New("url has no registrable domain")

// Canonicalize applies a deterministic normalization to a URL, producing a canonical form.
// It maps equivalent URL spellings to a single canonical representation.
//
// The normalization follows these rules:
//   - Scheme and host are lowercased
//   - Path is cleaned (trailing slashes removed, except for root "/")
//   - Fragments are removed
//   - Query parameters are removed
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Idempotent: Canonicalize(Canonicalize(url)) == Canonicalize(url)
//   - Context-free: does not depend on crawl history
func Canonicalize(sourceUrl url.URL) url.URL {
	// Create a copy to avoid mutating the original
	canonical := sourceUrl

	// Lowercase scheme and host
	canonical.Scheme = lowerASCII(canonical.Scheme)
	canonical.Host = lowerASCII(canonical.Host)

	// Remove default port if present
	if host, port := canonical.Hostname(), canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	// Clean the path: remove trailing slashes (except root)
	if len(canonical.Path) > 1 {
		canonical.Path = stripTrailingSlash(canonical.Path)
	}

	// Remove fragment (anchor)
	canonical.Fragment = ""
	canonical.RawFragment = ""

	// Remove query parameters
	canonical.RawQuery = ""
	canonical.ForceQuery = false

	return canonical
}

// lowerASCII converts ASCII characters to lowercase without allocating.
// This is faster than strings.ToLower for ASCII-only strings.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// Domain returns the registrable domain (effective TLD+1) of u, e.g.
// "example.co.uk" for "https://www.example.co.uk/path". Returns
// ErrNoDomain if u has no host or the host has no public-suffix-based
// registrable domain (bare IP literals, single-label hosts).
func Domain(u *url.URL) (string, error) {
	host := u.Hostname()
	if host == "" || net.ParseIP(host) != nil {
		return "", ErrNoDomain
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(lowerASCII(host))
	if err != nil {
		return "", ErrNoDomain
	}
	return domain, nil
}

// DomainOfString parses rawURL and returns its registrable domain.
// Returns ErrNoDomain both for an unparseable URL and for one with no
// registrable domain, since the frontier treats both as the same
// submission-time rejection.
func DomainOfString(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrNoDomain
	}
	return Domain(u)
}

// stripTrailingSlash removes trailing slashes from a path.
func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
