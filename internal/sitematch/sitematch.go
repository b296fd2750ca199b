// Package sitematch provides pure host and URL normalization used to decide
// whether a stored credential applies to the site a browser tab is on.
//
// Matching is done on the "base domain": the last two dot-separated labels of
// a hostname. This intentionally treats accounts.google.com and
// mail.google.com as the same site. It is not public-suffix-list aware, so
// multi-label suffixes like co.uk collapse to the suffix itself; see the
// project design notes before changing this.
package sitematch

import (
	"net/url"
	"strings"
)

// NormalizeHost lowercases a host and strips a single leading "www." label.
// No other subdomain stripping is performed.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimPrefix(host, "www.")
	return host
}

// ParseHostname extracts a normalized hostname from either a bare host or a
// URL. Inputs without a scheme and without a "/" are treated as bare hosts.
// URL inputs default to https:// when schemeless. The function is total: any
// parse failure falls back to NormalizeHost of the raw input.
func ParseHostname(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	// Bare host: no scheme separator and no path separator.
	if !strings.Contains(input, "://") && !strings.Contains(input, "/") {
		return NormalizeHost(input)
	}

	raw := input
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return NormalizeHost(input)
	}

	return NormalizeHost(parsed.Hostname())
}

// BaseDomain reduces a hostname to its last two dot-separated labels
// (e.g. "mail.google.com" -> "google.com"). Empty labels are dropped before
// counting. Hostnames with fewer than two labels are returned unchanged.
func BaseDomain(hostname string) string {
	parts := strings.Split(hostname, ".")

	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			labels = append(labels, part)
		}
	}

	if len(labels) < 2 {
		return hostname
	}

	return labels[len(labels)-2] + "." + labels[len(labels)-1]
}

// URLMatchesHost reports whether a stored credential URL and a target host
// refer to the same site. Both sides are normalized and reduced to their base
// domain before an exact string comparison.
func URLMatchesHost(storedURL, targetHost string) bool {
	stored := BaseDomain(ParseHostname(storedURL))
	target := BaseDomain(ParseHostname(targetHost))

	if stored == "" || target == "" {
		return false
	}

	return stored == target
}
