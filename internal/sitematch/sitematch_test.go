package sitematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{"lowercases", "Mail.Google.COM", "mail.google.com"},
		{"strips leading www", "www.google.com", "google.com"},
		{"strips only one www", "www.www.google.com", "www.google.com"},
		{"keeps inner www", "mail.www.google.com", "mail.www.google.com"},
		{"trims whitespace", "  google.com  ", "google.com"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeHost(tt.host))
		})
	}
}

func TestParseHostname(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare host stays bare", "mail.google.com", "mail.google.com"},
		{"bare host is normalized", "WWW.Google.com", "google.com"},
		{"full url", "https://accounts.google.com/login", "accounts.google.com"},
		{"schemeless url with path", "accounts.google.com/login", "accounts.google.com"},
		{"http scheme", "http://example.com/", "example.com"},
		{"url with port", "https://example.com:8443/login", "example.com"},
		{"url with query", "https://example.com/login?next=/home", "example.com"},
		{"localhost", "localhost", "localhost"},
		{"empty input", "", ""},
		{"garbage falls back to normalized input", "http://[not-a-url", "http://[not-a-url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseHostname(tt.input))
		})
	}
}

func TestBaseDomain(t *testing.T) {
	tests := []struct {
		name     string
		hostname string
		expected string
	}{
		{"subdomain reduced", "mail.google.com", "google.com"},
		{"already base", "google.com", "google.com"},
		{"deep subdomain", "a.b.c.example.org", "example.org"},
		{"single label unchanged", "localhost", "localhost"},
		{"empty labels dropped", "google..com", "google.com"},
		{"trailing dot dropped", "google.com.", "google.com"},
		{"empty input", "", ""},
		// Known simplification: multi-label public suffixes over-reduce.
		{"multi label tld", "example.co.uk", "co.uk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BaseDomain(tt.hostname))
		})
	}
}

func TestURLMatchesHost(t *testing.T) {
	tests := []struct {
		name      string
		storedURL string
		target    string
		expected  bool
	}{
		{"subdomains share a site", "https://accounts.google.com/login", "mail.google.com", true},
		{"schemeless stored url", "google.com/accounts", "www.google.com", true},
		{"bare stored host", "google.com", "google.com", true},
		{"substring is not a match", "https://notgoogle.com", "google.com", false},
		{"different sites", "https://example.com", "google.com", false},
		{"www prefix ignored", "https://www.example.com", "example.com", true},
		{"empty stored url", "", "google.com", false},
		{"empty target", "https://google.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, URLMatchesHost(tt.storedURL, tt.target))
		})
	}
}
