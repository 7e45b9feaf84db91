package service

import (
	"net/url"
	"regexp"
	"strings"
)

const maxDescriptionLen = 500

var (
	schemeRe     = regexp.MustCompile(`^[a-zA-Z][a-zA-Z\d+\-.]*:`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// normalizeURL trims the input and returns an absolute URL, defaulting the
// scheme to http for bare hosts ("example.com" becomes "http://example.com").
// An empty string normalizes to empty.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if !schemeRe.MatchString(raw) {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "", validationf("invalid URL format")
	}
	return raw, nil
}

// validPort reports whether p is a usable TCP port.
func validPort(p int) bool {
	return p >= 1 && p <= 65535
}

// cleanDescription collapses runs of whitespace and caps the length.
func cleanDescription(desc string) string {
	desc = whitespaceRe.ReplaceAllString(strings.TrimSpace(desc), " ")
	if len(desc) > maxDescriptionLen {
		desc = desc[:maxDescriptionLen]
	}
	return desc
}
