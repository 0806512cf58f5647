package discovery

import (
	"fmt"
	"net/url"
	"strings"
)

// trackingParams are stripped during normalization so that the same document
// reached through different campaigns deduplicates to one candidate.
var trackingParams = map[string]struct{}{
	"gclid":    {},
	"fbclid":   {},
	"msclkid":  {},
	"mc_cid":   {},
	"mc_eid":   {},
	"ref":      {},
	"icid":     {},
	"cid":      {},
	"_ga":      {},
	"wt_mc_id": {},
}

// NormalizeURL standardizes a URL for deduplication and visited-set keys.
// It lowercases the scheme and host, removes default ports and fragments,
// strips tracking query parameters, and sorts the remaining query.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	u.Fragment = ""

	q := u.Query()
	for key := range q {
		lower := strings.ToLower(key)
		if _, ok := trackingParams[lower]; ok || strings.HasPrefix(lower, "utm_") {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// multiPartTLDs lists common two-level public suffixes so that
// RegistrableDomain does not collapse "example.co.uk" to "co.uk".
var multiPartTLDs = map[string]struct{}{
	"co.uk": {}, "org.uk": {}, "ac.uk": {}, "gov.uk": {},
	"com.au": {}, "net.au": {}, "org.au": {},
	"co.jp": {}, "ne.jp": {}, "or.jp": {},
	"co.nz": {}, "co.in": {}, "com.br": {}, "com.cn": {},
	"com.mx": {}, "com.sg": {}, "com.tw": {}, "co.kr": {},
}

// RegistrableDomain reduces a hostname to the domain unit used for
// same-domain comparisons. Subdomain variation is ignored.
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if h, _, found := strings.Cut(host, ":"); found {
		host = h
	}
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}
	lastTwo := strings.Join(labels[len(labels)-2:], ".")
	if _, ok := multiPartTLDs[lastTwo]; ok {
		return strings.Join(labels[len(labels)-3:], ".")
	}
	return lastTwo
}

// SameDomain reports whether rawURL belongs to the same registrable domain
// as domain (itself a registrable domain or hostname).
func SameDomain(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	return RegistrableDomain(u.Host) == RegistrableDomain(domain)
}

// IsPDFURL applies the filename heuristic for PDF documents.
func IsPDFURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	if i := strings.IndexByte(lower, '#'); i >= 0 {
		lower = lower[:i]
	}
	return strings.HasSuffix(lower, ".pdf") || strings.Contains(lower, ".pdf?")
}

// resolveRef resolves href against base, discarding pseudo-links that can
// never be fetched.
func resolveRef(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	return abs.String(), true
}

// normalizedKey is NormalizeURL with a fallback to the raw string for inputs
// that do not parse; dedup still works, just without canonicalization.
func normalizedKey(rawURL string) string {
	key, err := NormalizeURL(rawURL)
	if err != nil {
		return rawURL
	}
	return key
}
