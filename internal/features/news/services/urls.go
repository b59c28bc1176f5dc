package services

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

// URLHash returns the dedup fingerprint for an article URL. The URL is
// hashed exactly as given; callers that want canonical form normalize first.
func URLHash(rawURL string) string {
	sum := md5.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

// IsValidURLFormat reports whether the URL parses with an http(s) scheme and
// a host. It does not touch the network.
func IsValidURLFormat(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// NormalizeURL produces a canonical form for storage and deduplication:
// lowercased scheme and host, default ports removed, trailing slash stripped
// (a bare "/" path is kept), query preserved, fragment dropped.
func NormalizeURL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)

	if scheme == "http" && strings.HasSuffix(host, ":80") {
		host = strings.TrimSuffix(host, ":80")
	} else if scheme == "https" && strings.HasSuffix(host, ":443") {
		host = strings.TrimSuffix(host, ":443")
	}

	path := u.Path
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}

	normalized := scheme + "://" + host + path
	if u.RawQuery != "" {
		normalized += "?" + u.RawQuery
	}
	return normalized
}
