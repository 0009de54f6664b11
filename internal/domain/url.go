package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// CanonicalizeURL normalises scheme and host casing, strips default ports
// and fragments, and applies IDNA normalisation to internationalised
// hostnames so that equivalent URLs fingerprint identically.
func CanonicalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Fragment = ""

	host := u.Hostname()
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	host = strings.ToLower(host)

	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		u.Host = host + ":" + port
	} else {
		u.Host = host
	}

	return u.String()
}

// Fingerprint derives a deterministic evidence ID from its origin, source
// URL, owning sub-query, and ordinal position within that sub-query's
// results. Two pieces of evidence with equal inputs MUST fingerprint to
// the same ID.
func Fingerprint(origin, canonicalURL, subQueryID string, ordinal int) string {
	h := sha256.New()
	h.Write([]byte(origin))
	h.Write([]byte{0})
	h.Write([]byte(canonicalURL))
	h.Write([]byte{0})
	h.Write([]byte(subQueryID))
	h.Write([]byte{0})
	h.Write([]byte{byte(ordinal), byte(ordinal >> 8)})
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// ContentHash is a strong hash of normalised excerpt text, used for dedupe
// when two items' IDs differ but their content matches.
func ContentHash(excerpt string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(excerpt)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// CollectionName derives the evidence store collection for a main query.
func CollectionName(mainQuery string) string {
	sum := sha256.Sum256([]byte(mainQuery))
	return "research_" + hex.EncodeToString(sum[:])[:8]
}
