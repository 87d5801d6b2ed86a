package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows a future algorithm migration.
const (
	DomainArticle = "mucore/article/v1"
	DomainTrace   = "mucore/trace/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ArticleID computes the content-addressed ID of a reading-list article.
//
// The URL is trimmed and NFC normalized first, so the same article saved
// twice maps to the same row.
func ArticleID(url string) string {
	normalized := norm.NFC.String(strings.TrimSpace(url))
	return hashWithDomain(DomainArticle, []byte(normalized))
}

// TraceDigest computes a stable digest of a canonical trace.
// Two runs of the same scenario produce the same digest.
func TraceDigest(trace Array) (string, error) {
	canonical, err := MarshalCanonical(trace)
	if err != nil {
		return "", fmt.Errorf("TraceDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTrace, canonical), nil
}
