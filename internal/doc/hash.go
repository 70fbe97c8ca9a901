package doc

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainSnapshot separates snapshot content hashes from any other hash
// computed over the same bytes. The version suffix allows a future change
// of the rendering.
const DomainSnapshot = "recordcompare/snapshot/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash identifies the canonical content of d. Two documents that
// differ only in field order hash identically.
func ContentHash(d Document) string {
	return hashWithDomain(DomainSnapshot, []byte(Compact(Canonicalize(d))))
}
