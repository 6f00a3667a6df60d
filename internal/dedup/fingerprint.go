package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint derives the content hash that identifies a real-world event
// across platforms: a SHA-256 hex digest over the normalized title, start
// date, and city joined with a pipe. Two listings with the same fingerprint
// are treated as the same event no matter which platform they came from.
func Fingerprint(title, startDate, city string) string {
	fingerprint := strings.Join([]string{
		NormalizeText(title),
		NormalizeDate(startDate),
		NormalizeText(city),
	}, "|")

	sum := sha256.Sum256([]byte(fingerprint))
	return hex.EncodeToString(sum[:])
}
