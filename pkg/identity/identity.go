// Package identity maps free-text labels to stable display names and
// deterministic node identifiers. GenerateID is the sole deduplication key
// used by the expansion engine: two labels that slug to the same string
// always produce the identical UUID, across calls and across processes.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// NormalizeName returns the display form of a label: lower-cased and
// trimmed. Separators are left untouched so the name stays readable.
func NormalizeName(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// NormalizeRelationship returns the canonical form of a relationship label.
// Relationship names follow the same rules as display names.
func NormalizeRelationship(label string) string {
	return NormalizeName(label)
}

// slug produces the hash input for GenerateID: lower-cased, spaces replaced
// with underscores, apostrophes stripped.
func slug(label string) string {
	s := strings.ToLower(label)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "'", "")
	return s
}

// GenerateID derives a name-based UUID (version 5, OID namespace) from the
// slugged label. The empty string is a valid input and yields a stable UUID
// like any other label.
func GenerateID(label string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(slug(label)))
}
