package entreprise

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims surrounding whitespace and folds the name to Unicode NFC so that
// visually identical names are stored with the same bytes.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
