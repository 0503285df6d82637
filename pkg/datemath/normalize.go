package datemath

import (
	"strings"

	"golang.org/x/text/width"
)

// normalizeInput folds full-width digits, colons and latin letters to ASCII
// (and half-width katakana to full-width) and trims surrounding space.
func normalizeInput(s string) string {
	return strings.TrimSpace(width.Fold.String(s))
}
