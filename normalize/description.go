package normalize

import (
	"regexp"
	"strings"
)

// Vendor descriptions carry internal codes the storefront must not show:
// parenthesized plant/OEM markers like (NB)x or (K1), "-@ XX" shipping marks
// and trailing indicator tokens such as "wl" or "as".
var (
	parenCodeRe    = regexp.MustCompile(`\s*\([^)]*\)[x]?\s*`)
	atCodeRe       = regexp.MustCompile(`(?i)-@\s*[A-Z]{2}\s*`)
	danglingStarRe = regexp.MustCompile(`\(\*`)
	asPlusRe       = regexp.MustCompile(`(?i)\b[A-Z-]*AS\+\d+\s*`)
	trailingWlRe   = regexp.MustCompile(`(?i)\s+wl\s*$`)
	trailingAsRe   = regexp.MustCompile(`(?i)\s+as\s*$`)
)

// CleanDescription strips vendor-internal codes from a tire description and
// collapses whitespace. The result of cleaning twice equals cleaning once.
func CleanDescription(text string) string {
	if text == "" {
		return ""
	}

	cleaned := parenCodeRe.ReplaceAllString(text, " ")
	cleaned = atCodeRe.ReplaceAllString(cleaned, " ")
	cleaned = danglingStarRe.ReplaceAllString(cleaned, " ")
	cleaned = asPlusRe.ReplaceAllString(cleaned, " ")
	cleaned = trailingWlRe.ReplaceAllString(cleaned, "")
	cleaned = trailingAsRe.ReplaceAllString(cleaned, "")

	return strings.Join(strings.Fields(cleaned), " ")
}

// CleanCode normalizes a vendor product code for use as a join key.
// Codes arrive wrapped in brackets ("[41232]"); the brackets and surrounding
// whitespace are stripped. Idempotent.
func CleanCode(code string) string {
	code = strings.ReplaceAll(code, "[", "")
	code = strings.ReplaceAll(code, "]", "")
	return strings.TrimSpace(code)
}
