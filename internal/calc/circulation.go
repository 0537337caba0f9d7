package calc

import (
	"strconv"
	"strings"
	"unicode"
)

// ExtractCirculation pulls a circulation out of free display text like
// "1 000 шт." or "1000". Unit suffixes, currency signs and thousands spaces
// are stripped. Returns (0, false) for placeholder text, missing digits, or
// non-positive values; it never panics on garbage input.
func ExtractCirculation(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" || strings.Contains(strings.ToLower(text), "не указан") {
		return 0, false
	}

	// Keep digits, separators and decimal marks only, then drop the
	// thousands spaces and take the leading integer run.
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || unicode.IsSpace(r) || r == '.' || r == ',' {
			return r
		}
		return -1
	}, text)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, cleaned)

	start := strings.IndexFunc(cleaned, unicode.IsDigit)
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(cleaned) && cleaned[end] >= '0' && cleaned[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(cleaned[start:end])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
