package extractor

import (
	"strings"
	"unicode"
)

// applies the uniform text cleaning policy: control characters and
// byte-order marks stripped, whitespace runs collapsed to single
// spaces, lines under 3 characters dropped, and bare page numbers
// (purely numeric lines of up to 3 digits) dropped
func cleanText(text string) string {
	if text == "" {
		return ""
	}

	text = strings.Map(func(r rune) rune {
		if r == '\uFEFF' {
			return -1
		}

		if r == '\n' {
			return r
		}

		if unicode.IsControl(r) {
			return -1
		}

		return r
	}, text)

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		// collapse runs of whitespace to single spaces
		line = strings.Join(strings.Fields(line), " ")

		if len(line) < 3 {
			continue
		}

		if isBarePageNumber(line) {
			continue
		}

		cleaned = append(cleaned, line)
	}

	return strings.Join(cleaned, "\n")
}

// reports whether line is purely numeric with at most 3 digits
func isBarePageNumber(line string) bool {
	if len(line) > 3 {
		return false
	}

	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}

	return len(line) > 0
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
