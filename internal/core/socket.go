package core

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	lgaDigitsRe  = regexp.MustCompile(`lga(\d+)`)
	fourDigitRe  = regexp.MustCompile(`(\d{4})`)
)

// NormalizeSocket reduces socket labels such as "LGA 1700", "Intel Socket
// 1700" or "Socket AM4" to a comparable identifier ("1700", "am4").
//
// AMD families are checked before the generic "socket" rule so that
// "Socket AM4" never falls through to the Intel digit extraction.
func NormalizeSocket(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToLower(whitespaceRe.ReplaceAllString(raw, ""))

	if strings.Contains(s, "am4") {
		return "am4"
	}
	if strings.Contains(s, "am5") {
		return "am5"
	}

	if strings.Contains(s, "lga") {
		if m := lgaDigitsRe.FindStringSubmatch(s); m != nil {
			return m[1]
		}
		return s
	}

	if strings.Contains(s, "intel") || strings.Contains(s, "socket") {
		if m := fourDigitRe.FindStringSubmatch(s); m != nil {
			return m[1]
		}
		return s
	}

	s = strings.ReplaceAll(s, "amd", "")
	s = strings.ReplaceAll(s, "intel", "")
	return strings.ReplaceAll(s, "socket", "")
}

// SocketsEqual compares two socket labels by their normalized form.
func SocketsEqual(a, b string) bool {
	return NormalizeSocket(a) == NormalizeSocket(b)
}
