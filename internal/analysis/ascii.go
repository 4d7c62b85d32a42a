package analysis

import "strings"

// ToASCII drops every rune outside the 7-bit range. Reports and narratives
// travel through mail transports and shell pipes that are only guaranteed
// clean for ASCII, so non-representable characters are removed rather than
// replaced.
func ToASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 127 {
			return -1
		}
		return r
	}, s)
}
