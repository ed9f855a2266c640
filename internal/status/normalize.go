package status

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var invisible = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\u2060", "",
	"\ufeff", "",
	"\u00a0", " ",
	"\u2007", " ",
	"\u202f", " ",
)

// Normalize converts ERP status text into the matching form shared by all lookup tables.
// Examples:
//   - "  In_Rent " -> "in rent"
//   - "ถูก\u200bยืมอยู่" -> "ถูกยืมอยู่"
func Normalize(raw string) string {
	s := invisible.Replace(raw)
	s = norm.NFKC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

func compact(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
