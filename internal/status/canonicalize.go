package status

// Lookup reports the canonical token for raw and whether any table matched.
// Thai labels are consulted before synonyms.
func Lookup(d Domain, raw string) (Token, bool) {
	n := Normalize(raw)
	if n == "" {
		return "", false
	}
	c := compact(n)
	for _, key := range []string{n, c} {
		if tok, ok := thaiTables[d][key]; ok {
			return tok, true
		}
	}
	for _, key := range []string{n, c} {
		if tok, ok := synonymTables[d][key]; ok {
			return tok, true
		}
	}
	return "", false
}

// Canonicalize maps any status text to a token of the domain, falling back to the
// domain default for unrecognized or empty input.
func Canonicalize(d Domain, raw string) Token {
	if tok, ok := Lookup(d, raw); ok {
		return tok
	}
	return Fallback(d)
}
