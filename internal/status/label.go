package status

import "golang.org/x/text/language"

var supportedLanguages = []language.Tag{
	language.English,
	language.Thai,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// MatchLanguage picks English or Thai from lang query values and Accept-Language headers.
// English is the default.
func MatchLanguage(accept ...string) language.Tag {
	_, i := language.MatchStrings(languageMatcher, accept...)
	return supportedLanguages[i]
}

// DisplayLabel renders a token for the display layer. Decision logic never reads labels.
// Tokens outside the vocabulary render as the domain fallback.
func DisplayLabel(d Domain, t Token, tag language.Tag) string {
	if !Valid(d, t) {
		t = Fallback(d)
	}
	src := synonyms
	if isThai(tag) {
		src = thaiLabels
	}
	for _, set := range src[d] {
		if set.token == t {
			return set.labels[0]
		}
	}
	return string(t)
}

func isThai(tag language.Tag) bool {
	_, i, conf := languageMatcher.Match(tag)
	return conf != language.No && supportedLanguages[i] == language.Thai
}
