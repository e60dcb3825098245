package textile

import (
	"regexp"
	"strings"
)

// FabricTypes is the catalogue of known knit structures, in match order.
// Longer phrases sit ahead of the phrases they contain.
var FabricTypes = []string{
	"lycra single jersey",
	"single jersey",
	"double jersey",
	"lycra rib",
	"1x1 rib",
	"2x2 rib",
	"interlock",
	"pique",
	"french terry",
	"fleece",
	"waffle",
	"honeycomb",
	"pointelle",
	"jacquard",
	"thermal",
}

var (
	fabricPatterns = compileCatalogue(FabricTypes)

	labelledFabric = regexp.MustCompile(`(?i)\b(?:fabric(?:\s*type)?|quality|structure)\s*[:\-]\s*([a-z][a-z0-9 ]*?)\s*(?:\d+\s*gsm\b|[,;(]|$)`)
)

func compileCatalogue(phrases []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(phrases))
	for i, p := range phrases {
		words := strings.Fields(p)
		for j, w := range words {
			words[j] = regexp.QuoteMeta(w)
		}
		out[i] = regexp.MustCompile(`(?i)\b` + strings.Join(words, `\s+`) + `\b`)
	}
	return out
}

// ExtractFabricType returns the first catalogue phrase found in text, then a
// "fabric: value" label, then "".
func ExtractFabricType(text string) string {
	for i, re := range fabricPatterns {
		if re.MatchString(text) {
			return FabricTypes[i]
		}
	}
	if m := labelledFabric.FindStringSubmatch(text); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
