package textile

import (
	"regexp"
	"strconv"
	"strings"
)

// Description is what can be read out of a free-text order line.
// Fields that no pattern matched stay zero.
type Description struct {
	StitchLength  float64 `json:"stitch_length"`
	Count         float64 `json:"count"`
	WeightPerRoll float64 `json:"weight_per_roll"`
	FabricType    string  `json:"fabric_type"`
}

// IsEmpty reports whether nothing was recognised.
func (d Description) IsEmpty() bool {
	return d.StitchLength == 0 && d.Count == 0 && d.WeightPerRoll == 0 && d.FabricType == ""
}

const (
	num         = `(\d+(?:\.\d+)?)`
	groupedNum  = `(\d[\d,]*(?:\.\d+)?)`
	sep         = `\s*[:=\-]?\s*`
	requiredSep = `\s*[:=\-]\s*`
)

// Pattern lists are ordered: the first pattern that matches wins, even when a
// later one would be more specific. Callers rely on that precedence.
var (
	stitchLengthPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bs\s*[./]?\s*l\b\.?` + sep + num),
		regexp.MustCompile(`(?i)\bstitch\s*length` + sep + num),
		regexp.MustCompile(`(?i)\bloop\s*length` + sep + num),
	}

	countPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bcount` + sep + num),
		regexp.MustCompile(`(?i)\bcnt\.?` + sep + num),
		regexp.MustCompile(`(?i)\b` + num + `\s*'?s\s*count\b`),
		regexp.MustCompile(`(?i)\b` + num + `\s*/\s*1\b`),
	}

	weightPerRollPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bw(?:eigh)?t\.?\s*/\s*roll` + sep + num),
		regexp.MustCompile(`(?i)\broll\s*(?:wt|weight)\.?` + sep + num),
		regexp.MustCompile(`(?i)\broll` + requiredSep + num + `\s*kgs?\b`),
		regexp.MustCompile(`(?i)\b` + num + `\s*kgs?\s*/\s*roll\b`),
		regexp.MustCompile(`(?i)\b` + num + `\s*kgs?\s*(?:per\s+)?roll\b`),
	}

	actualQuantityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bactual\s*(?:qty|quantity)\.?` + sep + groupedNum),
		regexp.MustCompile(`(?i)\b(?:qty|quantity)\.?` + sep + groupedNum),
		regexp.MustCompile(`(?i)\b(?:total|net)\s*(?:wt|weight|qty)\.?` + sep + groupedNum),
		regexp.MustCompile(`(?i)\b` + groupedNum + `\s*kgs?\s+(?:total|net)\b`),
		regexp.MustCompile(`(?i)\b` + groupedNum + `\s*kgs?\s*(?:$|[,;)])`),
	}
)

// ParseDescription extracts stitch length, count, weight per roll and fabric
// type from an order description.
func ParseDescription(text string) Description {
	return Description{
		StitchLength:  firstNumber(stitchLengthPatterns, text),
		Count:         firstNumber(countPatterns, text),
		WeightPerRoll: firstNumber(weightPerRollPatterns, text),
		FabricType:    ExtractFabricType(text),
	}
}

// ExtractActualQuantity returns the order quantity in kg mentioned in text, or 0.
func ExtractActualQuantity(text string) float64 {
	return firstNumber(actualQuantityPatterns, text)
}

func firstNumber(patterns []*regexp.Regexp, text string) float64 {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		return parseNumber(m[1])
	}
	return 0
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
