package judge

import (
	"regexp"
	"strconv"
)

// Reference answers end with a "#### <number>" line; generated answers
// bury the number anywhere, so the last one in the text wins.
var (
	referenceNumber = regexp.MustCompile(`####\s*(-?\d+\.?\d*)`)
	anyNumber       = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// ScoreGSM8K scores a math answer by comparing final numbers: the
// number after the reference's "####" marker against the last number in
// the generated text. Missing or unparsable numbers score false.
func ScoreGSM8K(generated, correct string) bool {
	refMatches := referenceNumber.FindAllStringSubmatch(correct, -1)
	if len(refMatches) == 0 {
		return false
	}
	genMatches := anyNumber.FindAllString(generated, -1)
	if len(genMatches) == 0 {
		return false
	}

	ref, err := strconv.ParseFloat(refMatches[len(refMatches)-1][1], 64)
	if err != nil {
		return false
	}
	gen, err := strconv.ParseFloat(genMatches[len(genMatches)-1], 64)
	if err != nil {
		return false
	}
	return ref == gen
}
