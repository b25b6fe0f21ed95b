package assistant

import (
	"regexp"
	"strings"
)

// complexPatterns is the ordered rule list for routing a message to the
// full completion provider. Anything that misses every rule is handled by
// the cheap local flow instead, so each rule should capture intents that
// genuinely need open-ended reasoning.
var complexPatterns = []*regexp.Regexp{
	// Property comparisons
	regexp.MustCompile(`\b(compare|comparison|versus|vs\.?|difference between)\b`),
	// Market and investment analysis
	regexp.MustCompile(`\b(market (trend|condition|analysis|outlook)|invest(ing|ment)?|roi|rental (income|yield)|appreciat\w*|resale value|cash flow)\b`),
	// Neighborhood and amenity questions
	regexp.MustCompile(`\b(neighborhood|school district|amenit\w*|commute|walkab\w*|crime rate|close to|near(by)? (school|park|transit|downtown))\b`),
	// Pros-and-cons requests
	regexp.MustCompile(`\b(pros and cons|advantages|disadvantages|trade-?offs?|worth (it|buying|selling))\b`),
	// Financial computation
	regexp.MustCompile(`\b(mortgage|afford\w*|down payment|closing cost\w*|interest rate|monthly payment|pre-?approv\w*|property tax\w*|hoa (fee|dues)|loan)\b`),
	// Open-ended advice phrasing
	regexp.MustCompile(`\b(explain|recommend\w*|suggest\w*|advi[cs]e)\b`),
	regexp.MustCompile(`\b(what|which|why|how)\b.*\b(should|would|best|better|strategy|option)\b`),
}

// IsComplexQuestion reports whether a message needs the completion provider
// rather than the deterministic local flow. Pure and case-insensitive; the
// caller must reject empty input before classifying.
func IsComplexQuestion(message string) bool {
	normalized := strings.ToLower(message)
	for _, pattern := range complexPatterns {
		if pattern.MatchString(normalized) {
			return true
		}
	}
	return false
}
