// Text matching helpers for forbidden-content policies.
//
// Two match modes are supported: case-insensitive substring ("words"), and
// regular expressions. Compiled regexes are kept in a process-wide LRU so that
// per-message evaluation does not re-compile group patterns.
package keyword

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

var regexCache *lru.Cache[string, *regexp.Regexp]

func init() {
	// error only on non-positive size
	regexCache, _ = lru.New[string, *regexp.Regexp](1024)
}

// Returns the first word which is a case-insensitive substring of text, or
// false if none match.
func MatchWord(text string, words []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(w)) {
			return w, true
		}
	}
	return "", false
}

// Returns the first expression matching text, or false. Invalid expressions
// never match; they are expected to be rejected at config-write time.
func MatchRegex(text string, exprs []string) (string, bool) {
	for _, expr := range exprs {
		re, err := compile(expr)
		if err != nil {
			continue
		}
		if re.MatchString(text) {
			return expr, true
		}
	}
	return "", false
}

// Checks words first, then regexes, mirroring the relative cost of the two
// modes. Returns the matching pattern.
func MatchAny(text string, words, exprs []string) (string, bool) {
	if pat, ok := MatchWord(text, words); ok {
		return pat, true
	}
	return MatchRegex(text, exprs)
}

func compile(expr string) (*regexp.Regexp, error) {
	if re, ok := regexCache.Get(expr); ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	regexCache.Add(expr, re)
	return re, nil
}
