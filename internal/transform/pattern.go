package transform

import (
	"fmt"
	"regexp"
)

// Rule is an ordered find/replace pair.
// Pattern is a regular expression matched case-insensitively; Replacement
// is inserted literally.
type Rule struct {
	Pattern     string
	Replacement string
}

// compiledRule is a Rule with its compiled pattern.
type compiledRule struct {
	re          *regexp.Regexp
	replacement string
}

// PatternTransformer applies an ordered list of rules to raw text.
// It is stateless after construction and safe for concurrent use.
type PatternTransformer struct {
	rules []compiledRule
}

// NewPatternTransformer compiles the rules.
// Rules are applied in the order given; later rules see the output of earlier ones.
func NewPatternTransformer(rules []Rule) (*PatternTransformer, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		if r.Pattern == "" {
			return nil, fmt.Errorf("rule %d: empty pattern", i)
		}
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d: invalid pattern %q: %w", i, r.Pattern, err)
		}
		compiled = append(compiled, compiledRule{re: re, replacement: r.Replacement})
	}
	return &PatternTransformer{rules: compiled}, nil
}

// Replace applies every rule globally and returns the rewritten text together
// with the total number of substitutions. No match is a normal zero result.
func (p *PatternTransformer) Replace(text string) (string, int) {
	total := 0
	for _, r := range p.rules {
		n := len(r.re.FindAllStringIndex(text, -1))
		if n == 0 {
			continue
		}
		text = r.re.ReplaceAllLiteralString(text, r.replacement)
		total += n
	}
	return text, total
}

// RuleCount returns the number of rules.
func (p *PatternTransformer) RuleCount() int {
	return len(p.rules)
}
