// Package categorizer assigns spending categories to transaction descriptions
// using an ordered list of regular-expression rules.
package categorizer

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/models"
)

// Categorizer resolves descriptions to categories. It is immutable after
// construction and safe for concurrent use.
type Categorizer struct {
	version  string
	fallback string
	rules    []compiledRule
	logger   logging.Logger
}

type compiledRule struct {
	category string
	patterns []*regexp.Regexp
	sources  []string
}

// Match explains a categorization: the winning category and the pattern that
// selected it. Pattern is empty when the fallback was used.
type Match struct {
	Category string `json:"category"`
	Pattern  string `json:"pattern,omitempty"`
	Fallback bool   `json:"fallback"`
}

// New compiles a rule set. Rule order is priority order.
func New(rules models.RuleSet, logger logging.Logger) (*Categorizer, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	fallback := strings.TrimSpace(rules.Fallback)
	if fallback == "" {
		fallback = models.CategoryOther
	}

	compiled := make([]compiledRule, 0, len(rules.Categories))
	for _, c := range rules.Categories {
		rule := compiledRule{category: strings.TrimSpace(c.Name)}
		for _, p := range c.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("category %q: invalid pattern %q: %w", c.Name, p, err)
			}
			rule.patterns = append(rule.patterns, re)
			rule.sources = append(rule.sources, p)
		}
		compiled = append(compiled, rule)
	}

	logger.Debug("Categorizer rules compiled",
		logging.F(logging.FieldCount, len(compiled)),
		logging.F("version", rules.Version))

	return &Categorizer{
		version:  rules.Version,
		fallback: fallback,
		rules:    compiled,
		logger:   logger,
	}, nil
}

// Categorize returns the first category whose patterns match the description,
// or the fallback label.
func (c *Categorizer) Categorize(description string) string {
	return c.Explain(description).Category
}

// Explain is Categorize plus the pattern that decided it.
func (c *Categorizer) Explain(description string) Match {
	text := strings.ToLower(description)
	for _, rule := range c.rules {
		for i, re := range rule.patterns {
			if re.MatchString(text) {
				return Match{Category: rule.category, Pattern: rule.sources[i]}
			}
		}
	}
	return Match{Category: c.fallback, Fallback: true}
}

// CategorizeBatch categorizes many descriptions. Each distinct description
// is matched once; the result is identical to calling Categorize per item.
func (c *Categorizer) CategorizeBatch(descriptions []string) []string {
	out := make([]string, len(descriptions))
	cache := make(map[string]string, len(descriptions)/2+1)
	fallbacks := 0
	for i, d := range descriptions {
		category, ok := cache[d]
		if !ok {
			category = c.Categorize(d)
			cache[d] = category
		}
		if category == c.fallback {
			fallbacks++
		}
		out[i] = category
	}

	c.logger.Debug("Batch categorized",
		logging.F(logging.FieldCount, len(descriptions)),
		logging.F("distinct", len(cache)),
		logging.F("fallback", fallbacks))
	return out
}

// Categories returns the vocabulary in priority order, fallback last.
func (c *Categorizer) Categories() []string {
	names := make([]string, 0, len(c.rules)+1)
	for _, r := range c.rules {
		names = append(names, r.category)
	}
	return append(names, c.fallback)
}

// Fallback is the label used when nothing matches.
func (c *Categorizer) Fallback() string { return c.fallback }

// Version is the rule-set version the categorizer was built from.
func (c *Categorizer) Version() string { return c.version }
