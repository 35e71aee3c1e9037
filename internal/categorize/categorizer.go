// Package categorize implements keyword-rule classification of tender
// text into a category label.
package categorize

import (
	"strings"

	"github.com/praeto/tendertrack/internal/model"
)

// Categorizer classifies free text against an ordered rule set.
// Matching is exact substring containment, case-insensitive, first rule
// wins. No fuzzy or partial matching. The same engine serves both the
// multi-category rule set and a single-category expanded-keyword set —
// the rules are configuration, not code.
type Categorizer struct {
	rules []compiledRule
}

type compiledRule struct {
	name     string
	keywords []string
}

// New builds a Categorizer from the configured rules. Keywords are
// lowercased once at construction.
func New(rules []model.CategoryRule) *Categorizer {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		cr := compiledRule{name: r.Name, keywords: make([]string, 0, len(r.Keywords))}
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				cr.keywords = append(cr.keywords, kw)
			}
		}
		compiled = append(compiled, cr)
	}
	return &Categorizer{rules: compiled}
}

// Categorize returns the label of the first rule, in declaration order,
// with any keyword contained in text. Returns model.Uncategorized when
// nothing matches.
func (c *Categorizer) Categorize(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range c.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.name
			}
		}
	}
	return model.Uncategorized
}

// Labels returns the configured category names in declaration order.
func (c *Categorizer) Labels() []string {
	labels := make([]string, len(c.rules))
	for i, r := range c.rules {
		labels[i] = r.name
	}
	return labels
}

// IsPriorityBuyer reports whether buyer matches any name on the
// watch list by case-insensitive substring containment.
func IsPriorityBuyer(buyer string, watchList []string) bool {
	lower := strings.ToLower(buyer)
	for _, name := range watchList {
		if name == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(name)) {
			return true
		}
	}
	return false
}
