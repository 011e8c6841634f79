package models

// CategoryRule maps a category label to the patterns that select it.
type CategoryRule struct {
	Name     string   `yaml:"name" json:"name"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// RuleSet is an ordered, versioned list of category rules. Order is
// priority: the first rule with a matching pattern wins.
type RuleSet struct {
	Version    string         `yaml:"version" json:"version"`
	Fallback   string         `yaml:"fallback" json:"fallback"`
	Categories []CategoryRule `yaml:"categories" json:"categories"`
}

// Names returns the category labels in priority order.
func (r RuleSet) Names() []string {
	names := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		names = append(names, c.Name)
	}
	return names
}
