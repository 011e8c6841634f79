// Package store loads and saves the category rule set.
package store

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRules []byte

// DefaultRulesFile is the file name looked up when no path is configured.
const DefaultRulesFile = "categories.yaml"

// RuleStore resolves the rule-set asset: a user YAML file when one is found,
// the embedded defaults otherwise.
type RuleStore struct {
	File   string
	logger logging.Logger
}

// NewRuleStore creates a store for the given file (may be empty).
func NewRuleStore(file string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &RuleStore{File: file, logger: logger}
}

// FindConfigFile looks for filename as given, under ./config and under
// $HOME/.config/bill-analyzer.
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{filename, filepath.Join("config", filename)}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "bill-analyzer", filename))
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadRules returns the configured rule set, or the embedded defaults when
// no rule file can be found. An explicitly configured file that is missing is
// reported as a warning, not an error.
func (s *RuleStore) LoadRules() (models.RuleSet, error) {
	filename := s.File
	if filename == "" {
		filename = DefaultRulesFile
	}

	path, err := s.FindConfigFile(filename)
	if err != nil {
		if s.File != "" {
			s.logger.Warn("Rule file not found, using built-in rules", logging.F(logging.FieldFile, s.File))
		}
		return DefaultRules()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.RuleSet{}, fmt.Errorf("error reading rule file: %w", err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return models.RuleSet{}, fmt.Errorf("error parsing rule file %s: %w", path, err)
	}
	s.logger.Debug("Loaded category rules",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(rules.Categories)))
	return rules, nil
}

// DefaultRules parses the embedded rule asset.
func DefaultRules() (models.RuleSet, error) {
	return ParseRules(defaultRules)
}

// DefaultRulesYAML returns the raw embedded asset.
func DefaultRulesYAML() []byte {
	out := make([]byte, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// ParseRules decodes a rule set. A bare list of categories without the
// top-level key is accepted too.
func ParseRules(data []byte) (models.RuleSet, error) {
	var rules models.RuleSet
	if err := yaml.Unmarshal(data, &rules); err == nil && len(rules.Categories) > 0 {
		return rules, Validate(rules)
	}

	var list []models.CategoryRule
	if err := yaml.Unmarshal(data, &list); err != nil {
		return models.RuleSet{}, fmt.Errorf("invalid rule set: %w", err)
	}
	rules = models.RuleSet{Categories: list}
	return rules, Validate(rules)
}

// Validate checks names and patterns of a rule set.
func Validate(rules models.RuleSet) error {
	if len(rules.Categories) == 0 {
		return errors.New("rule set has no categories")
	}
	seen := make(map[string]bool, len(rules.Categories))
	for i, c := range rules.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("category #%d has no name", i+1)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("duplicate category %q", name)
		}
		seen[key] = true
		if len(c.Patterns) == 0 {
			return fmt.Errorf("category %q has no patterns", name)
		}
	}
	return nil
}

// SaveRules writes a rule set as YAML.
func SaveRules(path string, rules models.RuleSet) error {
	if err := Validate(rules); err != nil {
		return err
	}
	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing rule file: %w", err)
	}
	return nil
}
