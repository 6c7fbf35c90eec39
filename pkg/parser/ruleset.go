package parser

import (
	"fmt"
	"slices"

	"github.com/yaklabco/mdlite/pkg/mdast"
)

// RuleSet is an ordered, named list of rules for one context kind. Rules
// are tried in order, so position is priority.
//
// A RuleSet is edited while an engine is being configured and read-only
// afterwards; it is not safe for concurrent modification.
type RuleSet struct {
	kind  mdast.ContextKind
	rules []Rule
}

// NewRuleSet creates a rule set of kind holding rules in order.
func NewRuleSet(kind mdast.ContextKind, rules ...Rule) *RuleSet {
	return &RuleSet{kind: kind, rules: slices.Clone(rules)}
}

// Kind returns the context kind the rules apply to.
func (s *RuleSet) Kind() mdast.ContextKind {
	return s.kind
}

// Len returns the number of rules.
func (s *RuleSet) Len() int {
	return len(s.rules)
}

// Rules returns a copy of the rules in priority order.
func (s *RuleSet) Rules() []Rule {
	return slices.Clone(s.rules)
}

// Names returns the rule names in priority order.
func (s *RuleSet) Names() []string {
	names := make([]string, len(s.rules))
	for i, r := range s.rules {
		names[i] = r.Name()
	}
	return names
}

// Get returns the rule called name.
func (s *RuleSet) Get(name string) (Rule, bool) {
	i := s.index(name)
	if i < 0 {
		return nil, false
	}
	return s.rules[i], true
}

// Append adds rules after the existing ones.
func (s *RuleSet) Append(rules ...Rule) error {
	return s.insert(len(s.rules), rules)
}

// InsertBefore adds rules immediately before the rule called name.
func (s *RuleSet) InsertBefore(name string, rules ...Rule) error {
	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("insert before %q: %w", name, ErrRuleNotFound)
	}
	return s.insert(i, rules)
}

// InsertAfter adds rules immediately after the rule called name.
func (s *RuleSet) InsertAfter(name string, rules ...Rule) error {
	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("insert after %q: %w", name, ErrRuleNotFound)
	}
	return s.insert(i+1, rules)
}

// Replace swaps the rule called name for rule, keeping its position.
func (s *RuleSet) Replace(name string, rule Rule) error {
	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("replace %q: %w", name, ErrRuleNotFound)
	}
	if rule.Name() != name && s.index(rule.Name()) >= 0 {
		return fmt.Errorf("replace %q with %q: %w", name, rule.Name(), ErrDuplicateRule)
	}
	s.rules[i] = rule
	return nil
}

// Remove deletes the rule called name.
func (s *RuleSet) Remove(name string) error {
	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("remove %q: %w", name, ErrRuleNotFound)
	}
	s.rules = slices.Delete(s.rules, i, i+1)
	return nil
}

// Clone returns an independent copy of the set.
func (s *RuleSet) Clone() *RuleSet {
	return NewRuleSet(s.kind, s.rules...)
}

// Context builds the immutable lexing context for the set.
func (s *RuleSet) Context() *mdast.Context {
	rules := make([]mdast.Rule, len(s.rules))
	for i, r := range s.rules {
		rules[i] = r
	}
	return mdast.NewContext(s.kind, rules)
}

func (s *RuleSet) insert(at int, rules []Rule) error {
	for i, r := range rules {
		if s.index(r.Name()) >= 0 || slices.ContainsFunc(rules[:i], func(o Rule) bool {
			return o.Name() == r.Name()
		}) {
			return fmt.Errorf("add %q: %w", r.Name(), ErrDuplicateRule)
		}
	}
	s.rules = slices.Insert(s.rules, at, rules...)
	return nil
}

func (s *RuleSet) index(name string) int {
	return slices.IndexFunc(s.rules, func(r Rule) bool {
		return r.Name() == name
	})
}
