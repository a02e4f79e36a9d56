package extract

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/fnolgest/internal/claim"
)

//go:embed rules.yaml
var rulesYAML []byte

// Kind controls how a matched value is converted before it is stored.
type Kind string

const (
	KindText   Kind = "text"
	KindLower  Kind = "lower"
	KindAmount Kind = "amount"
	KindList   Kind = "list"
)

// Matcher is one labeled-capture pattern.
type Matcher struct {
	Pattern string `yaml:"pattern"`
	Group   int    `yaml:"group"`

	re *regexp.Regexp
}

// Rule holds the ordered matchers for a single field. Patterns are compiled
// by LoadRules, LoadRulesFile and DefaultRules; a Rule built by hand never
// matches.
type Rule struct {
	Key      string    `yaml:"key"`
	Kind     Kind      `yaml:"kind"`
	Matchers []Matcher `yaml:"matchers"`
}

type ruleFile struct {
	Fields []Rule `yaml:"fields"`
}

// LoadRules decodes and validates a YAML rule table.
func LoadRules(data []byte) ([]Rule, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if len(rf.Fields) == 0 {
		return nil, fmt.Errorf("rules: no fields defined")
	}

	seen := make(map[string]bool, len(rf.Fields))
	for i := range rf.Fields {
		r := &rf.Fields[i]
		if seen[r.Key] {
			return nil, fmt.Errorf("rules: duplicate field %q", r.Key)
		}
		seen[r.Key] = true

		if !accepts(r.Key, r.Kind) {
			return nil, fmt.Errorf("rules: field %q cannot hold kind %q", r.Key, r.Kind)
		}
		if len(r.Matchers) == 0 {
			return nil, fmt.Errorf("rules: field %q has no matchers", r.Key)
		}
		for j := range r.Matchers {
			m := &r.Matchers[j]
			re, err := regexp.Compile(`(?im)` + widenSpace(m.Pattern))
			if err != nil {
				return nil, fmt.Errorf("rules: field %q matcher %d: %w", r.Key, j, err)
			}
			if m.Group == 0 {
				m.Group = 1
			}
			if m.Group < 0 || m.Group > re.NumSubexp() {
				return nil, fmt.Errorf("rules: field %q matcher %d: group %d out of range", r.Key, j, m.Group)
			}
			m.re = re
		}
	}
	return rf.Fields, nil
}

// LoadRulesFile reads a rule table from disk.
func LoadRulesFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return LoadRules(data)
}

// DefaultRules returns the built-in FNOL rule table.
func DefaultRules() []Rule {
	rules, err := LoadRules(rulesYAML)
	if err != nil {
		panic(fmt.Sprintf("load rules.yaml: %v", err))
	}
	return rules
}

// unicodeSpace is the body of a character class matching every rune that
// counts as whitespace in Unicode text: ASCII whitespace including \v, the
// information separators, NEL and the Unicode separator categories.
const unicodeSpace = `\t\n\v\f\r\x{1c}-\x{1f}\x{85}\p{Z}`

// widenSpace rewrites \s in pattern, and \S outside brackets, to match
// unicodeSpace. RE2 limits \s to ASCII, which would make labels followed by
// a non-breaking space invisible.
func widenSpace(pattern string) string {
	var b strings.Builder
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			i++
			switch next := pattern[i]; {
			case next == 's' && inClass:
				b.WriteString(unicodeSpace)
			case next == 's':
				b.WriteString("[" + unicodeSpace + "]")
			case next == 'S' && !inClass:
				b.WriteString("[^" + unicodeSpace + "]")
			default:
				b.WriteByte(c)
				b.WriteByte(next)
			}
			continue
		case c == '[' && inClass && strings.HasPrefix(pattern[i:], "[:"):
			// POSIX class such as [:alpha:] inside a bracket expression.
			if end := strings.Index(pattern[i+2:], ":]"); end >= 0 {
				b.WriteString(pattern[i : i+2+end+2])
				i += 2 + end + 1
				continue
			}
		case c == '[' && !inClass:
			inClass = true
			b.WriteByte(c)
			// A ']' right after '[' or '[^' is a literal.
			if i+1 < len(pattern) && pattern[i+1] == '^' {
				b.WriteByte('^')
				i++
			}
			if i+1 < len(pattern) && pattern[i+1] == ']' {
				b.WriteByte(']')
				i++
			}
			continue
		case c == ']' && inClass:
			inClass = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// accepts reports whether key can store values of kind k.
func accepts(key string, k Kind) bool {
	var f claim.Fields
	switch k {
	case KindText, KindLower:
		return f.SetText(key, "")
	case KindAmount:
		return f.SetAmount(key, nil)
	case KindList:
		return f.SetList(key, nil)
	}
	return false
}

// match returns the trimmed capture of the first matcher that matches text.
func (r Rule) match(text string) (string, bool) {
	for _, m := range r.Matchers {
		if m.re == nil {
			continue
		}
		sub := m.re.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		return strings.TrimSpace(sub[m.Group]), true
	}
	return "", false
}
