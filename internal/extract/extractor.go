// Package extract turns free-text FNOL documents into claim field records
// using a declarative table of labeled-capture patterns.
package extract

import (
	"strings"

	"github.com/dgallion1/fnolgest/internal/claim"
)

// NoteLowInitialEstimate is recorded when the initial estimate is less than
// half of the estimated damage.
const NoteLowInitialEstimate = "Initial estimate is far below estimated damage"

// Extractor applies a rule table to document text. It holds no mutable
// state and is safe for concurrent use.
type Extractor struct {
	rules []Rule
}

// NewExtractor creates an extractor over rules. A nil table selects the
// built-in rules.
func NewExtractor(rules []Rule) *Extractor {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Extractor{rules: rules}
}

// Extract evaluates every field rule against text independently.
// Fields that do not match, or whose values fail to convert, stay absent.
// A text field whose label matched keeps its value even when it trims to
// ""; lower, amount and list fields treat an empty capture as absent.
func (e *Extractor) Extract(text string) claim.Fields {
	var f claim.Fields
	for _, r := range e.rules {
		raw, ok := r.match(text)
		if !ok {
			continue
		}
		switch r.Kind {
		case KindText:
			f.SetText(r.Key, raw)
		case KindLower:
			if raw != "" {
				f.SetText(r.Key, strings.ToLower(raw))
			}
		case KindAmount:
			f.SetAmount(r.Key, claim.ParseAmount(raw))
		case KindList:
			f.SetList(r.Key, claim.SplitAttachments(raw))
		}
	}
	f.Inconsistencies = inconsistencies(f)
	return f
}

// inconsistencies runs the cross-field consistency checks.
func inconsistencies(f claim.Fields) []string {
	var notes []string
	if f.InitialEstimate != nil && f.EstimatedDamage != nil &&
		*f.InitialEstimate < *f.EstimatedDamage*0.5 {
		notes = append(notes, NoteLowInitialEstimate)
	}
	return notes
}
