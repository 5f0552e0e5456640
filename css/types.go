package css

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"sort"
	"strings"
	"unicode"

	"stylo/common"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string  // Original CSS value string (e.g., "1.2em", "bold", "#ff0000")
	Value   float64 // Numeric value if applicable
	Unit    string  // Unit if applicable: "em", "px", "%", "pt", etc.
	Keyword string  // Keyword if applicable: "bold", "italic", "center", etc.
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	// "0" has neither unit nor non-zero value
	if v.Raw != "" && v.Keyword == "" {
		firstChar := rune(v.Raw[0])
		if unicode.IsDigit(firstChar) || firstChar == '.' || firstChar == '-' || firstChar == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Properties maps property name to its value.
type Properties map[string]Value

// Clone returns a shallow copy, nil stays nil.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

// Overlay returns a new set with values from over replacing values of p key
// by key. Neither p nor over is modified.
func (p Properties) Overlay(over Properties) Properties {
	out := make(Properties, len(p)+len(over))
	maps.Copy(out, p)
	maps.Copy(out, over)
	return out
}

// Names returns property names in alphabetical order.
func (p Properties) Names() []string {
	names := slices.Collect(maps.Keys(p))
	sort.Strings(names)
	return names
}

// PseudoElement represents which pseudo-element a rule applies to.
type PseudoElement int

const (
	PseudoNone   PseudoElement = iota // No pseudo-element
	PseudoBefore                      // ::before
	PseudoAfter                       // ::after
)

// String returns the CSS representation of the pseudo-element.
func (p PseudoElement) String() string {
	switch p {
	case PseudoBefore:
		return "::before"
	case PseudoAfter:
		return "::after"
	default:
		return ""
	}
}

// Selector represents a parsed simple CSS selector.
type Selector struct {
	Raw     string        // Original selector string
	Element string        // Element name (e.g., "p", "button") or empty for class-only
	Class   string        // Class name without dot or empty
	State   common.State  // Pseudo-class (":hover") or empty
	Pseudo  PseudoElement // Pseudo-element if present
}

// ClassSelector builds selector for a class with optional state and
// pseudo-element.
func ClassSelector(class string, state common.State, pseudo PseudoElement) Selector {
	sel := Selector{Class: class, State: state, Pseudo: pseudo}
	sel.Raw = sel.String()
	return sel
}

// IsSimple returns true if this is a simple selector (element, class, or element.class).
func (s Selector) IsSimple() bool {
	return s.Element != "" || s.Class != ""
}

// String renders selector from its components, falling back to Raw for
// selectors which could not be decomposed.
func (s Selector) String() string {
	if !s.IsSimple() {
		return s.Raw
	}
	var sb strings.Builder
	sb.WriteString(s.Element)
	if s.Class != "" {
		sb.WriteByte('.')
		sb.WriteString(s.Class)
	}
	if s.State != "" {
		sb.WriteByte(':')
		sb.WriteString(string(s.State))
	}
	sb.WriteString(s.Pseudo.String())
	return sb.String()
}

// Rule represents a single CSS rule (selector + properties).
type Rule struct {
	Selector   Selector   // Parsed selector
	Properties Properties // Property name -> value
	SourceLine int        // Line number in source for error reporting
}

// GetProperty returns the value for a property, or empty Value if not found.
func (r Rule) GetProperty(name string) (Value, bool) {
	v, ok := r.Properties[name]
	return v, ok
}

// Stylesheet represents a parsed or generated CSS stylesheet.
type Stylesheet struct {
	Rules    []Rule   // All rules in source order
	Warnings []string // Warnings for unsupported features
}

// Add appends rule to the stylesheet.
func (s *Stylesheet) Add(rule Rule) {
	s.Rules = append(s.Rules, rule)
}

// RulesBySelector returns all rules matching the given selector string.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, rule := range s.Rules {
		if rule.Selector.String() == selector || rule.Selector.Raw == selector {
			matches = append(matches, rule)
		}
	}
	return matches
}

// Classes returns class names referenced by rules, in order of first
// appearance.
func (s *Stylesheet) Classes() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, rule := range s.Rules {
		if rule.Selector.Class == "" {
			continue
		}
		if _, ok := seen[rule.Selector.Class]; ok {
			continue
		}
		seen[rule.Selector.Class] = struct{}{}
		names = append(names, rule.Selector.Class)
	}
	return names
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
// Property order within a rule is sorted alphabetically for deterministic output.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, rule := range s.Rules {
		n, err := writeRule(w, &rule)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// writeRule writes a single CSS rule to w.
func writeRule(w io.Writer, rule *Rule) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s {\n", rule.Selector)
	total += n
	if err != nil {
		return total, err
	}
	n, err = writeProperties(w, rule.Properties)
	total += n
	if err != nil {
		return total, err
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// writeProperties writes property declarations sorted alphabetically.
func writeProperties(w io.Writer, props Properties) (int, error) {
	var total int
	for _, name := range props.Names() {
		n, err := fmt.Fprintf(w, "  %s: %s;\n", name, props[name].Raw)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
