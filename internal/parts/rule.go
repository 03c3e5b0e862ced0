package parts

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Finish is the characteristic material finish of a category. Cosmetic only.
type Finish struct {
	Metalness float64 `json:"metalness"` // 0..1
	Roughness float64 `json:"roughness"` // 0..1
}

// Range is an inclusive numeric range for the index embedded in a part name.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v is inside the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Rule maps part names onto a category.
type Rule struct {
	Category     Category `json:"category"`                // category assigned on match
	View         View     `json:"view,omitempty"`          // bucket (defaults to the category's view)
	Contains     []string `json:"contains,omitempty"`      // lowercase substrings (e.g. ["boton"])
	Prefixes     []string `json:"prefixes,omitempty"`      // lowercase prefixes (e.g. ["knob1_"])
	Pattern      string   `json:"pattern,omitempty"`       // regexp on the lowercase name (e.g. fader[_-]?(\d+))
	Index        *Range   `json:"index,omitempty"`         // allowed embedded index (e.g. 1..8)
	Default      string   `json:"default"`                 // default color name
	Finish       Finish   `json:"finish"`                  // material finish
	MaxLightness float64  `json:"max_lightness,omitempty"` // light-toned parts at or above this stay fixed white
}

// compiledRule is a rule with its pattern compiled.
type compiledRule struct {
	Rule
	re *regexp.Regexp
}

// compile validates a rule and compiles its pattern.
func (r Rule) compile() (compiledRule, error) {
	out := compiledRule{Rule: r}
	if r.Category == Unknown {
		return out, fmt.Errorf("rule without category")
	}
	if out.View == "" {
		out.View = DefaultView(r.Category)
	}
	if !out.View.Editable() {
		return out, fmt.Errorf("rule %s: view %q is not an editing view", r.Category, out.View)
	}
	if len(r.Contains) == 0 && len(r.Prefixes) == 0 && r.Pattern == "" {
		return out, fmt.Errorf("rule %s: no contains, prefixes or pattern", r.Category)
	}
	if r.Index != nil && r.Index.Min > r.Index.Max {
		return out, fmt.Errorf("rule %s: index min %d > max %d", r.Category, r.Index.Min, r.Index.Max)
	}
	if r.Pattern != "" {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return out, fmt.Errorf("rule %s: pattern: %w", r.Category, err)
		}
		out.re = re
	}

	return out, nil
}

// match checks a lowercase name against the rule.
func (r compiledRule) match(name string) bool {
	matched := false
	index := ""

	for _, k := range r.Contains {
		if strings.Contains(name, strings.ToLower(k)) {
			matched = true
			break
		}
	}

	if !matched {
		for _, p := range r.Prefixes {
			if strings.HasPrefix(name, strings.ToLower(p)) {
				matched = true
				break
			}
		}
	}

	if !matched && r.re != nil {
		m := r.re.FindStringSubmatch(name)
		if m != nil {
			matched = true
			if len(m) > 1 {
				index = m[1]
			}
		}
	}

	if !matched {
		return false
	}
	if r.Index == nil {
		return true
	}

	if index == "" {
		index = DigitRun(name)
	}
	n, err := strconv.Atoi(index)
	if err != nil {
		return false
	}

	return r.Index.Contains(n)
}

// DigitRun returns the first run of digits in a name ("" if none).
func DigitRun(name string) string {
	start := -1
	for i, r := range name {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return name[start:i]
		}
	}
	if start >= 0 {
		return name[start:]
	}

	return ""
}
