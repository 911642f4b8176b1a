package element

import (
	"strings"
	"unicode"
)

// Classes returns the class tokens in order.
func (e *Element) Classes() []string {
	return strings.Fields(e.attrs["class"])
}

// HasClass reports whether name is one of the class tokens.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass adds each whitespace-separated token of name to the class set.
// Adding an existing token is a no-op.
func (e *Element) AddClass(name string) *Element {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return e
	}
	e.setClasses(append(e.Classes(), tokens...))
	return e
}

// RemoveClass removes each whitespace-separated token of name from the
// class set.
func (e *Element) RemoveClass(name string) *Element {
	if _, ok := e.attrs["class"]; !ok {
		return e
	}
	drop := strings.Fields(name)
	classes := e.Classes()
	kept := classes[:0]
	for _, c := range classes {
		if !containsToken(drop, c) {
			kept = append(kept, c)
		}
	}
	e.setClasses(kept)
	return e
}

// ToggleClass flips each whitespace-separated token of name: present
// tokens are removed, absent ones added.
func (e *Element) ToggleClass(name string) *Element {
	for _, t := range strings.Fields(name) {
		if e.HasClass(t) {
			e.RemoveClass(t)
		} else {
			e.AddClass(t)
		}
	}
	return e
}

func containsToken(tokens []string, t string) bool {
	for _, x := range tokens {
		if x == t {
			return true
		}
	}
	return false
}

// setClasses writes tokens back without duplicates or stray whitespace. An
// empty set removes the attribute.
func (e *Element) setClasses(tokens []string) {
	if len(tokens) == 0 {
		delete(e.attrs, "class")
		return
	}
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	e.attrs["class"] = strings.Join(out, " ")
}

// CSS sets one inline style property. camelCase names are converted to
// kebab-case; other declarations keep their order.
func (e *Element) CSS(property, value string) *Element {
	property = KebabCase(strings.TrimSpace(property))
	if property == "" {
		return e
	}
	decls := ParseStyle(e.attrs["style"])
	replaced := false
	for i := range decls {
		if decls[i].Property == property {
			decls[i].Value = value
			replaced = true
		}
	}
	if !replaced {
		decls = append(decls, Declaration{Property: property, Value: value})
	}
	e.attrs["style"] = FormatStyle(decls)
	return e
}

// Style returns the value of one inline style property.
func (e *Element) Style(property string) (string, bool) {
	property = KebabCase(property)
	for _, d := range ParseStyle(e.attrs["style"]) {
		if d.Property == property {
			return d.Value, true
		}
	}
	return "", false
}

// Declaration is one "property: value" pair of a style attribute.
type Declaration struct {
	Property string
	Value    string
}

// ParseStyle splits an inline style attribute into declarations. Entries
// without a property or value are dropped; values may contain ':'.
func ParseStyle(style string) []Declaration {
	var out []Declaration
	for _, part := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop, val = strings.TrimSpace(prop), strings.TrimSpace(val)
		if prop == "" || val == "" {
			continue
		}
		out = append(out, Declaration{Property: prop, Value: val})
	}
	return out
}

// FormatStyle serializes declarations as "a: 1; b: 2".
func FormatStyle(decls []Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.Property+": "+d.Value)
	}
	return strings.Join(parts, "; ")
}

// KebabCase converts backgroundColor to background-color.
func KebabCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
