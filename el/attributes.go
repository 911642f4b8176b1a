package el

import (
	"strings"

	"github.com/xwui-dev/xwui/pkg/element"
)

// Attr sets one or more attributes.
type Attr func(element.Attrs)

// Attrs collects attribute helpers into an element.Attrs. Later helpers
// overwrite earlier ones, except Class, which accumulates.
func Attrs(attrs ...Attr) element.Attrs {
	out := element.Attrs{}
	for _, a := range attrs {
		if a != nil {
			a(out)
		}
	}
	return out
}

// Set sets an arbitrary attribute.
func Set(key, value string) Attr {
	return func(a element.Attrs) { a[key] = value }
}

func ID(id string) Attr { return Set("id", id) }

// Class appends class tokens to the class attribute.
func Class(classes ...string) Attr {
	return func(a element.Attrs) {
		tokens := strings.Fields(a["class"])
		for _, c := range classes {
			tokens = append(tokens, strings.Fields(c)...)
		}
		a["class"] = strings.Join(tokens, " ")
	}
}

// Style merges property/value pairs into the inline style. Properties are
// kebab-cased; a repeated property keeps its position and takes the new
// value.
func Style(pairs ...string) Attr {
	return func(a element.Attrs) {
		decls := element.ParseStyle(a["style"])
	next:
		for i := 0; i+1 < len(pairs); i += 2 {
			prop := element.KebabCase(pairs[i])
			for j := range decls {
				if decls[j].Property == prop {
					decls[j].Value = pairs[i+1]
					continue next
				}
			}
			decls = append(decls, element.Declaration{Property: prop, Value: pairs[i+1]})
		}
		a["style"] = element.FormatStyle(decls)
	}
}

func Href(url string) Attr { return Set("href", url) }
func Src(url string) Attr { return Set("src", url) }
func Alt(text string) Attr { return Set("alt", text) }
func Type(t string) Attr { return Set("type", t) }
func Name(name string) Attr { return Set("name", name) }
func Value(v string) Attr { return Set("value", v) }
func Placeholder(text string) Attr { return Set("placeholder", text) }
func For(id string) Attr { return Set("for", id) }
func Role(role string) Attr { return Set("role", role) }
func Data(key, value string) Attr { return Set("data-"+key, value) }
func Aria(key, value string) Attr { return Set("aria-"+key, value) }

// Bool sets a boolean attribute when on is true.
func Bool(key string, on bool) Attr {
	return func(a element.Attrs) {
		if on {
			a[key] = ""
		} else {
			delete(a, key)
		}
	}
}

func Disabled(on bool) Attr { return Bool("disabled", on) }
func Checked(on bool) Attr { return Bool("checked", on) }
