// Package style manages a single generated style sheet: named class rules,
// keyframe animations and media query blocks, serialized into one <style>
// element in the document head.
//
//	sm := style.New(doc)
//	btn := sm.Create("button", style.Properties{"backgroundColor": "#06c"})
//	sm.Apply(el, "button") // el gains class "xwui-button"
//
// Property names are written camelCase or kebab-case; camelCase is
// converted on output. Within a rule, properties are emitted sorted by
// name so the generated text is stable.
package style

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/xwui-dev/xwui/pkg/dom"
	"github.com/xwui-dev/xwui/pkg/element"
	"golang.org/x/net/html"
)

// DefaultPrefix is prepended to every rule and animation name.
const DefaultPrefix = "xwui-"

// Properties maps CSS property names to values.
type Properties map[string]string

// Keyframe is one step of an animation ("from", "50%", "to").
type Keyframe struct {
	Step       string
	Properties Properties
}

// Rule pairs a selector with its declarations.
type Rule struct {
	Selector   string
	Properties Properties
}

type mediaBlock struct {
	query string
	rules []Rule
}

// Manager owns the generated style sheet. It is not safe for concurrent
// use.
type Manager struct {
	doc    *dom.Document
	node   *html.Node
	prefix string
	logger *slog.Logger

	order      []string
	rules      map[string]Properties
	animOrder  []string
	animations map[string][]Keyframe
	media      []mediaBlock
}

// Option configures a Manager.
type Option func(*Manager)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(m *Manager) { m.prefix = prefix }
}

// WithLogger sets the manager logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a manager for doc. doc may be nil, in which case the sheet
// is only available through Text.
func New(doc *dom.Document, opts ...Option) *Manager {
	m := &Manager{
		doc:        doc,
		prefix:     DefaultPrefix,
		logger:     slog.Default(),
		rules:      make(map[string]Properties),
		animations: make(map[string][]Keyframe),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Prefix returns the name prefix.
func (m *Manager) Prefix() string { return m.prefix }

// ID returns the id of the style element.
func (m *Manager) ID() string { return m.prefix + "styles" }

// Init creates the style element in the document head, or adopts one
// that already carries the manager's id. Calling Init again is a no-op.
func (m *Manager) Init() *html.Node {
	if m.doc == nil {
		return nil
	}
	if m.node == nil {
		if existing := m.doc.GetElementByID(m.ID()); existing != nil {
			m.node = existing
		} else {
			m.node = m.doc.CreateElement("style")
			dom.SetAttribute(m.node, "id", m.ID())
			dom.AppendChild(m.doc.Head(), m.node)
		}
		m.sync()
	}
	return m.node
}

// Create registers a rule, replacing any rule with the same name, and
// returns the prefixed class name.
func (m *Manager) Create(name string, props Properties) string {
	rule := m.prefix + name
	m.put(rule, copyProps(props))
	m.sync()
	return rule
}

// Update merges props into an existing rule, creating it if needed.
// name may be given with or without the prefix.
func (m *Manager) Update(name string, props Properties) string {
	rule := m.full(name)
	merged := copyProps(m.rules[rule])
	for k, v := range props {
		merged[k] = v
	}
	m.put(rule, merged)
	m.sync()
	return rule
}

// Remove deletes a rule and reports whether it existed.
func (m *Manager) Remove(name string) bool {
	rule := m.full(name)
	if _, ok := m.rules[rule]; !ok {
		return false
	}
	delete(m.rules, rule)
	for i, r := range m.order {
		if r == rule {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.sync()
	return true
}

// Rule returns a copy of a rule's properties.
func (m *Manager) Rule(name string) (Properties, bool) {
	p, ok := m.rules[m.full(name)]
	if !ok {
		return nil, false
	}
	return copyProps(p), true
}

// Apply adds the rule's class to el.
func (m *Manager) Apply(el *element.Element, name string) *element.Element {
	if el == nil {
		return nil
	}
	return el.AddClass(m.full(name))
}

// Unapply removes the rule's class from el.
func (m *Manager) Unapply(el *element.Element, name string) *element.Element {
	if el == nil {
		return nil
	}
	return el.RemoveClass(m.full(name))
}

// Animation registers a keyframe animation and returns its full name
// ("<prefix>anim-<name>").
func (m *Manager) Animation(name string, frames ...Keyframe) string {
	anim := m.prefix + "anim-" + name
	if _, ok := m.animations[anim]; !ok {
		m.animOrder = append(m.animOrder, anim)
	}
	cp := make([]Keyframe, len(frames))
	for i, f := range frames {
		cp[i] = Keyframe{Step: f.Step, Properties: copyProps(f.Properties)}
	}
	m.animations[anim] = cp
	m.sync()
	return anim
}

// ApplyAnimation sets el's inline animation shorthand. Empty arguments
// fall back to "1s", "ease" and "1".
func (m *Manager) ApplyAnimation(el *element.Element, name, duration, timing, iterations string) *element.Element {
	if el == nil {
		return nil
	}
	full := name
	if !strings.HasPrefix(name, m.prefix+"anim-") {
		full = m.prefix + "anim-" + name
	}
	if duration == "" {
		duration = "1s"
	}
	if timing == "" {
		timing = "ease"
	}
	if iterations == "" {
		iterations = "1"
	}
	return el.CSS("animation", strings.Join([]string{full, duration, timing, iterations}, " "))
}

// MediaQuery appends a media block. Selectors are used as given. Blocks
// are kept and emitted after rules and animations in the order added.
func (m *Manager) MediaQuery(query string, rules map[string]Properties) {
	selectors := make([]string, 0, len(rules))
	for sel := range rules {
		selectors = append(selectors, sel)
	}
	sort.Strings(selectors)

	block := mediaBlock{query: query}
	for _, sel := range selectors {
		block.rules = append(block.rules, Rule{Selector: sel, Properties: copyProps(rules[sel])})
	}
	m.media = append(m.media, block)
	m.sync()
}

// Text renders the full style sheet.
func (m *Manager) Text() string {
	var b strings.Builder
	for _, rule := range m.order {
		b.WriteString("." + rule + " { " + Declarations(m.rules[rule]) + " }\n")
	}
	for _, anim := range m.animOrder {
		b.WriteString("@keyframes " + anim + " {\n")
		for _, f := range m.animations[anim] {
			b.WriteString("  " + f.Step + " { " + Declarations(f.Properties) + " }\n")
		}
		b.WriteString("}\n")
	}
	for _, block := range m.media {
		b.WriteString("@media " + block.query + " {\n")
		for _, r := range block.rules {
			b.WriteString("  " + r.Selector + " { " + Declarations(r.Properties) + " }\n")
		}
		b.WriteString("}\n")
	}
	return b.String()
}

// Declarations formats props as "name: value;" pairs sorted by the
// kebab-case name. When two keys share a kebab-case name, the key that
// sorts last wins.
func Declarations(props Properties) string {
	raw := make([]string, 0, len(props))
	for k := range props {
		raw = append(raw, k)
	}
	sort.Strings(raw)

	names := make(map[string]string, len(props))
	keys := make([]string, 0, len(props))
	for _, k := range raw {
		v := props[k]
		kebab := element.KebabCase(k)
		if _, dup := names[kebab]; !dup {
			keys = append(keys, kebab)
		}
		names[kebab] = v
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + names[k] + ";"
	}
	return strings.Join(parts, " ")
}

func (m *Manager) full(name string) string {
	if strings.HasPrefix(name, m.prefix) {
		return name
	}
	return m.prefix + name
}

func (m *Manager) put(rule string, props Properties) {
	if _, ok := m.rules[rule]; !ok {
		m.order = append(m.order, rule)
	}
	m.rules[rule] = props
}

// sync rewrites the style element's text, initializing it on first use.
func (m *Manager) sync() {
	if m.doc == nil {
		return
	}
	if m.node == nil {
		m.Init()
		return
	}
	for c := m.node.FirstChild; c != nil; {
		next := c.NextSibling
		m.node.RemoveChild(c)
		c = next
	}
	text := m.Text()
	if text != "" {
		m.node.AppendChild(m.doc.CreateTextNode(text))
	}
	m.logger.Debug("style sheet updated", "rules", len(m.order), "animations", len(m.animOrder), "media", len(m.media))
}

func copyProps(p Properties) Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
