package element

import (
	"sort"
	"strconv"
	"strings"

	"github.com/xwui-dev/xwui/pkg/dom"
	"golang.org/x/net/html"
)

// Render materializes the element into a new native node owned by doc.
//
// Attributes are assigned verbatim in sorted key order. Handlers are bound
// as one listener per event. Render never mutates the Element and never
// returns the same node twice.
//
// The listeners live on doc until the node is removed through doc. A node
// that is discarded without being attached must be passed to doc.Release.
func (e *Element) Render(doc *dom.Document) *html.Node {
	node := doc.CreateElement(e.tag)

	keys := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		node.Attr = append(node.Attr, html.Attribute{Key: k, Val: e.attrs[k]})
	}

	events := e.Events()
	sort.Strings(events)
	for _, name := range events {
		doc.AddEventListener(node, name, composed(e.Handlers(name)))
	}

	for _, child := range e.children {
		e.renderChild(doc, node, child)
	}
	return node
}

func (e *Element) renderChild(doc *dom.Document, parent *html.Node, child any) {
	switch c := child.(type) {
	case nil:
	case *Element:
		if c != nil {
			dom.AppendChild(parent, c.Render(doc))
		}
	case *html.Node:
		if c != nil {
			dom.AppendChild(parent, c)
		}
	case RawHTML:
		nodes, err := html.ParseFragment(strings.NewReader(string(c)), parent)
		if err != nil {
			return
		}
		for _, n := range nodes {
			dom.AppendChild(parent, n)
		}
	default:
		if text, ok := leafText(c); ok {
			dom.AppendChild(parent, doc.CreateTextNode(text))
		}
	}
}

// leafText stringifies text and number leaves.
func leafText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case int8:
		return strconv.FormatInt(int64(x), 10), true
	case int16:
		return strconv.FormatInt(int64(x), 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return "", false
}
