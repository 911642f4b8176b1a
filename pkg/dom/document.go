package dom

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ReadyState mirrors document.readyState.
type ReadyState string

const (
	StateLoading     ReadyState = "loading"
	StateInteractive ReadyState = "interactive"
	StateComplete    ReadyState = "complete"
)

// Window-level event names dispatched on the document node.
const (
	EventReadyStateChange = "readystatechange"
	EventLoad             = "load"
	EventPopState         = "popstate"
)

const blankPage = "<!DOCTYPE html><html><head></head><body></body></html>"

// Document is the host display tree.
type Document struct {
	node *html.Node
	head *html.Node
	body *html.Node

	readyState ReadyState
	listeners  map[*html.Node]map[string][]listenerEntry
	nextID     ListenerID
	ids        map[string]int

	location *url.URL
	history  []string

	logger *slog.Logger
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the document logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithLocation sets the initial location. Invalid URLs are ignored.
func WithLocation(raw string) Option {
	return func(d *Document) {
		if u, err := url.Parse(raw); err == nil {
			d.location = u
			d.history = []string{u.RequestURI()}
		}
	}
}

// New creates an empty document in the loading state.
func New(opts ...Option) *Document {
	d, err := Parse(strings.NewReader(blankPage), opts...)
	if err != nil {
		// The blank page always parses.
		panic(err)
	}
	return d
}

// Parse creates a document from a host page. The page may provide the
// mount point (for example <div id="root"></div>); missing head and body
// elements are synthesized by the HTML parser.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse host page: %w", err)
	}
	d := &Document{
		node:       root,
		head:       htmlquery.FindOne(root, "//head"),
		body:       htmlquery.FindOne(root, "//body"),
		readyState: StateLoading,
		listeners:  make(map[*html.Node]map[string][]listenerEntry),
		nextID:     1,
		ids:        make(map[string]int),
		location:   &url.URL{Path: "/"},
		history:    []string{"/"},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Node returns the document node. Window-level listeners attach here.
func (d *Document) Node() *html.Node { return d.node }

// Head returns the <head> element.
func (d *Document) Head() *html.Node { return d.head }

// Body returns the <body> element.
func (d *Document) Body() *html.Node { return d.body }

// =============================================================================
// Ready state
// =============================================================================

// ReadyState returns the current ready state.
func (d *Document) ReadyState() ReadyState { return d.readyState }

// Ready reports whether the document is interactive or complete.
func (d *Document) Ready() bool {
	return d.readyState == StateInteractive || d.readyState == StateComplete
}

// SetReadyState moves the document to state and fires readystatechange.
// Reaching StateComplete also fires load. Going backwards is ignored.
func (d *Document) SetReadyState(state ReadyState) {
	if rank(state) <= rank(d.readyState) {
		return
	}
	d.readyState = state
	d.DispatchEvent(d.node, NewEvent(EventReadyStateChange, false))
	if state == StateComplete {
		d.DispatchEvent(d.node, NewEvent(EventLoad, false))
	}
}

// Load walks the document through interactive to complete.
func (d *Document) Load() {
	d.SetReadyState(StateInteractive)
	d.SetReadyState(StateComplete)
}

func rank(s ReadyState) int {
	switch s {
	case StateInteractive:
		return 1
	case StateComplete:
		return 2
	default:
		return 0
	}
}

// =============================================================================
// Title
// =============================================================================

// Title returns the text of the <title> element.
func (d *Document) Title() string {
	t := htmlquery.FindOne(d.node, "//head/title")
	if t == nil {
		return ""
	}
	return htmlquery.InnerText(t)
}

// SetTitle replaces the page title, creating <title> when missing.
func (d *Document) SetTitle(title string) {
	t := htmlquery.FindOne(d.node, "//head/title")
	if t == nil {
		t = d.CreateElement("title")
		AppendChild(d.head, t)
	}
	d.RemoveChildren(t)
	AppendChild(t, d.CreateTextNode(title))
}

// =============================================================================
// Node construction and lookup
// =============================================================================

// CreateElement creates a detached element node.
func (d *Document) CreateElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// GetElementByID returns the first element with the given id, or nil.
func (d *Document) GetElementByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	var found *html.Node
	walk(d.node, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := GetAttribute(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// Query returns the first node matching an XPath expression.
func (d *Document) Query(expr string) (*html.Node, error) {
	return htmlquery.Query(d.node, expr)
}

// QueryAll returns every node matching an XPath expression.
func (d *Document) QueryAll(expr string) ([]*html.Node, error) {
	return htmlquery.QueryAll(d.node, expr)
}

// Contains reports whether n is attached to this document.
func (d *Document) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.node {
			return true
		}
	}
	return false
}

// RemoveChildren detaches every child of n except the ones listed in keep,
// and drops the listeners of the detached subtrees.
func (d *Document) RemoveChildren(n *html.Node, keep ...*html.Node) {
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !contains(keep, c) {
			n.RemoveChild(c)
			d.release(c)
		}
		c = next
	}
}

// RemoveNode detaches n from its parent and drops the listeners of its
// subtree.
func (d *Document) RemoveNode(n *html.Node) {
	if n == nil || n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
	d.release(n)
}

// ReplaceNode puts replacement where old was and drops the listeners of
// old's subtree. It reports false when old is detached.
func (d *Document) ReplaceNode(old, replacement *html.Node) bool {
	if old == nil || old.Parent == nil || replacement == nil {
		return false
	}
	if replacement.Parent != nil {
		replacement.Parent.RemoveChild(replacement)
	}
	old.Parent.InsertBefore(replacement, old)
	d.RemoveNode(old)
	return true
}

// UniqueID returns prefix-N, where N counts calls with prefix on this
// document starting at 1.
func (d *Document) UniqueID(prefix string) string {
	d.ids[prefix]++
	return prefix + "-" + strconv.Itoa(d.ids[prefix])
}

// Release detaches n if it has a parent and drops the listeners of its
// subtree. Nodes that are rendered but never attached keep their listeners
// until released.
func (d *Document) Release(n *html.Node) {
	if n == nil {
		return
	}
	if n.Parent != nil {
		d.RemoveNode(n)
		return
	}
	d.release(n)
}

func (d *Document) release(n *html.Node) {
	if len(d.listeners) == 0 {
		return
	}
	walk(n, func(c *html.Node) bool {
		delete(d.listeners, c)
		return true
	})
}

// =============================================================================
// Serialization
// =============================================================================

// Render writes the whole document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.node)
}

// String returns the whole document as HTML.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// OuterHTML serializes n including its own tag.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	return htmlquery.OutputHTML(n, true)
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	return htmlquery.OutputHTML(n, false)
}

// TextContent returns the concatenated text of n and its descendants.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	return htmlquery.InnerText(n)
}

// =============================================================================
// Tree helpers
// =============================================================================

// AppendChild appends child to parent. A child that already has a parent
// is moved, as in the browser.
func AppendChild(parent, child *html.Node) {
	if parent == nil || child == nil {
		return
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	parent.AppendChild(child)
}

// InsertFirst inserts child as the first child of parent.
func InsertFirst(parent, child *html.Node) {
	if parent == nil || child == nil {
		return
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	if parent.FirstChild == nil {
		parent.AppendChild(child)
		return
	}
	parent.InsertBefore(child, parent.FirstChild)
}

// Children returns the direct children of n.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// ElementChildren returns the direct element children of n.
func ElementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// GetAttribute returns the value of attribute key on n.
func GetAttribute(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttribute upserts attribute key on n.
func SetAttribute(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// walk visits n and its descendants in document order until fn returns
// false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func contains(list []*html.Node, n *html.Node) bool {
	for _, k := range list {
		if k == n {
			return true
		}
	}
	return false
}
