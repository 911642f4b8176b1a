package el

import "github.com/xwui-dev/xwui/pkg/element"

// Creator creates and collects elements. *xwui.App satisfies it.
type Creator interface {
	NewElement(tag string, attrs element.Attrs, children ...any) *element.Element
}

// Factory builds elements through a Creator.
type Factory struct {
	c Creator
}

// New returns a factory bound to c.
func New(c Creator) *Factory {
	return &Factory{c: c}
}

// Create creates an element with any tag.
func (f *Factory) Create(tag string, attrs element.Attrs, children ...any) *element.Element {
	return f.c.NewElement(tag, attrs, children...)
}

// Text content and grouping.

func (f *Factory) Div(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("div", attrs, children...)
}
func (f *Factory) Span(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("span", attrs, children...)
}
func (f *Factory) P(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("p", attrs, children...)
}
func (f *Factory) H1(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("h1", attrs, children...)
}
func (f *Factory) H2(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("h2", attrs, children...)
}
func (f *Factory) H3(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("h3", attrs, children...)
}
func (f *Factory) H4(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("h4", attrs, children...)
}
func (f *Factory) H5(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("h5", attrs, children...)
}
func (f *Factory) H6(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("h6", attrs, children...)
}

// Lists.

func (f *Factory) Ul(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("ul", attrs, children...)
}
func (f *Factory) Ol(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("ol", attrs, children...)
}
func (f *Factory) Li(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("li", attrs, children...)
}

// Links, media and forms.

func (f *Factory) A(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("a", attrs, children...)
}

// Img takes no children.
func (f *Factory) Img(attrs element.Attrs) *element.Element {
	return f.Create("img", attrs)
}
func (f *Factory) Button(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("button", attrs, children...)
}

// Input takes no children.
func (f *Factory) Input(attrs element.Attrs) *element.Element {
	return f.Create("input", attrs)
}
func (f *Factory) Textarea(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("textarea", attrs, children...)
}
func (f *Factory) Form(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("form", attrs, children...)
}
func (f *Factory) Label(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("label", attrs, children...)
}

// Tables.

func (f *Factory) Table(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("table", attrs, children...)
}
func (f *Factory) Thead(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("thead", attrs, children...)
}
func (f *Factory) Tbody(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("tbody", attrs, children...)
}
func (f *Factory) Tr(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("tr", attrs, children...)
}
func (f *Factory) Th(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("th", attrs, children...)
}
func (f *Factory) Td(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("td", attrs, children...)
}

// Sections.

func (f *Factory) Header(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("header", attrs, children...)
}
func (f *Factory) Footer(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("footer", attrs, children...)
}
func (f *Factory) Main(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("main", attrs, children...)
}
func (f *Factory) Nav(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("nav", attrs, children...)
}
func (f *Factory) Section(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("section", attrs, children...)
}
func (f *Factory) Article(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("article", attrs, children...)
}
func (f *Factory) Aside(attrs element.Attrs, children ...any) *element.Element {
	return f.Create("aside", attrs, children...)
}
