package el

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xwui-dev/xwui"
	"github.com/xwui-dev/xwui/pkg/dom"
	"github.com/xwui-dev/xwui/pkg/element"
)

type recorder struct {
	tags []string
}

func (r *recorder) NewElement(tag string, attrs element.Attrs, children ...any) *element.Element {
	r.tags = append(r.tags, tag)
	return element.New(tag, attrs, children...)
}

func TestFactoryTags(t *testing.T) {
	r := &recorder{}
	f := New(r)

	cases := []struct {
		got  *element.Element
		want string
	}{
		{f.Div(nil), "div"},
		{f.Span(nil), "span"},
		{f.P(nil), "p"},
		{f.H1(nil), "h1"},
		{f.H2(nil), "h2"},
		{f.H3(nil), "h3"},
		{f.H4(nil), "h4"},
		{f.H5(nil), "h5"},
		{f.H6(nil), "h6"},
		{f.Ul(nil), "ul"},
		{f.Ol(nil), "ol"},
		{f.Li(nil), "li"},
		{f.A(nil), "a"},
		{f.Img(nil), "img"},
		{f.Button(nil), "button"},
		{f.Input(nil), "input"},
		{f.Textarea(nil), "textarea"},
		{f.Form(nil), "form"},
		{f.Label(nil), "label"},
		{f.Table(nil), "table"},
		{f.Thead(nil), "thead"},
		{f.Tbody(nil), "tbody"},
		{f.Tr(nil), "tr"},
		{f.Th(nil), "th"},
		{f.Td(nil), "td"},
		{f.Header(nil), "header"},
		{f.Footer(nil), "footer"},
		{f.Main(nil), "main"},
		{f.Nav(nil), "nav"},
		{f.Section(nil), "section"},
		{f.Article(nil), "article"},
		{f.Aside(nil), "aside"},
		{f.Create("custom-el", nil), "custom-el"},
	}
	for _, tc := range cases {
		if tc.got.Tag() != tc.want {
			t.Errorf("tag = %q, want %q", tc.got.Tag(), tc.want)
		}
	}
	if len(r.tags) != len(cases) {
		t.Errorf("creator saw %d calls, want %d", len(r.tags), len(cases))
	}
}

func TestAttrs(t *testing.T) {
	got := Attrs(
		ID("main"),
		Class("a b"),
		Class("c"),
		Style("backgroundColor", "red", "margin", "0"),
		Style("margin", "4px"),
		Data("id", "7"),
		Aria("label", "close"),
		Disabled(true),
		Checked(false),
		nil,
	)
	want := element.Attrs{
		"id":         "main",
		"class":      "a b c",
		"style":      "background-color: red; margin: 4px",
		"data-id":    "7",
		"aria-label": "close",
		"disabled":   "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Attrs() mismatch (-want +got):\n%s", diff)
	}
}

func TestFactoryWithApp(t *testing.T) {
	doc := dom.New()
	app := xwui.New(doc, xwui.DefaultConfig())
	f := New(app)
	app.SetOnload(func(*xwui.App) {
		f.Div(Attrs(ID("card")),
			f.H1(nil, "Hello"),
			f.P(nil, "World"),
		)
	})
	doc.Load()

	if n := len(app.Elements()); n != 1 {
		t.Fatalf("Elements() len = %d, want 1", n)
	}
	card := doc.GetElementByID("card")
	if card == nil {
		t.Fatal("card not rendered")
	}
	if got := dom.InnerHTML(card); got != "<h1>Hello</h1><p>World</p>" {
		t.Errorf("card = %q", got)
	}
}
