// Package demo is the sample site served and rendered by the xwui command.
package demo

import (
	"fmt"

	"github.com/xwui-dev/xwui"
	"github.com/xwui-dev/xwui/el"
	"github.com/xwui-dev/xwui/pkg/component"
	"github.com/xwui-dev/xwui/pkg/dom"
	"github.com/xwui-dev/xwui/pkg/element"
	"github.com/xwui-dev/xwui/pkg/router"
	"github.com/xwui-dev/xwui/pkg/state"
	"github.com/xwui-dev/xwui/pkg/style"
)

// VisitsKey is the storage key of the page view counter.
const VisitsKey = "visits"

// Site holds the demo pages of one app.
type Site struct {
	app *xwui.App
	f   *el.Factory

	counter *component.Component
}

// Setup registers the demo styles and routes on app. Call it from the
// onload callback so the first route dispatch sees the routes.
func Setup(app *xwui.App) *Site {
	s := &Site{app: app, f: el.New(app)}
	s.styles()

	s.counter = component.New(app.Document(), s.renderCounter,
		component.WithID("counter"),
		component.WithInitialState(map[string]any{"clicks": 0}),
	)

	app.State().On(state.EventChange, func(c state.Change) {
		app.Document().SetTitle(fmt.Sprintf("%s (%v)", app.Config().Title, c.State["page"]))
	})

	if r := app.Router(); r != nil {
		r.Add("/", s.home).
			Add("/about", s.about).
			Add("/users/:id", s.user)
	}
	return s
}

// Counter returns the click counter component.
func (s *Site) Counter() *component.Component { return s.counter }

func (s *Site) styles() {
	st := s.app.Style()
	st.Create("page", style.Properties{
		"maxWidth":   "40rem",
		"margin":     "0 auto",
		"fontFamily": "system-ui, sans-serif",
	})
	st.Create("title", style.Properties{"color": "#222", "fontSize": "2rem"})
	st.Create("muted", style.Properties{"color": "#777"})
	st.Animation("fade-in",
		style.Keyframe{Step: "from", Properties: style.Properties{"opacity": "0"}},
		style.Keyframe{Step: "to", Properties: style.Properties{"opacity": "1"}},
	)
	st.MediaQuery("(max-width: 600px)", map[string]style.Properties{
		"." + st.Prefix() + "title": {"fontSize": "1.4rem"},
	})
}

// page wraps the visited page in the shared layout and counts the visit.
func (s *Site) page(name string, children ...any) *element.Element {
	visits := s.visit()
	s.app.State().Set(map[string]any{"page": name, "visits": visits})

	f := s.f
	nav := f.Nav(nil,
		f.A(el.Attrs(el.Href("/")), "Home"),
		" | ",
		f.A(el.Attrs(el.Href("/about")), "About"),
	)
	footer := s.app.Style().Apply(f.Footer(nil, fmt.Sprintf("%d page views", visits)), "muted")
	main := f.Main(nil, children...)

	root := f.Div(el.Attrs(el.ID("page")), nav, main, footer)
	s.app.Style().Apply(root, "page")
	s.app.Style().ApplyAnimation(root, "fade-in", "0.3s", "", "")
	return root
}

func (s *Site) visit() int {
	var n int
	s.app.Storage().Load(VisitsKey, &n)
	n++
	s.app.Storage().Set(VisitsKey, n)
	return n
}

func (s *Site) title(text string) *element.Element {
	return s.app.Style().Apply(s.f.H1(nil, text), "title")
}

func (s *Site) home(router.Params, router.Query) {
	host := s.f.Section(el.Attrs(el.ID("counter-host")))
	if err := s.counter.Mount(host); err != nil {
		s.app.Document().SetTitle("error: " + err.Error())
	}
	s.page("home",
		s.title("Hello"),
		s.f.P(nil, "World"),
		host,
	)
}

func (s *Site) about(router.Params, router.Query) {
	f := s.f
	s.page("about",
		s.title("About"),
		f.Ul(nil,
			f.Li(nil, "Elements render to a document"),
			f.Li(nil, "Routes rebuild the page"),
			f.Li(nil, "State changes notify listeners"),
		),
	)
}

func (s *Site) user(p router.Params, q router.Query) {
	f := s.f
	tab := q["tab"]
	if tab == "" {
		tab = "profile"
	}
	s.page("user",
		s.title("User "+p["id"]),
		f.Table(nil,
			f.Tbody(nil,
				f.Tr(nil, f.Th(nil, "id"), f.Td(nil, p["id"])),
				f.Tr(nil, f.Th(nil, "tab"), f.Td(nil, tab)),
			),
		),
	)
}

func (s *Site) renderCounter(c *component.Component) *element.Element {
	n, _ := c.State().Get("clicks")
	clicks, _ := n.(int)
	return element.New("button", element.Attrs{"type": "button"},
		fmt.Sprintf("Clicked %d times", clicks),
	).On("click", func(*dom.Event) {
		c.SetState(map[string]any{"clicks": clicks + 1})
		s.app.RenderAll()
	})
}
