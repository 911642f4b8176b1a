package events

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xwui-dev/xwui/pkg/dom"
	"github.com/xwui-dev/xwui/pkg/element"
)

func fixedClock() func() time.Time {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time { return ts }
}

func TestHubNodeCreatedLazilyOnce(t *testing.T) {
	doc := dom.New()
	h := New(doc)

	if doc.GetElementByID(HubID) != nil {
		t.Fatal("hub node must not exist before first use")
	}

	first := h.Node()
	second := h.Node()
	if first != second {
		t.Error("hub node should be reused")
	}
	if doc.Body().FirstChild != first {
		t.Error("hub node should be the first child of body")
	}
	if v, _ := dom.GetAttribute(first, "style"); v != "display: none" {
		t.Errorf("hub style = %q", v)
	}
	nodes, _ := doc.QueryAll("//*[@id='" + HubID + "']")
	if len(nodes) != 1 {
		t.Errorf("found %d hub nodes, want 1", len(nodes))
	}
}

func TestHubReattachesAfterDetach(t *testing.T) {
	doc := dom.New()
	h := New(doc)

	got := 0
	h.Subscribe("ping", func(*dom.Event) { got++ })
	h.Node().Parent.RemoveChild(h.Node())

	h.Publish("ping", nil)
	if got != 1 {
		t.Errorf("subscription lost after re-attach, got %d calls", got)
	}
	if !doc.Contains(h.Node()) {
		t.Error("hub node should be re-attached")
	}
}

func TestHubReusesExistingNode(t *testing.T) {
	doc := dom.New()
	pre := doc.CreateElement("div")
	dom.SetAttribute(pre, "id", HubID)
	dom.AppendChild(doc.Body(), pre)

	if New(doc).Node() != pre {
		t.Error("hub should adopt an existing node with its id")
	}
}

func TestPublishCarriesTimestampAndPayload(t *testing.T) {
	doc := dom.New()
	h := New(doc, WithClock(fixedClock()))

	var received *Detail
	h.Subscribe("custom", func(e *dom.Event) {
		received, _ = e.Detail.(*Detail)
		if !e.Bubbles {
			t.Error("hub events must bubble")
		}
	})

	h.Publish("custom", map[string]int{"n": 1})

	if received == nil {
		t.Fatal("listener did not receive the event")
	}
	if !received.Timestamp.Equal(fixedClock()()) {
		t.Errorf("Timestamp = %v", received.Timestamp)
	}
	if received.Summary != nil {
		t.Error("non-render events carry no summary")
	}
}

func TestAnnounceCreated(t *testing.T) {
	doc := dom.New()
	h := New(doc)
	el := element.New("div", element.Attrs{"id": "x"}, "a", "b")

	var got CreatedPayload
	h.OnCreated(func(d *Detail, p CreatedPayload) { got = p })
	h.AnnounceCreated(el)

	if got.Element != el || got.Tag != "div" || got.ChildCount != 2 {
		t.Errorf("payload = %+v", got)
	}
	if diff := cmp.Diff(element.Attrs{"id": "x"}, got.Attributes); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnounceRenderSnapshotAndSummary(t *testing.T) {
	doc := dom.New()
	h := New(doc)
	elems := []*element.Element{
		element.New("div", element.Attrs{"id": "a", "class": "c"}, "x"),
		element.New("p", nil),
	}

	var detail *Detail
	var payload RenderPayload
	h.OnRender(func(d *Detail, p RenderPayload) {
		detail, payload = d, p
	})
	h.AnnounceRender(elems)
	elems[0] = nil

	if payload.Elements[0] == nil {
		t.Error("render payload must be a snapshot, not the live slice")
	}
	want := &RenderSummary{
		Count: 2,
		Elements: []ElementSummary{
			{Tag: "div", AttributeKeys: []string{"class", "id"}, ChildCount: 1},
			{Tag: "p", AttributeKeys: []string{}, ChildCount: 0},
		},
	}
	if diff := cmp.Diff(want, detail.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsubscribe(t *testing.T) {
	doc := dom.New()
	h := New(doc)
	calls := 0
	id := h.Subscribe("x", func(*dom.Event) { calls++ })

	h.Publish("x", nil)
	if !h.Unsubscribe("x", id) {
		t.Error("Unsubscribe should report removal")
	}
	h.Publish("x", nil)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
