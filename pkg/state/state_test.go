package state

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetSameValueTwice(t *testing.T) {
	s := New(nil)
	keyed, all := 0, 0
	s.On("change:a", func(Change) { keyed++ })
	s.On("change", func(Change) { all++ })

	s.Set(map[string]any{"a": 1})
	s.Set(map[string]any{"a": 1})

	if keyed != 1 {
		t.Errorf("change:a fired %d times, want 1", keyed)
	}
	if all != 2 {
		t.Errorf("change fired %d times, want 2", all)
	}
}

func TestChangePayloads(t *testing.T) {
	s := New(map[string]any{"a": 1, "b": "x"})

	var keyed []Change
	var agg Change
	s.On(KeyEvent("a"), func(c Change) { keyed = append(keyed, c) })
	s.On(EventChange, func(c Change) { agg = c })

	s.Set(map[string]any{"a": 2, "c": true})

	if len(keyed) != 1 || keyed[0].Key != "a" || keyed[0].Value != 2 || keyed[0].Previous != 1 {
		t.Errorf("keyed = %+v", keyed)
	}
	if diff := cmp.Diff(map[string]any{"a": 1, "b": "x"}, agg.PreviousState); diff != "" {
		t.Errorf("PreviousState mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"a": 2, "b": "x", "c": true}, agg.State); diff != "" {
		t.Errorf("State mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyEventsFireInKeyOrderBeforeAggregate(t *testing.T) {
	s := New(nil)
	var order []string
	for _, k := range []string{"b", "a", "c"} {
		k := k
		s.On(KeyEvent(k), func(Change) { order = append(order, k) })
	}
	s.On(EventChange, func(Change) { order = append(order, "*") })

	s.Set(map[string]any{"c": 1, "a": 1, "b": 1})

	if diff := cmp.Diff([]string{"a", "b", "c", "*"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestReferenceValuesCompareByIdentity(t *testing.T) {
	list := []int{1, 2}
	m := map[string]int{"x": 1}
	s := New(map[string]any{"list": list, "m": m})

	fired := map[string]int{}
	s.On(KeyEvent("list"), func(Change) { fired["list"]++ })
	s.On(KeyEvent("m"), func(Change) { fired["m"]++ })

	s.Set(map[string]any{"list": list, "m": m})
	if fired["list"] != 0 || fired["m"] != 0 {
		t.Errorf("same references should not fire: %v", fired)
	}

	s.Set(map[string]any{"list": []int{1, 2}, "m": map[string]int{"x": 1}})
	if fired["list"] != 1 || fired["m"] != 1 {
		t.Errorf("new references should fire: %v", fired)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	initial := map[string]any{"a": 1}
	s := New(initial)
	initial["a"] = 99

	snap := s.Snapshot()
	snap["a"] = 5

	if v, _ := s.Get("a"); v != 1 {
		t.Errorf("Get(a) = %v, want 1", v)
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("Get(missing) should report absence")
	}
}

func TestOff(t *testing.T) {
	s := New(nil)
	a, b := 0, 0
	idA := s.On("change", func(Change) { a++ })
	s.On("change", func(Change) { b++ })

	s.Off("change", idA)
	s.SetValue("k", 1)
	if a != 0 || b != 1 {
		t.Errorf("after Off(id): a=%d b=%d", a, b)
	}

	s.Off("change", 0)
	s.SetValue("k", 2)
	if b != 1 {
		t.Errorf("Off(event, 0) should remove all listeners, b=%d", b)
	}
}

func TestListenerRemovingItselfDuringEmit(t *testing.T) {
	s := New(nil)
	calls := 0
	var id ListenerID
	id = s.On("change", func(Change) {
		calls++
		s.Off("change", id)
	})
	s.On("change", func(Change) { calls++ })

	s.SetValue("x", 1)
	s.SetValue("x", 2)

	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestEmitCustomEvent(t *testing.T) {
	s := New(map[string]any{"a": 1})
	var got Change
	s.On("selected", func(c Change) { got = c })

	s.Emit("selected", Change{Key: "selected", Value: 7})

	if got.Value != 7 {
		t.Errorf("Value = %v, want 7", got.Value)
	}
	if diff := cmp.Diff(map[string]any{"a": 1}, s.Snapshot()); diff != "" {
		t.Errorf("Emit must not change state (-want +got):\n%s", diff)
	}
}

type box struct{ V any }

func TestSetStructHoldingUncomparableValue(t *testing.T) {
	s := New(map[string]any{"k": box{V: []int{1}}})
	changed := 0
	s.On("change:k", func(Change) { changed++ })

	s.Set(map[string]any{"k": box{V: []int{2}}})
	s.Set(map[string]any{"k": box{V: 3}})
	s.Set(map[string]any{"k": box{V: 3}})

	if changed != 2 {
		t.Errorf("change:k fired %d times, want 2", changed)
	}
	if got, _ := s.Get("k"); got != (box{V: 3}) {
		t.Errorf("Get(k) = %v", got)
	}
}
