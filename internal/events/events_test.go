package events_test

import (
	"encoding/json"
	"testing"

	"jobfinder-engine/internal/events"
)

func TestMakeEvent(t *testing.T) {
	raw := events.MakeEvent("req-1", events.TypeSearchFinished, 1, map[string]any{"state": "succeeded"})

	var e events.Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatal(err)
	}
	if e.Type != events.TypeSearchFinished || e.Version != 1 || e.RequestID != "req-1" {
		t.Errorf("event = %+v", e)
	}
	if string(e.Data) != `{"state":"succeeded"}` {
		t.Errorf("data = %s", e.Data)
	}
	if e.At.IsZero() {
		t.Error("at not set")
	}
}

func TestHub_FanOutAndUnsubscribe(t *testing.T) {
	h := events.NewHub()
	a, b := h.Subscribe(), h.Subscribe()
	if h.Clients() != 2 {
		t.Fatalf("clients = %d", h.Clients())
	}

	h.Emit("", events.TypeCVFinished, nil)
	for _, ch := range []chan string{a, b} {
		var e events.Event
		if err := json.Unmarshal([]byte(<-ch), &e); err != nil || e.Type != events.TypeCVFinished {
			t.Errorf("got %+v, %v", e, err)
		}
	}

	h.Unsubscribe(a)
	h.Unsubscribe(a)
	if _, ok := <-a; ok {
		t.Error("channel still open")
	}
	h.Publish("x")
	if got := <-b; got != "x" {
		t.Errorf("got %q", got)
	}
	h.Unsubscribe(b)
}

func TestHub_DropsWhenSlow(t *testing.T) {
	h := events.NewHub()
	ch := h.Subscribe()
	for i := 0; i < 100; i++ {
		h.Publish("e")
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffered = %d, cap = %d", len(ch), cap(ch))
	}
	h.Unsubscribe(ch)
}
