package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestForwardEventsStopsWhenDone(t *testing.T) {
	poll := func() tcell.Event {
		return tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	}
	events := make(chan tcell.Event, 1)
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		forwardEvents(poll, events, done)
		close(finished)
	}()

	// The buffer fills and nobody reads; closing done must release the sender
	<-events
	close(done)

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("forwardEvents still blocked after done was closed")
	}
}

func TestForwardEventsStopsOnNilEvent(t *testing.T) {
	sent := []tcell.Event{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), nil}
	poll := func() tcell.Event {
		ev := sent[0]
		sent = sent[1:]
		return ev
	}
	events := make(chan tcell.Event, 4)

	forwardEvents(poll, events, make(chan struct{}))

	if len(events) != 1 {
		t.Errorf("forwarded %d events, want 1", len(events))
	}
}
