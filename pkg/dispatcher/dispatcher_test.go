package dispatcher

import (
	"testing"
	"time"

	"github.com/shaban/rackless/internal/logx"
	"github.com/shaban/rackless/pkg/transport"
)

type recordingReconciler struct {
	events chan transport.Event
}

func (r *recordingReconciler) Reconcile(ev transport.Event) {
	r.events <- ev
}

func newTestDispatcher() (*Dispatcher, *recordingReconciler, chan transport.Event) {
	log := logx.New(logx.LevelDebug, 0)
	d := New(log)
	rec := &recordingReconciler{events: make(chan transport.Event, 16)}
	d.SetReconciler(rec)
	events := make(chan transport.Event, 16)
	go d.Run(events)
	return d, rec, events
}

func TestSuppressionAbsorbsMatchingEvent(t *testing.T) {
	d, rec, events := newTestDispatcher()
	defer d.Stop()

	d.Submit(func() {
		scope := d.BeginSuppression([]Predicate{{Kind: transport.EventConnect, Src: "a", Dst: "b"}}, time.Second)
		events <- transport.Event{Kind: transport.EventConnect, Src: "a", Dst: "b"}
		d.EndSuppressionAfter(scope, 20*time.Millisecond)
	})

	select {
	case ev := <-rec.events:
		t.Fatalf("suppressed event reached Reconcile: %+v", ev)
	case <-time.After(100 * time.Millisecond):
		// expected: nothing reached the reconciler
	}
}

func TestUnmatchedEventReachesReconciler(t *testing.T) {
	d, rec, events := newTestDispatcher()
	defer d.Stop()

	events <- transport.Event{Kind: transport.EventConnect, Src: "x", Dst: "y"}

	select {
	case ev := <-rec.events:
		if ev.Src != "x" || ev.Dst != "y" {
			t.Fatalf("Reconcile got %+v, want src=x dst=y", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("event never reached Reconcile")
	}
}

func TestSuppressionDoesNotAbsorbNonMatchingEvent(t *testing.T) {
	d, rec, events := newTestDispatcher()
	defer d.Stop()

	d.Submit(func() {
		scope := d.BeginSuppression([]Predicate{{Kind: transport.EventConnect, Src: "a", Dst: "b"}}, time.Second)
		d.EndSuppressionAfter(scope, 20*time.Millisecond)
	})

	events <- transport.Event{Kind: transport.EventConnect, Src: "other", Dst: "thing"}

	select {
	case ev := <-rec.events:
		if ev.Src != "other" {
			t.Fatalf("Reconcile got %+v, want src=other", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("non-matching event never reached Reconcile")
	}
}

func TestSubmitRunsOnWorkerGoroutineSequentially(t *testing.T) {
	d, _, events := newTestDispatcher()
	defer d.Stop()

	var order []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		if i == 4 {
			d.Submit(func() {
				order = append(order, i)
				close(done)
			})
			continue
		}
		d.Submit(func() { order = append(order, i) })
	}
	<-done
	_ = events

	for i, v := range order {
		if v != i {
			t.Fatalf("intents ran out of submission order: %v", order)
		}
	}
}
