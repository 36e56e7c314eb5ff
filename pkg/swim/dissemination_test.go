package swim

import (
	"testing"
)

func TestEventQueue(t *testing.T) {
	q := newEventQueue(4)

	for i := 0; i < 4; i++ {
		q.push(Member{Addr: "10.0.0.2:51000", Incarnation: Incarnation(i)})
	}
	if q.length() != 4 {
		t.Fatalf("expected 4 queued events, got %d", q.length())
	}

	// Overflow evicts the oldest entry without blocking the producer.
	q.push(Member{Addr: "10.0.0.2:51000", Incarnation: 4})
	if q.length() != 4 {
		t.Fatalf("expected the queue to stay bounded at 4, got %d", q.length())
	}

	fetched := q.fetch(2)
	if len(fetched) != 2 {
		t.Fatalf("expected to fetch 2 events, got %d", len(fetched))
	}
	if fetched[0].Incarnation != 1 || fetched[1].Incarnation != 2 {
		t.Errorf("expected the oldest surviving events first, got %+v", fetched)
	}

	if rest := q.fetch(10); len(rest) != 2 {
		t.Errorf("expected 2 remaining events, got %d", len(rest))
	}
	if q.length() != 0 {
		t.Errorf("expected an empty queue after draining, got %d", q.length())
	}
	if again := q.fetch(1); again != nil {
		t.Errorf("expected nil from an empty queue, got %+v", again)
	}
}
