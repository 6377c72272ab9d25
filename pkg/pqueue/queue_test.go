package pqueue

import "testing"

func TestTopKDesc(t *testing.T) {
	q := New(WithOrderDesc(), WithCap(2))
	for _, v := range []float64{1, 5, 3, 4, 2} {
		q.Push(v)
	}
	if got := q.Seek(0, 0); got != 5 {
		t.Errorf("seek 0: got %v, expected 5", got)
	}
	if got := q.Seek(1, 0); got != 4 {
		t.Errorf("seek 1: got %v, expected 4", got)
	}
	if got := q.Seek(2, -1); got != -1 {
		t.Errorf("seek beyond kept items must yield the fallback, got %v", got)
	}
}

func TestOrderAsc(t *testing.T) {
	q := New(WithOrderAsc())
	for _, v := range []float64{3, 1, 2} {
		q.Push(v)
	}
	pulled := q.PopAll()
	expected := []float64{1, 2, 3}
	for i := range expected {
		if pulled[i] != expected[i] {
			t.Fatalf("got %v, expected %v", pulled, expected)
		}
	}
	if q.Len() != 0 {
		t.Errorf("pop all must drain the queue, %d left", q.Len())
	}
}

func TestReset(t *testing.T) {
	q := New(WithOrderDesc(), WithCap(3))
	q.Push(1)
	q.Push(2)
	q.Reset()
	if q.Len() != 0 {
		t.Errorf("reset must empty the queue, %d left", q.Len())
	}
	q.Push(7)
	if got := q.Seek(0, 0); got != 7 {
		t.Errorf("queue must be reusable after reset, got %v", got)
	}
}

func TestUnbounded(t *testing.T) {
	q := New(WithOrderDesc())
	for i := 0; i < 10; i++ {
		q.Push(float64(i))
	}
	if q.Len() != 10 {
		t.Errorf("unbounded queue must keep every item, got %d", q.Len())
	}
	if got := q.Seek(9, -1); got != 0 {
		t.Errorf("got %v, expected 0", got)
	}
}
