package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMailbox_FIFO(t *testing.T) {
	m := newMailbox[int]()
	for i := 0; i < 100; i++ {
		if !m.put(i) {
			t.Fatalf("put(%d) failed", i)
		}
	}
	if m.len() != 100 {
		t.Fatalf("len() = %d, want 100", m.len())
	}
	for i := 0; i < 100; i++ {
		got, err := m.take(context.Background(), nil)
		if err != nil {
			t.Fatalf("take failed: %v", err)
		}
		if got != i {
			t.Fatalf("take = %d, want %d", got, i)
		}
	}
}

func TestMailbox_TakeWaitsForPut(t *testing.T) {
	m := newMailbox[string]()
	got := make(chan string, 1)
	go func() {
		v, err := m.take(context.Background(), nil)
		if err != nil {
			t.Errorf("take failed: %v", err)
		}
		got <- v
	}()

	time.Sleep(10 * time.Millisecond)
	m.put("hello")

	select {
	case v := <-got:
		if v != "hello" {
			t.Errorf("got %q, want hello", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("take did not wake up")
	}
}

func TestMailbox_TakeCancelled(t *testing.T) {
	m := newMailbox[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.take(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestMailbox_Merge(t *testing.T) {
	m := newMailbox[int]()
	for _, v := range []int{1, 2, 3, -1, 4, 5} {
		m.put(v)
	}
	bothPositive := func(cur, next int) bool { return cur > 0 && next > 0 }

	want := []int{3, -1, 5}
	for _, w := range want {
		got, err := m.take(context.Background(), bothPositive)
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Errorf("take = %d, want %d", got, w)
		}
	}
}

func TestMailbox_Close(t *testing.T) {
	m := newMailbox[int]()
	m.put(7)
	m.close()

	if m.put(8) {
		t.Error("put after close should fail")
	}
	if v, err := m.take(context.Background(), nil); err != nil || v != 7 {
		t.Errorf("queued item after close: got %d, %v", v, err)
	}
	if _, err := m.take(context.Background(), nil); !errors.Is(err, errMailboxClosed) {
		t.Errorf("got %v, want errMailboxClosed", err)
	}
}
