package view

import (
	"sync"
	"testing"
	"time"
)

func TestDebounce_TrailingCallWithLastArgument(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)
	done := make(chan struct{}, 1)
	d := Debounce(30*time.Millisecond, func(q string) {
		mu.Lock()
		calls = append(calls, q)
		mu.Unlock()
		done <- struct{}{}
	})

	d.Call("r")
	d.Call("ro")
	d.Call("roo")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("debounced function never ran")
	}
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 || calls[0] != "roo" {
		t.Fatalf("expected one call with %q, got %v", "roo", calls)
	}
}

func TestDebounce_Stop(t *testing.T) {
	ran := make(chan struct{}, 1)
	d := Debounce(20*time.Millisecond, func(int) { ran <- struct{}{} })

	if d.Stop() {
		t.Fatalf("Stop reported a pending call on a fresh debouncer")
	}
	d.Call(1)
	if !d.Stop() {
		t.Fatalf("Stop did not report the pending call")
	}

	select {
	case <-ran:
		t.Fatalf("stopped call still ran")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestDebounce_SeparateQuietPeriods(t *testing.T) {
	ran := make(chan int, 2)
	d := Debounce(10*time.Millisecond, func(n int) { ran <- n })

	d.Call(1)
	if got := <-ran; got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	d.Call(2)
	if got := <-ran; got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}
