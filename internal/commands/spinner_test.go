package commands

import (
	"testing"
	"time"
)

func TestNewSpinner(t *testing.T) {
	s := newSpinner("Loading")

	if s.message != "Loading" {
		t.Errorf("message = %q, want %q", s.message, "Loading")
	}
	if s.stop == nil || s.done == nil {
		t.Error("channels should be initialized")
	}
	if s.stopped {
		t.Error("new spinner should not be stopped")
	}
}

func TestSpinnerStopOnce(t *testing.T) {
	s := newSpinner("test")

	// Calling stopOnce repeatedly must not panic on a closed channel
	s.stopOnce()
	s.stopOnce()
	s.stopOnce()

	if !s.stopped {
		t.Error("spinner should be marked stopped")
	}
}

func TestSpinnerLifecycle(t *testing.T) {
	s := newSpinner("working")
	s.start()

	// Let a few frames render
	time.Sleep(200 * time.Millisecond)

	s.stopOnce()

	select {
	case <-s.done:
		// Animation goroutine exited
	case <-time.After(time.Second):
		t.Fatal("spinner goroutine did not stop")
	}
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinner("failing")
	s.start()
	s.stopWithError()

	select {
	case <-s.done:
	default:
		t.Error("stopWithError should wait for the goroutine to finish")
	}
}
