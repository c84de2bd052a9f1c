package player

import (
	"errors"
	"fmt"
	"testing"
)

func TestRequestRuntimeLoadsOnceAndNotifiesInOrder(t *testing.T) {
	loader := &fakeLoader{}
	boot := NewBootstrap(loader)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		boot.RequestRuntime(func(err error) {
			if err != nil {
				t.Errorf("callback %d got error %v", i, err)
			}
			order = append(order, i)
		})
	}

	if got := loader.loadCalls(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
	if boot.State() != BootstrapRequesting {
		t.Fatalf("state = %v before completion, want requesting", boot.State())
	}
	if got := boot.Pending(); got != 5 {
		t.Fatalf("Pending() = %d, want 5", got)
	}

	loader.complete(nil)

	if boot.State() != BootstrapReady {
		t.Fatalf("state = %v after completion, want ready", boot.State())
	}
	if len(order) != 5 {
		t.Fatalf("notified %d callbacks, want 5", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("notification order = %v, want registration order", order)
		}
	}
	if got := boot.Pending(); got != 0 {
		t.Fatalf("Pending() = %d after drain, want 0", got)
	}
}

func TestRequestRuntimeAfterReadyFiresImmediately(t *testing.T) {
	loader := &fakeLoader{}
	boot := NewBootstrap(loader)

	boot.RequestRuntime(func(err error) {})
	loader.complete(nil)

	fired := false
	boot.RequestRuntime(func(err error) {
		if err != nil {
			t.Errorf("late registrant got error %v", err)
		}
		fired = true
	})

	if !fired {
		t.Fatal("late registrant did not fire synchronously")
	}
	if got := loader.loadCalls(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestLoadFailureNotifiesAllPendingAndAllowsRetry(t *testing.T) {
	loader := &fakeLoader{}
	boot := NewBootstrap(loader)

	var errs []error
	for i := 0; i < 3; i++ {
		boot.RequestRuntime(func(err error) {
			errs = append(errs, err)
		})
	}

	loader.complete(fmt.Errorf("script blocked"))

	if len(errs) != 3 {
		t.Fatalf("notified %d callbacks, want 3", len(errs))
	}
	for _, err := range errs {
		var lerr *RuntimeLoadError
		if !errors.As(err, &lerr) {
			t.Fatalf("callback error = %v, want *RuntimeLoadError", err)
		}
	}
	// Failure is not terminal: the state stays requesting and the next
	// registration drives a fresh attempt.
	if boot.State() != BootstrapRequesting {
		t.Fatalf("state = %v after failure, want requesting", boot.State())
	}

	var retryErr error
	retried := false
	boot.RequestRuntime(func(err error) {
		retried = true
		retryErr = err
	})
	if got := loader.loadCalls(); got != 2 {
		t.Fatalf("loader called %d times after retry registration, want 2", got)
	}

	loader.complete(nil)
	if !retried || retryErr != nil {
		t.Fatalf("retry registrant: fired=%v err=%v", retried, retryErr)
	}
	if boot.State() != BootstrapReady {
		t.Fatalf("state = %v after successful retry, want ready", boot.State())
	}
}

func TestEachCallbackFiresExactlyOnce(t *testing.T) {
	loader := &fakeLoader{}
	boot := NewBootstrap(loader)

	count := 0
	boot.RequestRuntime(func(err error) { count++ })
	loader.complete(nil)

	// A second registration must not replay notifications to the first.
	boot.RequestRuntime(func(err error) {})

	if count != 1 {
		t.Fatalf("first callback fired %d times, want 1", count)
	}
}
