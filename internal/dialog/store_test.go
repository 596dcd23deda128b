package dialog

import (
	"sync"
	"testing"
)

func TestStoreGetSetClear(t *testing.T) {
	s := NewStore()

	if _, ok := s.Get(1); ok {
		t.Fatal("fresh store must report idle")
	}

	s.Set(1, State{Step: StepSelectingParticipants, EventID: 42})
	st, ok := s.Get(1)
	if !ok || st.EventID != 42 {
		t.Fatalf("expected stored state for user 1, got (%+v, %v)", st, ok)
	}
	if _, ok := s.Get(2); ok {
		t.Fatal("state must be per user")
	}

	s.Clear(1)
	if _, ok := s.Get(1); ok {
		t.Fatal("cleared state must be gone")
	}
	// clearing an idle user is a no-op
	s.Clear(1)
}

func TestStoreLockSerializesSameUser(t *testing.T) {
	s := NewStore()
	const iterations = 200

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				unlock := s.Lock(1)
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()

	if counter != 4*iterations {
		t.Fatalf("lost updates under the per-user lock: got %d, want %d", counter, 4*iterations)
	}
}

func TestStoreLockIndependentUsers(t *testing.T) {
	s := NewStore()

	unlock1 := s.Lock(1)
	defer unlock1()

	done := make(chan struct{})
	go func() {
		unlock2 := s.Lock(2)
		unlock2()
		close(done)
	}()

	// Must not block: user 2 never waits on user 1's lock.
	<-done
}
