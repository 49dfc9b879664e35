package landmark

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserLocks_SerialisesSameUser(t *testing.T) {
	locks := newUserLocks()

	unlock := locks.Lock("U1")

	acquired := make(chan struct{})
	go func() {
		release := locks.Lock("U1")
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first was held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestUserLocks_IndependentUsers(t *testing.T) {
	locks := newUserLocks()

	unlock := locks.Lock("U1")
	defer unlock()

	done := make(chan struct{})
	go func() {
		locks.Lock("U2")()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for another user blocked")
	}
}

func TestUserLocks_ReleasesEntries(t *testing.T) {
	locks := newUserLocks()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("U1")()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, locks.len())
}
