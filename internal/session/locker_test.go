package session_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/UnknownOlympus/haven/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestLocker_SerializesPerConversation(t *testing.T) {
	locker := session.NewLocker()

	var (
		wg       sync.WaitGroup
		inFlight atomic.Int32
		overlap  atomic.Bool
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock("conv-1")
			defer unlock()

			if inFlight.Add(1) > 1 {
				overlap.Store(true)
			}
			inFlight.Add(-1)
		}()
	}
	wg.Wait()

	assert.False(t, overlap.Load())
	assert.Zero(t, locker.Len(), "idle conversations release their lock")
}

func TestLocker_IndependentConversations(t *testing.T) {
	locker := session.NewLocker()

	unlockA := locker.Lock("a")
	unlockB := locker.Lock("b")

	assert.Equal(t, 2, locker.Len())

	unlockA()
	unlockB()

	assert.Zero(t, locker.Len())
}
