package dialog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreLifecycle(t *testing.T) {
	s := NewStore()

	state, dctx := s.Get(1)
	assert.Equal(t, StateIdle, state)
	assert.Nil(t, dctx)
	assert.False(t, s.InProgress(1))

	s.Set(1, StateAwaitTitle, &Context{Title: "x"})
	assert.True(t, s.InProgress(1))
	state, dctx = s.Get(1)
	assert.Equal(t, StateAwaitTitle, state)
	assert.Equal(t, "x", dctx.Title)

	s.Clear(1)
	state, dctx = s.Get(1)
	assert.Equal(t, StateIdle, state)
	assert.Nil(t, dctx)

	// Clearing an idle user stays a no-op.
	s.Clear(1)
	assert.False(t, s.InProgress(1))
}

func TestStoreAcquireSerialisesPerUser(t *testing.T) {
	s := NewStore()
	const turns = 200

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < turns; j++ {
				release := s.Acquire(7)
				state, _ := s.Get(7)
				if state == StateIdle {
					s.Set(7, StateAwaitTitle, &Context{})
				} else {
					s.Clear(7)
				}
				release()
			}
		}()
	}
	wg.Wait()

	// An even number of toggles lands back on idle.
	assert.False(t, s.InProgress(7))
}

// State reads must be safe from goroutines that do not own the turn: the
// message router checks InProgress while another update of the same user may
// still be mid-transition. Run with -race.
func TestStoreInProgressSafeDuringTurns(t *testing.T) {
	s := NewStore()
	const turns = 200

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < turns; i++ {
			release := s.Acquire(7)
			s.Set(7, StateAwaitTitle, &Context{})
			s.Set(7, StateAwaitDescription, &Context{Title: "x"})
			s.Clear(7)
			release()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < turns*10; i++ {
			s.InProgress(7)
			s.Get(7)
		}
	}()
	wg.Wait()

	assert.False(t, s.InProgress(7))
}

func TestStoreDistinctUsers(t *testing.T) {
	s := NewStore()
	s.Set(1, StateAwaitTitle, &Context{})
	s.Set(2, StateAwaitCategoryName, &Context{})

	s.Clear(1)
	assert.False(t, s.InProgress(1))
	assert.True(t, s.InProgress(2))
}
