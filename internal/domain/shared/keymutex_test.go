package shared_test

import (
	"sync"
	"testing"

	"github.com/printshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := shared.NewKeyedMutex()

	const workers = 50
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			km.Lock("agent-1")
			defer km.Unlock("agent-1")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := shared.NewKeyedMutex()

	km.Lock("a")
	done := make(chan struct{})
	go func() {
		km.Lock("b")
		km.Unlock("b")
		close(done)
	}()

	// Locking "b" must not block on the holder of "a".
	<-done
	km.Unlock("a")
}

func TestKeyedMutex_ReleasedKeyCanBeReacquired(t *testing.T) {
	km := shared.NewKeyedMutex()

	km.Lock("x")
	km.Unlock("x")
	km.Lock("x")
	km.Unlock("x")

	assert.True(t, true)
}
