package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlateLocks(t *testing.T) {
	t.Run("Mutual exclusion per plate", func(t *testing.T) {
		locks := newPlateLocks()
		counter := 0
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := locks.lock("ABCD12")
				counter++
				unlock()
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, counter)
		assert.Zero(t, locks.len())
	})

	t.Run("Entries dropped after unlock", func(t *testing.T) {
		locks := newPlateLocks()
		unlockA := locks.lock("ABCD12")
		unlockB := locks.lock("EFGH34")
		assert.Equal(t, 2, locks.len())

		unlockA()
		assert.Equal(t, 1, locks.len())
		unlockB()
		assert.Zero(t, locks.len())
	})
}
