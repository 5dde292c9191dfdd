package dispatch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_RunsInOrder(t *testing.T) {
	q := NewQueue(16)
	defer q.Close()

	var (
		mu  sync.Mutex
		got []int
	)
	done := make(chan struct{})

	for i := 0; i < 10; i++ {
		i := i
		require.True(t, q.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			if i == 9 {
				close(done)
			}
		}))
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("queue did not drain")
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestQueue_SingleGoroutine(t *testing.T) {
	q := NewQueue(0)
	defer q.Close()

	var (
		running int
		maxSeen int
		wg      sync.WaitGroup
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			q.Post(func() {
				defer wg.Done()
				running++
				if running > maxSeen {
					maxSeen = running
				}
				running--
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestQueue_PostAfterClose(t *testing.T) {
	q := NewQueue(1)
	q.Close()
	q.Close()

	assert.False(t, q.Post(func() {}))
}

func TestQueue_CloseRunsAcceptedTasks(t *testing.T) {
	q := NewQueue(64)

	var (
		mu       sync.Mutex
		accepted int
		ran      int
		wg       sync.WaitGroup
	)
	release := make(chan struct{})
	require.True(t, q.Post(func() { <-release }))

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok := q.Post(func() {
				mu.Lock()
				ran++
				mu.Unlock()
			})
			if ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}

	closed := make(chan struct{})
	go func() {
		q.Close()
		close(closed)
	}()
	close(release)

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("close did not return")
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, accepted, ran, "every accepted task runs before Close returns")
	assert.False(t, q.Post(func() { t.Error("task after close must not run") }))
}
