package pubsub

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	h := NewHub[string]()

	var a, b []string
	h.Subscribe(func(s string) { a = append(a, s) })
	h.Subscribe(func(s string) { b = append(b, s) })

	h.Publish("x")
	h.Publish("y")

	assert.Equal(t, []string{"x", "y"}, a)
	assert.Equal(t, []string{"x", "y"}, b)
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub[int]()

	var got []int
	unsub := h.Subscribe(func(n int) { got = append(got, n) })
	h.Publish(1)
	unsub()
	unsub()
	h.Publish(2)

	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 0, h.Len())
}

func TestHub_ListenerMayUnsubscribeItself(t *testing.T) {
	h := NewHub[int]()

	calls := 0
	var unsub func()
	unsub = h.Subscribe(func(int) {
		calls++
		unsub()
	})

	h.Publish(1)
	h.Publish(2)
	assert.Equal(t, 1, calls)
}

func TestHub_ConcurrentUse(t *testing.T) {
	h := NewHub[int]()

	var mu sync.Mutex
	total := 0
	h.Subscribe(func(n int) {
		mu.Lock()
		total += n
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := h.Subscribe(func(int) {})
			h.Publish(1)
			unsub()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, total)
	assert.Equal(t, 1, h.Len())
}
