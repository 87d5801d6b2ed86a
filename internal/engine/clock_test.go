package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_Start(t *testing.T) {
	assert.Equal(t, int64(0), NewClock().Current(), "new clock starts at 0")
	assert.Equal(t, int64(41), NewClockAt(41).Current())
}

func TestClock_Next(t *testing.T) {
	c := NewClockAt(10)

	assert.Equal(t, int64(11), c.Next())
	assert.Equal(t, int64(12), c.Next())
	assert.Equal(t, int64(12), c.Current(), "Current does not advance")
	assert.Equal(t, int64(12), c.Current())
}

func TestClock_ConcurrentNextIsUnique(t *testing.T) {
	c := NewClock()
	const workers, perWorker = 32, 200

	var mu sync.Mutex
	seen := make(map[int64]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perWorker)
			for range perWorker {
				local = append(local, c.Next())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, seq := range local {
				seen[seq] = struct{}{}
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, int64(workers*perWorker), c.Current())
}

func TestClock_StampsCascadeSnapshots(t *testing.T) {
	st := &stepper[string, string, string]{
		update: func(msg, state string) (string, Set[string]) {
			if len(state) < 2 {
				return state + msg, NewSet("more")
			}
			return state + msg, Set[string]{}
		},
		resolve:  func(ctx context.Context, cmd string) (Set[string], error) { return NewSet("x"), nil },
		clock:    NewClockAt(5),
		maxDepth: DefaultMaxCascadeDepth,
	}

	var seqs []int64
	for snap, err := range st.cascade(context.Background(), "", "x") {
		assert.NoError(t, err)
		seqs = append(seqs, snap.Seq)
	}
	assert.Equal(t, []int64{6, 7, 8}, seqs)
}
