package concurrent

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type treeTask struct {
	depth int
	seed  uint64
}

func TestInverseSemaphoreAwaitsNestedTasks(t *testing.T) {
	const maxDepth = 6
	for _, seed := range []uint64{1, 7, 42, 1337} {
		var (
			sem       = NewInverseSemaphore()
			pool      = NewWorkerPool[treeTask](4, 2)
			spawned   atomic.Int64
			completed atomic.Int64
		)

		var run func(task treeTask)
		run = func(task treeTask) {
			defer sem.TaskCompleted()
			rnd := rand.New(rand.NewSource(task.seed))
			time.Sleep(time.Duration(rnd.Intn(200)) * time.Microsecond)

			if task.depth < maxDepth {
				for i := uint64(0); i < 2; i++ {
					child := treeTask{depth: task.depth + 1, seed: task.seed*31 + i + 1}
					sem.BeforeSubmit()
					spawned.Add(1)
					if rnd.Intn(2) == 0 {
						pool.AddJob(child)
					} else {
						run(child)
					}
				}
			}
			completed.Add(1)
		}

		pool.Start(run)
		sem.BeforeSubmit()
		spawned.Add(1)
		pool.AddJob(treeTask{seed: seed})

		sem.AwaitCompletion()
		assert.Equal(t, int64(1<<(maxDepth+1)-1), spawned.Load())
		assert.Equal(t, spawned.Load(), completed.Load(), "seed %d", seed)
		assert.Equal(t, 0, sem.Outstanding())

		pool.Close()
		pool.Wait()
	}
}

func TestInverseSemaphoreBlocksUntilZero(t *testing.T) {
	sem := NewInverseSemaphore()
	sem.BeforeSubmit()
	sem.BeforeSubmit()

	done := make(chan struct{})
	go func() {
		sem.AwaitCompletion()
		close(done)
	}()

	sem.TaskCompleted()
	select {
	case <-done:
		t.Fatal("AwaitCompletion returned with an outstanding task")
	case <-time.After(20 * time.Millisecond):
	}

	sem.TaskCompleted()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("AwaitCompletion did not return")
	}
}

func TestInverseSemaphoreAwaitWithoutTasks(t *testing.T) {
	sem := NewInverseSemaphore()
	sem.AwaitCompletion()
	require.Equal(t, 0, sem.Outstanding())
}

func TestInverseSemaphoreUnmatchedCompletionPanics(t *testing.T) {
	sem := NewInverseSemaphore()
	require.Panics(t, sem.TaskCompleted)

	sem.BeforeSubmit()
	sem.TaskCompleted()
	require.Panics(t, sem.TaskCompleted)
}
