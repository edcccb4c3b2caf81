package concurrent

import (
	"sync"
)

type JobFunc[T any] func(job T)

// WorkerPool runs jobs on a fixed number of goroutines. Jobs may submit further jobs to the
// same pool: AddJob never blocks, a job that does not fit into the queue is handed over by
// a separate goroutine.
type WorkerPool[T any] struct {
	numWorkers int
	jobQueue   chan T
	wg         sync.WaitGroup
	pending    sync.WaitGroup // overflow hand-overs still in flight
}

func NewWorkerPool[T any](numWorkers, jobQueueSize int) *WorkerPool[T] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
	}
}

func (wp *WorkerPool[T]) worker(jobFunc JobFunc[T]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		jobFunc(job)
	}
}

func (wp *WorkerPool[T]) Start(jobFunc JobFunc[T]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

func (wp *WorkerPool[T]) AddJob(job T) {
	select {
	case wp.jobQueue <- job:
	default:
		wp.pending.Add(1)
		go func() {
			defer wp.pending.Done()
			wp.jobQueue <- job
		}()
	}
}

func (wp *WorkerPool[T]) NumWorkers() int {
	return wp.numWorkers
}

// Close stops accepting jobs. Workers finish the queued jobs and exit.
func (wp *WorkerPool[T]) Close() {
	wp.pending.Wait()
	close(wp.jobQueue)
}

func (wp *WorkerPool[T]) Wait() {
	wp.wg.Wait()
}
