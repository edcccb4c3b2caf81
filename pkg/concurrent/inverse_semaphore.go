package concurrent

import (
	"sync"
)

// InverseSemaphore counts outstanding tasks of a dynamically growing task tree. The submitting
// goroutine blocks in AwaitCompletion until every transitively spawned task has finished.
//
// BeforeSubmit must be called by the parent before a child task is handed to a scheduler (or run
// inline) and TaskCompleted exactly once by every task, including the root, when it finishes.
type InverseSemaphore struct {
	mu    sync.Mutex
	cond  *sync.Cond
	value int
}

func NewInverseSemaphore() *InverseSemaphore {
	s := &InverseSemaphore{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *InverseSemaphore) BeforeSubmit() {
	s.mu.Lock()
	s.value++
	s.mu.Unlock()
}

// TaskCompleted panics if it is not matched by a BeforeSubmit, that is a bug in the caller
// and would otherwise let AwaitCompletion return early.
func (s *InverseSemaphore) TaskCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value <= 0 {
		panic("concurrent: TaskCompleted called without matching BeforeSubmit")
	}
	s.value--
	if s.value == 0 {
		s.cond.Broadcast()
	}
}

func (s *InverseSemaphore) AwaitCompletion() {
	s.mu.Lock()
	for s.value > 0 {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

func (s *InverseSemaphore) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}
