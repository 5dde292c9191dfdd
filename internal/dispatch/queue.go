// Package dispatch даёт единый последовательный контекст: все изменения
// состояния презентеров и отрисовка выполняются в одной горутине.
package dispatch

import "sync"

// Queue выполняет задачи по одной в порядке постановки.
// Задача, принятая Post, выполняется даже если очередь закрывают сразу после
type Queue struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

// NewQueue запускает горутину очереди
func NewQueue(buffer int) *Queue {
	q := &Queue{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for task := range q.tasks {
		task()
	}
}

// Post ставит задачу в очередь. Возвращает false, если очередь закрыта
func (q *Queue) Post(task func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.pending.Add(1)
	q.mu.Unlock()

	defer q.pending.Done()
	q.tasks <- task
	return true
}

// Close перестаёт принимать задачи, выполняет уже принятые и ждёт их.
// Нельзя вызывать из задачи этой же очереди
func (q *Queue) Close() {
	q.once.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()

		q.pending.Wait()
		close(q.tasks)
	})
	<-q.done
}
