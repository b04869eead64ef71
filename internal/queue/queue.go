package queue

import (
	"log"
	"sync"
)

type Job struct {
	Fn   func() error
	Errc chan error
}

// Manager is a fixed-size worker pool fed by a buffered channel. It serves
// both the HTTP request path and the outbox publisher.
type Manager struct {
	JobQueue   chan Job
	MaxWorkers int
	wg         sync.WaitGroup
}

func NewManager(queueSize int, maxWorkers int) *Manager {
	manager := &Manager{
		JobQueue:   make(chan Job, queueSize),
		MaxWorkers: maxWorkers,
	}
	manager.startWorkers()
	return manager
}

func (m *Manager) startWorkers() {
	for i := 0; i < m.MaxWorkers; i++ {
		m.wg.Add(1)
		go func(workerID int) {
			defer m.wg.Done()
			for job := range m.JobQueue {
				err := job.Fn()
				if job.Errc != nil {
					job.Errc <- err
				} else if err != nil {
					log.Printf("queue worker %d: job failed: %v", workerID, err)
				}
			}
		}(i)
	}
}

func (m *Manager) EnqueueJob(job Job) {
	m.JobQueue <- job
}

// TryEnqueueJob is the non-blocking variant for fire-and-forget work. It
// refuses the job when the queue is full instead of stalling the caller.
func (m *Manager) TryEnqueueJob(job Job) bool {
	select {
	case m.JobQueue <- job:
		return true
	default:
		return false
	}
}

func (m *Manager) Shutdown() {
	close(m.JobQueue)
	m.wg.Wait()
}
