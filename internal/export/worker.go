package export

import (
	"context"
	"sync"

	"github.com/jeovahfialho/stock-dashboard/internal/domain"
)

type WorkerPool struct {
	workers  int
	process  func(ctx context.Context, date domain.Date) Result
	jobQueue chan Job
	wg       sync.WaitGroup
}

type Job struct {
	Date   domain.Date
	Result chan<- Result
}

type Result struct {
	Date  domain.Date
	Path  string
	Count int
	Error error
}

func NewWorkerPool(workers int, process func(ctx context.Context, date domain.Date) Result) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	return &WorkerPool{
		workers:  workers,
		process:  process,
		jobQueue: make(chan Job, workers*2),
	}
}

func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx)
	}
}

func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
}

// Submit devolve false se o contexto foi cancelado antes do job entrar na fila.
func (wp *WorkerPool) Submit(ctx context.Context, job Job) bool {
	if ctx.Err() != nil {
		return false
	}

	select {
	case <-ctx.Done():
		return false
	case wp.jobQueue <- job:
		return true
	}
}

func (wp *WorkerPool) worker(ctx context.Context) {
	defer wp.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}

			if err := context.Cause(ctx); err != nil {
				job.Result <- Result{Date: job.Date, Error: err}
				continue
			}

			job.Result <- wp.process(ctx, job.Date)
		}
	}
}
