package worker

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Func processes one input.
type Func[T any] func(input string) (T, error)

// Pool runs jobs on a fixed set of worker goroutines. Safe for concurrent
// submission; close exactly once.
type Pool[T any] struct {
	workers    int
	fn         Func[T]
	jobsChan   chan Job
	resultChan chan JobResult[T]
	wg         sync.WaitGroup
	closed     atomic.Bool

	jobsSubmitted atomic.Uint64
	jobsCompleted atomic.Uint64
	totalDuration atomic.Uint64
}

// NewPool starts a pool of workers running fn. workers <= 0 means one per
// CPU.
func NewPool[T any](fn Func[T], workers int) *Pool[T] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool[T]{
		workers:    workers,
		fn:         fn,
		jobsChan:   make(chan Job, workers*2),
		resultChan: make(chan JobResult[T], workers*2),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Submit queues a job, blocking while the queue is full. Returns false once
// the pool is closed.
func (p *Pool[T]) Submit(job Job) bool {
	if p.closed.Load() {
		return false
	}
	p.jobsChan <- job
	p.jobsSubmitted.Add(1)
	return true
}

// Results is the stream of completed jobs, in completion order.
func (p *Pool[T]) Results() <-chan JobResult[T] {
	return p.resultChan
}

// CloseAndWait stops accepting work, waits for in-flight jobs, and returns
// everything not yet read from Results.
func (p *Pool[T]) CloseAndWait() BatchResult[T] {
	if p.closed.Swap(true) {
		return BatchResult[T]{}
	}
	close(p.jobsChan)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(p.resultChan)
		close(done)
	}()

	var results []JobResult[T]
	for r := range p.resultChan {
		results = append(results, r)
	}
	<-done

	return BatchResult[T]{
		Results:       results,
		TotalJobs:     int(p.jobsSubmitted.Load()),
		CompletedJobs: int(p.jobsCompleted.Load()),
		TotalDuration: time.Duration(p.totalDuration.Load()),
	}
}

// Stats reports pool counters.
type Stats struct {
	Workers       int
	JobsSubmitted uint64
	JobsCompleted uint64
	AvgDuration   time.Duration
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[T]) Stats() Stats {
	s := Stats{
		Workers:       p.workers,
		JobsSubmitted: p.jobsSubmitted.Load(),
		JobsCompleted: p.jobsCompleted.Load(),
	}
	if s.JobsCompleted > 0 {
		s.AvgDuration = time.Duration(p.totalDuration.Load() / s.JobsCompleted)
	}
	return s
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobsChan {
		start := time.Now()
		v, err := p.fn(job.Input)
		d := time.Since(start)

		p.jobsCompleted.Add(1)
		p.totalDuration.Add(uint64(d))
		p.resultChan <- JobResult[T]{
			ID:       job.ID,
			Input:    job.Input,
			Value:    v,
			Err:      err,
			Duration: d,
		}
	}
}

// Map processes inputs concurrently and returns results in input order.
func Map[T any](inputs []string, workers int, fn Func[T]) []JobResult[T] {
	out := make([]JobResult[T], len(inputs))
	if len(inputs) == 0 {
		return out
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	p := NewPool(fn, workers)
	go func() {
		for i, in := range inputs {
			p.Submit(Job{ID: i, Input: in})
		}
	}()

	for n := 0; n < len(inputs); n++ {
		r := <-p.Results()
		out[r.ID] = r
	}
	p.CloseAndWait()
	return out
}
