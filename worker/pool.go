package worker

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	jsonschema "github.com/remexre/json-schema"
)

// Job is one document to validate.
type Job struct {
	// ID correlates the job with its result.
	ID string

	// Value is the parsed JSON value to validate.
	Value any
}

// JobResult is the outcome of one job.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Err is nil when the document conformed; otherwise the
	// *jsonschema.ValidationError (or decode error) that rejected it.
	Err error
}

// Pool fans validation jobs out over a fixed set of worker goroutines, all
// validating against the same schema handle.
type Pool struct {
	schema  *jsonschema.Schema
	jobs    chan Job
	results chan JobResult
	wg      sync.WaitGroup
	closed  atomic.Bool

	submitted atomic.Uint64
	completed atomic.Uint64
}

// NewPool starts workers validating against schema. If workers <= 0, it
// defaults to runtime.NumCPU().
func NewPool(schema *jsonschema.Schema, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{
		schema:  schema,
		jobs:    make(chan Job, workers*2),
		results: make(chan JobResult, workers*2),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// worker drains the job channel until Close.
func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		err := p.schema.Validate(job.Value)
		p.completed.Add(1)
		p.results <- JobResult{ID: job.ID, Err: err}
	}
}

// Submit queues a job. It reports false once the pool is closed.
func (p *Pool) Submit(job Job) bool {
	if p.closed.Load() {
		return false
	}
	p.jobs <- job
	p.submitted.Add(1)
	return true
}

// Results returns the channel results are delivered on. It is closed after
// Close once every submitted job has completed.
func (p *Pool) Results() <-chan JobResult { return p.results }

// Close stops accepting jobs, waits for in-flight work, and closes the
// results channel.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return
	}
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}

// Stats returns the number of submitted and completed jobs.
func (p *Pool) Stats() (submitted, completed uint64) {
	return p.submitted.Load(), p.completed.Load()
}

// ValidateBatch validates documents against schema in parallel and returns
// one result per document, in input order. It respects ctx between
// documents but does not interrupt an individual validation.
func ValidateBatch(ctx context.Context, schema *jsonschema.Schema, docs []any, workers int) []JobResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if len(docs) < 2 || workers == 1 {
		results := make([]JobResult, len(docs))
		for i, doc := range docs {
			if err := ctx.Err(); err != nil {
				results[i] = JobResult{Err: err}
				continue
			}
			results[i] = JobResult{Err: schema.Validate(doc)}
		}
		return results
	}

	results := make([]JobResult, len(docs))
	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range indexes {
				if err := ctx.Err(); err != nil {
					results[idx] = JobResult{Err: err}
					continue
				}
				results[idx] = JobResult{Err: schema.Validate(docs[idx])}
			}
		}()
	}
	for i := range docs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return results
}
