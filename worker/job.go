package worker

import "time"

// Job is one unit of work: an input string with a caller-chosen ID.
type Job struct {
	ID    int
	Input string
}

// JobResult is the outcome of one job.
type JobResult[T any] struct {
	ID       int
	Input    string
	Value    T
	Err      error
	Duration time.Duration
}

// BatchResult aggregates the results collected by CloseAndWait.
type BatchResult[T any] struct {
	Results       []JobResult[T]
	TotalJobs     int
	CompletedJobs int
	TotalDuration time.Duration
}
