package renderqueue

import (
	"chunklapse/internal/worlds"
)

// JobStatus represents the lifecycle of one queued render.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// State represents the queue-level lifecycle.
type State string

const (
	StateIdle     State = "idle"
	StateDraining State = "draining"
)

// Job is one queued unit of work: a single world rendered with the active
// scene. Jobs are created when the queue is populated and mutated only by
// the controller's coordinator goroutine. RunID ties the job to the queue
// run that created it, matching the run ID in the controller's logs.
type Job struct {
	RunID        string
	World        worlds.World
	Status       JobStatus
	ErrorMessage string
	SnapshotPath string
}

// Failed reports whether the job ended in failure.
func (j Job) Failed() bool {
	return j.Status == JobFailed
}

// Events carries the controller's cross-goroutine notifications. All
// callbacks are invoked from the coordinator goroutine; nil fields are
// skipped.
type Events struct {
	// Progress is emitted as (jobsCompletedOrSkipped, totalJobs) when the
	// queue is populated, every time a job starts, and once when it drains.
	Progress func(completed, total int)
	// JobStarted fires when a job enters Running, with its 1-based index.
	JobStarted func(job Job, index, total int)
	// JobFinished fires after a job reaches Succeeded or Failed.
	JobFinished func(job Job)
	// Line receives renderer output, in the order the process produced it.
	Line func(line string)
	// Done fires exactly once when the queue returns to Idle, with the
	// number of jobs that actually ran. It is less than the queue length
	// when cancellation stopped the drain early.
	Done func(completed int)
}

func (e Events) progress(completed, total int) {
	if e.Progress != nil {
		e.Progress(completed, total)
	}
}

func (e Events) jobStarted(job Job, index, total int) {
	if e.JobStarted != nil {
		e.JobStarted(job, index, total)
	}
}

func (e Events) jobFinished(job Job) {
	if e.JobFinished != nil {
		e.JobFinished(job)
	}
}

func (e Events) done(total int) {
	if e.Done != nil {
		e.Done(total)
	}
}
