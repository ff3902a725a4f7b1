package renderqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"chunklapse/internal/logging"
	"chunklapse/internal/scenes"
	"chunklapse/internal/services"
	"chunklapse/internal/snapshots"
	"chunklapse/internal/worlds"
)

// ErrAlreadyRunning rejects Enqueue while a previous queue is draining.
// Queues replace, they never merge.
var ErrAlreadyRunning = errors.New("render queue already draining")

// ErrNoWorlds rejects an empty queue at the run boundary.
var ErrNoWorlds = errors.New("no worlds to queue")

// Renderer runs one render to completion, forwarding output lines. A spawn
// failure is returned as an error; any other outcome is the exit code.
type Renderer interface {
	Render(ctx context.Context, scene string, onLine func(string)) (int, error)
}

// Controller owns the render queue. Queue state and job records are mutated
// only by the coordinator goroutine; everything observable crosses to other
// goroutines through Events callbacks.
type Controller struct {
	renderer    Renderer
	logger      *slog.Logger
	events      Events
	settleDelay time.Duration

	mu    sync.Mutex
	state State
	jobs  []*Job
	runID string
	wg    sync.WaitGroup
}

// New constructs a controller. The settle delay is applied between jobs,
// after a render process exits and before the next job's cleanup pass, so
// the renderer's own file flushing cannot race the cleanup.
func New(renderer Renderer, settleDelay time.Duration, logger *slog.Logger, events Events) *Controller {
	if settleDelay < 0 {
		settleDelay = 0
	}
	return &Controller{
		renderer:    renderer,
		logger:      logging.NewComponentLogger(logger, "render-queue"),
		events:      events,
		settleDelay: settleDelay,
		state:       StateIdle,
	}
}

// State returns the current queue-level state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Jobs returns a snapshot of the queued jobs.
func (c *Controller) Jobs() []Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Job, len(c.jobs))
	for i, job := range c.jobs {
		out[i] = *job
	}
	return out
}

// Enqueue replaces the queue with one job per world and starts draining.
// It fails with ErrAlreadyRunning while a drain is in progress and returns
// the run ID otherwise. Progress (0, total) is emitted before it returns.
func (c *Controller) Enqueue(ctx context.Context, scene scenes.Scene, list []worlds.World) (string, error) {
	if len(list) == 0 {
		return "", ErrNoWorlds
	}

	c.mu.Lock()
	if c.state == StateDraining {
		c.mu.Unlock()
		return "", ErrAlreadyRunning
	}
	runID := uuid.NewString()
	jobs := make([]*Job, len(list))
	for i, world := range list {
		jobs[i] = &Job{RunID: runID, World: world, Status: JobPending}
	}
	c.state = StateDraining
	c.jobs = jobs
	c.runID = runID
	c.mu.Unlock()

	c.events.progress(0, len(jobs))
	c.logger.Info("queue populated",
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldScene, scene.Name),
		logging.Int("jobs", len(jobs)))

	c.wg.Add(1)
	go c.drain(ctx, scene, jobs, runID)
	return runID, nil
}

// Wait blocks until the current drain finishes.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) drain(ctx context.Context, scene scenes.Scene, jobs []*Job, runID string) {
	defer c.wg.Done()

	total := len(jobs)
	completed := 0
	logger := c.logger.With(logging.String(logging.FieldRunID, runID))

	for i, job := range jobs {
		if ctx.Err() != nil {
			logger.Warn("queue interrupted", logging.Int("remaining", total-completed))
			break
		}

		c.events.progress(completed, total)
		c.setStatus(job, JobRunning)
		c.events.jobStarted(*job, i+1, total)
		jobLogger := logger.With(logging.String(logging.FieldWorld, job.World.Name))
		jobLogger.Info("job started", logging.Int("index", i+1), logging.Int("total", total))

		rendered := c.runJob(ctx, scene, job, jobLogger)
		c.events.jobFinished(*job)
		completed++

		// Let the renderer's file handling settle before the next job's
		// cleanup pass. Config-write failures skip the render entirely, so
		// they advance immediately.
		if rendered && c.settleDelay > 0 && i < len(jobs)-1 {
			select {
			case <-time.After(c.settleDelay):
			case <-ctx.Done():
			}
		}
	}

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	c.events.progress(completed, total)
	c.events.done(completed)
	if completed == total {
		logger.Info("queue complete", logging.Int("jobs", total))
	} else {
		logger.Info("queue stopped early",
			logging.Int("completed", completed),
			logging.Int("jobs", total))
	}
}

// runJob drives one job through config rewrite, cleanup, render, and
// snapshot rename. It reports whether a render process actually ran. Every
// error is absorbed here; the queue always advances.
func (c *Controller) runJob(ctx context.Context, scene scenes.Scene, job *Job, logger *slog.Logger) bool {
	if err := scenes.SetWorldPath(scene, job.World.Path); err != nil {
		wrapped := services.Wrap(services.ErrConfigWrite, "render", "update scene", job.World.Name, err)
		c.fail(job, wrapped)
		logger.Error("scene config write failed, skipping job", logging.Error(wrapped))
		return false
	}

	removed, cleanupErrs := scenes.CleanupArtifacts(scene)
	for _, err := range cleanupErrs {
		logger.Warn("artifact cleanup failed",
			logging.Error(services.Wrap(services.ErrCleanup, "render", "cleanup", job.World.Name, err)))
	}
	if len(removed) > 0 {
		logger.Debug("stale artifacts removed", logging.Int("count", len(removed)))
	}

	code, err := c.renderer.Render(ctx, scene.Name, c.events.Line)
	if err != nil {
		c.fail(job, err)
		logger.Error("renderer failed to start", logging.Error(err))
		return false
	}
	if code != 0 {
		c.fail(job, fmt.Errorf("renderer exited with code %d", code))
		logger.Error("render failed", logging.Int("exit_code", code))
		return true
	}

	c.setStatus(job, JobSucceeded)
	snapshotDir := scene.SnapshotDir()
	renamed, renameErr := snapshots.RenameLatest(scene.Name, job.World.Name, snapshotDir)
	switch {
	case renameErr != nil:
		logger.Warn("snapshot rename failed", logging.Error(renameErr))
	case renamed == "":
		logger.Warn("no snapshot found to rename", logging.String("dir", snapshotDir))
	default:
		c.setSnapshot(job, renamed)
		logger.Info("snapshot renamed", logging.String("snapshot", renamed))
	}
	return true
}

func (c *Controller) setStatus(job *Job, status JobStatus) {
	c.mu.Lock()
	job.Status = status
	c.mu.Unlock()
}

func (c *Controller) setSnapshot(job *Job, path string) {
	c.mu.Lock()
	job.SnapshotPath = path
	c.mu.Unlock()
}

func (c *Controller) fail(job *Job, err error) {
	c.mu.Lock()
	job.Status = JobFailed
	job.ErrorMessage = err.Error()
	c.mu.Unlock()
}
