package timelapse

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"sync"

	"chunklapse/internal/logging"
	"chunklapse/internal/scenes"
	"chunklapse/internal/services"
	"chunklapse/internal/services/ffmpeg"
	"chunklapse/internal/snapshots"
)

// ErrNoSnapshots rejects an assembly run with nothing to encode.
var ErrNoSnapshots = errors.New("no annotated snapshots found")

// Events carries the assembler's cross-goroutine notifications. Callbacks
// run on the assembly worker; nil fields are skipped.
type Events struct {
	// Progress fires after each frame is written, as (framesWritten, total).
	Progress func(frame, total int)
	// Done fires exactly once with the terminal outcome.
	Done func(result Result)
}

func (e Events) progress(frame, total int) {
	if e.Progress != nil {
		e.Progress(frame, total)
	}
}

// Result is the terminal outcome of one assembly run.
type Result struct {
	OutputPath string
	Frames     int
	Skipped    int
	Err        error
}

// Assembler encodes a scene's annotated snapshots into one video. A run
// executes on its own worker so the render queue is never blocked.
type Assembler struct {
	ffmpegBinary string
	worldsDir    string
	maxHeight    int
	logger       *slog.Logger
	events       Events
	wg           sync.WaitGroup
}

// New constructs an assembler. maxHeight caps the output frame height;
// taller sources are downscaled.
func New(ffmpegBinary, worldsDir string, maxHeight int, logger *slog.Logger, events Events) *Assembler {
	return &Assembler{
		ffmpegBinary: ffmpegBinary,
		worldsDir:    worldsDir,
		maxHeight:    maxHeight,
		logger:       logging.NewComponentLogger(logger, "timelapse"),
		events:       events,
	}
}

// Start validates the run and launches the encoding worker, returning how
// many frames were scheduled. Errors returned here — no snapshots, codec
// init — abort the run before any frame is written; everything after is
// delivered through Done.
func (a *Assembler) Start(ctx context.Context, scene scenes.Scene, settings ffmpeg.Settings) (int, error) {
	annotated, err := snapshots.Collect(scene.Name, scene.SnapshotDir())
	if err != nil {
		return 0, err
	}
	if len(annotated) == 0 {
		return 0, ErrNoSnapshots
	}
	frames := Order(annotated)

	encoder, err := ffmpeg.NewEncoder(a.ffmpegBinary, settings)
	if err != nil {
		return 0, err
	}
	session, err := encoder.Start(ctx)
	if err != nil {
		return 0, err
	}

	a.logger.Info("assembly started",
		logging.String(logging.FieldScene, scene.Name),
		logging.Int("frames", len(frames)),
		logging.String("output", settings.OutputPath))

	a.wg.Add(1)
	go a.encode(session, frames, settings.OutputPath)
	return len(frames), nil
}

// Wait blocks until the current run finishes.
func (a *Assembler) Wait() {
	a.wg.Wait()
}

func (a *Assembler) encode(session *ffmpeg.Session, frames []Frame, outputPath string) {
	defer a.wg.Done()

	total := len(frames)
	days := NewDayResolver(a.worldsDir)
	written := 0
	skipped := 0

	// The first frame's output size locks the encoder dimensions; later
	// frames of a different native size are forced to match.
	var locked image.Point

	for i, frame := range frames {
		img, err := readFrame(frame.Path)
		if err != nil {
			skipped++
			a.logger.Warn("frame skipped",
				logging.Error(services.Wrap(services.ErrFrameRead, "assemble", "read frame", frame.Path, err)))
			continue
		}

		img = FitToHeight(img, a.maxHeight)
		if locked == (image.Point{}) {
			// 4:2:0 pixel formats reject odd dimensions, so the locked
			// size rounds both axes down to even. Frames that pass through
			// FitToHeight at an odd native size are resized to match.
			locked = image.Pt(img.Bounds().Dx()&^1, img.Bounds().Dy()&^1)
		}
		if img.Bounds().Dx() != locked.X || img.Bounds().Dy() != locked.Y {
			img = resizeTo(img, locked.X, locked.Y)
		}

		canvas := toRGBA(img)
		DrawLabel(canvas, Label(days.Resolve(frame.World, i+1), frame.World))

		if err := session.WriteFrame(canvas); err != nil {
			session.Abort()
			a.finish(Result{OutputPath: outputPath, Frames: written, Skipped: skipped,
				Err: fmt.Errorf("write frame %d: %w", i+1, err)})
			return
		}
		written++
		a.events.progress(written, total)
	}

	if err := session.Close(); err != nil {
		a.finish(Result{OutputPath: outputPath, Frames: written, Skipped: skipped, Err: err})
		return
	}
	a.finish(Result{OutputPath: outputPath, Frames: written, Skipped: skipped})
}

func (a *Assembler) finish(result Result) {
	if result.Err != nil {
		a.logger.Error("assembly failed",
			logging.Error(result.Err),
			logging.Int("frames", result.Frames))
	} else {
		a.logger.Info("assembly complete",
			logging.String("output", result.OutputPath),
			logging.Int("frames", result.Frames),
			logging.Int("skipped", result.Skipped))
	}
	if a.events.Done != nil {
		a.events.Done(result)
	}
}

func readFrame(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return png.Decode(file)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	canvas := image.NewRGBA(img.Bounds())
	draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Src)
	return canvas
}
