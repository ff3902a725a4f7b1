package chunky

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"
	"unicode/utf8"

	"chunklapse/internal/services"
)

// lineBuffer bounds the hand-off queue between the pipe readers and the
// subscriber forwarder. A stalled subscriber blocks the readers here instead
// of backing up the renderer's pipes unbounded in memory.
const lineBuffer = 256

// placeholderLine replaces process output that cannot be decoded.
const placeholderLine = "<undecodable output line>"

// Client launches the Chunky renderer for one scene at a time.
type Client struct {
	javaBinary   string
	launcherPath string
	scenesDir    string
}

// New constructs a renderer client.
func New(javaBinary, launcherPath, scenesDir string) (*Client, error) {
	javaBinary = strings.TrimSpace(javaBinary)
	if javaBinary == "" {
		javaBinary = "java"
	}
	launcherPath = strings.TrimSpace(launcherPath)
	if launcherPath == "" {
		return nil, errors.New("chunky launcher path required")
	}
	if strings.TrimSpace(scenesDir) == "" {
		return nil, errors.New("scenes directory required")
	}
	return &Client{
		javaBinary:   javaBinary,
		launcherPath: launcherPath,
		scenesDir:    scenesDir,
	}, nil
}

// Args returns the launcher invocation for a scene: a single-shot,
// force-overwrite headless render.
func (c *Client) Args(scene string) []string {
	return []string{
		"-jar", c.launcherPath,
		"-scene-dir", c.scenesDir,
		"-render", scene,
		"-f",
	}
}

// Render runs a full render of the named scene and returns its exit code.
// It is Start followed by Wait.
func (c *Client) Render(ctx context.Context, scene string, onLine func(string)) (int, error) {
	proc, err := c.Start(ctx, scene, onLine)
	if err != nil {
		return 0, err
	}
	return proc.Wait(), nil
}

// Process is a running render. Output lines are forwarded to the subscriber
// while the process runs; Wait blocks until it exits.
type Process struct {
	cmd     *exec.Cmd
	lines   chan string
	done    chan struct{}
	readers sync.WaitGroup
}

// Start spawns the renderer for the named scene. Stdout and stderr are
// merged, line-buffered, and forwarded to onLine in the order each stream
// produced them. A spawn failure is tagged services.ErrLaunch. The context
// gates the spawn only; a running render is never signalled and always
// runs to natural completion.
func (c *Client) Start(ctx context.Context, scene string, onLine func(string)) (*Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, services.Wrap(services.ErrLaunch, "render", "start "+c.javaBinary, scene, err)
	}
	cmd := exec.Command(c.javaBinary, c.Args(scene)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrLaunch, "render", "stdout pipe", scene, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrLaunch, "render", "stderr pipe", scene, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, services.Wrap(services.ErrLaunch, "render", "start "+c.javaBinary, scene, err)
	}

	proc := &Process{
		cmd:   cmd,
		lines: make(chan string, lineBuffer),
		done:  make(chan struct{}),
	}

	proc.readers.Add(2)
	go proc.readLines(stdout)
	go proc.readLines(stderr)
	go func() {
		proc.readers.Wait()
		close(proc.lines)
	}()
	go func() {
		defer close(proc.done)
		for line := range proc.lines {
			if onLine != nil {
				onLine(line)
			}
		}
	}()

	return proc, nil
}

// readLines is the producer side of the hand-off queue: it scans one pipe
// and pushes decoded lines into the bounded channel.
func (p *Process) readLines(r io.Reader) {
	defer p.readers.Done()
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" || err == nil {
			if !utf8.ValidString(line) {
				line = placeholderLine
			}
			p.lines <- line
		}
		if err != nil {
			return
		}
	}
}

// Wait blocks until the process exits and all output has been forwarded,
// then returns the exit code. Cancellation mid-render is not supported; the
// renderer runs to natural completion.
func (p *Process) Wait() int {
	<-p.done
	err := p.cmd.Wait()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
