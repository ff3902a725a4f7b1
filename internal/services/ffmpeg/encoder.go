package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"chunklapse/internal/services"
)

// Codec selects the video encoder.
type Codec string

const (
	CodecH264  Codec = "h264"
	CodecMPEG4 Codec = "mpeg4"
	CodecMJPEG Codec = "mjpeg"
)

// ParseCodec normalizes a codec name from config or flags.
func ParseCodec(value string) (Codec, error) {
	switch Codec(strings.ToLower(strings.TrimSpace(value))) {
	case CodecH264:
		return CodecH264, nil
	case CodecMPEG4:
		return CodecMPEG4, nil
	case CodecMJPEG:
		return CodecMJPEG, nil
	default:
		return "", fmt.Errorf("unsupported codec %q", value)
	}
}

// Settings describes one encoding run. Immutable once the session starts.
type Settings struct {
	FPS        int
	Codec      Codec
	OutputPath string
}

// BuildArgs constructs the complete ffmpeg argument slice for a PNG frame
// pipe. Frames arrive on stdin in presentation order.
func BuildArgs(settings Settings) []string {
	args := make([]string, 0, 24)
	args = append(args, "-hide_banner", "-y", "-loglevel", "error")

	// Input: PNG frames piped on stdin at the configured rate.
	args = append(args,
		"-f", "image2pipe",
		"-framerate", strconv.Itoa(settings.FPS),
		"-i", "-",
	)

	switch settings.Codec {
	case CodecMPEG4:
		args = append(args, "-c:v", "mpeg4", "-qscale:v", "3", "-pix_fmt", "yuv420p")
	case CodecMJPEG:
		args = append(args, "-c:v", "mjpeg", "-qscale:v", "3", "-pix_fmt", "yuvj420p")
	default:
		args = append(args, "-c:v", "libx264", "-preset", "medium", "-crf", "18", "-pix_fmt", "yuv420p")
	}

	args = append(args, settings.OutputPath)
	return args
}

// Encoder runs ffmpeg for one assembly session.
type Encoder struct {
	binary   string
	settings Settings
}

// NewEncoder validates the toolchain for the requested settings. A missing
// binary or unusable codec is a codec-init failure: fatal to the assembly
// run that requested it.
func NewEncoder(binary string, settings Settings) (*Encoder, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if settings.FPS < 1 || settings.FPS > 60 {
		return nil, services.Wrap(services.ErrCodecInit, "assemble", "frame rate",
			fmt.Sprintf("fps %d out of range 1-60", settings.FPS), nil)
	}
	if _, err := ParseCodec(string(settings.Codec)); err != nil {
		return nil, services.Wrap(services.ErrCodecInit, "assemble", "codec", "", err)
	}
	if strings.TrimSpace(settings.OutputPath) == "" {
		return nil, services.Wrap(services.ErrCodecInit, "assemble", "output path", "not set", nil)
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, services.Wrap(services.ErrCodecInit, "assemble", "locate "+binary, "", err)
	}
	return &Encoder{binary: binary, settings: settings}, nil
}

// Session is a running ffmpeg process consuming frames from stdin.
type Session struct {
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stderr     bytes.Buffer
	outputPath string
}

// Start launches ffmpeg. Stderr is captured for failure reporting.
func (e *Encoder) Start(ctx context.Context) (*Session, error) {
	cmd := exec.CommandContext(ctx, e.binary, BuildArgs(e.settings)...)

	session := &Session{cmd: cmd, outputPath: e.settings.OutputPath}
	cmd.Stderr = &session.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrCodecInit, "assemble", "stdin pipe", "", err)
	}
	session.stdin = stdin

	if err := cmd.Start(); err != nil {
		return nil, services.Wrap(services.ErrCodecInit, "assemble", "start "+e.binary, "", err)
	}
	return session, nil
}

// WriteFrame encodes one frame as PNG onto the pipe.
func (s *Session) WriteFrame(img image.Image) error {
	return png.Encode(s.stdin, img)
}

// Close finishes the stream and waits for ffmpeg to exit. On failure the
// partial output file is removed so a failed run leaves nothing behind.
func (s *Session) Close() error {
	if err := s.stdin.Close(); err != nil {
		_ = s.cmd.Wait()
		s.removeOutput()
		return fmt.Errorf("close frame pipe: %w", err)
	}
	if err := s.cmd.Wait(); err != nil {
		s.removeOutput()
		detail := strings.TrimSpace(s.stderr.String())
		if detail != "" {
			return fmt.Errorf("ffmpeg: %w: %s", err, lastLines(detail, 4))
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

// Abort terminates the session after a write failure and removes the
// partial output.
func (s *Session) Abort() {
	_ = s.stdin.Close()
	_ = s.cmd.Wait()
	s.removeOutput()
}

func (s *Session) removeOutput() {
	if s.outputPath != "" {
		_ = os.Remove(s.outputPath)
	}
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
