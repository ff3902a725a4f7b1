package services

import (
	"errors"
	"fmt"
	"strings"
)

// Failure classes for batch rendering and video assembly. Per-job markers
// (launch, config write, cleanup, rename) are absorbed at the job boundary;
// run-level markers (codec init) abort the operation that raised them.
var (
	ErrLaunch      = errors.New("renderer launch error")
	ErrConfigWrite = errors.New("scene config write error")
	ErrCleanup     = errors.New("artifact cleanup error")
	ErrRename      = errors.New("snapshot rename error")
	ErrCodecInit   = errors.New("codec init error")
	ErrFrameRead   = errors.New("frame read error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsJobScoped reports whether an error belongs to a single queue job and must
// not abort the queue.
func IsJobScoped(err error) bool {
	return errors.Is(err, ErrLaunch) ||
		errors.Is(err, ErrConfigWrite) ||
		errors.Is(err, ErrCleanup) ||
		errors.Is(err, ErrRename)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
