package chunky_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"chunklapse/internal/services"
	"chunklapse/internal/services/chunky"
)

// writeScript installs a fake java binary so the client runs a controlled
// process. The script ignores the launcher arguments.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "java")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestArgsMatchLauncherContract(t *testing.T) {
	client, err := chunky.New("java", "/opt/ChunkyLauncher.jar", "/home/u/.chunky/scenes")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	got := client.Args("overlook")
	want := []string{"-jar", "/opt/ChunkyLauncher.jar", "-scene-dir", "/home/u/.chunky/scenes", "-render", "overlook", "-f"}
	if len(got) != len(want) {
		t.Fatalf("unexpected args: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected args: got %v want %v", got, want)
		}
	}
}

func TestNewRequiresLauncherAndScenesDir(t *testing.T) {
	if _, err := chunky.New("java", "", "/scenes"); err == nil {
		t.Fatal("expected error for missing launcher path")
	}
	if _, err := chunky.New("java", "/launcher.jar", ""); err == nil {
		t.Fatal("expected error for missing scenes dir")
	}
}

func TestStartStreamsMergedOutputInOrder(t *testing.T) {
	script := writeScript(t, `echo "line one"
echo "line two" 1>&2
echo "line three"`)

	client, err := chunky.New(script, "/launcher.jar", t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	var mu sync.Mutex
	var lines []string
	proc, err := client.Start(context.Background(), "overlook", func(line string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if code := proc.Wait(); code != 0 {
		t.Fatalf("unexpected exit code: %d", code)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %v", lines)
	}
	// Stdout lines keep their own order even when stderr interleaves.
	var stdout []string
	for _, line := range lines {
		if line == "line one" || line == "line three" {
			stdout = append(stdout, line)
		}
	}
	if len(stdout) != 2 || stdout[0] != "line one" || stdout[1] != "line three" {
		t.Fatalf("stdout order not preserved: %v", lines)
	}
}

func TestWaitReturnsExitCode(t *testing.T) {
	script := writeScript(t, "exit 3")

	client, err := chunky.New(script, "/launcher.jar", t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	proc, err := client.Start(context.Background(), "overlook", nil)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if code := proc.Wait(); code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
}

func TestCancellationDoesNotKillRunningRender(t *testing.T) {
	script := writeScript(t, `sleep 0.2
exit 0`)

	client, err := chunky.New(script, "/launcher.jar", t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	proc, err := client.Start(ctx, "overlook", nil)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	cancel()
	if code := proc.Wait(); code != 0 {
		t.Fatalf("render was interrupted, exit code %d", code)
	}
}

func TestStartRejectsCancelledContext(t *testing.T) {
	script := writeScript(t, "exit 0")

	client, err := chunky.New(script, "/launcher.jar", t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Start(ctx, "overlook", nil); !errors.Is(err, services.ErrLaunch) {
		t.Fatalf("expected ErrLaunch, got %v", err)
	}
}

func TestStartMissingBinaryIsLaunchError(t *testing.T) {
	client, err := chunky.New(filepath.Join(t.TempDir(), "no-such-java"), "/launcher.jar", t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.Start(context.Background(), "overlook", nil)
	if err == nil {
		t.Fatal("expected launch error")
	}
	if !errors.Is(err, services.ErrLaunch) {
		t.Fatalf("expected ErrLaunch, got %v", err)
	}
}

func TestStartSubstitutesPlaceholderForUndecodableLine(t *testing.T) {
	script := writeScript(t, `printf '\377\376bad\n'
echo good`)

	client, err := chunky.New(script, "/launcher.jar", t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	var mu sync.Mutex
	var lines []string
	proc, err := client.Start(context.Background(), "overlook", func(line string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	proc.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lines)
	}
	if lines[0] != "<undecodable output line>" {
		t.Fatalf("expected placeholder for undecodable line, got %q", lines[0])
	}
	if lines[1] != "good" {
		t.Fatalf("expected stream to continue after placeholder, got %v", lines)
	}
}
