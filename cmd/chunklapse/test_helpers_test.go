package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"chunklapse/internal/config"
	"chunklapse/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	return &cliTestEnv{
		cfg:        cfg,
		configPath: writeTestConfig(t, base, cfg),
		baseDir:    base,
	}
}

func writeTestConfig(t *testing.T, base string, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeSceneFixture creates a scene directory with a minimal description
// file under the config's scenes dir.
func writeSceneFixture(t *testing.T, cfg *config.Config, name string) {
	t.Helper()

	doc := `{
  "name": "` + name + `",
  "width": 640,
  "height": 360,
  "sppTarget": 64,
  "world": {
    "path": "/tmp/placeholder",
    "dimension": 0
  }
}`
	testsupport.WriteFile(t, filepath.Join(cfg.SceneDir(name), name+".json"), []byte(doc))
}

// writeWorldFixture creates a world directory with a level.dat marker.
func writeWorldFixture(t *testing.T, cfg *config.Config, name string) {
	t.Helper()
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.WorldsDir, name, "level.dat"), []byte{})
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
