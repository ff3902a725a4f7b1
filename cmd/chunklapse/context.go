package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"chunklapse/internal/config"
	"chunklapse/internal/logging"
	"chunklapse/internal/scenes"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) buildLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

// resolveScene picks the active scene, flag over config, and verifies its
// description file exists.
func resolveScene(cfg *config.Config, flagValue string) (scenes.Scene, error) {
	name := strings.TrimSpace(flagValue)
	if name == "" {
		name = strings.TrimSpace(cfg.Render.Scene)
	}
	if name == "" {
		return scenes.Scene{}, fmt.Errorf("no scene selected (set render.scene in the config or pass --scene)")
	}
	scene := scenes.Scene{Name: name, Dir: cfg.SceneDir(name)}
	if _, err := os.Stat(scene.FilePath()); err != nil {
		return scenes.Scene{}, fmt.Errorf("scene %q not found under %s", name, cfg.Paths.ScenesDir)
	}
	return scene, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
