package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRender(); err != nil {
		return err
	}
	if err := c.normalizeVideo(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ScenesDir) == "" {
		c.Paths.ScenesDir = defaultScenesDir
	}
	if c.Paths.ScenesDir, err = expandPath(c.Paths.ScenesDir); err != nil {
		return fmt.Errorf("paths.scenes_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorldsDir) != "" {
		if c.Paths.WorldsDir, err = expandPath(c.Paths.WorldsDir); err != nil {
			return fmt.Errorf("paths.worlds_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRender() error {
	if strings.TrimSpace(c.Render.JavaBinary) == "" {
		c.Render.JavaBinary = defaultJavaBinary
	}
	if strings.TrimSpace(c.Render.LauncherPath) != "" {
		expanded, err := expandPath(c.Render.LauncherPath)
		if err != nil {
			return fmt.Errorf("render.launcher_path: %w", err)
		}
		c.Render.LauncherPath = expanded
	}
	c.Render.Scene = strings.TrimSpace(c.Render.Scene)
	if c.Render.SettleSeconds == 0 {
		c.Render.SettleSeconds = defaultSettleSeconds
	}
	return nil
}

func (c *Config) normalizeVideo() error {
	if c.Video.FPS == 0 {
		c.Video.FPS = defaultVideoFPS
	}
	c.Video.Codec = strings.ToLower(strings.TrimSpace(c.Video.Codec))
	if c.Video.Codec == "" {
		c.Video.Codec = defaultVideoCodec
	}
	if strings.TrimSpace(c.Video.OutputPath) != "" {
		expanded, err := expandPath(c.Video.OutputPath)
		if err != nil {
			return fmt.Errorf("video.output_path: %w", err)
		}
		c.Video.OutputPath = expanded
	}
	if c.Video.MaxHeight == 0 {
		c.Video.MaxHeight = defaultMaxHeight
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
