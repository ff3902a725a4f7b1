package config

import (
	"errors"
	"fmt"
)

// Codecs supported by the video assembler.
var supportedCodecs = map[string]struct{}{
	"h264":  {},
	"mpeg4": {},
	"mjpeg": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.SettleSeconds < 0 {
		return errors.New("render.settle_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.FPS < 1 || c.Video.FPS > 60 {
		return fmt.Errorf("video.fps must be between 1 and 60, got %d", c.Video.FPS)
	}
	if _, ok := supportedCodecs[c.Video.Codec]; !ok {
		return fmt.Errorf("video.codec must be one of h264, mpeg4, mjpeg, got %q", c.Video.Codec)
	}
	if c.Video.MaxHeight < 1 {
		return errors.New("video.max_height must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
