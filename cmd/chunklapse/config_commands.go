package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"chunklapse/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set paths.worlds_dir and render.launcher_path before rendering.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration and check the toolchain",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Scenes dir:  %s\n", cfg.Paths.ScenesDir)
			fmt.Fprintf(out, "Worlds dir:  %s\n", cfg.Paths.WorldsDir)
			fmt.Fprintf(out, "Log dir:     %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "Scene:       %s\n", valueOrDash(cfg.Render.Scene))
			fmt.Fprintf(out, "Video:       %s @ %d fps, max height %d\n", cfg.Video.Codec, cfg.Video.FPS, cfg.Video.MaxHeight)
			fmt.Fprintln(out)

			colorize := isatty.IsTerminal(os.Stdout.Fd())
			fmt.Fprintln(out, directoryStatusLine("Scenes dir", cfg.Paths.ScenesDir, colorize))
			fmt.Fprintln(out, directoryStatusLine("Worlds dir", cfg.Paths.WorldsDir, colorize))
			fmt.Fprintln(out, fileStatusLine("Launcher", cfg.Render.LauncherPath, colorize))
			fmt.Fprintln(out, binaryStatusLine("Java", cfg.Render.JavaBinary, colorize))
			fmt.Fprintln(out, binaryStatusLine("FFmpeg", cfg.FFmpegBinary(), colorize))
			return nil
		},
	}
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func directoryStatusLine(label, path string, colorize bool) string {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return renderStatusLine(label, statusWarn, "missing", colorize)
	case !info.IsDir():
		return renderStatusLine(label, statusError, "not a directory", colorize)
	default:
		return renderStatusLine(label, statusOK, path, colorize)
	}
}

func fileStatusLine(label, path string, colorize bool) string {
	if strings.TrimSpace(path) == "" {
		return renderStatusLine(label, statusWarn, "not configured", colorize)
	}
	if _, err := os.Stat(path); err != nil {
		return renderStatusLine(label, statusError, "not found at "+path, colorize)
	}
	return renderStatusLine(label, statusOK, path, colorize)
}

func binaryStatusLine(label, binary string, colorize bool) string {
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return renderStatusLine(label, statusError, binary+" not on PATH", colorize)
	}
	return renderStatusLine(label, statusOK, resolved, colorize)
}
