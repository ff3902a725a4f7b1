package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chunklapse/internal/config"
	"chunklapse/internal/history"
	"chunklapse/internal/logging"
	"chunklapse/internal/scenes"
	"chunklapse/internal/services/ffmpeg"
	"chunklapse/internal/timelapse"
)

func newTimelapseCommand(ctx *commandContext) *cobra.Command {
	var sceneFlag string
	var outputFlag string
	var codecFlag string
	var fpsFlag int

	cmd := &cobra.Command{
		Use:   "timelapse",
		Short: "Assemble annotated snapshots into a day-labeled video",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			scene, err := resolveScene(cfg, sceneFlag)
			if err != nil {
				return err
			}
			return runAssembly(ctx, cmd, cfg, scene, videoSettings(cfg, scene.Name, outputFlag, fpsFlag, codecFlag))
		},
	}

	cmd.Flags().StringVarP(&sceneFlag, "scene", "s", "", "Scene whose snapshots to assemble (defaults to render.scene)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output video path (defaults to video.output_path)")
	cmd.Flags().StringVar(&codecFlag, "codec", "", "Video codec: h264, mpeg4, or mjpeg")
	cmd.Flags().IntVar(&fpsFlag, "fps", 0, "Frames per second (1-60)")
	return cmd
}

// videoSettings merges flag overrides onto the configured video section.
func videoSettings(cfg *config.Config, scene, outputFlag string, fpsFlag int, codecFlag string) ffmpeg.Settings {
	settings := ffmpeg.Settings{
		FPS:        cfg.Video.FPS,
		Codec:      ffmpeg.Codec(strings.ToLower(strings.TrimSpace(cfg.Video.Codec))),
		OutputPath: cfg.Video.OutputPath,
	}
	if fpsFlag > 0 {
		settings.FPS = fpsFlag
	}
	if codec := strings.TrimSpace(codecFlag); codec != "" {
		settings.Codec = ffmpeg.Codec(strings.ToLower(codec))
	}
	if output := strings.TrimSpace(outputFlag); output != "" {
		settings.OutputPath = output
	}
	if settings.OutputPath == "" {
		ext := ".mp4"
		if settings.Codec == ffmpeg.CodecMJPEG {
			ext = ".avi"
		}
		settings.OutputPath = scene + "-timelapse" + ext
	}
	return settings
}

func runAssembly(ctx *commandContext, cmd *cobra.Command, cfg *config.Config, scene scenes.Scene, settings ffmpeg.Settings) error {
	logger, err := ctx.buildLogger()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	var result timelapse.Result
	assembler := timelapse.New(cfg.FFmpegBinary(), cfg.Paths.WorldsDir, cfg.Video.MaxHeight, logger, timelapse.Events{
		Progress: func(frame, total int) {
			fmt.Fprintf(out, "frame %d/%d\n", frame, total)
		},
		Done: func(r timelapse.Result) {
			result = r
		},
	})

	scheduled, err := assembler.Start(cmd.Context(), scene, settings)
	if err != nil {
		return fmt.Errorf("start assembly: %w", err)
	}
	fmt.Fprintf(out, "Encoding %d frames to %s\n", scheduled, settings.OutputPath)
	assembler.Wait()

	record := history.VideoRecord{
		Scene:      scene.Name,
		OutputPath: settings.OutputPath,
		Codec:      string(settings.Codec),
		FPS:        settings.FPS,
		Frames:     result.Frames,
		Skipped:    result.Skipped,
		Status:     history.StatusSucceeded,
	}
	if result.Err != nil {
		record.Status = history.StatusFailed
		record.ErrorMessage = result.Err.Error()
	}
	if err := store.RecordVideo(cmd.Context(), record); err != nil {
		logger.Warn("record video run", logging.Error(err))
	}

	if result.Err != nil {
		return fmt.Errorf("assemble video: %w", result.Err)
	}
	fmt.Fprintf(out, "Wrote %s (%d frames, %d skipped)\n", settings.OutputPath, result.Frames, result.Skipped)
	return nil
}
