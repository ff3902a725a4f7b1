package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"chunklapse/internal/history"
	"chunklapse/internal/logging"
	"chunklapse/internal/renderqueue"
	"chunklapse/internal/services/chunky"
	"chunklapse/internal/worlds"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var sceneFlag string
	var allFlag bool
	var videoFlag bool

	cmd := &cobra.Command{
		Use:   "render [world ...]",
		Short: "Render the scene once per world, tagging each snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if len(args) == 0 && !allFlag {
				return errors.New("name worlds to render or pass --all")
			}
			scene, err := resolveScene(cfg, sceneFlag)
			if err != nil {
				return err
			}

			// One render batch at a time per machine; Chunky owns the scene
			// directory exclusively while it runs.
			lock := flock.New(filepath.Join(cfg.Paths.LogDir, "chunklapse.lock"))
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return errors.New("another chunklapse render is already running")
			}
			defer func() { _ = lock.Unlock() }()

			logger, err := ctx.buildLogger()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			all, err := worlds.Scan(cfg.Paths.WorldsDir)
			if err != nil {
				return fmt.Errorf("scan worlds: %w", err)
			}
			selected := all
			if !allFlag {
				selected, err = worlds.Select(all, args)
				if err != nil {
					return err
				}
			}
			if len(selected) == 0 {
				return errors.New("no worlds to render")
			}

			client, err := chunky.New(cfg.Render.JavaBinary, cfg.Render.LauncherPath, cfg.Paths.ScenesDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var recordID int64
			events := renderqueue.Events{
				Line: func(line string) {
					fmt.Fprintln(out, line)
				},
				JobStarted: func(job renderqueue.Job, index, total int) {
					fmt.Fprintf(out, "[%d/%d] rendering %s\n", index, total, job.World.Name)
					id, err := store.BeginRender(cmd.Context(), job.RunID, scene.Name, job.World.Name)
					if err != nil {
						logger.Warn("record render start", logging.Error(err))
						return
					}
					recordID = id
				},
				JobFinished: func(job renderqueue.Job) {
					if recordID == 0 {
						return
					}
					status := history.StatusSucceeded
					if job.Failed() {
						status = history.StatusFailed
					}
					if err := store.FinishRender(cmd.Context(), recordID, status, job.ErrorMessage, job.SnapshotPath); err != nil {
						logger.Warn("record render finish", logging.Error(err))
					}
					recordID = 0
				},
			}

			settle := time.Duration(cfg.SettleDelaySeconds()) * time.Second
			controller := renderqueue.New(client, settle, logger, events)
			if _, err := controller.Enqueue(cmd.Context(), scene, selected); err != nil {
				return err
			}
			controller.Wait()

			jobs := controller.Jobs()
			failed := 0
			for _, job := range jobs {
				if job.Failed() {
					failed++
					fmt.Fprintf(out, "failed: %s: %s\n", job.World.Name, job.ErrorMessage)
				}
			}
			fmt.Fprintf(out, "Rendered %d of %d worlds\n", len(jobs)-failed, len(jobs))

			if videoFlag {
				return runAssembly(ctx, cmd, cfg, scene, videoSettings(cfg, scene.Name, "", 0, ""))
			}
			if failed == len(jobs) {
				return errors.New("every render in the batch failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sceneFlag, "scene", "s", "", "Scene to render (defaults to render.scene)")
	cmd.Flags().BoolVar(&allFlag, "all", false, "Render every world under the worlds directory")
	cmd.Flags().BoolVar(&videoFlag, "video", false, "Assemble the timelapse after the batch finishes")
	return cmd
}
