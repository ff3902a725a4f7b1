package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"chunklapse/internal/scenes"
)

func newScenesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List Chunky scenes and their render targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			found, err := scenes.Discover(cfg.Paths.ScenesDir)
			if err != nil {
				return fmt.Errorf("discover scenes: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintf(out, "No scenes found under %s\n", cfg.Paths.ScenesDir)
				return nil
			}

			rows := make([][]string, 0, len(found))
			for _, scene := range found {
				summary, err := scenes.ReadSummary(scene)
				if err != nil {
					rows = append(rows, []string{scene.Name, "-", "-", fmt.Sprintf("unreadable: %v", err)})
					continue
				}
				world := "-"
				if summary.WorldPath != "" {
					world = filepath.Base(summary.WorldPath)
				}
				rows = append(rows, []string{
					scene.Name,
					fmt.Sprintf("%dx%d", summary.Width, summary.Height),
					fmt.Sprintf("%d", summary.SPPTarget),
					world,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Scene", "Size", "SPP Target", "World"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}
