package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"chunklapse/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int
	var videosFlag bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent render and video runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if videosFlag {
				records, err := store.RecentVideos(cmd.Context(), limitFlag)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(out, "No video runs recorded yet")
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						record.CreatedAt.Local().Format("2006-01-02 15:04"),
						record.Scene,
						record.Codec,
						strconv.Itoa(record.FPS),
						strconv.Itoa(record.Frames),
						record.Status,
						record.OutputPath,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"When", "Scene", "Codec", "FPS", "Frames", "Status", "Output"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
				))
				return nil
			}

			records, err := store.RecentRenders(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No renders recorded yet")
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, record := range records {
				detail := record.SnapshotPath
				if record.ErrorMessage != "" {
					detail = record.ErrorMessage
				}
				rows = append(rows, []string{
					record.StartedAt.Local().Format("2006-01-02 15:04"),
					record.Scene,
					record.World,
					record.Status,
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Scene", "World", "Status", "Detail"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Maximum rows to show")
	cmd.Flags().BoolVar(&videosFlag, "videos", false, "Show video assembly runs instead of renders")
	return cmd
}
