package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chunklapse/internal/worlds"
)

func newWorldsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "worlds [dir]",
		Short: "List render-ready worlds in chronological order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := cfg.Paths.WorldsDir
			if len(args) > 0 {
				dir = args[0]
			}
			list, err := worlds.Scan(dir)
			if err != nil {
				return fmt.Errorf("scan worlds: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintf(out, "No worlds found under %s\n", dir)
				return nil
			}

			rows := make([][]string, 0, len(list))
			for _, world := range list {
				date := "-"
				if world.Dated() {
					date = world.Date.Format("2006-01-02")
				}
				rows = append(rows, []string{world.Name, date, worlds.DisplayTitle(world.Name)})
			}
			fmt.Fprintln(out, renderTable([]string{"Name", "Date", "Title"}, rows, nil))
			return nil
		},
	}
}
