package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"midrender/internal/farm"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show farm connection status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			configDir := ctx.farmConfigDir()
			conn := farm.Resolve(configDir, cfg.Farm.Product, cfg.Farm.Generation)

			rows := [][]string{
				{"Config dir", configDir},
				{"Product", farm.RootName(cfg.Farm.Product, cfg.Farm.Generation)},
				{"Sync root", valueOrDash(conn.SyncRoot)},
				{"Farm root", valueOrDash(conn.FarmRoot)},
				{"Status", conn.Status.String()},
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows))
			if !conn.Status.Connected() {
				fmt.Fprintln(out, conn.Status.Remediation())
			}
			return nil
		},
	}
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
