package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"midrender/internal/scene"
)

func newTakesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "takes [manifest]",
		Short: "List the take hierarchy of a project manifest",
		Args:  cobra.MaximumNArgs(1),
		Annotations: map[string]string{
			"skipConfigLoad": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			manifestPath := defaultManifestName
			if len(args) == 1 {
				manifestPath = args[0]
			}
			host, err := scene.LoadManifest(manifestPath)
			if err != nil {
				return err
			}

			variants := host.Variants()
			if len(variants) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No takes defined.")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, v := range variants {
				marker := " "
				if v.Current {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, v.Label)
			}
			return nil
		},
	}
}
